package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beeegaf/pushup-tracker/internal/telemetry/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicRecovery(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("ah crap")
	})

	handler := PanicRecovery(metrics.NewTestManager())(panicky)

	req, err := http.NewRequest("GET", "/pushups", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rr, req)
	})
}
