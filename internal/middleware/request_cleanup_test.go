package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrainAndCloseRequest(t *testing.T) {
	handler := DrainAndCloseRequest()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// handler ignores the body on purpose
		w.WriteHeader(http.StatusOK)
	}))

	body := strings.NewReader("leftover payload")
	req := httptest.NewRequest(http.MethodPost, "/pushups", body)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Zero(t, body.Len(), "unread body gets drained")
}
