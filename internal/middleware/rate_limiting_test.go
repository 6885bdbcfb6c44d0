package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beeegaf/pushup-tracker/internal/middleware"
	"github.com/beeegaf/pushup-tracker/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestRateLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	limiter := NewMockRequestRateLimiter(ctrl)

	handlerCalls := 0
	handler := middleware.RateLimit(limiter, "group-join", 10, metrics.NewTestManager())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalls++
		}),
	)

	limiter.EXPECT().
		Allow(gomock.Any(), "group-join", redis_rate.PerMinute(10)).
		Return(&redis_rate.Result{Allowed: 1}, nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/group/join", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, handlerCalls)

	limiter.EXPECT().
		Allow(gomock.Any(), "group-join", redis_rate.PerMinute(10)).
		Return(&redis_rate.Result{Allowed: 0, RetryAfter: 30 * time.Second}, nil)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/group/join", nil))
	assert.Equal(t, http.StatusTooEarly, rr.Code)
	assert.Equal(t, 1, handlerCalls, "request must not reach the handler")

	limiter.EXPECT().
		Allow(gomock.Any(), "group-join", redis_rate.PerMinute(10)).
		Return(nil, errors.New("redis down"))

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/group/join", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, 1, handlerCalls)
}
