package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storerating/internal/pkg/logger"
	"storerating/internal/pkg/middleware"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Incr(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return m.Called(ctx, key, ttl).Error(0)
}

func (m *MockCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *MockCache) Close() error { return m.Called().Error(0) }

const loginKey = "rate-limit:/api/auth/login:192.0.2.1"

func loginRequest() *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	return req
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestRateLimiter_FirstHitStartsWindow(t *testing.T) {
	c := new(MockCache)
	c.On("Incr", mock.Anything, loginKey).Return(int64(1), nil)
	c.On("Expire", mock.Anything, loginKey, 15*time.Minute).Return(nil)

	rec := httptest.NewRecorder()
	middleware.RateLimiter(c, 5, 15*time.Minute, logger.NewNop())(okHandler()).ServeHTTP(rec, loginRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	c.AssertExpectations(t)
}

func TestRateLimiter_OverLimit(t *testing.T) {
	c := new(MockCache)
	c.On("Incr", mock.Anything, loginKey).Return(int64(6), nil)
	c.On("TTL", mock.Anything, loginKey).Return(90*time.Second, nil)

	rec := httptest.NewRecorder()
	middleware.RateLimiter(c, 5, 15*time.Minute, logger.NewNop())(okHandler()).ServeHTTP(rec, loginRequest())

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "90", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
	c.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything, mock.Anything)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	c := new(MockCache)
	c.On("Incr", mock.Anything, loginKey).Return(int64(0), errors.New("connection refused"))

	rec := httptest.NewRecorder()
	middleware.RateLimiter(c, 5, 15*time.Minute, logger.NewNop())(okHandler()).ServeHTTP(rec, loginRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Remaining"))
}
