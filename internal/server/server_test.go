package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type pingRoute struct{}

func (pingRoute) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
}

func get(s *Server, target string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
	return resp
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		store    HealthChecker
		wantCode int
	}{
		{name: "no store", store: nil, wantCode: http.StatusOK},
		{name: "healthy", store: pingFunc(func(context.Context) error { return nil }), wantCode: http.StatusOK},
		{name: "unreachable", store: pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }), wantCode: http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(":0", tc.store, "release")
			resp := get(s, "/health")
			require.Equal(t, tc.wantCode, resp.Code)
		})
	}
}

func TestHealth_PingIsBounded(t *testing.T) {
	var hadDeadline bool
	s := New(":0", pingFunc(func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	}), "release")

	get(s, "/health")

	require.True(t, hadDeadline)
}

func TestRegister(t *testing.T) {
	s := New(":0", nil, "release")
	s.Register(pingRoute{})

	resp := get(s, "/v1/ping")

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "pong", resp.Body.String())
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := New("127.0.0.1:0", nil, "release")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	require.NoError(t, <-done)
}
