package controllers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"vehicledash/internal/models"
	"vehicledash/internal/services"
)

type stubHost struct {
	err error
}

func (s stubHost) Sample() (*models.HostStatus, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.HostStatus{PID: 42, Goroutines: 7}, nil
}

func TestSystemEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)

	running := true
	sc := NewSystemController(services.NewHostStatsCache(stubHost{}, time.Second), func() bool { return running })
	r := gin.New()
	r.GET("/api/system", sc.GetSystem)
	r.GET("/healthz", sc.Healthz)

	if w := doRequest(r, http.MethodGet, "/api/system", nil); w.Code != http.StatusOK {
		t.Fatalf("system: expected 200, got %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/healthz", nil); w.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", w.Code)
	}

	running = false
	if w := doRequest(r, http.MethodGet, "/healthz", nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("healthz: expected 503 when stopped, got %d", w.Code)
	}
}

func TestSystemSamplerError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sc := NewSystemController(services.NewHostStatsCache(stubHost{err: errors.New("denied")}, time.Second), nil)
	r := gin.New()
	r.GET("/api/system", sc.GetSystem)

	if w := doRequest(r, http.MethodGet, "/api/system", nil); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
