package apiHttp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/config"
	"github.com/vibe-gaming/bmr-reminder/internal/service"

	"github.com/stretchr/testify/assert"
)

func testConfig(swagger bool) *config.Config {
	cfg := &config.Config{}
	cfg.HttpServer.SwaggerEnabled = swagger
	cfg.HttpServer.AllowedOrigins = []string{"*"}
	cfg.Limiter = config.Limiter{RPS: 100, Burst: 100, TTL: time.Minute}
	return cfg
}

func TestSwaggerRoute(t *testing.T) {
	router := NewHandlers(&service.Services{}, testConfig(true)).Init()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/subscribe"`)
	assert.Contains(t, w.Body.String(), `"/update/confirm/{id}/{code}"`)
	assert.Contains(t, w.Body.String(), `"BMR Reminder API"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSwaggerRouteDisabled(t *testing.T) {
	router := NewHandlers(&service.Services{}, testConfig(false)).Init()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
