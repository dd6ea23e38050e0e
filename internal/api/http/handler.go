package apiHttp

import (
	"time"

	internalV1 "github.com/vibe-gaming/bmr-reminder/internal/api/http/internal/v1"
	"github.com/vibe-gaming/bmr-reminder/internal/config"
	"github.com/vibe-gaming/bmr-reminder/internal/service"
	"github.com/vibe-gaming/bmr-reminder/pkg/limiter"
	"github.com/vibe-gaming/bmr-reminder/pkg/logger"
	"github.com/vibe-gaming/bmr-reminder/pkg/validator"

	_ "github.com/vibe-gaming/bmr-reminder/docs"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handler struct {
	services *service.Services
	config   *config.Config
}

func NewHandlers(services *service.Services, cfg *config.Config) *Handler {
	return &Handler{
		services: services,
		config:   cfg,
	}
}

func (h *Handler) Init() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	validator.RegisterGinValidator()

	router.Use(
		requestIDMiddleware,
		ginzap.Ginzap(logger.Logger(), time.RFC3339, true),
		limiter.Limit(h.config.Limiter.RPS, h.config.Limiter.Burst, h.config.Limiter.TTL),
		corsMiddleware(h.config.HttpServer.AllowedOrigins),
	)
	router.Use(ginzap.RecoveryWithZap(logger.Logger(), true))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if h.config.HttpServer.SwaggerEnabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.NewHandler(), ginSwagger.InstanceName("internal")))
	}

	h.initAPI(router)

	return router
}

func (h *Handler) initAPI(router *gin.Engine) {
	internalHandlersV1 := internalV1.NewHandler(h.services)
	api := router.Group("/api")
	internalHandlersV1.Init(api)
}
