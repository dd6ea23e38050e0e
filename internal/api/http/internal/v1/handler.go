package v1

import (
	"github.com/vibe-gaming/bmr-reminder/internal/service"

	"github.com/gin-gonic/gin"
)

// @title BMR Reminder API
// @version 1.0
// @description Subscription and reminder api for the BMR/TDEE calculator

// @BasePath /api/v1

type Handler struct {
	services *service.Services
}

func NewHandler(services *service.Services) *Handler {
	return &Handler{
		services: services,
	}
}

func (h *Handler) Init(api *gin.RouterGroup) {
	v1 := api.Group("v1")

	h.initSubscribeRoutes(v1)
	h.initUserRoutes(v1)
	h.initUpdateRoutes(v1)
	h.initUnsubscribeRoutes(v1)
}
