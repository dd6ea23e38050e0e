package v1

import (
	"errors"
	"net/http"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/service"
	"github.com/vibe-gaming/bmr-reminder/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) initSubscribeRoutes(api *gin.RouterGroup) {
	api.POST("/subscribe", h.subscribe)
}

type subscribeInput struct {
	Email string `json:"email" binding:"required,email,max=255"`
	Freq  string `json:"freq" binding:"required,max=32"`
	measurementsInput
}

// @Summary Subscribe or request an update
// @Tags Subscription
// @Description Creates a subscription, replaces an unconfirmed one or stages an update for a confirmed one
// @ModuleID subscribe
// @Accept  json
// @Produce  json
// @Param input body subscribeInput true "subscriber and measurements"
// @Success 201 {object} messageResponse "subscribed"
// @Success 200 {object} messageResponse "confirmation reissued"
// @Success 202 {object} messageResponse "update staged"
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} messageResponse
// @Router /subscribe [post]
func (h *Handler) subscribe(c *gin.Context) {
	var input subscribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	values, err := input.toValues()
	if err != nil {
		errorResponse(c, InvalidRequestCode)
		return
	}

	result, err := h.services.Subscribers.RequestUpdate(c.Request.Context(), domain.NewSubscriber{
		Email:             input.Email,
		Freq:              input.Freq,
		MeasurementValues: values,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			errorResponse(c, InvalidRequestCode)
		case errors.Is(err, service.ErrUnknownFrequency):
			errorResponse(c, UnknownFrequencyCode)
		default:
			logger.Error("request update failed", zap.Error(err))
			internalErrorResponse(c, "There was a problem processing your subscription.")
		}
		return
	}

	switch result.Outcome {
	case service.UpdateStaged:
		messageResponseWith(c, http.StatusAccepted, "Update request received.")
	case service.UpdateReplaced:
		messageResponseWith(c, http.StatusOK, "New confirmation email will be sent.")
	default:
		messageResponseWith(c, http.StatusCreated, "Subscribed")
	}
}
