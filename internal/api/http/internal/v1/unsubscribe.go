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

func (h *Handler) initUnsubscribeRoutes(api *gin.RouterGroup) {
	unsubscribe := api.Group("/unsubscribe")

	unsubscribe.POST("", h.requestUnsubscribe)
	unsubscribe.DELETE("/:id/:code", h.unsubscribe)
}

type unsubscribeInput struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// @Summary Request unsubscribe
// @Tags Unsubscribe
// @Description Emails an unsubscribe link to a confirmed subscriber
// @ModuleID requestUnsubscribe
// @Accept  json
// @Produce  json
// @Param input body unsubscribeInput true "email"
// @Success 200 {object} messageResponse
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} messageResponse
// @Router /unsubscribe [post]
func (h *Handler) requestUnsubscribe(c *gin.Context) {
	var input unsubscribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	requested, err := h.services.Subscribers.RequestUnsubscribe(c.Request.Context(), input.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			errorResponse(c, InvalidRequestCode)
		case errors.Is(err, service.ErrUnsubscribeAlreadyRequested):
			errorResponse(c, UnsubscribeAlreadyRequestedCode)
		default:
			logger.Error("request unsubscribe failed", zap.Error(err))
			internalErrorResponse(c, "There was a problem requesting to unsubscribe.")
		}
		return
	}
	if !requested {
		errorResponse(c, SubscriberNotFoundCode)
		return
	}

	messageResponseWith(c, http.StatusOK, "Request received to unsubscribe "+input.Email)
}

// @Summary Unsubscribe
// @Tags Unsubscribe
// @Description Deletes the subscriber with its measurements, codes and reminder
// @ModuleID unsubscribe
// @Produce  json
// @Param id path int true "subscriber id"
// @Param code path int true "unsubscribe code"
// @Success 200 {object} messageResponse
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} messageResponse
// @Router /unsubscribe/{id}/{code} [delete]
func (h *Handler) unsubscribe(c *gin.Context) {
	params, ok := h.verifiedParams(c, domain.PurposeUnsubscribe)
	if !ok {
		return
	}

	deleted, err := h.services.Subscribers.Unsubscribe(c.Request.Context(), params.ID)
	if err != nil || !deleted {
		logger.Error("unsubscribe failed", zap.Error(err), zap.Int64("sub_id", params.ID))
		internalErrorResponse(c, "There was a problem during the unsubscription process.")
		return
	}

	messageResponseWith(c, http.StatusOK, "You've been successfully unsubscribed.")
}
