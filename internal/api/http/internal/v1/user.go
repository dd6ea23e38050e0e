package v1

import (
	"net/http"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) initUserRoutes(api *gin.RouterGroup) {
	users := api.Group("/user")

	users.PUT("/confirm/:id/:code", h.confirmUser)
}

// @Summary Confirm subscription
// @Tags Subscription
// @Description Confirms the email of a pending subscriber
// @ModuleID confirmUser
// @Produce  json
// @Param id path int true "subscriber id"
// @Param code path int true "confirmation code"
// @Success 200 {object} messageResponse
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} messageResponse
// @Router /user/confirm/{id}/{code} [put]
func (h *Handler) confirmUser(c *gin.Context) {
	params, ok := h.verifiedParams(c, domain.PurposeConfirmation)
	if !ok {
		return
	}

	confirmed, err := h.services.Subscribers.Confirm(c.Request.Context(), params.ID)
	if err != nil || !confirmed {
		logger.Error("confirm subscriber failed", zap.Error(err), zap.Int64("sub_id", params.ID))
		internalErrorResponse(c, "There was an error during the email confirmation process.")
		return
	}

	messageResponseWith(c, http.StatusOK, "You've successfully confirmed your email.")
}
