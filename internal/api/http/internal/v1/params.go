package v1

import (
	"errors"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/service"
	"github.com/vibe-gaming/bmr-reminder/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// codeParams are the subscriber id and one-time code carried by every
// emailed link.
type codeParams struct {
	ID   int64 `uri:"id" binding:"required,gt=0"`
	Code int64 `uri:"code" binding:"required,onetimecode"`
}

// verifiedParams binds the link params and checks the code is live and
// belongs to the subscriber. It writes the error response itself and
// returns false when the request must stop.
func (h *Handler) verifiedParams(c *gin.Context, purpose domain.CodePurpose) (codeParams, bool) {
	var params codeParams
	if err := c.ShouldBindUri(&params); err != nil {
		errorResponse(c, InvalidLinkCode)
		return params, false
	}

	if err := h.services.Codes.Verify(c.Request.Context(), purpose, params.Code, params.ID); err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			errorResponse(c, InvalidLinkCode)
			return params, false
		}
		logger.Error("verify code failed",
			zap.Error(err),
			zap.String("purpose", string(purpose)),
			zap.Int64("sub_id", params.ID),
		)
		internalErrorResponse(c, "There was a problem checking your link.")
		return params, false
	}

	return params, true
}
