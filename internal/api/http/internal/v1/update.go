package v1

import (
	"errors"
	"net/http"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) initUpdateRoutes(api *gin.RouterGroup) {
	update := api.Group("/update")

	update.GET("/review/:id/:code", h.reviewPendingUpdate)
	update.PUT("/confirm/:id/:code", h.confirmPendingUpdate)
	update.DELETE("/reject/:id/:code", h.rejectPendingUpdate)
	update.GET("/:id/:code", h.getMeasurements)
	update.PUT("/:id/:code", h.updateMeasurements)
}

// @Summary Get saved measurements
// @Tags Update
// @Description Returns the saved measurements in the units of their system
// @ModuleID getMeasurements
// @Produce  json
// @Param id path int true "subscriber id"
// @Param code path int true "update code"
// @Success 200 {object} measurementsResponse
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} messageResponse
// @Router /update/{id}/{code} [get]
func (h *Handler) getMeasurements(c *gin.Context) {
	params, ok := h.verifiedParams(c, domain.PurposeUpdate)
	if !ok {
		return
	}

	measurements, err := h.services.Subscribers.GetMeasurements(c.Request.Context(), params.ID)
	if err != nil {
		logger.Error("get measurements failed", zap.Error(err), zap.Int64("sub_id", params.ID))
		internalErrorResponse(c, "There was a problem while attempting to get saved measurements.")
		return
	}

	response := newMeasurementsResponse(measurements.MeasurementValues)
	response.DateLastUpdated = &measurements.DateLastUpdated

	c.JSON(http.StatusOK, response)
}

// @Summary Update measurements
// @Tags Update
// @Description Writes the changed measurements and voids the update code
// @ModuleID updateMeasurements
// @Accept  json
// @Produce  json
// @Param id path int true "subscriber id"
// @Param code path int true "update code"
// @Param input body measurementsInput true "measurements"
// @Success 200 {object} messageResponse
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} messageResponse
// @Router /update/{id}/{code} [put]
func (h *Handler) updateMeasurements(c *gin.Context) {
	params, ok := h.verifiedParams(c, domain.PurposeUpdate)
	if !ok {
		return
	}

	var input measurementsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	values, err := input.toValues()
	if err != nil {
		errorResponse(c, InvalidRequestCode)
		return
	}

	_, err = h.services.Subscribers.UpdateMeasurements(c.Request.Context(), params.ID, patchFromValues(values))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			errorResponse(c, InvalidRequestCode)
			return
		}
		logger.Error("update measurements failed", zap.Error(err), zap.Int64("sub_id", params.ID))
		internalErrorResponse(c, "There was an error updating the saved measurements. Please try again.")
		return
	}

	messageResponseWith(c, http.StatusOK, "Measurements were successfully updated.")
}

// @Summary Review pending update
// @Tags Update
// @Description Returns the staged measurements waiting for approval
// @ModuleID reviewPendingUpdate
// @Produce  json
// @Param id path int true "subscriber id"
// @Param code path int true "pending update code"
// @Success 200 {object} measurementsResponse
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} messageResponse
// @Router /update/review/{id}/{code} [get]
func (h *Handler) reviewPendingUpdate(c *gin.Context) {
	params, ok := h.verifiedParams(c, domain.PurposePendingUpdate)
	if !ok {
		return
	}

	pending, err := h.services.Subscribers.GetPendingUpdate(c.Request.Context(), params.ID)
	if err != nil {
		logger.Error("get pending update failed", zap.Error(err), zap.Int64("sub_id", params.ID))
		internalErrorResponse(c, "Internal Server Error")
		return
	}

	c.JSON(http.StatusOK, newMeasurementsResponse(pending.MeasurementValues))
}

// @Summary Confirm pending update
// @Tags Update
// @Description Applies the staged measurements
// @ModuleID confirmPendingUpdate
// @Produce  json
// @Param id path int true "subscriber id"
// @Param code path int true "pending update code"
// @Success 200 {object} messageResponse
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} messageResponse
// @Router /update/confirm/{id}/{code} [put]
func (h *Handler) confirmPendingUpdate(c *gin.Context) {
	params, ok := h.verifiedParams(c, domain.PurposePendingUpdate)
	if !ok {
		return
	}

	confirmed, err := h.services.Subscribers.ConfirmPendingUpdate(c.Request.Context(), params.ID)
	if err != nil || !confirmed {
		logger.Error("confirm pending update failed", zap.Error(err), zap.Int64("sub_id", params.ID))
		internalErrorResponse(c, "There was an error while attempting to update your measurements.")
		return
	}

	messageResponseWith(c, http.StatusOK, "Your measurements were successfully updated.")
}

// @Summary Reject pending update
// @Tags Update
// @Description Discards the staged measurements
// @ModuleID rejectPendingUpdate
// @Produce  json
// @Param id path int true "subscriber id"
// @Param code path int true "pending update code"
// @Success 200 {object} messageResponse
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} messageResponse
// @Router /update/reject/{id}/{code} [delete]
func (h *Handler) rejectPendingUpdate(c *gin.Context) {
	params, ok := h.verifiedParams(c, domain.PurposePendingUpdate)
	if !ok {
		return
	}

	deleted, err := h.services.Subscribers.RejectPendingUpdate(c.Request.Context(), params.Code)
	if err != nil || deleted == 0 {
		logger.Error("reject pending update failed", zap.Error(err), zap.Int64("sub_id", params.ID))
		internalErrorResponse(c, "There was an error while attempting to delete pending measurements.")
		return
	}

	messageResponseWith(c, http.StatusOK, "Pending measurements successfully deleted.")
}
