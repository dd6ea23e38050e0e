package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type messageResponse struct {
	Message string `json:"message"`
}

func messageResponseWith(c *gin.Context, status int, message string) {
	c.JSON(status, messageResponse{Message: message})
}

func errorResponse(c *gin.Context, code ErrorCode) {
	c.AbortWithStatusJSON(http.StatusBadRequest, getErrorStruct(code))
}

// internalErrorResponse hides the cause; it is logged by the caller.
func internalErrorResponse(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, messageResponse{Message: message})
}

func validationErrorResponse(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		errorResponse(c, InvalidRequestCode)
		return
	}

	out := make([]ValidationError, len(verr))
	for i, ferr := range verr {
		out[i] = ValidationError{ferr.Field(), msgForTag(ferr.Tag(), ferr.Param())}
	}
	response := ValidationErrorStruct{
		ErrorCode:    6000,
		ErrorMessage: "Validation error",
	}
	response.Errors = out
	c.AbortWithStatusJSON(http.StatusBadRequest, response)
}

func msgForTag(tag string, value string) string {
	switch tag {
	case "required", "required_if":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "oneof":
		return fmt.Sprintf("Must be one of: %v", value)
	case "gt":
		return fmt.Sprintf("Must be greater than %v", value)
	case "gte":
		return fmt.Sprintf("Must be at least %v", value)
	case "lt":
		return fmt.Sprintf("Must be less than %v", value)
	case "max":
		return fmt.Sprintf("Maximum length is %v", value)
	case "onetimecode":
		return "Must be an 8-digit code"
	}
	return tag
}
