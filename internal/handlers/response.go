package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"storefront/internal/apperror"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message,omitempty"`
	Kind      apperror.Kind `json:"kind,omitempty"`
	Remaining *int          `json:"remaining,omitempty"`
	Data      any           `json:"data,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// respondError writes err using its kind. Unclassified errors become a generic 500.
func respondError(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		slog.Error("unclassified error", "path", c.FullPath(), "request_id", c.GetString(requestIDKey), "err", err)
		appErr = apperror.NewStoreUnavailable(err)
	}

	resp := Response{
		Success: false,
		Message: appErr.Message,
		Kind:    appErr.Kind,
	}
	if appErr.Kind == apperror.OutOfStock {
		remaining := appErr.Remaining
		resp.Remaining = &remaining
	}
	c.AbortWithStatusJSON(statusFor(appErr.Kind), resp)
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.Unauthorized:
		return http.StatusUnauthorized
	case apperror.Forbidden:
		return http.StatusForbidden
	case apperror.NotFound, apperror.ProductNotFound, apperror.CartNotFound, apperror.ItemNotFound:
		return http.StatusNotFound
	case apperror.OutOfStock, apperror.Validation:
		return http.StatusBadRequest
	case apperror.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// bindError turns a gin binding failure into a validation error.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return apperror.NewValidation("Vui lòng điền đầy đủ thông tin")
		}
		return apperror.NewValidation(fmt.Sprintf("%s không hợp lệ", fe.Field()))
	}
	return apperror.Wrap(apperror.Validation, "Dữ liệu không hợp lệ", err)
}
