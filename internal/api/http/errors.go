package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/shestoi/GoBigTech/gamestore/internal/service"
	platformobservability "github.com/shestoi/GoBigTech/gamestore/platform/observability"
)

// kindInvalidRequest - ошибка разбора запроса до вызова service слоя
const kindInvalidRequest = "invalid_request"

// ErrorResponse - тело ответа с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor определяет HTTP статус по ошибке service слоя
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInternal):
		return http.StatusInternalServerError
	case errors.Is(err, service.ErrProviderNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrEmptyInventory):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrRemovalNotConfirmed):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInsufficientProviderStock),
		errors.Is(err, service.ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, service.ErrOperationDisabled):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError пишет ошибку service слоя; детали внутренних ошибок наружу не отдаются
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		platformobservability.LoggerFromContext(r.Context(), h.logger).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		message = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Error: service.Kind(err), Message: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: kindInvalidRequest, Message: message})
}
