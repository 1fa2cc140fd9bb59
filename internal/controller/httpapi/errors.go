package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/classdesk/scheduler/internal/model"
)

// statusForError сопоставляет ошибку бизнес-правила со статусом ответа.
// Неизвестные ошибки считаются серверными.
func statusForError(err error) int {
	switch {
	case errors.Is(err, model.ErrStudentNotFound),
		errors.Is(err, model.ErrTeacherNotFound),
		errors.Is(err, model.ErrPlanNotFound),
		errors.Is(err, model.ErrSlotNotFound),
		errors.Is(err, model.ErrReservationNotFound),
		errors.Is(err, model.ErrFreeEntryNotFound):
		return http.StatusNotFound

	case errors.Is(err, model.ErrCapacityExceeded),
		errors.Is(err, model.ErrDuplicateReservation):
		return http.StatusConflict

	case errors.Is(err, model.ErrStudentInactive),
		errors.Is(err, model.ErrPlanMismatch),
		errors.Is(err, model.ErrQuotaExceeded),
		errors.Is(err, model.ErrInvalidToken),
		errors.Is(err, model.ErrTokenAlreadyUsed),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest

	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	}

	return http.StatusInternalServerError
}

// newHTTPErrorHandler переводит ошибки сервисов и валидатора в ответы
// с конкретной причиной: клиент должен отличать "превышен лимит"
// от "слот не найден"
func newHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var code int
		var message interface{}

		var httpErr *echo.HTTPError
		var fieldErrs validator.ValidationErrors

		switch {
		case errors.As(err, &httpErr):
			code = httpErr.Code
			message = httpErr.Message
		case errors.As(err, &fieldErrs):
			fields := make(map[string]string, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields[fe.Field()] = fe.Tag()
			}
			code = http.StatusBadRequest
			message = fields
		default:
			code = statusForError(err)
			message = err.Error()
			if code == http.StatusInternalServerError {
				message = http.StatusText(http.StatusInternalServerError)
				logger.Error("Request failed",
					zap.String("method", ctx.Request().Method),
					zap.String("path", ctx.Request().URL.Path),
					zap.Error(err),
				)
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if writeErr := ctx.JSON(code, message); writeErr != nil {
			logger.Error("Write error response", zap.Error(writeErr))
		}
	}
}
