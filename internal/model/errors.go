package model

import "errors"

// Ошибки бизнес-правил. Сервисы возвращают их напрямую или обёрнутыми
// через fmt.Errorf("...: %w", err); транспортный слой сопоставляет их
// со статусами ответов через errors.Is.
var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrStudentInactive     = errors.New("student is not active")
	ErrTeacherNotFound     = errors.New("teacher not found")
	ErrPlanNotFound        = errors.New("plan not found")
	ErrSlotNotFound        = errors.New("schedule slot not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrFreeEntryNotFound   = errors.New("free schedule entry not found")

	ErrPlanMismatch         = errors.New("operation does not match student plan")
	ErrQuotaExceeded        = errors.New("weekly plan limit reached")
	ErrCapacityExceeded     = errors.New("slot is full or not available")
	ErrDuplicateReservation = errors.New("reservation already exists for this day")

	ErrInvalidToken     = errors.New("attendance token is not valid")
	ErrTokenAlreadyUsed = errors.New("attendance token already used")
	ErrTokenExpired     = errors.New("attendance token expired")

	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("operation is not allowed for this role")
)
