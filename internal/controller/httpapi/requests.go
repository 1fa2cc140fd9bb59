package httpapi

import (
	"fmt"
	"time"

	"github.com/classdesk/scheduler/internal/model"
)

// Тела запросов. Явные структуры с перечисленными полями, валидация
// до входа в сервисы.

type planWeekRequest struct {
	WeekStart string   `json:"weekStart" validate:"required,datetime=2006-01-02"`
	Days      []string `json:"days" validate:"max=6,dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY"`
}

type replaceFreeWeekRequest struct {
	WeekStart string        `json:"weekStart" validate:"required,datetime=2006-01-02"`
	Days      []dateHourDTO `json:"days" validate:"max=6,dive"`
}

type dateHourDTO struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Hour string `json:"hour" validate:"required,datetime=15:04"`
}

type saveFreeDayRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Hour string `json:"hour" validate:"required,datetime=15:04"`
}

type issueTokenRequest struct {
	ReferenceType string `json:"referenceType" validate:"required,oneof=BOOKING FREE"`
	ReferenceID   int64  `json:"referenceId" validate:"required,gt=0"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
}

type redeemTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type bookDayRequest struct {
	StudentID int64  `json:"studentId" validate:"required,gt=0"`
	SlotID    int64  `json:"slotId" validate:"required,gt=0"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

type admitStudentRequest struct {
	UserID    int64    `json:"userId" validate:"required,gt=0"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email" validate:"required,email"`
	PlanID    int64    `json:"planId" validate:"required,gt=0"`
	TeacherID *int64   `json:"teacherId"`
	Turn      string   `json:"turn" validate:"required,oneof=MORNING EVENING"`
	WeekDays  []string `json:"weekDays" validate:"max=6,dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY"`
	FixedHour *string  `json:"fixedHour" validate:"omitempty,datetime=15:04"`
}

type onboardTeacherRequest struct {
	UserID    int64  `json:"userId" validate:"required,gt=0"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"required,email"`
	Turn      string `json:"turn" validate:"required,oneof=MORNING EVENING"`
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", model.ErrValidation, s)
	}
	return t, nil
}

func parseWeekDays(raw []string) ([]model.WeekDay, error) {
	days := make([]model.WeekDay, 0, len(raw))
	for _, r := range raw {
		d, err := model.ParseWeekDay(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrValidation, err)
		}
		days = append(days, d)
	}
	return days, nil
}
