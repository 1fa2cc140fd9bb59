package model

import "time"

// FreeScheduleEntry день, выбранный студентом с планом без преподавателя.
// Уникальна по (student_id, date) — один слот в день.
type FreeScheduleEntry struct {
	ID         int64             `json:"id"`
	StudentID  int64             `json:"student_id"`
	Date       time.Time         `json:"date"`
	Hour       string            `json:"hour"` // "09:00"
	Status     ReservationStatus `json:"status"`
	AttendedAt *time.Time        `json:"attended_at"`
	CreatedAt  time.Time         `json:"created_at"`

	// Связанные данные (не из таблицы free_schedules)
	Student *Student `json:"student,omitempty"`
}

// DateHour пара (дата, час) для замены недели свободного плана
type DateHour struct {
	Date time.Time
	Hour string
}
