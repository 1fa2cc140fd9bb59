package model

import "time"

// ScheduleSlot слот расписания: пара (преподаватель, час) с фиксированной вместимостью
type ScheduleSlot struct {
	ID              int64       `json:"id"`
	TeacherID       int64       `json:"teacher_id"`
	Turn            TeacherTurn `json:"turn"`
	Hour            string      `json:"hour"` // "18:00"
	MaxCapacity     int         `json:"max_capacity"`
	CurrentCapacity int         `json:"current_capacity"`
	Active          bool        `json:"active"`
	CreatedAt       time.Time   `json:"created_at"`

	// Связанные данные (не из таблицы schedule_slots)
	Teacher *Teacher `json:"teacher,omitempty"`

	// Occupancy фактическая занятость, пересчитанная по активным студентам.
	// Счётчик current_capacity служит только быстрой проверкой при записи.
	Occupancy int `json:"occupancy"`
}

// HasFreeSeat проверяет есть ли свободное место по счётчику
func (s *ScheduleSlot) HasFreeSeat() bool {
	return s.Active && s.CurrentCapacity < s.MaxCapacity
}
