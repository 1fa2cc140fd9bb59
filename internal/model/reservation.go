package model

import "time"

// ReservationStatus статус записи на занятие
type ReservationStatus string

const (
	StatusBooked   ReservationStatus = "BOOKED"
	StatusAttended ReservationStatus = "ATTENDED"
	StatusAbsent   ReservationStatus = "ABSENT"
)

// Reservation запись студента в слот на конкретную дату.
// Уникальна по (student_id, slot_id, date).
type Reservation struct {
	ID        int64             `json:"id"`
	StudentID int64             `json:"student_id"`
	SlotID    int64             `json:"slot_id"`
	Date      time.Time         `json:"date"` // календарная дата без времени
	Status    ReservationStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	// Связанные данные (не из таблицы reservations)
	Student *Student      `json:"student,omitempty"`
	Slot    *ScheduleSlot `json:"slot,omitempty"`
}

// Reconcilable можно ли трогать запись при пересборке недели:
// прошедшие даты и посещённые занятия история, её не удаляем
func (r *Reservation) Reconcilable(today time.Time) bool {
	return r.Status == StatusBooked && !DateOnly(r.Date).Before(DateOnly(today))
}
