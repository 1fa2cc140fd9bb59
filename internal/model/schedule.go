package model

import "time"

// ViewerRole роль пользователя, запрашивающего расписание
type ViewerRole string

const (
	RoleStudent ViewerRole = "STUDENT"
	RoleTeacher ViewerRole = "TEACHER"
	RoleAdmin   ViewerRole = "ADMIN"
)

// Viewer контекст запроса: кто смотрит расписание.
// Передаётся явно в каждый вызов, никакого глобального состояния.
type Viewer struct {
	UserID int64
	Role   ViewerRole
}

// ScheduleItemKind тип элемента расписания
type ScheduleItemKind string

const (
	ItemWithTeacher ScheduleItemKind = "WITH_TEACHER"
	ItemFree        ScheduleItemKind = "FREE"
)

// ScheduleItem один элемент дневного расписания
type ScheduleItem struct {
	Date time.Time        `json:"date"`
	Kind ScheduleItemKind `json:"kind"`
	Hour string           `json:"hour"`

	StudentID   int64  `json:"student_id"`
	StudentName string `json:"student_name"`

	TeacherID   *int64  `json:"teacher_id"`
	TeacherName *string `json:"teacher_name"`

	ReservationID *int64             `json:"reservation_id"`
	FreeEntryID   *int64             `json:"free_entry_id"`
	Status        *ReservationStatus `json:"status"`
}

// DaySchedule расписание одного дня
type DaySchedule struct {
	Date  time.Time      `json:"date"`
	Items []ScheduleItem `json:"items"`
}

// WeekPlanSummary результат пересборки недели
type WeekPlanSummary struct {
	Kept    int            `json:"kept"`
	Deleted int            `json:"deleted"`
	Created int            `json:"created"`
	Rows    []*Reservation `json:"rows"`
}
