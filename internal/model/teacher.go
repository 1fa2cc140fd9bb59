package model

import "time"

// TeacherTurn смена преподавателя
type TeacherTurn string

const (
	TurnMorning TeacherTurn = "MORNING"
	TurnEvening TeacherTurn = "EVENING"
)

type Teacher struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Turn      TeacherTurn `json:"turn"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"created_at"`
}

// FullName имя для отображения в расписании
func (t *Teacher) FullName() string {
	name := t.FirstName
	if t.LastName != "" {
		if name != "" {
			name += " "
		}
		name += t.LastName
	}
	if name == "" {
		return t.Email
	}
	return name
}
