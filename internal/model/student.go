package model

import "time"

type Student struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	PlanID    int64       `json:"plan_id"`
	TeacherID *int64      `json:"teacher_id"` // nil для планов без преподавателя
	Turn      TeacherTurn `json:"turn"`
	WeekDays  []WeekDay   `json:"week_days"`  // выбранные дни недели
	FixedHour *string     `json:"fixed_hour"` // фиксированный час занятий, "HH:MM"
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"created_at"`

	// Связанные данные (не из таблицы students)
	Plan    *Plan    `json:"plan,omitempty"`
	Teacher *Teacher `json:"teacher,omitempty"`
}

// FullName имя для отображения в расписании
func (s *Student) FullName() string {
	name := s.FirstName
	if s.LastName != "" {
		if name != "" {
			name += " "
		}
		name += s.LastName
	}
	if name == "" {
		return s.Email
	}
	return name
}

// HasWeekDay проверяет входит ли день в недельный шаблон студента
func (s *Student) HasWeekDay(d WeekDay) bool {
	for _, wd := range s.WeekDays {
		if wd == d {
			return true
		}
	}
	return false
}
