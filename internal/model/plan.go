package model

// Plan тарифный план студента
type Plan struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	ClassesPerWeek  int    `json:"classes_per_week"`
	RequiresTeacher bool   `json:"requires_teacher"`

	// Допустимые часы занятий (будни и суббота), может быть не задано
	WeekdayStartHour  *string `json:"weekday_start_hour"`
	WeekdayEndHour    *string `json:"weekday_end_hour"`
	SaturdayStartHour *string `json:"saturday_start_hour"`
	SaturdayEndHour   *string `json:"saturday_end_hour"`
}
