package model

import (
	"fmt"
	"time"
)

// DateLayout формат календарной даты (без времени)
const DateLayout = "2006-01-02"

// WeekDay день недели, на который студент может записаться.
// Воскресенье в расписании не участвует.
type WeekDay string

const (
	WeekDayMonday    WeekDay = "MONDAY"
	WeekDayTuesday   WeekDay = "TUESDAY"
	WeekDayWednesday WeekDay = "WEDNESDAY"
	WeekDayThursday  WeekDay = "THURSDAY"
	WeekDayFriday    WeekDay = "FRIDAY"
	WeekDaySaturday  WeekDay = "SATURDAY"
)

var weekDayOffsets = map[WeekDay]int{
	WeekDayMonday:    0,
	WeekDayTuesday:   1,
	WeekDayWednesday: 2,
	WeekDayThursday:  3,
	WeekDayFriday:    4,
	WeekDaySaturday:  5,
}

// ParseWeekDay разбирает строковое представление дня недели
func ParseWeekDay(s string) (WeekDay, error) {
	d := WeekDay(s)
	if _, ok := weekDayOffsets[d]; !ok {
		return "", fmt.Errorf("unknown week day: %q", s)
	}
	return d, nil
}

// Offset смещение в днях от понедельника (0 для понедельника, 5 для субботы)
func (d WeekDay) Offset() int {
	return weekDayOffsets[d]
}

// ResolveDate возвращает календарную дату этого дня внутри недели weekStart
func (d WeekDay) ResolveDate(weekStart time.Time) time.Time {
	return DateOnly(weekStart).AddDate(0, 0, d.Offset())
}

// DateOnly отбрасывает время, оставляя календарную дату в UTC
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart нормализует дату к понедельнику её недели
func WeekStart(t time.Time) time.Time {
	date := DateOnly(t)
	// time.Weekday: воскресенье = 0, понедельник = 1
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

// WeekRange возвращает границы рабочей недели [понедельник, суббота],
// содержащей дату anchor
func WeekRange(anchor time.Time) (time.Time, time.Time) {
	start := WeekStart(anchor)
	return start, start.AddDate(0, 0, 5)
}

// WeekDayOfDate возвращает день недели для даты.
// Для воскресенья возвращает ok=false.
func WeekDayOfDate(t time.Time) (WeekDay, bool) {
	switch t.Weekday() {
	case time.Monday:
		return WeekDayMonday, true
	case time.Tuesday:
		return WeekDayTuesday, true
	case time.Wednesday:
		return WeekDayWednesday, true
	case time.Thursday:
		return WeekDayThursday, true
	case time.Friday:
		return WeekDayFriday, true
	case time.Saturday:
		return WeekDaySaturday, true
	}
	return "", false
}
