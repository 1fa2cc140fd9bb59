package service

import (
	"sort"
	"time"

	"github.com/classdesk/scheduler/internal/model"
)

// reservationToItem проецирует запись с деталями в элемент расписания
func reservationToItem(res *model.Reservation) model.ScheduleItem {
	item := model.ScheduleItem{
		Date:          model.DateOnly(res.Date),
		Kind:          model.ItemWithTeacher,
		StudentID:     res.StudentID,
		ReservationID: &res.ID,
	}

	status := res.Status
	item.Status = &status

	if res.Student != nil {
		item.StudentName = res.Student.FullName()
	}
	if res.Slot != nil {
		item.Hour = res.Slot.Hour
		if res.Slot.Teacher != nil {
			teacherID := res.Slot.Teacher.ID
			teacherName := res.Slot.Teacher.FullName()
			item.TeacherID = &teacherID
			item.TeacherName = &teacherName
		}
	}

	return item
}

// freeEntryToItem проецирует день свободного плана в элемент расписания
func freeEntryToItem(entry *model.FreeScheduleEntry) model.ScheduleItem {
	item := model.ScheduleItem{
		Date:        model.DateOnly(entry.Date),
		Kind:        model.ItemFree,
		Hour:        entry.Hour,
		StudentID:   entry.StudentID,
		FreeEntryID: &entry.ID,
	}

	if entry.Student != nil {
		item.StudentName = entry.Student.FullName()
	}

	return item
}

// buildFreeItemsForDate синтезирует элемент свободного плана из
// недельного шаблона студента. Это проекция, а не сохранённая строка:
// соответствие дня недели дате пересчитывается при каждом запросе.
func buildFreeItemsForDate(student *model.Student, date time.Time) []model.ScheduleItem {
	if len(student.WeekDays) == 0 || student.FixedHour == nil {
		return nil
	}

	wd, ok := model.WeekDayOfDate(date)
	if !ok || !student.HasWeekDay(wd) {
		return nil
	}

	return []model.ScheduleItem{{
		Date:        model.DateOnly(date),
		Kind:        model.ItemFree,
		Hour:        *student.FixedHour,
		StudentID:   student.ID,
		StudentName: student.FullName(),
	}}
}

// sortItemsByHour сортирует элементы по часу; при равных часах
// сохраняется порядок появления
func sortItemsByHour(items []model.ScheduleItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Hour < items[j].Hour
	})
}
