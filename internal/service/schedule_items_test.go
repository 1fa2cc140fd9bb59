package service

import (
	"testing"
	"time"

	"github.com/classdesk/scheduler/internal/model"
)

func strPtr(s string) *string { return &s }

func TestBuildFreeItemsForDate(t *testing.T) {
	student := &model.Student{
		ID:        7,
		FirstName: "Анна",
		LastName:  "Иванова",
		WeekDays:  []model.WeekDay{model.WeekDayMonday, model.WeekDayFriday},
		FixedHour: strPtr("10:00"),
	}

	monday := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	items := buildFreeItemsForDate(student, monday)
	if len(items) != 1 {
		t.Fatalf("expected one item for monday, got %d", len(items))
	}
	if items[0].Kind != model.ItemFree {
		t.Errorf("expected FREE item, got %s", items[0].Kind)
	}
	if items[0].Hour != "10:00" {
		t.Errorf("expected hour 10:00, got %s", items[0].Hour)
	}
	if items[0].StudentID != 7 {
		t.Errorf("expected student 7, got %d", items[0].StudentID)
	}

	// Вторник не в шаблоне
	if items := buildFreeItemsForDate(student, monday.AddDate(0, 0, 1)); items != nil {
		t.Error("tuesday is not in the pattern, expected nil")
	}

	// Воскресенье никогда не проецируется
	if items := buildFreeItemsForDate(student, monday.AddDate(0, 0, 6)); items != nil {
		t.Error("sunday must never project")
	}
}

func TestBuildFreeItemsForDateWithoutPattern(t *testing.T) {
	monday := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	noDays := &model.Student{ID: 1, FixedHour: strPtr("10:00")}
	if items := buildFreeItemsForDate(noDays, monday); items != nil {
		t.Error("student without week days must project nothing")
	}

	noHour := &model.Student{ID: 2, WeekDays: []model.WeekDay{model.WeekDayMonday}}
	if items := buildFreeItemsForDate(noHour, monday); items != nil {
		t.Error("student without fixed hour must project nothing")
	}
}

func TestReservationToItem(t *testing.T) {
	res := &model.Reservation{
		ID:        11,
		StudentID: 7,
		Status:    model.StatusAttended,
		Date:      time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC),
		Student:   &model.Student{ID: 7, FirstName: "Анна", LastName: "Иванова"},
		Slot: &model.ScheduleSlot{
			ID:   3,
			Hour: "09:00",
			Teacher: &model.Teacher{
				ID:        5,
				FirstName: "Пётр",
				LastName:  "Сидоров",
			},
		},
	}

	item := reservationToItem(res)

	if item.Kind != model.ItemWithTeacher {
		t.Errorf("expected WITH_TEACHER, got %s", item.Kind)
	}
	if item.Hour != "09:00" {
		t.Errorf("expected hour from slot, got %s", item.Hour)
	}
	if item.Status == nil || *item.Status != model.StatusAttended {
		t.Error("expected status ATTENDED to be carried over")
	}
	if item.TeacherID == nil || *item.TeacherID != 5 {
		t.Error("expected teacher id 5")
	}
	if item.StudentName != "Анна Иванова" {
		t.Errorf("unexpected student name %q", item.StudentName)
	}
}

func TestSortItemsByHour(t *testing.T) {
	items := []model.ScheduleItem{
		{Hour: "15:00", StudentID: 1},
		{Hour: "09:00", StudentID: 2},
		{Hour: "15:00", StudentID: 3},
		{Hour: "06:00", StudentID: 4},
	}

	sortItemsByHour(items)

	wantOrder := []int64{4, 2, 1, 3}
	for i, want := range wantOrder {
		if items[i].StudentID != want {
			t.Fatalf("position %d: expected student %d, got %d", i, want, items[i].StudentID)
		}
	}
}
