package service

import (
	"testing"
	"time"

	"github.com/classdesk/scheduler/internal/model"
)

func day(offset int) time.Time {
	base := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC) // понедельник
	return base.AddDate(0, 0, offset)
}

func booked(id int64, date time.Time) *model.Reservation {
	return &model.Reservation{ID: id, Status: model.StatusBooked, Date: date}
}

func TestComputeWeekPatchMinimalDiff(t *testing.T) {
	today := day(0)
	// Существующие: Пн, Ср. Желаемые: Ср, Пт.
	existing := []*model.Reservation{
		booked(1, day(0)),
		booked(2, day(2)),
	}
	desired := []time.Time{day(2), day(4)}

	patch := computeWeekPatch(existing, desired, today)

	if len(patch.kept) != 1 || patch.kept[0].ID != 2 {
		t.Fatalf("expected only reservation 2 kept, got %d", len(patch.kept))
	}
	if len(patch.toDelete) != 1 || patch.toDelete[0].ID != 1 {
		t.Fatalf("expected only reservation 1 deleted, got %d", len(patch.toDelete))
	}
	if len(patch.toCreate) != 1 || !patch.toCreate[0].Equal(day(4)) {
		t.Fatalf("expected single create for friday, got %v", patch.toCreate)
	}
}

func TestComputeWeekPatchIdempotent(t *testing.T) {
	today := day(0)
	existing := []*model.Reservation{
		booked(1, day(1)),
		booked(2, day(3)),
	}
	desired := []time.Time{day(1), day(3)}

	patch := computeWeekPatch(existing, desired, today)

	if len(patch.kept) != 2 {
		t.Errorf("expected both reservations kept, got %d", len(patch.kept))
	}
	if len(patch.toDelete) != 0 {
		t.Errorf("expected no deletions, got %d", len(patch.toDelete))
	}
	if len(patch.toCreate) != 0 {
		t.Errorf("expected no creations, got %d", len(patch.toCreate))
	}
}

func TestComputeWeekPatchKeepsHistory(t *testing.T) {
	today := day(3) // четверг: Пн-Ср уже прошли
	existing := []*model.Reservation{
		booked(1, day(0)), // прошла, BOOKED
		{ID: 2, Status: model.StatusAttended, Date: day(1)},
		booked(3, day(4)),
	}
	// Желаемый набор не содержит ни одной из существующих дат
	desired := []time.Time{day(5)}

	patch := computeWeekPatch(existing, desired, today)

	// Прошедшая и посещённая не удаляются, будущая BOOKED удаляется
	if len(patch.toDelete) != 1 || patch.toDelete[0].ID != 3 {
		t.Fatalf("expected only future booked deleted, got %v", patch.toDelete)
	}
	if len(patch.kept) != 2 {
		t.Errorf("expected history kept, got %d", len(patch.kept))
	}
	if len(patch.toCreate) != 1 {
		t.Errorf("expected one creation, got %d", len(patch.toCreate))
	}
}

func TestComputeWeekPatchEmptyDesiredClearsFuture(t *testing.T) {
	today := day(0)
	existing := []*model.Reservation{
		booked(1, day(0)),
		booked(2, day(2)),
	}

	patch := computeWeekPatch(existing, nil, today)

	if len(patch.toDelete) != 2 {
		t.Errorf("expected all future reservations deleted, got %d", len(patch.toDelete))
	}
	if len(patch.toCreate) != 0 {
		t.Errorf("expected no creations, got %d", len(patch.toCreate))
	}
}

func TestComputeWeekPatchIgnoresTimeOfDay(t *testing.T) {
	today := day(0)
	existing := []*model.Reservation{
		booked(1, day(1).Add(9*time.Hour)),
	}
	desired := []time.Time{day(1)}

	patch := computeWeekPatch(existing, desired, today)

	if len(patch.kept) != 1 || len(patch.toCreate) != 0 {
		t.Error("same calendar date must match regardless of time of day")
	}
}
