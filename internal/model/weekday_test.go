package model

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseWeekDay(t *testing.T) {
	d, err := ParseWeekDay("WEDNESDAY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != WeekDayWednesday {
		t.Errorf("expected WEDNESDAY, got %s", d)
	}

	if _, err := ParseWeekDay("SUNDAY"); err == nil {
		t.Error("SUNDAY must not parse")
	}
	if _, err := ParseWeekDay("monday"); err == nil {
		t.Error("lowercase must not parse")
	}
}

func TestWeekDayResolveDate(t *testing.T) {
	// 2026-08-31 понедельник
	weekStart := date(2026, time.August, 31)

	cases := []struct {
		day  WeekDay
		want time.Time
	}{
		{WeekDayMonday, date(2026, time.August, 31)},
		{WeekDayTuesday, date(2026, time.September, 1)},
		{WeekDaySaturday, date(2026, time.September, 5)},
	}

	for _, tc := range cases {
		got := tc.day.ResolveDate(weekStart)
		if !got.Equal(tc.want) {
			t.Errorf("%s: expected %s, got %s", tc.day, tc.want.Format(DateLayout), got.Format(DateLayout))
		}
	}
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		name   string
		anchor time.Time
		want   time.Time
	}{
		{"monday stays", date(2026, time.August, 31), date(2026, time.August, 31)},
		{"midweek", date(2026, time.September, 2), date(2026, time.August, 31)},
		{"saturday", date(2026, time.September, 5), date(2026, time.August, 31)},
		{"sunday belongs to past week", date(2026, time.September, 6), date(2026, time.August, 31)},
	}

	for _, tc := range cases {
		got := WeekStart(tc.anchor)
		if !got.Equal(tc.want) {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want.Format(DateLayout), got.Format(DateLayout))
		}
	}
}

func TestWeekRange(t *testing.T) {
	start, end := WeekRange(date(2026, time.September, 3))
	if !start.Equal(date(2026, time.August, 31)) {
		t.Errorf("expected week start 2026-08-31, got %s", start.Format(DateLayout))
	}
	if !end.Equal(date(2026, time.September, 5)) {
		t.Errorf("expected week end 2026-09-05 (saturday), got %s", end.Format(DateLayout))
	}
}

func TestWeekDayOfDate(t *testing.T) {
	if wd, ok := WeekDayOfDate(date(2026, time.September, 4)); !ok || wd != WeekDayFriday {
		t.Errorf("expected FRIDAY, got %s ok=%v", wd, ok)
	}

	if _, ok := WeekDayOfDate(date(2026, time.September, 6)); ok {
		t.Error("sunday must return ok=false")
	}
}

func TestDateOnlyDropsTime(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	got := DateOnly(time.Date(2026, time.September, 2, 23, 45, 0, 0, moscow))
	want := date(2026, time.September, 2)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}
