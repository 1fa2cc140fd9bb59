package weekimage

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/classdesk/scheduler/internal/model"
)

func TestRenderProducesPNG(t *testing.T) {
	weekStart := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	status := model.StatusBooked

	days := []*model.DaySchedule{
		{
			Date: weekStart,
			Items: []model.ScheduleItem{
				{Date: weekStart, Kind: model.ItemWithTeacher, Hour: "09:00", StudentID: 1, StudentName: "Анна Иванова", Status: &status},
				{Date: weekStart, Kind: model.ItemFree, Hour: "11:00", StudentID: 2, StudentName: "Пётр Сидоров"},
			},
		},
	}

	data, err := Render(weekStart, days)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != imageWidth || bounds.Dy() != imageHeight {
		t.Errorf("unexpected dimensions %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderEmptyWeek(t *testing.T) {
	weekStart := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	data, err := Render(weekStart, nil)
	if err != nil {
		t.Fatalf("render of empty week failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty PNG")
	}
}

func TestCalculateHourRange(t *testing.T) {
	days := []*model.DaySchedule{
		{Items: []model.ScheduleItem{{Hour: "09:00"}, {Hour: "18:00"}}},
	}

	hours := calculateHourRange(days)
	if hours.start != 8 {
		t.Errorf("expected start 8 (9 minus padding), got %d", hours.start)
	}
	if hours.end != 19 {
		t.Errorf("expected end 19 (18 plus padding), got %d", hours.end)
	}
	if hours.total != 12 {
		t.Errorf("expected 12 rows, got %d", hours.total)
	}
}

func TestCalculateHourRangeDefaults(t *testing.T) {
	hours := calculateHourRange(nil)
	if hours.start != defaultMinHour-hourPaddingTop {
		t.Errorf("unexpected default start %d", hours.start)
	}
	if hours.end != defaultMaxHour+hourPaddingBot && hours.end != 23 {
		t.Errorf("unexpected default end %d", hours.end)
	}
}

func TestParseHour(t *testing.T) {
	if h, ok := parseHour("07:00"); !ok || h != 7 {
		t.Errorf("expected 7, got %d ok=%v", h, ok)
	}
	if _, ok := parseHour("xx:00"); ok {
		t.Error("garbage must not parse")
	}
	if _, ok := parseHour(""); ok {
		t.Error("empty string must not parse")
	}
}
