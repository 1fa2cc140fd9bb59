package service

import (
	"errors"
	"testing"

	"github.com/classdesk/scheduler/internal/model"
)

func TestCheckWeeklyQuota(t *testing.T) {
	cases := []struct {
		name                    string
		limit, existing, adding int
		wantErr                 bool
	}{
		{"under limit", 3, 1, 1, false},
		{"exactly at limit", 3, 1, 2, false},
		{"over limit", 3, 2, 2, true},
		{"zero limit", 0, 0, 1, true},
		{"nothing added", 2, 2, 0, false},
	}

	for _, tc := range cases {
		err := CheckWeeklyQuota(tc.limit, tc.existing, tc.adding)
		if tc.wantErr && !errors.Is(err, model.ErrQuotaExceeded) {
			t.Errorf("%s: expected ErrQuotaExceeded, got %v", tc.name, err)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestValidatePlanMode(t *testing.T) {
	teacherPlan := &model.Plan{RequiresTeacher: true}
	freePlan := &model.Plan{RequiresTeacher: false}

	if err := ValidatePlanMode(teacherPlan, true); err != nil {
		t.Errorf("teacher plan with teacher mode: unexpected %v", err)
	}
	if err := ValidatePlanMode(freePlan, false); err != nil {
		t.Errorf("free plan with free mode: unexpected %v", err)
	}
	if err := ValidatePlanMode(teacherPlan, false); !errors.Is(err, model.ErrPlanMismatch) {
		t.Errorf("teacher plan with free mode: expected ErrPlanMismatch, got %v", err)
	}
	if err := ValidatePlanMode(freePlan, true); !errors.Is(err, model.ErrPlanMismatch) {
		t.Errorf("free plan with teacher mode: expected ErrPlanMismatch, got %v", err)
	}
	if err := ValidatePlanMode(nil, true); !errors.Is(err, model.ErrPlanNotFound) {
		t.Errorf("nil plan: expected ErrPlanNotFound, got %v", err)
	}
}
