package service

import (
	"github.com/classdesk/scheduler/internal/model"
)

// CheckWeeklyQuota проверяет недельный лимит плана: после добавления
// adding занятий к existing общее число не должно превысить limit.
// Неделя везде считается с понедельника по субботу.
func CheckWeeklyQuota(limit, existing, adding int) error {
	if limit <= 0 {
		return model.ErrQuotaExceeded
	}
	if existing+adding > limit {
		return model.ErrQuotaExceeded
	}
	return nil
}

// ValidatePlanMode проверяет что режим операции соответствует плану:
// недельное планирование со слотами только для планов с преподавателем,
// свободное расписание только для планов без него.
func ValidatePlanMode(plan *model.Plan, withTeacher bool) error {
	if plan == nil {
		return model.ErrPlanNotFound
	}
	if plan.RequiresTeacher != withTeacher {
		return model.ErrPlanMismatch
	}
	return nil
}
