package service

import (
	"time"

	"github.com/classdesk/scheduler/internal/model"
)

// weekPatch минимальный патч недели: что оставить, что удалить,
// на какие даты создать новые записи
type weekPatch struct {
	kept     []*model.Reservation
	toDelete []*model.Reservation
	toCreate []time.Time
}

// computeWeekPatch строит симметрическую разность между существующими
// записями и желаемым набором дат. Записи вне желаемого набора
// помечаются на удаление только если их ещё можно трогать: прошедшие
// даты и посещённые занятия остаются как история.
func computeWeekPatch(existing []*model.Reservation, desired []time.Time, today time.Time) weekPatch {
	desiredSet := make(map[string]bool, len(desired))
	for _, d := range desired {
		desiredSet[model.DateOnly(d).Format(model.DateLayout)] = true
	}

	var patch weekPatch
	existingSet := make(map[string]bool, len(existing))

	for _, res := range existing {
		key := model.DateOnly(res.Date).Format(model.DateLayout)
		existingSet[key] = true

		if desiredSet[key] {
			patch.kept = append(patch.kept, res)
			continue
		}

		if res.Reconcilable(today) {
			patch.toDelete = append(patch.toDelete, res)
		} else {
			// История: не желаема, но и не удаляется
			patch.kept = append(patch.kept, res)
		}
	}

	for _, d := range desired {
		date := model.DateOnly(d)
		if !existingSet[date.Format(model.DateLayout)] {
			patch.toCreate = append(patch.toCreate, date)
		}
	}

	return patch
}
