package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classdesk/scheduler/internal/model"
	"github.com/classdesk/scheduler/internal/repository/base"
)

type PlanRepository struct {
	db base.DB
}

func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{db: pool}
}

// GetByID получает план по ID
func (r *PlanRepository) GetByID(ctx context.Context, id int64) (*model.Plan, error) {
	query := `
		SELECT id, name, classes_per_week, requires_teacher,
		       weekday_start_hour, weekday_end_hour, saturday_start_hour, saturday_end_hour
		FROM plans
		WHERE id = $1
	`

	var p model.Plan
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.ClassesPerWeek,
		&p.RequiresTeacher,
		&p.WeekdayStartHour,
		&p.WeekdayEndHour,
		&p.SaturdayStartHour,
		&p.SaturdayEndHour,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan by id: %w", err)
	}

	return &p, nil
}
