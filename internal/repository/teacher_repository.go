package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classdesk/scheduler/internal/model"
	"github.com/classdesk/scheduler/internal/repository/base"
)

type TeacherRepository struct {
	db base.DB
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{db: pool}
}

// WithTx возвращает копию репозитория, работающую в транзакции
func (r *TeacherRepository) WithTx(tx pgx.Tx) *TeacherRepository {
	return &TeacherRepository{db: tx}
}

// Create создаёт преподавателя
func (r *TeacherRepository) Create(ctx context.Context, t *model.Teacher) error {
	query := `
		INSERT INTO teachers (user_id, first_name, last_name, email, turn, active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		t.UserID,
		t.FirstName,
		t.LastName,
		t.Email,
		t.Turn,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}

	t.Active = true
	return nil
}

// GetByID получает преподавателя по ID
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	query := `
		SELECT id, user_id, first_name, last_name, email, turn, active, created_at
		FROM teachers
		WHERE id = $1
	`

	var t model.Teacher
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.UserID,
		&t.FirstName,
		&t.LastName,
		&t.Email,
		&t.Turn,
		&t.Active,
		&t.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}

	return &t, nil
}

// GetByUserID получает преподавателя по идентификатору пользователя
func (r *TeacherRepository) GetByUserID(ctx context.Context, userID int64) (*model.Teacher, error) {
	query := `
		SELECT id, user_id, first_name, last_name, email, turn, active, created_at
		FROM teachers
		WHERE user_id = $1
	`

	var t model.Teacher
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&t.ID,
		&t.UserID,
		&t.FirstName,
		&t.LastName,
		&t.Email,
		&t.Turn,
		&t.Active,
		&t.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by user id: %w", err)
	}

	return &t, nil
}
