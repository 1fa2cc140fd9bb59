package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classdesk/scheduler/internal/model"
	"github.com/classdesk/scheduler/internal/repository/base"
)

type AttendanceTokenRepository struct {
	db base.DB
}

func NewAttendanceTokenRepository(pool *pgxpool.Pool) *AttendanceTokenRepository {
	return &AttendanceTokenRepository{db: pool}
}

// WithTx возвращает копию репозитория, работающую в транзакции
func (r *AttendanceTokenRepository) WithTx(tx pgx.Tx) *AttendanceTokenRepository {
	return &AttendanceTokenRepository{db: tx}
}

// Create создаёт новый токен посещения
func (r *AttendanceTokenRepository) Create(ctx context.Context, token *model.AttendanceToken) error {
	query := `
		INSERT INTO attendance_tokens (reference_type, reference_id, date, token, used)
		VALUES ($1, $2, $3, $4, false)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		token.Reference.Kind,
		token.Reference.ID,
		token.Date,
		token.Token,
	).Scan(&token.ID, &token.CreatedAt)

	if err != nil {
		return fmt.Errorf("create attendance token: %w", err)
	}

	return nil
}

// GetByToken получает токен по строке
func (r *AttendanceTokenRepository) GetByToken(ctx context.Context, token string) (*model.AttendanceToken, error) {
	query := `
		SELECT id, reference_type, reference_id, date, token, used, created_at
		FROM attendance_tokens
		WHERE token = $1
	`

	var record model.AttendanceToken
	err := r.db.QueryRow(ctx, query, token).Scan(
		&record.ID,
		&record.Reference.Kind,
		&record.Reference.ID,
		&record.Date,
		&record.Token,
		&record.Used,
		&record.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get token: %w", err)
	}

	return &record, nil
}

// MarkUsed помечает токен использованным. Условие used = false делает
// погашение одноразовым: из двух конкурентных попыток пройдёт одна.
func (r *AttendanceTokenRepository) MarkUsed(ctx context.Context, id int64) error {
	query := `
		UPDATE attendance_tokens
		SET used = true
		WHERE id = $1 AND used = false
	`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark token used: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrTokenAlreadyUsed
	}

	return nil
}

// CountStale считает погашенные и просроченные токены. Токены не
// удаляются никогда: погашение возвращает "уже использован", просрочка
// "истёк", и обе причины различимы только пока строка на месте.
func (r *AttendanceTokenRepository) CountStale(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM attendance_tokens
		WHERE used = true OR created_at < $1
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, olderThan).Scan(&count); err != nil {
		return 0, fmt.Errorf("count stale tokens: %w", err)
	}

	return count, nil
}
