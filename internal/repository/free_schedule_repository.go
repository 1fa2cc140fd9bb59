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

type FreeScheduleRepository struct {
	db base.DB
}

func NewFreeScheduleRepository(pool *pgxpool.Pool) *FreeScheduleRepository {
	return &FreeScheduleRepository{db: pool}
}

// WithTx возвращает копию репозитория, работающую в транзакции
func (r *FreeScheduleRepository) WithTx(tx pgx.Tx) *FreeScheduleRepository {
	return &FreeScheduleRepository{db: tx}
}

// SaveDay сохраняет день свободного плана. Дубль по (student_id, date)
// превращается в обновление часа. Возвращает "insert" или "update".
func (r *FreeScheduleRepository) SaveDay(ctx context.Context, studentID int64, date time.Time, hour string) (string, error) {
	insert := `
		INSERT INTO free_schedules (student_id, date, hour, status)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, insert, studentID, date, hour, model.StatusBooked)
	if err == nil {
		return "insert", nil
	}

	if !base.IsUniqueViolation(err) {
		return "", fmt.Errorf("save free day: %w", err)
	}

	update := `
		UPDATE free_schedules
		SET hour = $1
		WHERE student_id = $2 AND date = $3
	`

	if _, err := r.db.Exec(ctx, update, hour, studentID, date); err != nil {
		return "", fmt.Errorf("update free day: %w", err)
	}

	return "update", nil
}

// GetByID получает день по ID
func (r *FreeScheduleRepository) GetByID(ctx context.Context, id int64) (*model.FreeScheduleEntry, error) {
	query := `
		SELECT id, student_id, date, hour, status, attended_at, created_at
		FROM free_schedules
		WHERE id = $1
	`

	var entry model.FreeScheduleEntry
	err := r.db.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.StudentID,
		&entry.Date,
		&entry.Hour,
		&entry.Status,
		&entry.AttendedAt,
		&entry.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get free entry by id: %w", err)
	}

	return &entry, nil
}

// DeleteWeek удаляет дни студента в диапазоне дат
func (r *FreeScheduleRepository) DeleteWeek(ctx context.Context, studentID int64, from, to time.Time) (int64, error) {
	query := `
		DELETE FROM free_schedules
		WHERE student_id = $1 AND date BETWEEN $2 AND $3
	`

	tag, err := r.db.Exec(ctx, query, studentID, from, to)
	if err != nil {
		return 0, fmt.Errorf("delete free week: %w", err)
	}

	return tag.RowsAffected(), nil
}

// BulkCreate вставляет набор дней
func (r *FreeScheduleRepository) BulkCreate(ctx context.Context, studentID int64, days []model.DateHour) error {
	query := `
		INSERT INTO free_schedules (student_id, date, hour, status)
		VALUES ($1, $2, $3, $4)
	`

	for _, d := range days {
		if _, err := r.db.Exec(ctx, query, studentID, d.Date, d.Hour, model.StatusBooked); err != nil {
			return fmt.Errorf("create free day: %w", err)
		}
	}

	return nil
}

// DeleteByID удаляет день по ID
func (r *FreeScheduleRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM free_schedules WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete free entry: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrFreeEntryNotFound
	}

	return nil
}

// DeleteFutureByStudent удаляет дни студента с датой from и позже
func (r *FreeScheduleRepository) DeleteFutureByStudent(ctx context.Context, studentID int64, from time.Time) (int64, error) {
	query := `DELETE FROM free_schedules WHERE student_id = $1 AND date >= $2`

	tag, err := r.db.Exec(ctx, query, studentID, from)
	if err != nil {
		return 0, fmt.Errorf("delete future free entries: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ListByStudentAndDate получает дни студента на дату
func (r *FreeScheduleRepository) ListByStudentAndDate(ctx context.Context, studentID int64, date time.Time) ([]*model.FreeScheduleEntry, error) {
	query := `
		SELECT id, student_id, date, hour, status, attended_at, created_at
		FROM free_schedules
		WHERE student_id = $1 AND date = $2
		ORDER BY hour
	`

	rows, err := r.db.Query(ctx, query, studentID, date)
	if err != nil {
		return nil, fmt.Errorf("list free entries by student: %w", err)
	}
	defer rows.Close()

	return scanFreeEntries(rows)
}

// ListByDate получает все дни на дату вместе со студентами
func (r *FreeScheduleRepository) ListByDate(ctx context.Context, date time.Time) ([]*model.FreeScheduleEntry, error) {
	query := `
		SELECT f.id, f.student_id, f.date, f.hour, f.status, f.attended_at, f.created_at,
		       st.id, st.user_id, st.first_name, st.last_name, st.email, st.active
		FROM free_schedules f
		JOIN students st ON st.id = f.student_id
		WHERE f.date = $1
		ORDER BY f.hour, f.id
	`

	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list free entries by date: %w", err)
	}
	defer rows.Close()

	var entries []*model.FreeScheduleEntry
	for rows.Next() {
		var entry model.FreeScheduleEntry
		var student model.Student
		err := rows.Scan(
			&entry.ID,
			&entry.StudentID,
			&entry.Date,
			&entry.Hour,
			&entry.Status,
			&entry.AttendedAt,
			&entry.CreatedAt,
			&student.ID,
			&student.UserID,
			&student.FirstName,
			&student.LastName,
			&student.Email,
			&student.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("scan free entry: %w", err)
		}
		entry.Student = &student
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate free entries: %w", err)
	}

	return entries, nil
}

func scanFreeEntries(rows pgx.Rows) ([]*model.FreeScheduleEntry, error) {
	var entries []*model.FreeScheduleEntry
	for rows.Next() {
		var entry model.FreeScheduleEntry
		err := rows.Scan(
			&entry.ID,
			&entry.StudentID,
			&entry.Date,
			&entry.Hour,
			&entry.Status,
			&entry.AttendedAt,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan free entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate free entries: %w", err)
	}

	return entries, nil
}
