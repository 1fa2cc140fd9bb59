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

type ReservationRepository struct {
	db base.DB
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{db: pool}
}

// WithTx возвращает копию репозитория, работающую в транзакции
func (r *ReservationRepository) WithTx(tx pgx.Tx) *ReservationRepository {
	return &ReservationRepository{db: tx}
}

// Create создаёт новую запись. Дубль по (student_id, slot_id, date)
// возвращается как model.ErrDuplicateReservation.
func (r *ReservationRepository) Create(ctx context.Context, res *model.Reservation) error {
	query := `
		INSERT INTO reservations (student_id, slot_id, date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		res.StudentID,
		res.SlotID,
		res.Date,
		res.Status,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return model.ErrDuplicateReservation
		}
		return fmt.Errorf("create reservation: %w", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	query := `
		SELECT id, student_id, slot_id, date, status, created_at, updated_at
		FROM reservations
		WHERE id = $1
	`

	var res model.Reservation
	err := r.db.QueryRow(ctx, query, id).Scan(
		&res.ID,
		&res.StudentID,
		&res.SlotID,
		&res.Date,
		&res.Status,
		&res.CreatedAt,
		&res.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation by id: %w", err)
	}

	return &res, nil
}

// ListByStudentAndRange получает записи студента в диапазоне дат.
// slotID сужает выборку до одного слота (nil — все слоты).
func (r *ReservationRepository) ListByStudentAndRange(ctx context.Context, studentID int64, from, to time.Time, slotID *int64) ([]*model.Reservation, error) {
	query := `
		SELECT id, student_id, slot_id, date, status, created_at, updated_at
		FROM reservations
		WHERE student_id = $1
		  AND date BETWEEN $2 AND $3
		  AND ($4::bigint IS NULL OR slot_id = $4)
		ORDER BY date
	`

	rows, err := r.db.Query(ctx, query, studentID, from, to, slotID)
	if err != nil {
		return nil, fmt.Errorf("list reservations by range: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// CountByStudentAndRange считает записи студента в диапазоне дат
func (r *ReservationRepository) CountByStudentAndRange(ctx context.Context, studentID int64, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reservations
		WHERE student_id = $1 AND date BETWEEN $2 AND $3
	`

	var count int
	if err := r.db.QueryRow(ctx, query, studentID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reservations: %w", err)
	}

	return count, nil
}

// DeleteByIDs удаляет записи по списку идентификаторов
func (r *ReservationRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `DELETE FROM reservations WHERE id = ANY($1)`

	tag, err := r.db.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("delete reservations: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteFutureByStudent удаляет записи студента с датой from и позже
func (r *ReservationRepository) DeleteFutureByStudent(ctx context.Context, studentID int64, from time.Time) (int64, error) {
	query := `DELETE FROM reservations WHERE student_id = $1 AND date >= $2`

	tag, err := r.db.Exec(ctx, query, studentID, from)
	if err != nil {
		return 0, fmt.Errorf("delete future reservations: %w", err)
	}

	return tag.RowsAffected(), nil
}

// UpdateStatus обновляет статус записи
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, status model.ReservationStatus) error {
	query := `
		UPDATE reservations
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrReservationNotFound
	}

	return nil
}

// ListByDate получает все записи на дату со студентами, слотами
// и преподавателями, отсортированные по часу слота
func (r *ReservationRepository) ListByDate(ctx context.Context, date time.Time) ([]*model.Reservation, error) {
	query := detailedReservationQuery + `
		WHERE r.date = $1
		ORDER BY sl.hour, r.id
	`

	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list reservations by date: %w", err)
	}
	defer rows.Close()

	return scanDetailedReservations(rows)
}

// ListByStudentAndDate получает записи студента на дату (с деталями)
func (r *ReservationRepository) ListByStudentAndDate(ctx context.Context, studentID int64, date time.Time) ([]*model.Reservation, error) {
	query := detailedReservationQuery + `
		WHERE r.date = $1 AND r.student_id = $2
		ORDER BY sl.hour, r.id
	`

	rows, err := r.db.Query(ctx, query, date, studentID)
	if err != nil {
		return nil, fmt.Errorf("list reservations by student and date: %w", err)
	}
	defer rows.Close()

	return scanDetailedReservations(rows)
}

// ListByTeacherUserAndDate получает записи на дату в слотах преподавателя,
// найденного по его user_id
func (r *ReservationRepository) ListByTeacherUserAndDate(ctx context.Context, teacherUserID int64, date time.Time) ([]*model.Reservation, error) {
	query := detailedReservationQuery + `
		WHERE r.date = $1 AND t.user_id = $2
		ORDER BY sl.hour, r.id
	`

	rows, err := r.db.Query(ctx, query, date, teacherUserID)
	if err != nil {
		return nil, fmt.Errorf("list reservations by teacher and date: %w", err)
	}
	defer rows.Close()

	return scanDetailedReservations(rows)
}

const detailedReservationQuery = `
	SELECT r.id, r.student_id, r.slot_id, r.date, r.status, r.created_at, r.updated_at,
	       st.id, st.user_id, st.first_name, st.last_name, st.email, st.active,
	       sl.id, sl.teacher_id, sl.turn, sl.hour, sl.max_capacity, sl.current_capacity, sl.active,
	       t.id, t.user_id, t.first_name, t.last_name, t.email, t.turn, t.active
	FROM reservations r
	JOIN students st ON st.id = r.student_id
	JOIN schedule_slots sl ON sl.id = r.slot_id
	JOIN teachers t ON t.id = sl.teacher_id
`

func scanReservations(rows pgx.Rows) ([]*model.Reservation, error) {
	var reservations []*model.Reservation
	for rows.Next() {
		var res model.Reservation
		err := rows.Scan(
			&res.ID,
			&res.StudentID,
			&res.SlotID,
			&res.Date,
			&res.Status,
			&res.CreatedAt,
			&res.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}

	return reservations, nil
}

func scanDetailedReservations(rows pgx.Rows) ([]*model.Reservation, error) {
	var reservations []*model.Reservation
	for rows.Next() {
		var res model.Reservation
		var student model.Student
		var slot model.ScheduleSlot
		var teacher model.Teacher
		err := rows.Scan(
			&res.ID,
			&res.StudentID,
			&res.SlotID,
			&res.Date,
			&res.Status,
			&res.CreatedAt,
			&res.UpdatedAt,
			&student.ID,
			&student.UserID,
			&student.FirstName,
			&student.LastName,
			&student.Email,
			&student.Active,
			&slot.ID,
			&slot.TeacherID,
			&slot.Turn,
			&slot.Hour,
			&slot.MaxCapacity,
			&slot.CurrentCapacity,
			&slot.Active,
			&teacher.ID,
			&teacher.UserID,
			&teacher.FirstName,
			&teacher.LastName,
			&teacher.Email,
			&teacher.Turn,
			&teacher.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reservation details: %w", err)
		}
		slot.Teacher = &teacher
		res.Student = &student
		res.Slot = &slot
		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}

	return reservations, nil
}
