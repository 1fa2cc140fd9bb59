package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classdesk/scheduler/internal/model"
	"github.com/classdesk/scheduler/internal/repository/base"
)

type SlotRepository struct {
	db base.DB
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{db: pool}
}

// WithTx возвращает копию репозитория, работающую в транзакции
func (r *SlotRepository) WithTx(tx pgx.Tx) *SlotRepository {
	return &SlotRepository{db: tx}
}

// CreateForTeacher создаёт слоты преподавателя для набора часов.
// Повторный вызов не дублирует слоты: конфликт по (teacher_id, hour)
// среди активных строк молча пропускается.
func (r *SlotRepository) CreateForTeacher(ctx context.Context, teacherID int64, turn model.TeacherTurn, hours []string, capacity int) (int, error) {
	query := `
		INSERT INTO schedule_slots (teacher_id, turn, hour, max_capacity, current_capacity, active)
		VALUES ($1, $2, $3, $4, 0, true)
		ON CONFLICT (teacher_id, hour) WHERE active DO NOTHING
	`

	created := 0
	for _, hour := range hours {
		tag, err := r.db.Exec(ctx, query, teacherID, turn, hour, capacity)
		if err != nil {
			return created, fmt.Errorf("create slot: %w", err)
		}
		created += int(tag.RowsAffected())
	}

	return created, nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.ScheduleSlot, error) {
	query := `
		SELECT id, teacher_id, turn, hour, max_capacity, current_capacity, active, created_at
		FROM schedule_slots
		WHERE id = $1
	`

	var slot model.ScheduleSlot
	err := r.db.QueryRow(ctx, query, id).Scan(
		&slot.ID,
		&slot.TeacherID,
		&slot.Turn,
		&slot.Hour,
		&slot.MaxCapacity,
		&slot.CurrentCapacity,
		&slot.Active,
		&slot.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return &slot, nil
}

// GetByTeacherAndHour получает активный слот пары (преподаватель, час)
func (r *SlotRepository) GetByTeacherAndHour(ctx context.Context, teacherID int64, hour string) (*model.ScheduleSlot, error) {
	query := `
		SELECT id, teacher_id, turn, hour, max_capacity, current_capacity, active, created_at
		FROM schedule_slots
		WHERE teacher_id = $1 AND hour = $2 AND active = true
	`

	var slot model.ScheduleSlot
	err := r.db.QueryRow(ctx, query, teacherID, hour).Scan(
		&slot.ID,
		&slot.TeacherID,
		&slot.Turn,
		&slot.Hour,
		&slot.MaxCapacity,
		&slot.CurrentCapacity,
		&slot.Active,
		&slot.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by teacher and hour: %w", err)
	}

	return &slot, nil
}

// ClaimSeat атомарно занимает место в слоте. Инкремент проходит только
// если слот активен и счётчик строго меньше вместимости — два
// конкурентных вызова за последнее место дадут ровно один успех.
func (r *SlotRepository) ClaimSeat(ctx context.Context, slotID int64) error {
	query := `
		UPDATE schedule_slots
		SET current_capacity = current_capacity + 1
		WHERE id = $1 AND active = true AND current_capacity < max_capacity
	`

	tag, err := r.db.Exec(ctx, query, slotID)
	if err != nil {
		return fmt.Errorf("claim seat: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCapacityExceeded
	}

	return nil
}

// ReleaseSeat освобождает место в слоте (не опускается ниже нуля)
func (r *SlotRepository) ReleaseSeat(ctx context.Context, slotID int64) error {
	query := `
		UPDATE schedule_slots
		SET current_capacity = current_capacity - 1
		WHERE id = $1 AND current_capacity > 0
	`

	if _, err := r.db.Exec(ctx, query, slotID); err != nil {
		return fmt.Errorf("release seat: %w", err)
	}

	return nil
}

// Deactivate деактивирует слот. Слоты никогда не удаляются.
func (r *SlotRepository) Deactivate(ctx context.Context, slotID int64) error {
	query := `UPDATE schedule_slots SET active = false WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, slotID)
	if err != nil {
		return fmt.Errorf("deactivate slot: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrSlotNotFound
	}

	return nil
}

// ListWithOccupancy получает все слоты с преподавателями. Занятость
// пересчитывается по активным студентам с совпадающим фиксированным
// часом — счётчику current_capacity для отображения не доверяем.
func (r *SlotRepository) ListWithOccupancy(ctx context.Context) ([]*model.ScheduleSlot, error) {
	query := `
		SELECT s.id, s.teacher_id, s.turn, s.hour, s.max_capacity, s.current_capacity, s.active, s.created_at,
		       t.id, t.user_id, t.first_name, t.last_name, t.email, t.turn, t.active, t.created_at,
		       (SELECT COUNT(*)
		        FROM students st
		        WHERE st.teacher_id = s.teacher_id
		          AND st.fixed_hour = s.hour
		          AND st.active = true) AS occupancy
		FROM schedule_slots s
		JOIN teachers t ON t.id = s.teacher_id
		ORDER BY s.hour, t.id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.ScheduleSlot
	for rows.Next() {
		var slot model.ScheduleSlot
		var teacher model.Teacher
		err := rows.Scan(
			&slot.ID,
			&slot.TeacherID,
			&slot.Turn,
			&slot.Hour,
			&slot.MaxCapacity,
			&slot.CurrentCapacity,
			&slot.Active,
			&slot.CreatedAt,
			&teacher.ID,
			&teacher.UserID,
			&teacher.FirstName,
			&teacher.LastName,
			&teacher.Email,
			&teacher.Turn,
			&teacher.Active,
			&teacher.CreatedAt,
			&slot.Occupancy,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slot.Teacher = &teacher
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}
