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

type StudentRepository struct {
	db base.DB
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: pool}
}

// WithTx возвращает копию репозитория, работающую в транзакции
func (r *StudentRepository) WithTx(tx pgx.Tx) *StudentRepository {
	return &StudentRepository{db: tx}
}

const studentQuery = `
	SELECT st.id, st.user_id, st.first_name, st.last_name, st.email,
	       st.plan_id, st.teacher_id, st.turn, st.week_days, st.fixed_hour,
	       st.active, st.created_at,
	       p.id, p.name, p.classes_per_week, p.requires_teacher,
	       p.weekday_start_hour, p.weekday_end_hour, p.saturday_start_hour, p.saturday_end_hour,
	       t.id, t.user_id, t.first_name, t.last_name, t.email, t.turn, t.active, t.created_at
	FROM students st
	JOIN plans p ON p.id = st.plan_id
	LEFT JOIN teachers t ON t.id = st.teacher_id
`

// Create создаёт студента
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	query := `
		INSERT INTO students (user_id, first_name, last_name, email, plan_id, teacher_id, turn, week_days, fixed_hour, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true)
		RETURNING id, created_at
	`

	weekDays := make([]string, 0, len(s.WeekDays))
	for _, d := range s.WeekDays {
		weekDays = append(weekDays, string(d))
	}

	err := r.db.QueryRow(
		ctx, query,
		s.UserID,
		s.FirstName,
		s.LastName,
		s.Email,
		s.PlanID,
		s.TeacherID,
		s.Turn,
		weekDays,
		s.FixedHour,
	).Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	s.Active = true
	return nil
}

// GetByID получает студента с планом и преподавателем
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	row := r.db.QueryRow(ctx, studentQuery+` WHERE st.id = $1`, id)
	return scanStudent(row)
}

// GetByUserID получает студента по идентификатору владеющего пользователя
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*model.Student, error) {
	row := r.db.QueryRow(ctx, studentQuery+` WHERE st.user_id = $1`, userID)
	return scanStudent(row)
}

// ListActiveFreePlan получает активных студентов с планами без преподавателя
func (r *StudentRepository) ListActiveFreePlan(ctx context.Context) ([]*model.Student, error) {
	query := studentQuery + ` WHERE st.active = true AND p.requires_teacher = false ORDER BY st.id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list free plan students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}

	return students, nil
}

// LockByID блокирует строку студента до конца текущей транзакции.
// Конкурентные проверки недельного лимита одного студента должны
// выполняться последовательно, иначе две транзакции видят одно
// пред-состояние счётчика и обе проходят проверку.
func (r *StudentRepository) LockByID(ctx context.Context, id int64) error {
	var locked int64
	err := r.db.QueryRow(ctx, `SELECT id FROM students WHERE id = $1 FOR UPDATE`, id).Scan(&locked)

	if err != nil {
		if base.IsNotFound(err) {
			return model.ErrStudentNotFound
		}
		return fmt.Errorf("lock student: %w", err)
	}

	return nil
}

// SetActive выставляет флаг активности студента
func (r *StudentRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE students SET active = $1 WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("set student active: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrStudentNotFound
	}

	return nil
}

func scanStudent(row pgx.Row) (*model.Student, error) {
	var s model.Student
	var p model.Plan
	var weekDays []string

	// Поля преподавателя через указатели: LEFT JOIN может дать NULL
	var tID, tUserID *int64
	var tFirstName, tLastName, tEmail, tTurn *string
	var tActive *bool
	var tCreatedAt *time.Time

	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.FirstName,
		&s.LastName,
		&s.Email,
		&s.PlanID,
		&s.TeacherID,
		&s.Turn,
		&weekDays,
		&s.FixedHour,
		&s.Active,
		&s.CreatedAt,
		&p.ID,
		&p.Name,
		&p.ClassesPerWeek,
		&p.RequiresTeacher,
		&p.WeekdayStartHour,
		&p.WeekdayEndHour,
		&p.SaturdayStartHour,
		&p.SaturdayEndHour,
		&tID,
		&tUserID,
		&tFirstName,
		&tLastName,
		&tEmail,
		&tTurn,
		&tActive,
		&tCreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan student: %w", err)
	}

	for _, d := range weekDays {
		s.WeekDays = append(s.WeekDays, model.WeekDay(d))
	}

	s.Plan = &p
	if tID != nil {
		s.Teacher = &model.Teacher{
			ID:        *tID,
			UserID:    *tUserID,
			FirstName: *tFirstName,
			LastName:  *tLastName,
			Email:     *tEmail,
			Turn:      model.TeacherTurn(*tTurn),
			Active:    *tActive,
			CreatedAt: *tCreatedAt,
		}
	}

	return &s, nil
}
