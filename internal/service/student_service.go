package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/classdesk/scheduler/internal/model"
	"github.com/classdesk/scheduler/internal/repository"
)

// StudentService зачисление и деактивация студентов с каскадными
// эффектами на слоты и расписание
type StudentService struct {
	pool        *pgxpool.Pool
	studentRepo *repository.StudentRepository
	teacherRepo *repository.TeacherRepository
	planRepo    *repository.PlanRepository
	slotRepo    *repository.SlotRepository
	resRepo     *repository.ReservationRepository
	freeRepo    *repository.FreeScheduleRepository
	logger      *zap.Logger
}

func NewStudentService(
	pool *pgxpool.Pool,
	studentRepo *repository.StudentRepository,
	teacherRepo *repository.TeacherRepository,
	planRepo *repository.PlanRepository,
	slotRepo *repository.SlotRepository,
	resRepo *repository.ReservationRepository,
	freeRepo *repository.FreeScheduleRepository,
	logger *zap.Logger,
) *StudentService {
	return &StudentService{
		pool:        pool,
		studentRepo: studentRepo,
		teacherRepo: teacherRepo,
		planRepo:    planRepo,
		slotRepo:    slotRepo,
		resRepo:     resRepo,
		freeRepo:    freeRepo,
		logger:      logger,
	}
}

// AdmitStudentInput данные зачисления студента
type AdmitStudentInput struct {
	UserID    int64
	FirstName string
	LastName  string
	Email     string
	PlanID    int64
	TeacherID *int64
	Turn      model.TeacherTurn
	WeekDays  []model.WeekDay
	FixedHour *string
}

// AdmitStudent зачисляет студента. Для плана с преподавателем место
// в слоте занимается атомарным инкрементом в той же транзакции, что и
// вставка студента: при переполнении слота не остаётся ни строки,
// ни занятого места.
func (s *StudentService) AdmitStudent(ctx context.Context, input AdmitStudentInput) (*model.Student, error) {
	plan, err := s.planRepo.GetByID(ctx, input.PlanID)
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	if plan == nil {
		return nil, model.ErrPlanNotFound
	}

	if plan.RequiresTeacher {
		if input.TeacherID == nil || input.FixedHour == nil {
			return nil, fmt.Errorf("%w: plan requires a teacher and a fixed hour", model.ErrPlanMismatch)
		}
	} else if input.TeacherID != nil {
		return nil, fmt.Errorf("%w: plan does not use a teacher", model.ErrPlanMismatch)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	studentRepo := s.studentRepo.WithTx(tx)
	teacherRepo := s.teacherRepo.WithTx(tx)
	slotRepo := s.slotRepo.WithTx(tx)

	if plan.RequiresTeacher {
		teacher, err := teacherRepo.GetByID(ctx, *input.TeacherID)
		if err != nil {
			return nil, fmt.Errorf("get teacher: %w", err)
		}
		if teacher == nil || !teacher.Active {
			return nil, model.ErrTeacherNotFound
		}

		slot, err := slotRepo.GetByTeacherAndHour(ctx, teacher.ID, *input.FixedHour)
		if err != nil {
			return nil, fmt.Errorf("get slot: %w", err)
		}
		if slot == nil {
			return nil, model.ErrSlotNotFound
		}
		if !slot.HasFreeSeat() {
			return nil, model.ErrCapacityExceeded
		}

		// Авторитетная проверка: условный инкремент, а не счётчик
		// из прочитанной строки
		if err := slotRepo.ClaimSeat(ctx, slot.ID); err != nil {
			return nil, err
		}
	}

	student := &model.Student{
		UserID:    input.UserID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		PlanID:    input.PlanID,
		TeacherID: input.TeacherID,
		Turn:      input.Turn,
		WeekDays:  input.WeekDays,
		FixedHour: input.FixedHour,
	}

	if err := studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Student admitted",
		zap.Int64("student_id", student.ID),
		zap.Int64("plan_id", input.PlanID),
		zap.Bool("requires_teacher", plan.RequiresTeacher),
	)

	student.Plan = plan
	return student, nil
}

// GetByID получает студента по ID
func (s *StudentService) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, model.ErrStudentNotFound
	}
	return student, nil
}

// GetByUserID получает студента по владеющему пользователю
func (s *StudentService) GetByUserID(ctx context.Context, userID int64) (*model.Student, error) {
	student, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, model.ErrStudentNotFound
	}
	return student, nil
}

// Deactivate деактивирует студента и одной транзакцией удаляет его
// будущие записи и дни свободного плана (сегодня и позже).
// Прошедшие строки остаются как история посещений.
func (s *StudentService) Deactivate(ctx context.Context, studentID int64) error {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return model.ErrStudentNotFound
	}

	today := model.DateOnly(time.Now())

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	studentRepo := s.studentRepo.WithTx(tx)
	slotRepo := s.slotRepo.WithTx(tx)
	resRepo := s.resRepo.WithTx(tx)
	freeRepo := s.freeRepo.WithTx(tx)

	if err := studentRepo.SetActive(ctx, studentID, false); err != nil {
		return err
	}

	// Место в слоте возвращается: счётчик занятости должен отражать
	// только активных студентов
	if student.Active && student.TeacherID != nil && student.FixedHour != nil {
		slot, err := slotRepo.GetByTeacherAndHour(ctx, *student.TeacherID, *student.FixedHour)
		if err != nil {
			return fmt.Errorf("get slot: %w", err)
		}
		if slot != nil {
			if err := slotRepo.ReleaseSeat(ctx, slot.ID); err != nil {
				return err
			}
		}
	}

	deletedRes, err := resRepo.DeleteFutureByStudent(ctx, studentID, today)
	if err != nil {
		return err
	}

	deletedFree, err := freeRepo.DeleteFutureByStudent(ctx, studentID, today)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Student deactivated",
		zap.Int64("student_id", studentID),
		zap.Int64("deleted_reservations", deletedRes),
		zap.Int64("deleted_free_entries", deletedFree),
	)

	return nil
}

// Reactivate возвращает студента в активное состояние. Для плана
// с преподавателем место в слоте занимается заново и может уже
// кончиться.
func (s *StudentService) Reactivate(ctx context.Context, studentID int64) error {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return model.ErrStudentNotFound
	}
	if student.Active {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	studentRepo := s.studentRepo.WithTx(tx)
	slotRepo := s.slotRepo.WithTx(tx)

	if student.TeacherID != nil && student.FixedHour != nil {
		slot, err := slotRepo.GetByTeacherAndHour(ctx, *student.TeacherID, *student.FixedHour)
		if err != nil {
			return fmt.Errorf("get slot: %w", err)
		}
		if slot == nil {
			return model.ErrSlotNotFound
		}
		if err := slotRepo.ClaimSeat(ctx, slot.ID); err != nil {
			return err
		}
	}

	if err := studentRepo.SetActive(ctx, studentID, true); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Student reactivated", zap.Int64("student_id", studentID))
	return nil
}
