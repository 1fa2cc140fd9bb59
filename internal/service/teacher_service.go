package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/classdesk/scheduler/internal/config"
	"github.com/classdesk/scheduler/internal/model"
	"github.com/classdesk/scheduler/internal/repository"
)

// TeacherService онбординг преподавателей
type TeacherService struct {
	cfg         *config.Config
	pool        *pgxpool.Pool
	teacherRepo *repository.TeacherRepository
	slotRepo    *repository.SlotRepository
	logger      *zap.Logger
}

func NewTeacherService(
	cfg *config.Config,
	pool *pgxpool.Pool,
	teacherRepo *repository.TeacherRepository,
	slotRepo *repository.SlotRepository,
	logger *zap.Logger,
) *TeacherService {
	return &TeacherService{
		cfg:         cfg,
		pool:        pool,
		teacherRepo: teacherRepo,
		slotRepo:    slotRepo,
		logger:      logger,
	}
}

// OnboardTeacherInput данные онбординга преподавателя
type OnboardTeacherInput struct {
	UserID    int64
	FirstName string
	LastName  string
	Email     string
	Turn      model.TeacherTurn
}

// OnboardTeacher создаёт преподавателя и генерирует его слоты по смене
// одной транзакцией
func (s *TeacherService) OnboardTeacher(ctx context.Context, input OnboardTeacherInput) (*model.Teacher, error) {
	if input.Turn != model.TurnMorning && input.Turn != model.TurnEvening {
		return nil, fmt.Errorf("%w: unknown turn %q", model.ErrValidation, input.Turn)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	teacherRepo := s.teacherRepo.WithTx(tx)
	slotRepo := s.slotRepo.WithTx(tx)

	teacher := &model.Teacher{
		UserID:    input.UserID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Turn:      input.Turn,
	}

	if err := teacherRepo.Create(ctx, teacher); err != nil {
		return nil, err
	}

	created, err := slotRepo.CreateForTeacher(ctx, teacher.ID, teacher.Turn, TurnHourLabels(s.cfg, teacher.Turn), s.cfg.SlotCapacity)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Teacher onboarded",
		zap.Int64("teacher_id", teacher.ID),
		zap.String("turn", string(teacher.Turn)),
		zap.Int("slots_created", created),
	)

	return teacher, nil
}

// GetByID получает преподавателя по ID
func (s *TeacherService) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, model.ErrTeacherNotFound
	}
	return teacher, nil
}
