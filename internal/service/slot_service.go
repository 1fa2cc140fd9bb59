package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/classdesk/scheduler/internal/config"
	"github.com/classdesk/scheduler/internal/model"
	"github.com/classdesk/scheduler/internal/repository"
)

// SlotService реестр слотов: генерация при онбординге преподавателя,
// поиск по паре (преподаватель, час) и контроль вместимости
type SlotService struct {
	cfg         *config.Config
	slotRepo    *repository.SlotRepository
	teacherRepo *repository.TeacherRepository
	logger      *zap.Logger
}

func NewSlotService(
	cfg *config.Config,
	slotRepo *repository.SlotRepository,
	teacherRepo *repository.TeacherRepository,
	logger *zap.Logger,
) *SlotService {
	return &SlotService{
		cfg:         cfg,
		slotRepo:    slotRepo,
		teacherRepo: teacherRepo,
		logger:      logger,
	}
}

// CreateSlotsForTeacher генерирует слоты преподавателя по его смене:
// один слот на каждый час диапазона [start, end). Операция
// идемпотентна, повторный вызов ничего не дублирует.
func (s *SlotService) CreateSlotsForTeacher(ctx context.Context, teacherID int64) (int, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, teacherID)
	if err != nil {
		return 0, fmt.Errorf("get teacher: %w", err)
	}
	if teacher == nil {
		return 0, model.ErrTeacherNotFound
	}

	created, err := s.slotRepo.CreateForTeacher(ctx, teacher.ID, teacher.Turn, TurnHourLabels(s.cfg, teacher.Turn), s.cfg.SlotCapacity)
	if err != nil {
		return created, err
	}

	s.logger.Info("Slots generated for teacher",
		zap.Int64("teacher_id", teacher.ID),
		zap.String("turn", string(teacher.Turn)),
		zap.Int("created", created),
	)

	return created, nil
}

// FindByTeacherAndHour находит активный слот пары (преподаватель, час)
func (s *SlotService) FindByTeacherAndHour(ctx context.Context, teacherID int64, hour string) (*model.ScheduleSlot, error) {
	slot, err := s.slotRepo.GetByTeacherAndHour(ctx, teacherID, hour)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, model.ErrSlotNotFound
	}
	return slot, nil
}

// List возвращает все слоты; занятость пересчитана по активным
// студентам, а не взята из счётчика
func (s *SlotService) List(ctx context.Context) ([]*model.ScheduleSlot, error) {
	return s.slotRepo.ListWithOccupancy(ctx)
}

// IncrementCapacityUsage атомарно занимает место в слоте
func (s *SlotService) IncrementCapacityUsage(ctx context.Context, slotID int64) error {
	return s.slotRepo.ClaimSeat(ctx, slotID)
}

// Deactivate выключает слот из бронирования
func (s *SlotService) Deactivate(ctx context.Context, slotID int64) error {
	if err := s.slotRepo.Deactivate(ctx, slotID); err != nil {
		return err
	}

	s.logger.Info("Slot deactivated", zap.Int64("slot_id", slotID))
	return nil
}

// TurnHourLabels возвращает метки часов "HH:00" для смены
func TurnHourLabels(cfg *config.Config, turn model.TeacherTurn) []string {
	start, end := cfg.TurnHours(string(turn))

	labels := make([]string, 0, end-start)
	for hour := start; hour < end; hour++ {
		labels = append(labels, fmt.Sprintf("%02d:00", hour))
	}

	return labels
}
