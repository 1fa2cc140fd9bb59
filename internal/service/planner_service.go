package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/classdesk/scheduler/internal/model"
	"github.com/classdesk/scheduler/internal/repository"
)

// PlannerService пересобирает неделю студента: сравнивает желаемый
// набор дней с уже сохранёнными записями и применяет минимальный патч
// одной транзакцией
type PlannerService struct {
	pool        *pgxpool.Pool
	studentRepo *repository.StudentRepository
	slotRepo    *repository.SlotRepository
	resRepo     *repository.ReservationRepository
	freeRepo    *repository.FreeScheduleRepository
	logger      *zap.Logger
}

func NewPlannerService(
	pool *pgxpool.Pool,
	studentRepo *repository.StudentRepository,
	slotRepo *repository.SlotRepository,
	resRepo *repository.ReservationRepository,
	freeRepo *repository.FreeScheduleRepository,
	logger *zap.Logger,
) *PlannerService {
	return &PlannerService{
		pool:        pool,
		studentRepo: studentRepo,
		slotRepo:    slotRepo,
		resRepo:     resRepo,
		freeRepo:    freeRepo,
		logger:      logger,
	}
}

// PlanWeek планирует неделю студента с преподавателем. Желаемый набор
// дней не должен быть пустым (очистка недели отдельная операция).
func (s *PlannerService) PlanWeek(ctx context.Context, userID int64, weekAnchor time.Time, days []model.WeekDay) (*model.WeekPlanSummary, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: desired day set is empty", model.ErrValidation)
	}
	return s.reconcileWeek(ctx, userID, weekAnchor, days)
}

// ClearWeek удаляет все будущие записи недели. Разрешена всегда,
// независимо от лимита плана.
func (s *PlannerService) ClearWeek(ctx context.Context, userID int64, weekAnchor time.Time) (*model.WeekPlanSummary, error) {
	return s.reconcileWeek(ctx, userID, weekAnchor, nil)
}

func (s *PlannerService) reconcileWeek(ctx context.Context, userID int64, weekAnchor time.Time, days []model.WeekDay) (*model.WeekPlanSummary, error) {
	student, err := s.requireActiveStudentByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := ValidatePlanMode(student.Plan, true); err != nil {
		return nil, err
	}

	if student.TeacherID == nil || student.FixedHour == nil {
		return nil, fmt.Errorf("%w: student has no assigned teacher or fixed hour", model.ErrPlanMismatch)
	}

	// Дубли в желаемом наборе схлопываем, превышение лимита отклоняем
	// до любых записей в базу
	uniqueDays := dedupeWeekDays(days)
	if err := CheckWeeklyQuota(student.Plan.ClassesPerWeek, 0, len(uniqueDays)); err != nil {
		return nil, err
	}

	weekStart, weekEnd := model.WeekRange(weekAnchor)
	desired := make([]time.Time, 0, len(uniqueDays))
	for _, d := range uniqueDays {
		desired = append(desired, d.ResolveDate(weekStart))
	}

	// Весь патч недели применяется одной транзакцией: либо пред-состояние,
	// либо полностью применённая разность
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	studentRepo := s.studentRepo.WithTx(tx)
	slotRepo := s.slotRepo.WithTx(tx)
	resRepo := s.resRepo.WithTx(tx)

	// Блокировка студента сериализует конкурентные пересборки недели:
	// без неё две транзакции считают один и тот же пред-счётчик
	// и вместе превышают лимит плана
	if err := studentRepo.LockByID(ctx, student.ID); err != nil {
		return nil, err
	}

	slot, err := slotRepo.GetByTeacherAndHour(ctx, *student.TeacherID, *student.FixedHour)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, model.ErrSlotNotFound
	}

	existing, err := resRepo.ListByStudentAndRange(ctx, student.ID, weekStart, weekEnd, &slot.ID)
	if err != nil {
		return nil, fmt.Errorf("list existing reservations: %w", err)
	}

	patch := computeWeekPatch(existing, desired, time.Now())

	// Недельный лимит проверяем по всем записям студента в неделе,
	// не только по фиксированному слоту
	totalInWeek, err := resRepo.CountByStudentAndRange(ctx, student.ID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("count week reservations: %w", err)
	}
	if err := CheckWeeklyQuota(student.Plan.ClassesPerWeek, totalInWeek-len(patch.toDelete), len(patch.toCreate)); err != nil {
		return nil, err
	}

	deleteIDs := make([]int64, 0, len(patch.toDelete))
	for _, res := range patch.toDelete {
		deleteIDs = append(deleteIDs, res.ID)
	}
	deleted, err := resRepo.DeleteByIDs(ctx, deleteIDs)
	if err != nil {
		return nil, fmt.Errorf("delete reservations: %w", err)
	}

	created := 0
	kept := len(patch.kept)
	for _, date := range patch.toCreate {
		res := &model.Reservation{
			StudentID: student.ID,
			SlotID:    slot.ID,
			Date:      date,
			Status:    model.StatusBooked,
		}
		err := resRepo.Create(ctx, res)
		if err != nil {
			// Гонка с параллельной записью на тот же день не ошибка:
			// строка уже есть, считаем её оставленной
			if errors.Is(err, model.ErrDuplicateReservation) {
				kept++
				continue
			}
			return nil, fmt.Errorf("create reservation: %w", err)
		}
		created++
	}

	finalRows, err := resRepo.ListByStudentAndRange(ctx, student.ID, weekStart, weekEnd, &slot.ID)
	if err != nil {
		return nil, fmt.Errorf("list final reservations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Week reconciled",
		zap.Int64("student_id", student.ID),
		zap.Int64("slot_id", slot.ID),
		zap.String("week_start", weekStart.Format(model.DateLayout)),
		zap.Int("kept", kept),
		zap.Int64("deleted", deleted),
		zap.Int("created", created),
	)

	return &model.WeekPlanSummary{
		Kept:    kept,
		Deleted: int(deleted),
		Created: created,
		Rows:    finalRows,
	}, nil
}

// BookDay записывает студента в слот на конкретную дату с проверкой
// недельного лимита
func (s *PlannerService) BookDay(ctx context.Context, studentID, slotID int64, date time.Time) (*model.Reservation, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, model.ErrStudentNotFound
	}
	if !student.Active {
		return nil, model.ErrStudentInactive
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	studentRepo := s.studentRepo.WithTx(tx)
	slotRepo := s.slotRepo.WithTx(tx)
	resRepo := s.resRepo.WithTx(tx)

	// Проверка лимита ниже это чтение-затем-запись, блокировка строки
	// студента делает её атомарной между конкурентными бронированиями
	if err := studentRepo.LockByID(ctx, student.ID); err != nil {
		return nil, err
	}

	slot, err := slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil || !slot.Active {
		return nil, model.ErrSlotNotFound
	}

	weekStart, weekEnd := model.WeekRange(date)
	count, err := resRepo.CountByStudentAndRange(ctx, student.ID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("count week reservations: %w", err)
	}
	if err := CheckWeeklyQuota(student.Plan.ClassesPerWeek, count, 1); err != nil {
		return nil, err
	}

	res := &model.Reservation{
		StudentID: student.ID,
		SlotID:    slot.ID,
		Date:      model.DateOnly(date),
		Status:    model.StatusBooked,
	}
	if err := resRepo.Create(ctx, res); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Day booked",
		zap.Int64("reservation_id", res.ID),
		zap.Int64("student_id", student.ID),
		zap.Int64("slot_id", slot.ID),
		zap.String("date", res.Date.Format(model.DateLayout)),
	)

	return res, nil
}

// MarkAttended отмечает запись посещённой (ручное действие преподавателя)
func (s *PlannerService) MarkAttended(ctx context.Context, reservationID int64) error {
	return s.resRepo.UpdateStatus(ctx, reservationID, model.StatusAttended)
}

// MarkAbsent отмечает запись пропущенной
func (s *PlannerService) MarkAbsent(ctx context.Context, reservationID int64) error {
	return s.resRepo.UpdateStatus(ctx, reservationID, model.StatusAbsent)
}

// ReplaceFreeWeek заменяет неделю студента со свободным планом: старые
// дни недели удаляются, новые вставляются одной транзакцией.
// Пустой набор очищает неделю.
func (s *PlannerService) ReplaceFreeWeek(ctx context.Context, userID int64, weekAnchor time.Time, days []model.DateHour) (string, error) {
	student, err := s.requireActiveStudentByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := ValidatePlanMode(student.Plan, false); err != nil {
		return "", err
	}

	weekStart, weekEnd := model.WeekRange(weekAnchor)

	seen := make(map[string]bool, len(days))
	for _, d := range days {
		date := model.DateOnly(d.Date)
		if date.Before(weekStart) || date.After(weekEnd) {
			return "", fmt.Errorf("%w: date %s is outside the week", model.ErrValidation, date.Format(model.DateLayout))
		}
		key := date.Format(model.DateLayout)
		if seen[key] {
			return "", fmt.Errorf("%w: duplicate date %s", model.ErrValidation, key)
		}
		seen[key] = true
	}

	if len(days) > 0 {
		if err := CheckWeeklyQuota(student.Plan.ClassesPerWeek, 0, len(days)); err != nil {
			return "", err
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	freeRepo := s.freeRepo.WithTx(tx)

	deleted, err := freeRepo.DeleteWeek(ctx, student.ID, weekStart, weekEnd)
	if err != nil {
		return "", fmt.Errorf("delete free week: %w", err)
	}

	action := "cleared"
	if len(days) > 0 {
		normalized := make([]model.DateHour, 0, len(days))
		for _, d := range days {
			normalized = append(normalized, model.DateHour{Date: model.DateOnly(d.Date), Hour: d.Hour})
		}
		if err := freeRepo.BulkCreate(ctx, student.ID, normalized); err != nil {
			return "", err
		}
		action = "replaced"
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Free week replaced",
		zap.Int64("student_id", student.ID),
		zap.String("week_start", weekStart.Format(model.DateLayout)),
		zap.Int64("deleted", deleted),
		zap.Int("created", len(days)),
		zap.String("action", action),
	)

	return action, nil
}

// SaveFreeDay сохраняет один день свободного плана (upsert по дате)
func (s *PlannerService) SaveFreeDay(ctx context.Context, userID int64, date time.Time, hour string) (string, error) {
	student, err := s.requireActiveStudentByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := ValidatePlanMode(student.Plan, false); err != nil {
		return "", err
	}

	action, err := s.freeRepo.SaveDay(ctx, student.ID, model.DateOnly(date), hour)
	if err != nil {
		return "", err
	}

	s.logger.Info("Free day saved",
		zap.Int64("student_id", student.ID),
		zap.String("date", model.DateOnly(date).Format(model.DateLayout)),
		zap.String("hour", hour),
		zap.String("action", action),
	)

	return action, nil
}

func (s *PlannerService) requireActiveStudentByUser(ctx context.Context, userID int64) (*model.Student, error) {
	student, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, model.ErrStudentNotFound
	}
	if !student.Active {
		return nil, model.ErrStudentInactive
	}
	return student, nil
}

func dedupeWeekDays(days []model.WeekDay) []model.WeekDay {
	seen := make(map[model.WeekDay]bool, len(days))
	out := make([]model.WeekDay, 0, len(days))
	for _, d := range days {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
