package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/classdesk/scheduler/internal/model"
	"github.com/classdesk/scheduler/internal/repository"
)

// ScheduleService собирает дневные и недельные представления
// расписания по роли запрашивающего. Только чтение, без мутаций.
type ScheduleService struct {
	studentRepo *repository.StudentRepository
	resRepo     *repository.ReservationRepository
	freeRepo    *repository.FreeScheduleRepository
	logger      *zap.Logger
}

func NewScheduleService(
	studentRepo *repository.StudentRepository,
	resRepo *repository.ReservationRepository,
	freeRepo *repository.FreeScheduleRepository,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		studentRepo: studentRepo,
		resRepo:     resRepo,
		freeRepo:    freeRepo,
		logger:      logger,
	}
}

// GetRange возвращает расписание по дням диапазона [from, to]
// простой конкатенацией дневных выборок
func (s *ScheduleService) GetRange(ctx context.Context, viewer model.Viewer, from, to time.Time) ([]*model.DaySchedule, error) {
	start := model.DateOnly(from)
	end := model.DateOnly(to)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range end before start", model.ErrValidation)
	}

	var result []*model.DaySchedule
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day, err := s.GetByDate(ctx, viewer, d)
		if err != nil {
			return nil, err
		}
		result = append(result, day)
	}

	return result, nil
}

// GetWeek возвращает расписание рабочей недели [понедельник, суббота],
// содержащей дату anchor
func (s *ScheduleService) GetWeek(ctx context.Context, viewer model.Viewer, anchor time.Time) ([]*model.DaySchedule, error) {
	weekStart, weekEnd := model.WeekRange(anchor)
	return s.GetRange(ctx, viewer, weekStart, weekEnd)
}

// GetByDate возвращает расписание одного дня для роли запрашивающего
func (s *ScheduleService) GetByDate(ctx context.Context, viewer model.Viewer, date time.Time) (*model.DaySchedule, error) {
	date = model.DateOnly(date)

	switch viewer.Role {
	case model.RoleStudent:
		return s.studentSchedule(ctx, viewer.UserID, date)
	case model.RoleTeacher:
		return s.teacherSchedule(ctx, viewer.UserID, date)
	case model.RoleAdmin:
		return s.adminSchedule(ctx, date)
	}

	return nil, fmt.Errorf("%w: role %q is not supported", model.ErrValidation, viewer.Role)
}

func (s *ScheduleService) studentSchedule(ctx context.Context, userID int64, date time.Time) (*model.DaySchedule, error) {
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

	day := &model.DaySchedule{Date: date, Items: []model.ScheduleItem{}}

	if student.Plan != nil && student.Plan.RequiresTeacher {
		reservations, err := s.resRepo.ListByStudentAndDate(ctx, student.ID, date)
		if err != nil {
			return nil, err
		}
		for _, res := range reservations {
			day.Items = append(day.Items, reservationToItem(res))
		}
		return day, nil
	}

	entries, err := s.freeRepo.ListByStudentAndDate(ctx, student.ID, date)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		item := freeEntryToItem(entry)
		if item.StudentName == "" {
			item.StudentName = student.FullName()
		}
		day.Items = append(day.Items, item)
	}

	return day, nil
}

func (s *ScheduleService) teacherSchedule(ctx context.Context, userID int64, date time.Time) (*model.DaySchedule, error) {
	reservations, err := s.resRepo.ListByTeacherUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	day := &model.DaySchedule{Date: date, Items: []model.ScheduleItem{}}
	for _, res := range reservations {
		day.Items = append(day.Items, reservationToItem(res))
	}

	return day, nil
}

func (s *ScheduleService) adminSchedule(ctx context.Context, date time.Time) (*model.DaySchedule, error) {
	reservations, err := s.resRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	items := make([]model.ScheduleItem, 0, len(reservations))
	booked := make(map[int64]bool, len(reservations))
	for _, res := range reservations {
		items = append(items, reservationToItem(res))
		booked[res.StudentID] = true
	}

	// Сохранённые дни свободного плана на эту дату
	freeEntries, err := s.freeRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	hasFreeRow := make(map[int64]bool, len(freeEntries))
	for _, entry := range freeEntries {
		items = append(items, freeEntryToItem(entry))
		hasFreeRow[entry.StudentID] = true
	}

	// Студенты свободного плана без записи и без сохранённого дня
	// показываются проекцией их недельного шаблона
	freeStudents, err := s.studentRepo.ListActiveFreePlan(ctx)
	if err != nil {
		return nil, err
	}
	for _, student := range freeStudents {
		if booked[student.ID] || hasFreeRow[student.ID] {
			continue
		}
		items = append(items, buildFreeItemsForDate(student, date)...)
	}

	sortItemsByHour(items)

	return &model.DaySchedule{Date: date, Items: items}, nil
}

// GetFreeDayGrouped возвращает дни свободного плана на дату,
// сгруппированные по часу (админское представление зала)
func (s *ScheduleService) GetFreeDayGrouped(ctx context.Context, date time.Time) (map[string][]*model.FreeScheduleEntry, error) {
	entries, err := s.freeRepo.ListByDate(ctx, model.DateOnly(date))
	if err != nil {
		return nil, err
	}

	byHour := make(map[string][]*model.FreeScheduleEntry)
	for _, entry := range entries {
		byHour[entry.Hour] = append(byHour[entry.Hour], entry)
	}

	return byHour, nil
}
