package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/classdesk/scheduler/internal/model"
	"github.com/classdesk/scheduler/internal/repository"
)

// AttendanceService выдаёт и погашает одноразовые токены посещения
type AttendanceService struct {
	pool      *pgxpool.Pool
	tokenRepo *repository.AttendanceTokenRepository
	resRepo   *repository.ReservationRepository
	freeRepo  *repository.FreeScheduleRepository
	logger    *zap.Logger
	ttl       time.Duration
}

func NewAttendanceService(
	pool *pgxpool.Pool,
	tokenRepo *repository.AttendanceTokenRepository,
	resRepo *repository.ReservationRepository,
	freeRepo *repository.FreeScheduleRepository,
	logger *zap.Logger,
	ttl time.Duration,
) *AttendanceService {
	return &AttendanceService{
		pool:      pool,
		tokenRepo: tokenRepo,
		resRepo:   resRepo,
		freeRepo:  freeRepo,
		logger:    logger,
		ttl:       ttl,
	}
}

// Issue выдаёт токен для записи или дня свободного плана. На одну
// запись может существовать несколько живых токенов — погасить удастся
// только один из них.
func (s *AttendanceService) Issue(ctx context.Context, ref model.TokenReference, date time.Time) (string, error) {
	if err := s.checkReference(ctx, ref); err != nil {
		return "", err
	}

	token := &model.AttendanceToken{
		Reference: ref,
		Date:      model.DateOnly(date),
		Token:     uuid.NewString(),
	}

	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return "", err
	}

	s.logger.Info("Attendance token issued",
		zap.Int64("token_id", token.ID),
		zap.String("reference_type", string(ref.Kind)),
		zap.Int64("reference_id", ref.ID),
		zap.String("date", token.Date.Format(model.DateLayout)),
	)

	return token.Token, nil
}

// Redeem погашает токен. Пометка used и эффект на привязанную сущность
// (перевод записи в ATTENDED либо удаление дня свободного плана)
// применяются одной транзакцией.
func (s *AttendanceService) Redeem(ctx context.Context, token string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tokenRepo := s.tokenRepo.WithTx(tx)
	resRepo := s.resRepo.WithTx(tx)
	freeRepo := s.freeRepo.WithTx(tx)

	record, err := tokenRepo.GetByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}
	if record == nil {
		return model.ErrInvalidToken
	}
	if record.Used {
		return model.ErrTokenAlreadyUsed
	}
	if record.IsExpired(time.Now(), s.ttl) {
		return model.ErrTokenExpired
	}

	switch record.Reference.Kind {
	case model.ReferenceReservation:
		if err := resRepo.UpdateStatus(ctx, record.Reference.ID, model.StatusAttended); err != nil {
			return err
		}
	case model.ReferenceFree:
		// Для свободного плана посещение удаляет сам день
		if err := freeRepo.DeleteByID(ctx, record.Reference.ID); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown reference type %q", model.ErrInvalidToken, record.Reference.Kind)
	}

	// Условный апдейт used = false гарантирует одного победителя
	// при конкурентном погашении
	if err := tokenRepo.MarkUsed(ctx, record.ID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Attendance token redeemed",
		zap.Int64("token_id", record.ID),
		zap.String("reference_type", string(record.Reference.Kind)),
		zap.Int64("reference_id", record.Reference.ID),
	)

	return nil
}

func (s *AttendanceService) checkReference(ctx context.Context, ref model.TokenReference) error {
	switch ref.Kind {
	case model.ReferenceReservation:
		res, err := s.resRepo.GetByID(ctx, ref.ID)
		if err != nil {
			return fmt.Errorf("get reservation: %w", err)
		}
		if res == nil {
			return model.ErrReservationNotFound
		}
	case model.ReferenceFree:
		entry, err := s.freeRepo.GetByID(ctx, ref.ID)
		if err != nil {
			return fmt.Errorf("get free entry: %w", err)
		}
		if entry == nil {
			return model.ErrFreeEntryNotFound
		}
	default:
		return fmt.Errorf("%w: unknown reference type %q", model.ErrValidation, ref.Kind)
	}
	return nil
}
