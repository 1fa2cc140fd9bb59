package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/classdesk/scheduler/internal/repository"
)

// Sweeper управляет фоновыми задачами обслуживания
type Sweeper struct {
	tokenRepo *repository.AttendanceTokenRepository
	tokenTTL  time.Duration
	logger    *zap.Logger
	stopChan  chan struct{}
}

// NewSweeper создаёт новый фоновый обходчик
func NewSweeper(tokenRepo *repository.AttendanceTokenRepository, tokenTTL time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		tokenRepo: tokenRepo,
		tokenTTL:  tokenTTL,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting background sweeper")

	go s.runTokenAuditTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Sweeper) Stop() {
	s.logger.Info("Stopping background sweeper")
	close(s.stopChan)
}

// runTokenAuditTask периодически логирует размер журнала токенов.
// Токены хранятся бессрочно: погашенный или просроченный токен остаётся
// в базе, иначе повторное погашение нельзя отличить от несуществующего
// токена. Задача только наблюдает за ростом журнала.
func (s *Sweeper) runTokenAuditTask(ctx context.Context) {
	// Первый замер сразу при старте
	s.auditTokens(ctx)

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.auditTokens(ctx)
		case <-s.stopChan:
			s.logger.Info("Token audit task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Token audit task cancelled")
			return
		}
	}
}

// auditTokens считает отработавшие токены, ничего не удаляя
func (s *Sweeper) auditTokens(ctx context.Context) {
	cutoff := time.Now().Add(-s.tokenTTL)

	stale, err := s.tokenRepo.CountStale(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to audit attendance tokens", zap.Error(err))
		return
	}

	if stale > 0 {
		s.logger.Info("Attendance token journal", zap.Int64("stale", stale))
	}
}
