package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/classdesk/scheduler/internal/app"
	"github.com/classdesk/scheduler/internal/config"
	"github.com/classdesk/scheduler/internal/controller/httpapi"
	"github.com/classdesk/scheduler/internal/repository"
	"github.com/classdesk/scheduler/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	studentRepo := repository.NewStudentRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)
	planRepo := repository.NewPlanRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	resRepo := repository.NewReservationRepository(pool)
	freeRepo := repository.NewFreeScheduleRepository(pool)
	tokenRepo := repository.NewAttendanceTokenRepository(pool)

	plannerService := service.NewPlannerService(pool, studentRepo, slotRepo, resRepo, freeRepo, logger)
	attendanceService := service.NewAttendanceService(pool, tokenRepo, resRepo, freeRepo, logger, cfg.TokenTTL)
	scheduleService := service.NewScheduleService(studentRepo, resRepo, freeRepo, logger)
	slotService := service.NewSlotService(cfg, slotRepo, teacherRepo, logger)
	studentService := service.NewStudentService(pool, studentRepo, teacherRepo, planRepo, slotRepo, resRepo, freeRepo, logger)
	teacherService := service.NewTeacherService(cfg, pool, teacherRepo, slotRepo, logger)

	sweeper := app.NewSweeper(tokenRepo, cfg.TokenTTL, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	handler := httpapi.NewHandler(
		plannerService,
		attendanceService,
		scheduleService,
		slotService,
		studentService,
		teacherService,
	)
	server := httpapi.NewServer(cfg.HTTPAddr, handler, logger)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}
