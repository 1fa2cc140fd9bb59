package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Server HTTP-сервер поверх echo. Владеет роутингом и жизненным циклом.
type Server struct {
	echo   *echo.Echo
	logger *zap.Logger
	addr   string
}

func NewServer(addr string, handler *Handler, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = newHTTPErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogMethod:  true,
		LogURI:     true,
		LogLatency: true,
		LogValuesFunc: func(ctx echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("Request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	registerRoutes(e, handler)

	return &Server{echo: e, logger: logger, addr: addr}
}

func registerRoutes(e *echo.Echo, h *Handler) {
	e.GET("/healthz", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	bookings := e.Group("/bookings")
	bookings.POST("", h.BookDay)
	bookings.POST("/plan-week", h.PlanWeek)
	bookings.POST("/:id/attended", h.MarkAttended)
	bookings.POST("/:id/absent", h.MarkAbsent)

	free := e.Group("/free-schedules")
	free.POST("/replace-week", h.ReplaceFreeWeek)
	free.POST("/day", h.SaveFreeDay)

	attendance := e.Group("/attendance")
	attendance.POST("/tokens", h.IssueToken)
	attendance.POST("/redeem", h.RedeemToken)

	schedule := e.Group("/schedule")
	schedule.GET("", h.GetSchedule)
	schedule.GET("/week-image", h.GetWeekImage)
	schedule.GET("/free-day", h.GetFreeDayGrouped)

	slots := e.Group("/schedule-slots")
	slots.GET("", h.ListSlots)
	slots.GET("/find", h.FindSlot)
	slots.POST("/:id/claim", h.ClaimSlotSeat)
	slots.POST("/:id/deactivate", h.DeactivateSlot)

	students := e.Group("/students")
	students.POST("", h.AdmitStudent)
	students.GET("/me", h.GetOwnStudent)
	students.GET("/:id", h.GetStudent)
	students.POST("/:id/deactivate", h.DeactivateStudent)
	students.POST("/:id/reactivate", h.ReactivateStudent)

	teachers := e.Group("/teachers")
	teachers.POST("", h.OnboardTeacher)
	teachers.GET("/:id", h.GetTeacher)
	teachers.POST("/:id/slots", h.RegenerateSlots)
}

// Start блокирует до ошибки сервера
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.addr))
	return s.echo.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}
