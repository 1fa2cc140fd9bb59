package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/classdesk/scheduler/internal/controller/weekimage"
	"github.com/classdesk/scheduler/internal/model"
	"github.com/classdesk/scheduler/internal/service"
)

// Handler тонкие HTTP-обработчики над сервисами
type Handler struct {
	planner    *service.PlannerService
	attendance *service.AttendanceService
	schedule   *service.ScheduleService
	slots      *service.SlotService
	students   *service.StudentService
	teachers   *service.TeacherService
}

func NewHandler(
	planner *service.PlannerService,
	attendance *service.AttendanceService,
	schedule *service.ScheduleService,
	slots *service.SlotService,
	students *service.StudentService,
	teachers *service.TeacherService,
) *Handler {
	return &Handler{
		planner:    planner,
		attendance: attendance,
		schedule:   schedule,
		slots:      slots,
		students:   students,
		teachers:   teachers,
	}
}

// viewerFromRequest извлекает контекст запрашивающего из заголовков.
// Аутентификация живёт выше по стеку; сюда приходит уже проверенная
// пара (пользователь, роль).
func viewerFromRequest(ctx echo.Context) (model.Viewer, error) {
	rawID := ctx.Request().Header.Get("X-User-Id")
	rawRole := ctx.Request().Header.Get("X-User-Role")

	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || userID <= 0 {
		return model.Viewer{}, fmt.Errorf("%w: missing or bad X-User-Id", model.ErrValidation)
	}

	role := model.ViewerRole(rawRole)
	switch role {
	case model.RoleStudent, model.RoleTeacher, model.RoleAdmin:
	default:
		return model.Viewer{}, fmt.Errorf("%w: missing or bad X-User-Role", model.ErrValidation)
	}

	return model.Viewer{UserID: userID, Role: role}, nil
}

// PlanWeek POST /bookings/plan-week
func (h *Handler) PlanWeek(ctx echo.Context) error {
	viewer, err := viewerFromRequest(ctx)
	if err != nil {
		return err
	}

	var req planWeekRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	weekStart, err := parseDate(req.WeekStart)
	if err != nil {
		return err
	}

	days, err := parseWeekDays(req.Days)
	if err != nil {
		return err
	}

	// Пустой набор дней отдельная операция очистки недели
	var summary *model.WeekPlanSummary
	if len(days) == 0 {
		summary, err = h.planner.ClearWeek(ctx.Request().Context(), viewer.UserID, weekStart)
	} else {
		summary, err = h.planner.PlanWeek(ctx.Request().Context(), viewer.UserID, weekStart, days)
	}
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, summary)
}

// ReplaceFreeWeek POST /free-schedules/replace-week
func (h *Handler) ReplaceFreeWeek(ctx echo.Context) error {
	viewer, err := viewerFromRequest(ctx)
	if err != nil {
		return err
	}

	var req replaceFreeWeekRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	weekStart, err := parseDate(req.WeekStart)
	if err != nil {
		return err
	}

	days := make([]model.DateHour, 0, len(req.Days))
	for _, d := range req.Days {
		date, err := parseDate(d.Date)
		if err != nil {
			return err
		}
		days = append(days, model.DateHour{Date: date, Hour: d.Hour})
	}

	action, err := h.planner.ReplaceFreeWeek(ctx.Request().Context(), viewer.UserID, weekStart, days)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{"ok": true, "action": action})
}

// SaveFreeDay POST /free-schedules/day
func (h *Handler) SaveFreeDay(ctx echo.Context) error {
	viewer, err := viewerFromRequest(ctx)
	if err != nil {
		return err
	}

	var req saveFreeDayRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	action, err := h.planner.SaveFreeDay(ctx.Request().Context(), viewer.UserID, date, req.Hour)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{"ok": true, "action": action})
}

// BookDay POST /bookings
func (h *Handler) BookDay(ctx echo.Context) error {
	var req bookDayRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	res, err := h.planner.BookDay(ctx.Request().Context(), req.StudentID, req.SlotID, date)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, res)
}

// MarkAttended POST /bookings/:id/attended
func (h *Handler) MarkAttended(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := h.planner.MarkAttended(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}

// MarkAbsent POST /bookings/:id/absent
func (h *Handler) MarkAbsent(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := h.planner.MarkAbsent(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}

// IssueToken POST /attendance/tokens
func (h *Handler) IssueToken(ctx echo.Context) error {
	var req issueTokenRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	var ref model.TokenReference
	if req.ReferenceType == string(model.ReferenceReservation) {
		ref = model.ReservationRef(req.ReferenceID)
	} else {
		ref = model.FreeEntryRef(req.ReferenceID)
	}

	token, err := h.attendance.Issue(ctx.Request().Context(), ref, date)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, echo.Map{"token": token})
}

// RedeemToken POST /attendance/redeem
func (h *Handler) RedeemToken(ctx echo.Context) error {
	var req redeemTokenRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	if err := h.attendance.Redeem(ctx.Request().Context(), req.Token); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}

// GetSchedule GET /schedule?date=...|from=...&to=...
func (h *Handler) GetSchedule(ctx echo.Context) error {
	viewer, err := viewerFromRequest(ctx)
	if err != nil {
		return err
	}

	rawDate := ctx.QueryParam("date")
	rawFrom := ctx.QueryParam("from")
	rawTo := ctx.QueryParam("to")

	if rawDate != "" {
		date, err := parseDate(rawDate)
		if err != nil {
			return err
		}
		day, err := h.schedule.GetByDate(ctx.Request().Context(), viewer, date)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, day)
	}

	if rawFrom != "" && rawTo != "" {
		from, err := parseDate(rawFrom)
		if err != nil {
			return err
		}
		to, err := parseDate(rawTo)
		if err != nil {
			return err
		}
		days, err := h.schedule.GetRange(ctx.Request().Context(), viewer, from, to)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, days)
	}

	return fmt.Errorf("%w: provide date or from/to", model.ErrValidation)
}

// GetWeekImage GET /schedule/week-image?date=...
func (h *Handler) GetWeekImage(ctx echo.Context) error {
	viewer, err := viewerFromRequest(ctx)
	if err != nil {
		return err
	}

	anchor, err := parseDate(ctx.QueryParam("date"))
	if err != nil {
		return err
	}

	days, err := h.schedule.GetWeek(ctx.Request().Context(), viewer, anchor)
	if err != nil {
		return err
	}

	png, err := weekimage.Render(model.WeekStart(anchor), days)
	if err != nil {
		return err
	}

	return ctx.Blob(http.StatusOK, "image/png", png)
}

// GetFreeDayGrouped GET /schedule/free-day?date=...
func (h *Handler) GetFreeDayGrouped(ctx echo.Context) error {
	viewer, err := viewerFromRequest(ctx)
	if err != nil {
		return err
	}
	if viewer.Role != model.RoleAdmin {
		return fmt.Errorf("%w: admin only", model.ErrForbidden)
	}

	date, err := parseDate(ctx.QueryParam("date"))
	if err != nil {
		return err
	}

	grouped, err := h.schedule.GetFreeDayGrouped(ctx.Request().Context(), date)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, grouped)
}

// ListSlots GET /schedule-slots
func (h *Handler) ListSlots(ctx echo.Context) error {
	slots, err := h.slots.List(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, slots)
}

// FindSlot GET /schedule-slots/find?teacherId=...&hour=...
func (h *Handler) FindSlot(ctx echo.Context) error {
	teacherID, err := strconv.ParseInt(ctx.QueryParam("teacherId"), 10, 64)
	if err != nil || teacherID <= 0 {
		return fmt.Errorf("%w: bad teacherId", model.ErrValidation)
	}

	hour := ctx.QueryParam("hour")
	if hour == "" {
		return fmt.Errorf("%w: hour is required", model.ErrValidation)
	}

	slot, err := h.slots.FindByTeacherAndHour(ctx.Request().Context(), teacherID, hour)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, slot)
}

// RegenerateSlots POST /teachers/:id/slots
func (h *Handler) RegenerateSlots(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	created, err := h.slots.CreateSlotsForTeacher(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{"created": created})
}

// ClaimSlotSeat POST /schedule-slots/:id/claim
func (h *Handler) ClaimSlotSeat(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := h.slots.IncrementCapacityUsage(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}

// DeactivateSlot POST /schedule-slots/:id/deactivate
func (h *Handler) DeactivateSlot(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := h.slots.Deactivate(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}

// AdmitStudent POST /students
func (h *Handler) AdmitStudent(ctx echo.Context) error {
	var req admitStudentRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	weekDays, err := parseWeekDays(req.WeekDays)
	if err != nil {
		return err
	}

	student, err := h.students.AdmitStudent(ctx.Request().Context(), service.AdmitStudentInput{
		UserID:    req.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		PlanID:    req.PlanID,
		TeacherID: req.TeacherID,
		Turn:      model.TeacherTurn(req.Turn),
		WeekDays:  weekDays,
		FixedHour: req.FixedHour,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, student)
}

// GetOwnStudent GET /students/me
func (h *Handler) GetOwnStudent(ctx echo.Context) error {
	viewer, err := viewerFromRequest(ctx)
	if err != nil {
		return err
	}

	student, err := h.students.GetByUserID(ctx.Request().Context(), viewer.UserID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, student)
}

// GetStudent GET /students/:id
func (h *Handler) GetStudent(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	student, err := h.students.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, student)
}

// GetTeacher GET /teachers/:id
func (h *Handler) GetTeacher(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	teacher, err := h.teachers.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, teacher)
}

// DeactivateStudent POST /students/:id/deactivate
func (h *Handler) DeactivateStudent(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := h.students.Deactivate(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}

// ReactivateStudent POST /students/:id/reactivate
func (h *Handler) ReactivateStudent(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := h.students.Reactivate(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}

// OnboardTeacher POST /teachers
func (h *Handler) OnboardTeacher(ctx echo.Context) error {
	var req onboardTeacherRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	teacher, err := h.teachers.OnboardTeacher(ctx.Request().Context(), service.OnboardTeacherInput{
		UserID:    req.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Turn:      model.TeacherTurn(req.Turn),
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, teacher)
}

func pathID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad id %q", model.ErrValidation, ctx.Param("id"))
	}
	return id, nil
}
