package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/school"
	"github.com/trezcool/mahudhurio/core/timetable"
)

type attendanceApi struct {
	svc       *attendance.Service
	schoolSvc *school.Service
	ttSvc     *timetable.Service
	validate  *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service, schoolSvc *school.Service, ttSvc *timetable.Service, validate *validator.Validate) {
	api := attendanceApi{svc: svc, schoolSvc: schoolSvc, ttSvc: ttSvc, validate: validate}

	ag := g.Group("/attendance", jwt)

	ag.POST("", api.mark, teacherMiddleware())
	ag.GET("/sections/:id", api.sectionAttendance, adminOrTeacherMiddleware())
	ag.GET("/slots/:id", api.bySlot, adminOrTeacherMiddleware())
	ag.PUT("/:id", api.correct, teacherMiddleware())
}

// Handlers

// mark takes a section's attendance for one slot: the submitted IDs are
// marked present, the rest of the roster absent. Teachers may only mark the
// section they are bound to.
func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.MarkRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if claims.SectionID != data.SectionID {
		return errHttpForbidden
	}

	written, err := api.svc.Mark(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, MarkResponse{Written: written})
}

func (api *attendanceApi) sectionAttendance(ctx echo.Context) error {
	sectionID := ctx.Param("id")

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !claims.IsAdmin && claims.SectionID != sectionID {
		return errHttpForbidden
	}

	date, err := time.Parse(attendance.DateLayout, ctx.QueryParam("date"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "date must be a valid date (YYYY-MM-DD)"})
	}

	byStudent, err := api.svc.SectionAttendance(ctx.Request().Context(), sectionID, date)
	if err != nil {
		return errors.Wrap(err, "querying section attendance")
	}
	return ctx.JSON(http.StatusOK, SectionAttendanceResponse{
		Attendance: byStudent,
		Count:      len(byStudent),
	})
}

// bySlot reports a slot's ledger rows across dates: admins see any slot,
// teachers only slots of the timetable bound to their own section.
func (api *attendanceApi) bySlot(ctx echo.Context) error {
	slotID := ctx.Param("id")
	reqCtx := ctx.Request().Context()

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !claims.IsAdmin {
		slot, err := api.ttSvc.GetSlot(reqCtx, slotID)
		if err != nil {
			return err
		}
		tt, err := api.ttSvc.Get(reqCtx, slot.TimetableID)
		if err != nil {
			return errors.Wrap(err, "resolving slot timetable")
		}
		if tt.SectionID != claims.SectionID {
			return errHttpForbidden
		}
	}

	rows, err := api.svc.BySlot(reqCtx, slotID)
	if err != nil {
		return errors.Wrap(err, "querying slot attendance")
	}
	if rows == nil {
		rows = []attendance.Attendance{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

// correct flips one existing row's status in place. Teachers may only touch
// rows of students on their own section's roster.
func (api *attendanceApi) correct(ctx echo.Context) error {
	var data attendance.CorrectRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CorrectRequest")
	}
	reqCtx := ctx.Request().Context()

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	row, err := api.svc.Get(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}
	sectionID, err := api.schoolSvc.StudentSection(reqCtx, row.StudentID)
	if err != nil {
		return errors.Wrap(err, "resolving student section")
	}
	if sectionID != claims.SectionID {
		return errHttpForbidden
	}

	row, err = api.svc.Correct(reqCtx, row.ID, data.Present)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, row)
}

type (
	MarkResponse struct {
		Written int `json:"written"`
	}

	SectionAttendanceResponse struct {
		Attendance map[string]attendance.Attendance `json:"attendance"`
		Count      int                              `json:"count"`
	}
)
