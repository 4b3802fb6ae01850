package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/timetable"
)

type timetableApi struct {
	svc      *timetable.Service
	validate *validator.Validate
}

func registerTimetableAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *timetable.Service, validate *validator.Validate) {
	api := timetableApi{svc: svc, validate: validate}

	tg := g.Group("/timetables", jwt)

	tg.POST("", api.create, adminMiddleware())
	tg.GET("/sections/:id", api.queryBySection, adminOrTeacherMiddleware())
	tg.POST("/:id/slots", api.addSlot, adminMiddleware())
	tg.GET("/:id/slots", api.listSlots, adminOrTeacherMiddleware())
	tg.DELETE("/slots/:id", api.removeSlot, adminMiddleware())
}

// Handlers

func (api *timetableApi) create(ctx echo.Context) error {
	var data timetable.NewTimetable
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTimetable")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	tt, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, tt)
}

func (api *timetableApi) queryBySection(ctx echo.Context) error {
	tts, err := api.svc.QueryBySection(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying timetables")
	}
	if tts == nil {
		tts = []timetable.Timetable{}
	}
	return ctx.JSON(http.StatusOK, tts)
}

func (api *timetableApi) addSlot(ctx echo.Context) error {
	var data timetable.NewSlot
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSlot")
	}
	data.TimetableID = ctx.Param("id")
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	slot, err := api.svc.AddSlot(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, slot)
}

func (api *timetableApi) listSlots(ctx echo.Context) error {
	slots, err := api.svc.ListSlots(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing slots")
	}
	if slots == nil {
		slots = []timetable.Slot{}
	}
	return ctx.JSON(http.StatusOK, slots)
}

func (api *timetableApi) removeSlot(ctx echo.Context) error {
	if err := api.svc.RemoveSlot(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "removing slot")
	}
	return ctx.NoContent(http.StatusNoContent)
}
