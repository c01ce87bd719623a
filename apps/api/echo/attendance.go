package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa/darasa/core"
	"github.com/darasa/darasa/core/attendance"
)

const attendanceDateLayout = "2006-01-02"

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/classrooms/:id/attendance", jwt)
	ag.POST("", api.mark)
	ag.GET("/monthly/:month", api.monthlySummary)
	ag.GET("/:date", api.retrieveDate)
}

// Handlers

func (api *attendanceApi) mark(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data attendance.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}

	rec, err := api.svc.Mark(ctx.Request().Context(), ctx.Param("id"), callerID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) retrieveDate(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	date, err := time.Parse(attendanceDateLayout, ctx.Param("date"))
	if err != nil {
		return core.NewValidationError(errors.New("invalid date"), core.FieldError{Field: "date", Error: "expected format " + attendanceDateLayout})
	}

	recs, err := api.svc.GetForDate(ctx.Request().Context(), ctx.Param("id"), callerID, date)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *attendanceApi) monthlySummary(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	summary, err := api.svc.MonthlySummary(ctx.Request().Context(), ctx.Param("id"), callerID, ctx.Param("month"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summary)
}
