package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa/darasa/core/assignment"
)

type assignmentApi struct {
	svc *assignment.Service
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *assignment.Service) {
	api := assignmentApi{svc: svc}

	cg := g.Group("/classrooms/:id/assignments", jwt)
	cg.POST("", api.create)
	cg.GET("", api.query)

	ag := g.Group("/assignments/:id", jwt)
	ag.GET("", api.retrieve)
	ag.PUT("", api.update)
}

// Handlers

func (api *assignmentApi) create(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	asg, err := api.svc.Create(ctx.Request().Context(), ctx.Param("id"), callerID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *assignmentApi) query(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	asgs, err := api.svc.QueryByClassroom(ctx.Request().Context(), ctx.Param("id"), callerID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, asgs)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	asg, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"), callerID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data assignment.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}

	asg, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), callerID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, asg)
}
