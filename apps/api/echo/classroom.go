package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa/darasa/core"
	"github.com/darasa/darasa/core/classroom"
)

type classroomApi struct {
	svc *classroom.Service
}

func registerClassroomAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *classroom.Service) {
	api := classroomApi{svc: svc}

	cg := g.Group("/classrooms", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.POST("/join", api.join)

	dg := cg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/leave", api.leave)
	dg.PUT("/members/:userID/role", api.setMemberRole)
	dg.DELETE("/members/:userID", api.removeMember)
}

// Handlers

func (api *classroomApi) create(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data classroom.NewClassroom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassroom")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	room, err := api.svc.Create(ctx.Request().Context(), callerID, data)
	if err != nil {
		return errors.Wrap(err, "creating classroom")
	}
	return ctx.JSON(http.StatusCreated, room)
}

func (api *classroomApi) query(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	rooms, err := api.svc.QueryByMember(ctx.Request().Context(), callerID)
	if err != nil {
		return errors.Wrap(err, "querying classrooms")
	}
	return ctx.JSON(http.StatusOK, rooms)
}

func (api *classroomApi) retrieve(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	room, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"), callerID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, room)
}

func (api *classroomApi) update(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data classroom.UpdateClassroom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClassroom")
	}

	room, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), callerID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, room)
}

func (api *classroomApi) destroy(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), callerID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

type joinRequest struct {
	JoinLink string `json:"join_link" validate:"required"`
}

func (r *joinRequest) Validate() error {
	r.JoinLink = core.CleanString(r.JoinLink)
	return core.Validate.Struct(r)
}

func (api *classroomApi) join(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data joinRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to joinRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	room, err := api.svc.Join(ctx.Request().Context(), data.JoinLink, callerID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, room)
}

func (api *classroomApi) leave(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Leave(ctx.Request().Context(), ctx.Param("id"), callerID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

type memberRoleRequest struct {
	Elevated bool `json:"elevated"`
}

func (api *classroomApi) setMemberRole(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data memberRoleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to memberRoleRequest")
	}

	room, err := api.svc.SetMemberRole(ctx.Request().Context(), ctx.Param("id"), callerID, ctx.Param("userID"), data.Elevated)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, room)
}

func (api *classroomApi) removeMember(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	room, err := api.svc.RemoveMember(ctx.Request().Context(), ctx.Param("id"), callerID, ctx.Param("userID"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, room)
}
