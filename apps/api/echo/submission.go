package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa/darasa/core/submission"
)

type submissionApi struct {
	svc *submission.Service
}

func registerSubmissionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *submission.Service) {
	api := submissionApi{svc: svc}

	ag := g.Group("/assignments/:id", jwt)
	ag.POST("/submissions", api.submit)
	ag.GET("/submissions", api.query)
	ag.GET("/submissions/me", api.retrieveOwn)
	ag.POST("/evaluate-all", api.evaluateAll)
}

// Handlers

func (api *submissionApi) submit(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data submission.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}

	sub, err := api.svc.Submit(ctx.Request().Context(), ctx.Param("id"), callerID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *submissionApi) query(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	subs, err := api.svc.QueryByAssignment(ctx.Request().Context(), ctx.Param("id"), callerID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *submissionApi) retrieveOwn(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	sub, err := api.svc.GetOwn(ctx.Request().Context(), ctx.Param("id"), callerID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *submissionApi) evaluateAll(ctx echo.Context) error {
	callerID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	res, err := api.svc.EvaluateAll(ctx.Request().Context(), ctx.Param("id"), callerID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}
