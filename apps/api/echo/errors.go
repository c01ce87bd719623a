package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/darasa/darasa/core"
	"github.com/darasa/darasa/core/assignment"
	"github.com/darasa/darasa/core/attendance"
	"github.com/darasa/darasa/core/classroom"
	"github.com/darasa/darasa/core/submission"
	"github.com/darasa/darasa/core/user"
)

var errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			code, message = statusForDomainError(origErr)
			if code != http.StatusInternalServerError {
				break
			}

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID = claims.Subject
				usr.Name = claims.Name
				usr.Email = claims.Email
			}
			logger.Error(message.(string), errors.Wrap(err, message.(string)), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// statusForDomainError maps domain sentinels to HTTP statuses; anything
// unrecognized is a server error.
func statusForDomainError(err error) (int, interface{}) {
	switch err {
	case classroom.ErrPermissionDenied,
		classroom.ErrAdminCannotLeave,
		classroom.ErrInvalidTarget,
		classroom.ErrNotMember:
		return http.StatusForbidden, err.Error()
	case user.ErrNotFound,
		classroom.ErrNotFound,
		assignment.ErrNotFound,
		submission.ErrNotFound,
		attendance.ErrNotFound:
		return http.StatusNotFound, err.Error()
	case classroom.ErrAlreadyMember,
		submission.ErrAlreadySubmitted,
		attendance.ErrAlreadyMarked:
		return http.StatusConflict, err.Error()
	case submission.ErrDeadlinePassed,
		attendance.ErrFutureDate:
		return http.StatusUnprocessableEntity, err.Error()
	case submission.ErrGraderUnavailable:
		return http.StatusBadGateway, err.Error()
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
