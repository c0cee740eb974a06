package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core/feedback"
)

const contextObjectKey = "object"

func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if _, err := getContextClaims(ctx); err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if contextHasAnyRole(ctx, roles...) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// feedbackMiddleware loads the `:id` feedback into the context.
func feedbackMiddleware(svc feedback.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			fb, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == feedback.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "getting feedback by ID")
			}
			ctx.Set(contextObjectKey, fb)
			return next(ctx)
		}
	}
}

// authorMiddleware only lets the feedback's grader (or an instructor) through.
func authorMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		fb, ok := ctx.Get(contextObjectKey).(feedback.Feedback)
		if !ok {
			return errors.Wrap(errFeedbackNotFoundInCtx, "retrieving object from context")
		}
		if fb.GraderID == claims.Subject || claims.HasAnyRole(RoleInstructor) {
			return next(ctx)
		}
		return errHttpForbidden
	}
}
