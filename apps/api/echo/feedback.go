package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/feedback"
)

var errFeedbackNotFoundInCtx = errors.New("feedback object not found in echo.Context")

type CheckRequest struct {
	Text       string   `json:"feedback_text"`
	PointValue *float64 `json:"point_value" validate:"omitempty,gte=0,lte=1000"`
}

type feedbackApi struct {
	svc      feedback.Service
	validate *validator.Validate
	grading  core.GradingConfig
}

func registerFeedbackAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc feedback.Service,
	validate *validator.Validate,
	grading core.GradingConfig,
) {
	api := feedbackApi{
		svc:      svc,
		validate: validate,
		grading:  grading,
	}

	fg := g.Group("/feedback", jwt, roleMiddleware(RoleGrader, RoleInstructor))
	fg.POST("", api.create, roleMiddleware(RoleGrader))
	fg.GET("", api.query)
	fg.POST("/check", api.check)

	// detail endpoints
	dg := fg.Group("/:id", feedbackMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, roleMiddleware(RoleGrader), authorMiddleware)
	dg.DELETE("", api.destroy, roleMiddleware(RoleGrader), authorMiddleware)
}

// Handlers

func (api *feedbackApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data feedback.NewFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}
	// feedback is always authored by the token's grader
	data.GraderID = claims.Subject
	data.GraderEmail = claims.Email
	if err := data.Validate(api.validate, api.grading); err != nil {
		return err
	}

	fb, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating feedback")
	}
	return ctx.JSON(http.StatusCreated, fb)
}

func (api *feedbackApi) query(ctx echo.Context) error {
	filter, err := bindFeedbackFilter(ctx)
	if err != nil {
		return err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx, feedback.OrderingFields...)

	fbs, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying feedback")
	}
	if fbs == nil {
		fbs = []feedback.Feedback{}
	}
	return ctx.JSON(http.StatusOK, fbs)
}

func (api *feedbackApi) check(ctx echo.Context) error {
	var data CheckRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CheckRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	a, err := api.svc.Check(data.Text, data.PointValue)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *feedbackApi) retrieve(ctx echo.Context) error {
	fb, ok := ctx.Get(contextObjectKey).(feedback.Feedback)
	if !ok {
		return errors.Wrap(errFeedbackNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, fb)
}

func (api *feedbackApi) update(ctx echo.Context) error {
	fb, ok := ctx.Get(contextObjectKey).(feedback.Feedback)
	if !ok {
		return errors.Wrap(errFeedbackNotFoundInCtx, "retrieving object from context")
	}

	var data feedback.UpdateFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateFeedback")
	}
	if err := data.Validate(api.validate, api.grading); err != nil {
		return err
	}

	fb, err := api.svc.Update(ctx.Request().Context(), fb.ID, data)
	if err != nil {
		if errors.Cause(err) == feedback.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating feedback")
	}
	return ctx.JSON(http.StatusOK, fb)
}

func (api *feedbackApi) destroy(ctx echo.Context) error {
	fb, ok := ctx.Get(contextObjectKey).(feedback.Feedback)
	if !ok {
		return errors.Wrap(errFeedbackNotFoundInCtx, "retrieving object from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), fb.ID); err != nil {
		return errors.Wrap(err, "deleting feedback")
	}
	return ctx.NoContent(http.StatusNoContent)
}
