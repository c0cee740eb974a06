package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/feedback"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context, allowed ...string) {
	ord.Orderings = core.ParseOrdering(ctx.QueryParam(orderingParam), allowed...)
}

// bindFeedbackFilter reads `?submission=&grader=&released=`.
func bindFeedbackFilter(ctx echo.Context) (*feedback.QueryFilter, error) {
	filter := &feedback.QueryFilter{
		SubmissionID: ctx.QueryParam("submission"),
		GraderID:     ctx.QueryParam("grader"),
	}
	if raw := ctx.QueryParam("released"); raw != "" {
		released, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, core.NewValidationError(nil, core.FieldError{Field: "released", Error: "must be a boolean"})
		}
		filter.Released = &released
	}
	filter.Clean()
	return filter, nil
}
