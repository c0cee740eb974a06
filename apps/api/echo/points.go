package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/points"
)

type (
	ScanRequest struct {
		Text string `json:"text"`
	}

	ScanResponse struct {
		Annotations []points.Annotation `json:"annotations"`
		Totals      points.Totals       `json:"totals"`
	}

	NavigateRequest struct {
		Text      string `json:"text"`
		Cursor    int    `json:"cursor" validate:"gte=0"`
		Direction string `json:"direction"`
	}

	NavigateResponse struct {
		Offset int  `json:"offset"`
		Found  bool `json:"found"`
	}

	ScaleResponse struct {
		Total float64   `json:"total"`
		Scale []float64 `json:"scale"`
	}
)

// maxScaleTotal bounds the scale size.
const maxScaleTotal = 1000

type pointsApi struct {
	validate *validator.Validate
}

func registerPointsAPI(g *echo.Group, validate *validator.Validate) {
	api := pointsApi{validate: validate}

	pg := g.Group("/points")
	pg.POST("/scan", api.scan)
	pg.POST("/navigate", api.navigate)
	pg.GET("/scale", api.scale)
}

func (api *pointsApi) scan(ctx echo.Context) error {
	var data ScanRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScanRequest")
	}

	annotations, err := points.Scan(data.Text)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ScanResponse{Annotations: annotations, Totals: points.Tally(annotations)})
}

func (api *pointsApi) navigate(ctx echo.Context) error {
	var data NavigateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NavigateRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}
	dir, err := points.ParseDirection(data.Direction)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "direction", Error: err.Error()})
	}

	offset, found := points.Navigate(data.Text, data.Cursor, dir)
	return ctx.JSON(http.StatusOK, NavigateResponse{Offset: offset, Found: found})
}

func (api *pointsApi) scale(ctx echo.Context) error {
	raw := ctx.QueryParam("total")
	total, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(total >= 0 && total <= maxScaleTotal) { // also rejects NaN
		return core.NewValidationError(nil, core.FieldError{
			Field: "total",
			Error: "must be a number between 0 and " + strconv.Itoa(maxScaleTotal),
		})
	}
	return ctx.JSON(http.StatusOK, ScaleResponse{Total: total, Scale: points.DefaultScale(total)})
}
