package feedback

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/points"
)

var errGradesDisagree = errors.New("Grade (percent) and Grade (points) disagree")

// Feedback is a grader's free-form feedback on a submission, holding points specs.
type Feedback struct {
	ID               string    `json:"id"`
	SubmissionID     string    `json:"submission_id"`
	GraderID         string    `json:"grader_id"`
	GraderEmail      string    `json:"grader_email,omitempty"`
	PointValue       *float64  `json:"point_value"`
	GradePercent     *float64  `json:"grade_percent"` // cleaned percent
	GradePoints      *float64  `json:"grade_points"`
	Text             string    `json:"feedback_text"`
	Notes            string    `json:"notes"`
	Released         bool      `json:"released"`
	ParticipantEmail string    `json:"participant_email,omitempty"`
	InstructorEmail  string    `json:"instructor_email,omitempty"`
	CreatedAt        time.Time `json:"created_at"` // UTC
	UpdatedAt        time.Time `json:"updated_at"` // UTC

	Totals *points.Totals `json:"totals,omitempty"`
}

// Form holds the fields a grader fills in, for both creation and modification.
type Form struct {
	PointValue       *float64 `json:"point_value" validate:"omitempty,gte=0"`
	GradePercent     *float64 `json:"grade_percent" validate:"omitempty,gte=0"`
	GradePoints      *float64 `json:"grade_points" validate:"omitempty,gte=0"`
	Text             string   `json:"feedback_text"`
	Notes            string   `json:"notes"`
	Released         bool     `json:"released"`
	Notify           bool     `json:"notify"`
	MayReply         bool     `json:"may_reply"`
	NotifyInstructor bool     `json:"notify_instructor"`
	ParticipantEmail string   `json:"participant_email" validate:"omitempty,email"`
	InstructorEmail  string   `json:"instructor_email" validate:"omitempty,email"`
}

// NewFeedback contains information needed to create a new Feedback.
type NewFeedback struct {
	SubmissionID string `json:"submission_id" validate:"required,notblank"`
	GraderID     string `json:"grader_id" validate:"required"`
	GraderEmail  string `json:"grader_email" validate:"omitempty,email"`
	Form
}

func (nf *NewFeedback) Validate(validate *validator.Validate, conf core.GradingConfig) error {
	nf.SubmissionID = core.CleanString(nf.SubmissionID)
	if err := nf.Form.clean(); err != nil {
		return err
	}
	if err := validate.Struct(nf); err != nil {
		return err
	}
	return nf.Form.checkAgreement(conf.AgreementTolerance)
}

// UpdateFeedback defines what information may be provided to modify an existing Feedback.
// Every editable field is replaced.
type UpdateFeedback struct {
	Form
}

func (uf *UpdateFeedback) Validate(validate *validator.Validate, conf core.GradingConfig) error {
	if err := uf.Form.clean(); err != nil {
		return err
	}
	if err := validate.Struct(uf); err != nil {
		return err
	}
	return uf.Form.checkAgreement(conf.AgreementTolerance)
}

// absorbs the float noise of summing decimal max points.
const maxPointsEpsilon = 1e-9

func roundPoints(f float64) float64 { return math.Round(f*1e9) / 1e9 }

// clean scans the feedback text and fills grade_points from its points specs when no grade was given.
func (f *Form) clean() error {
	f.Text = core.CleanString(f.Text)
	f.Notes = core.CleanString(f.Notes)
	f.ParticipantEmail = core.CleanString(f.ParticipantEmail, true /* lower */)
	f.InstructorEmail = core.CleanString(f.InstructorEmail, true /* lower */)

	annotations, err := points.Scan(f.Text)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "feedback_text", Error: err.Error()})
	}
	totals := points.Tally(annotations)

	if f.PointValue != nil && totals.MaxPoints > *f.PointValue+maxPointsEpsilon {
		return core.NewValidationError(nil, core.FieldError{
			Field: "feedback_text",
			Error: "points specs are out of " + formatFloat(roundPoints(totals.MaxPoints)) +
				" points, more than the " + formatFloat(*f.PointValue) + " the page is worth",
		})
	}
	if f.GradePercent == nil && f.GradePoints == nil && totals.Scored > 0 {
		pts := totals.Points
		f.GradePoints = &pts
	}
	return nil
}

func (f *Form) checkAgreement(tolerance float64) error {
	if f.PointValue == nil || *f.PointValue == 0 || f.GradePercent == nil || f.GradePoints == nil {
		return nil
	}
	pointsPercent := 100 * *f.GradePoints / *f.PointValue
	if math.Abs(pointsPercent-*f.GradePercent) > tolerance {
		return core.NewValidationError(errGradesDisagree)
	}
	return nil
}

// CleanedPercent is the grade to record, in percent.
// When both grades are given (and agree) the greater one wins.
func (f Form) CleanedPercent() *float64 {
	if f.PointValue == nil {
		return f.GradePercent
	}

	var pointsPercent *float64
	if f.GradePoints != nil && *f.PointValue != 0 {
		p := 100 * *f.GradePoints / *f.PointValue
		pointsPercent = &p
	}

	switch {
	case f.GradePercent != nil && pointsPercent != nil:
		p := math.Max(*f.GradePercent, *pointsPercent)
		return &p
	case f.GradePercent != nil:
		return f.GradePercent
	default:
		return pointsPercent
	}
}

// Assessment is what the points specs of a feedback text amount to.
type Assessment struct {
	Annotations      []points.Annotation `json:"annotations"`
	Totals           points.Totals       `json:"totals"`
	SuggestedPoints  *float64            `json:"suggested_points"`
	SuggestedPercent *float64            `json:"suggested_percent"`
	Scale            []float64           `json:"scale,omitempty"`
}

// Assess scans `text` without saving anything, suggesting a grade out of `pointValue`.
func Assess(text string, pointValue *float64) (Assessment, error) {
	annotations, err := points.Scan(text)
	if err != nil {
		return Assessment{}, err
	}
	a := Assessment{
		Annotations: annotations,
		Totals:      points.Tally(annotations),
	}
	if a.Totals.Scored > 0 {
		pts := a.Totals.Points
		a.SuggestedPoints = &pts
		a.SuggestedPercent = Form{PointValue: pointValue, GradePoints: &pts}.CleanedPercent()
		if a.SuggestedPercent == nil {
			if pct, ok := a.Totals.Percent(); ok {
				a.SuggestedPercent = &pct
			}
		}
	}
	if pointValue != nil {
		a.Scale = points.DefaultScale(*pointValue)
	}
	return a, nil
}

type QueryFilter struct {
	SubmissionID string
	GraderID     string
	Released     *bool
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.SubmissionID == "" && qf.GraderID == "" && qf.Released == nil
}

func (qf *QueryFilter) Clean() {
	qf.SubmissionID = core.CleanString(qf.SubmissionID)
	qf.GraderID = core.CleanString(qf.GraderID)
}

// Match reports whether fb satisfies all the set filter fields.
func (qf *QueryFilter) Match(fb Feedback) bool {
	if qf == nil {
		return true
	}
	if qf.SubmissionID != "" && fb.SubmissionID != qf.SubmissionID {
		return false
	}
	if qf.GraderID != "" && fb.GraderID != qf.GraderID {
		return false
	}
	if qf.Released != nil && fb.Released != *qf.Released {
		return false
	}
	return true
}
