package feedback_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/feedback"
	"github.com/trezcool/masomo/tests"
)

func TestNewFeedback_Validate(t *testing.T) {
	validate, translator := testutil.Validator()
	grading := testutil.Config().Grading
	fPtr := testutil.FloatPtr

	newFeedback := func(text string, pointValue, percent, pts *float64) feedback.NewFeedback {
		return feedback.NewFeedback{
			SubmissionID: "sub-1",
			GraderID:     "grader-1",
			Form: feedback.Form{
				PointValue:   pointValue,
				GradePercent: percent,
				GradePoints:  pts,
				Text:         text,
			},
		}
	}
	withNotify := func(nf feedback.NewFeedback, email string) feedback.NewFeedback {
		nf.Notify = true
		nf.ParticipantEmail = email
		return nf
	}

	tests := []struct {
		name       string
		data       feedback.NewFeedback
		wantFields []string // validator field errors
		wantErr    string   // core.ValidationError message
	}{
		{name: "valid", data: newFeedback("Good [pts: 2/4]", fPtr(4), nil, nil)},
		{name: "no points specs", data: newFeedback("Good job", fPtr(4), fPtr(100), nil)},
		{name: "grades agree", data: newFeedback("", fPtr(3), fPtr(33.3), fPtr(1))},
		{name: "blank submission", data: feedback.NewFeedback{SubmissionID: "  ", GraderID: "g"}, wantFields: []string{"submission_id"}},
		{name: "no grader", data: feedback.NewFeedback{SubmissionID: "s"}, wantFields: []string{"grader_id"}},
		{name: "negative percent", data: newFeedback("", nil, fPtr(-1), nil), wantFields: []string{"grade_percent"}},
		{name: "percent above extra credit", data: newFeedback("", nil, fPtr(1001), nil), wantFields: []string{"grade_percent"}},
		{name: "points above extra credit", data: newFeedback("", fPtr(2), nil, fPtr(21)), wantFields: []string{"grade_points"}},
		{name: "negative tallied points", data: newFeedback("[pts: -1/2]", fPtr(2), nil, nil), wantFields: []string{"grade_points"}},
		{name: "notify without email", data: withNotify(newFeedback("", nil, nil, nil), ""), wantFields: []string{"participant_email"}},
		{name: "invalid email", data: withNotify(newFeedback("", nil, nil, nil), "nope"), wantFields: []string{"participant_email"}},
		{
			name:    "grades disagree",
			data:    newFeedback("", fPtr(10), fPtr(60), fPtr(5)),
			wantErr: "Grade (percent) and Grade (points) disagree",
		},
		{
			name:    "bad points spec",
			data:    newFeedback("Nice [pts: 5/0]", fPtr(5), nil, nil),
			wantErr: "point denominator must be positive: '5/0'",
		},
		{
			name:    "specs worth more than the page",
			data:    newFeedback("[pts: 3/4] [pts: 2/3]", fPtr(5), nil, nil),
			wantErr: "feedback_text: points specs are out of 7 points, more than the 5 the page is worth",
		},
		{name: "specs summing to the page in floats", data: newFeedback("a [pts: 0.1/0.1] b [pts: 0.2/0.2]", fPtr(0.3), nil, nil)},
		{
			name:    "specs worth more than the page in floats",
			data:    newFeedback("a [pts: 0.1/0.1] b [pts: 0.2/0.2]", fPtr(0.2), nil, nil),
			wantErr: "feedback_text: points specs are out of 0.3 points, more than the 0.2 the page is worth",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate(validate, grading)

			switch {
			case tt.wantFields != nil:
				vErrs, ok := err.(validator.ValidationErrors)
				require.True(t, ok, "Validate() error = %v, want validator.ValidationErrors", err)
				fldErrs := core.TranslateErrors(vErrs, translator)
				for _, fld := range tt.wantFields {
					assert.Contains(t, fldErrs, fld)
				}
			case tt.wantErr != "":
				require.Error(t, err)
				assert.True(t, core.IsValidationError(err))
				assert.EqualError(t, err, tt.wantErr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewFeedback_Validate_fillsPoints(t *testing.T) {
	validate, _ := testutil.Validator()
	nf := feedback.NewFeedback{
		SubmissionID: " sub-1 ",
		GraderID:     "grader-1",
		Form: feedback.Form{
			PointValue: testutil.FloatPtr(10),
			Text:       "  Intro [pts: 2/3 #a]\nBody [pts: 4.5/7 #b] [pts:]  ",
		},
	}
	require.NoError(t, nf.Validate(validate, testutil.Config().Grading))

	assert.Equal(t, "sub-1", nf.SubmissionID)
	assert.Equal(t, "Intro [pts: 2/3 #a]\nBody [pts: 4.5/7 #b] [pts:]", nf.Text)
	require.NotNil(t, nf.GradePoints)
	assert.InDelta(t, 6.5, *nf.GradePoints, 1e-9)
	assert.Nil(t, nf.GradePercent)
	require.NotNil(t, nf.CleanedPercent())
	assert.InDelta(t, 65, *nf.CleanedPercent(), 1e-9)
}

func TestNewFeedback_Validate_keepsGivenGrade(t *testing.T) {
	validate, _ := testutil.Validator()
	nf := feedback.NewFeedback{
		SubmissionID: "sub-1",
		GraderID:     "grader-1",
		Form:         feedback.Form{GradePercent: testutil.FloatPtr(90), Text: "[pts: 1/2]"},
	}
	require.NoError(t, nf.Validate(validate, testutil.Config().Grading))
	assert.Nil(t, nf.GradePoints)
}

func TestForm_CleanedPercent(t *testing.T) {
	fPtr := testutil.FloatPtr
	tests := []struct {
		name string
		form feedback.Form
		want *float64
	}{
		{name: "nothing", form: feedback.Form{}, want: nil},
		{name: "no point value", form: feedback.Form{GradePercent: fPtr(80), GradePoints: fPtr(3)}, want: fPtr(80)},
		{name: "percent only", form: feedback.Form{PointValue: fPtr(5), GradePercent: fPtr(70)}, want: fPtr(70)},
		{name: "points only", form: feedback.Form{PointValue: fPtr(5), GradePoints: fPtr(4)}, want: fPtr(80)},
		{name: "zero point value", form: feedback.Form{PointValue: fPtr(0), GradePoints: fPtr(4)}, want: nil},
		{name: "both, greater wins", form: feedback.Form{PointValue: fPtr(3), GradePoints: fPtr(1), GradePercent: fPtr(33.3)}, want: fPtr(100.0 / 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.form.CleanedPercent()
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestQueryFilter_Match(t *testing.T) {
	released, draft := true, false
	fb := feedback.Feedback{SubmissionID: "s1", GraderID: "g1", Released: true}

	var nilFilter *feedback.QueryFilter
	assert.True(t, nilFilter.Match(fb))
	assert.True(t, (&feedback.QueryFilter{}).Match(fb))
	assert.True(t, (&feedback.QueryFilter{SubmissionID: "s1", GraderID: "g1", Released: &released}).Match(fb))
	assert.False(t, (&feedback.QueryFilter{SubmissionID: "s2"}).Match(fb))
	assert.False(t, (&feedback.QueryFilter{GraderID: "g2"}).Match(fb))
	assert.False(t, (&feedback.QueryFilter{Released: &draft}).Match(fb))
}
