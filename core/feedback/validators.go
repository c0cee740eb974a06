package feedback

import (
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo/core"
)

var (
	maxPercentTag = "maxpercent"
	maxPointsTag  = "maxpoints"
	requiredTag   = "required"
)

// InitValidators registers the feedback validators & translations.
// Grade bounds are derived from the grading config.
func InitValidators(validate *validator.Validate, translator ut.Translator, conf core.GradingConfig) {
	maxPercent := 100 * conf.MaxExtraCreditFactor

	validate.RegisterStructValidation(formStructValidation(conf.MaxExtraCreditFactor), Form{})
	core.RegisterCustomTranslation(validate, translator, maxPercentTag,
		"grade percent cannot exceed "+formatFloat(maxPercent))
	core.RegisterCustomTranslation(validate, translator, maxPointsTag,
		"grade points cannot exceed "+formatFloat(conf.MaxExtraCreditFactor)+" times the point value")
}

// formStructValidation checks the grade upper bounds and the recipients of requested notifications.
func formStructValidation(factor float64) validator.StructLevelFunc {
	return func(sl validator.StructLevel) {
		f, ok := sl.Current().Interface().(Form)
		if !ok {
			return
		}
		if f.GradePercent != nil && *f.GradePercent > 100*factor {
			sl.ReportError(f.GradePercent, "grade_percent", "GradePercent", maxPercentTag, "")
		}
		if f.GradePoints != nil && f.PointValue != nil && *f.GradePoints > factor**f.PointValue {
			sl.ReportError(f.GradePoints, "grade_points", "GradePoints", maxPointsTag, "")
		}
		if f.Notify && f.ParticipantEmail == "" {
			sl.ReportError(f.ParticipantEmail, "participant_email", "ParticipantEmail", requiredTag, "")
		}
		if f.NotifyInstructor && f.Notes != "" && f.InstructorEmail == "" {
			sl.ReportError(f.InstructorEmail, "instructor_email", "InstructorEmail", requiredTag, "")
		}
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
