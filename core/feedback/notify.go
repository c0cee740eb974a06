package feedback

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/masomo/core"
)

type mailData struct {
	SubmissionID string
	GraderID     string
	Grade        string
	Text         string
	Notes        string
	Diff         string
}

// notify sends the notifications requested in `f` for the saved `fb`.
// `diff` is the unified diff of the feedback text, empty on creation.
func (svc *service) notify(fb Feedback, f Form, diff string) {
	data := mailData{
		SubmissionID: fb.SubmissionID,
		GraderID:     fb.GraderID,
		Grade:        formatGrade(fb),
		Text:         fb.Text,
		Notes:        fb.Notes,
		Diff:         diff,
	}

	var msgs []*core.EmailMessage
	if f.Notify && fb.ParticipantEmail != "" {
		msg := &core.EmailMessage{
			To:           []mail.Address{{Address: fb.ParticipantEmail}},
			Subject:      "New feedback on submission " + fb.SubmissionID,
			TemplateName: "feedback_participant",
			TemplateData: data,
		}
		if f.MayReply && fb.GraderEmail != "" {
			msg.ReplyTo = &mail.Address{Address: fb.GraderEmail}
		}
		if fb.InstructorEmail != "" {
			msg.Bcc = []mail.Address{{Address: fb.InstructorEmail}}
		}
		msgs = append(msgs, msg)
	}
	if f.NotifyInstructor && fb.Notes != "" && fb.InstructorEmail != "" {
		msg := &core.EmailMessage{
			To:           []mail.Address{{Address: fb.InstructorEmail}},
			Subject:      "Grading notes from " + fb.GraderID,
			TemplateName: "feedback_instructor",
			TemplateData: data,
		}
		if fb.GraderEmail != "" {
			msg.Bcc = []mail.Address{{Address: fb.GraderEmail}}
			msg.ReplyTo = &mail.Address{Address: fb.GraderEmail}
		}
		msgs = append(msgs, msg)
	}

	if len(msgs) > 0 {
		svc.mailSvc.SendMessages(msgs...)
	}
}

func formatGrade(fb Feedback) string {
	var parts []string
	if fb.GradePercent != nil {
		parts = append(parts, fmt.Sprintf("%.1f%%", *fb.GradePercent))
	}
	if fb.GradePoints != nil {
		if fb.PointValue != nil {
			parts = append(parts, fmt.Sprintf("%s/%s points", formatFloat(*fb.GradePoints), formatFloat(*fb.PointValue)))
		} else {
			parts = append(parts, formatFloat(*fb.GradePoints)+" points")
		}
	}
	return strings.Join(parts, ", ")
}

// textDiff returns the unified diff between two feedback texts, empty when they are equal.
func textDiff(prev, curr string) (string, error) {
	if prev == curr {
		return "", nil
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(prev),
		B:        difflib.SplitLines(curr),
		FromFile: "previous",
		ToFile:   "current",
		Context:  2,
	})
	return diff, errors.Wrap(err, "diffing feedback text")
}
