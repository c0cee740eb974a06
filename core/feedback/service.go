package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/points"
)

var (
	// errors
	ErrNotFound = errors.New("feedback not found")
)

type (
	Repository interface {
		CreateFeedback(ctx context.Context, fb Feedback) (Feedback, error)
		// QueryFeedback applies AND operation on available QueryFilter fields.
		QueryFeedback(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Feedback, error)
		GetFeedbackByID(ctx context.Context, id string) (Feedback, error)
		UpdateFeedback(ctx context.Context, fb Feedback) (Feedback, error)
		DeleteFeedbackByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, nf NewFeedback) (Feedback, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Feedback, error)
		GetByID(ctx context.Context, id string) (Feedback, error)
		Update(ctx context.Context, id string, uf UpdateFeedback) (Feedback, error)
		Delete(ctx context.Context, ids ...string) error
		Check(text string, pointValue *float64) (Assessment, error)
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		logger  core.Logger
	}
)

var _ Service = (*service)(nil)

// OrderingFields are the fields feedback may be ordered by.
var OrderingFields = []string{"created_at", "updated_at", "submission_id", "grader_id", "grade_percent"}

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger) Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(mailSvc, "mailSvc"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		logger:  logger,
	}
}

func (svc *service) Create(ctx context.Context, nf NewFeedback) (Feedback, error) {
	now := time.Now().UTC()
	fb := Feedback{
		ID:           uuid.New().String(),
		SubmissionID: nf.SubmissionID,
		GraderID:     nf.GraderID,
		GraderEmail:  nf.GraderEmail,
		CreatedAt:    now,
	}
	nf.Form.apply(&fb, now)

	fb, err := svc.repo.CreateFeedback(ctx, fb)
	if err != nil {
		return Feedback{}, errors.Wrap(err, "creating feedback")
	}
	svc.notify(fb, nf.Form, "")
	return withTotals(fb), nil
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Feedback, error) {
	fbs, err := svc.repo.QueryFeedback(ctx, filter, ordering)
	if err != nil {
		return nil, errors.Wrap(err, "querying feedback")
	}
	for i := range fbs {
		fbs[i] = withTotals(fbs[i])
	}
	return fbs, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (Feedback, error) {
	fb, err := svc.repo.GetFeedbackByID(ctx, id)
	if err != nil {
		return Feedback{}, err
	}
	return withTotals(fb), nil
}

func (svc *service) Update(ctx context.Context, id string, uf UpdateFeedback) (Feedback, error) {
	orig, err := svc.repo.GetFeedbackByID(ctx, id)
	if err != nil {
		return Feedback{}, err
	}

	fb := orig
	uf.Form.apply(&fb, time.Now().UTC())

	fb, err = svc.repo.UpdateFeedback(ctx, fb)
	if err != nil {
		return Feedback{}, errors.Wrap(err, "updating feedback")
	}
	diff, err := textDiff(orig.Text, fb.Text)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("feedback.Update: %v", err), err)
	}
	svc.notify(fb, uf.Form, diff)
	return withTotals(fb), nil
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteFeedbackByID(ctx, ids...)
}

func (svc *service) Check(text string, pointValue *float64) (Assessment, error) {
	return Assess(text, pointValue)
}

func (f Form) apply(fb *Feedback, now time.Time) {
	fb.PointValue = f.PointValue
	fb.GradePercent = f.CleanedPercent()
	fb.GradePoints = f.GradePoints
	fb.Text = f.Text
	fb.Notes = f.Notes
	fb.Released = f.Released
	fb.ParticipantEmail = f.ParticipantEmail
	fb.InstructorEmail = f.InstructorEmail
	fb.UpdatedAt = now
}

func withTotals(fb Feedback) Feedback {
	if annotations, err := points.Scan(fb.Text); err == nil {
		totals := points.Tally(annotations)
		fb.Totals = &totals
	}
	return fb
}
