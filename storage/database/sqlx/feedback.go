package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/feedback"
)

const feedbackColumns = `id, submission_id, grader_id, grader_email, point_value, grade_percent, grade_points,
	feedback_text, notes, released, participant_email, instructor_email, created_at, updated_at`

type feedbackRow struct {
	ID               string       `db:"id"`
	SubmissionID     string       `db:"submission_id"`
	GraderID         string       `db:"grader_id"`
	GraderEmail      string       `db:"grader_email"`
	PointValue       null.Float64 `db:"point_value"`
	GradePercent     null.Float64 `db:"grade_percent"`
	GradePoints      null.Float64 `db:"grade_points"`
	Text             string       `db:"feedback_text"`
	Notes            string       `db:"notes"`
	Released         bool         `db:"released"`
	ParticipantEmail string       `db:"participant_email"`
	InstructorEmail  string       `db:"instructor_email"`
	CreatedAt        time.Time    `db:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at"`
}

type feedbackRepository struct {
	exec core.DBExecutor
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(exec core.DBExecutor) feedback.Repository {
	return &feedbackRepository{exec: exec}
}

func (repo feedbackRepository) toRow(fb feedback.Feedback) feedbackRow {
	return feedbackRow{
		ID:               fb.ID,
		SubmissionID:     fb.SubmissionID,
		GraderID:         fb.GraderID,
		GraderEmail:      fb.GraderEmail,
		PointValue:       null.Float64FromPtr(fb.PointValue),
		GradePercent:     null.Float64FromPtr(fb.GradePercent),
		GradePoints:      null.Float64FromPtr(fb.GradePoints),
		Text:             fb.Text,
		Notes:            fb.Notes,
		Released:         fb.Released,
		ParticipantEmail: fb.ParticipantEmail,
		InstructorEmail:  fb.InstructorEmail,
		CreatedAt:        fb.CreatedAt.UTC(),
		UpdatedAt:        fb.UpdatedAt.UTC(),
	}
}

func (repo feedbackRepository) fromRow(row feedbackRow) feedback.Feedback {
	return feedback.Feedback{
		ID:               row.ID,
		SubmissionID:     row.SubmissionID,
		GraderID:         row.GraderID,
		GraderEmail:      row.GraderEmail,
		PointValue:       row.PointValue.Ptr(),
		GradePercent:     row.GradePercent.Ptr(),
		GradePoints:      row.GradePoints.Ptr(),
		Text:             row.Text,
		Notes:            row.Notes,
		Released:         row.Released,
		ParticipantEmail: row.ParticipantEmail,
		InstructorEmail:  row.InstructorEmail,
		CreatedAt:        row.CreatedAt.UTC(),
		UpdatedAt:        row.UpdatedAt.UTC(),
	}
}

// trapNoRowsErr maps psql "no rows" err to feedback.ErrNotFound
func (repo feedbackRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return feedback.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo feedbackRepository) CreateFeedback(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	q := `INSERT INTO feedback (` + feedbackColumns + `) VALUES (
		:id, :submission_id, :grader_id, :grader_email, :point_value, :grade_percent, :grade_points,
		:feedback_text, :notes, :released, :participant_email, :instructor_email, :created_at, :updated_at)`
	row := repo.toRow(fb)
	if _, err := sqlx.NamedExecContext(ctx, repo.exec, q, row); err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "inserting feedback")
	}
	return repo.fromRow(row), nil
}

func (repo feedbackRepository) QueryFeedback(
	ctx context.Context,
	filter *feedback.QueryFilter,
	ordering []core.DBOrdering,
) ([]feedback.Feedback, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter != nil {
		if filter.SubmissionID != "" {
			where = append(where, "submission_id = ?")
			args = append(args, filter.SubmissionID)
		}
		if filter.GraderID != "" {
			where = append(where, "grader_id = ?")
			args = append(args, filter.GraderID)
		}
		if filter.Released != nil {
			where = append(where, "released = ?")
			args = append(args, *filter.Released)
		}
	}

	q := "SELECT " + feedbackColumns + " FROM feedback"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + orderBy(ordering)

	var rows []feedbackRow
	if err := sqlx.SelectContext(ctx, repo.exec, &rows, repo.exec.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting feedback")
	}
	fbs := make([]feedback.Feedback, 0, len(rows))
	for _, row := range rows {
		fbs = append(fbs, repo.fromRow(row))
	}
	return fbs, nil
}

func (repo feedbackRepository) GetFeedbackByID(ctx context.Context, id string) (feedback.Feedback, error) {
	var row feedbackRow
	q := repo.exec.Rebind("SELECT " + feedbackColumns + " FROM feedback WHERE id = ?")
	if err := sqlx.GetContext(ctx, repo.exec, &row, q, id); err != nil {
		return feedback.Feedback{}, repo.trapNoRowsErr(err, "selecting feedback by ID")
	}
	return repo.fromRow(row), nil
}

func (repo feedbackRepository) UpdateFeedback(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	q := `UPDATE feedback SET
		point_value = :point_value, grade_percent = :grade_percent, grade_points = :grade_points,
		feedback_text = :feedback_text, notes = :notes, released = :released,
		participant_email = :participant_email, instructor_email = :instructor_email, updated_at = :updated_at
	WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.exec, q, repo.toRow(fb))
	if err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "updating feedback")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return feedback.Feedback{}, feedback.ErrNotFound
	}
	return repo.GetFeedbackByID(ctx, fb.ID)
}

func (repo feedbackRepository) DeleteFeedbackByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM feedback WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "preparing feedback deletion")
	}
	if _, err = repo.exec.ExecContext(ctx, repo.exec.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting feedback")
	}
	return nil
}

// orderBy renders the ORDER BY clause; fields are expected to be checked with core.ParseOrdering.
func orderBy(ordering []core.DBOrdering) string {
	if len(ordering) == 0 {
		return "created_at DESC, id"
	}
	parts := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		parts = append(parts, ord.String())
	}
	return strings.Join(append(parts, "id"), ", ")
}
