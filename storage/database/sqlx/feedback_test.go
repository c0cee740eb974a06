package sqlxrepos_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/feedback"
	sqlxrepos "github.com/trezcool/masomo/storage/database/sqlx"
	"github.com/trezcool/masomo/tests"
)

func Test_feedbackRepository(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := sqlxrepos.NewFeedbackRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond) // postgres precision
	fb1 := testutil.CreateFeedback(t, repo, "sub-1", "grader-1", "Good [pts: 2/4]", true, now.Add(1*time.Hour))
	fb2 := testutil.CreateFeedback(t, repo, "sub-1", "grader-2", "Meh [pts: 1/4]", false, now.Add(2*time.Hour))
	fb3 := testutil.CreateFeedback(t, repo, "sub-2", "grader-1", "", true, now.Add(3*time.Hour))

	got, err := repo.GetFeedbackByID(ctx, fb1.ID)
	require.NoError(t, err)
	assert.Equal(t, fb1, got)

	_, err = repo.GetFeedbackByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, feedback.ErrNotFound, err)

	released := true
	tests := []struct {
		name     string
		filter   *feedback.QueryFilter
		ordering []core.DBOrdering
		want     []feedback.Feedback
	}{
		{name: "all", want: []feedback.Feedback{fb3, fb2, fb1}},
		{name: "submission", filter: &feedback.QueryFilter{SubmissionID: "sub-1"}, want: []feedback.Feedback{fb2, fb1}},
		{name: "grader & released", filter: &feedback.QueryFilter{GraderID: "grader-1", Released: &released}, want: []feedback.Feedback{fb3, fb1}},
		{
			name:     "ordering",
			ordering: core.ParseOrdering("submission_id,-created_at", feedback.OrderingFields...),
			want:     []feedback.Feedback{fb2, fb1, fb3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fbs, err := repo.QueryFeedback(ctx, tt.filter, tt.ordering)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fbs)
		})
	}

	pct := 75.0
	fb2.Text = "Better [pts: 3/4]"
	fb2.GradePercent = &pct
	fb2.UpdatedAt = now.Add(4 * time.Hour)
	updated, err := repo.UpdateFeedback(ctx, fb2)
	require.NoError(t, err)
	assert.Equal(t, fb2, updated)

	require.NoError(t, repo.DeleteFeedbackByID(ctx, fb1.ID, fb3.ID))
	fbs, err := repo.QueryFeedback(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []feedback.Feedback{fb2}, fbs)
}
