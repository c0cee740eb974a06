package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/feedback"
)

type feedbackRepository struct {
	db *feedbackTable
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *DB) feedback.Repository {
	return &feedbackRepository{db: db.feedback}
}

func (repo *feedbackRepository) query(filter *feedback.QueryFilter) []feedback.Feedback {
	fbs := make([]feedback.Feedback, 0, len(repo.db.table))
	for _, fb := range repo.db.table {
		if filter.Match(*fb) {
			fbs = append(fbs, *fb)
		}
	}
	return fbs
}

func (repo *feedbackRepository) CreateFeedback(_ context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	fb.Totals = nil
	repo.db.table[fb.ID] = &fb
	return fb, nil
}

func (repo *feedbackRepository) QueryFeedback(
	_ context.Context,
	filter *feedback.QueryFilter,
	ordering []core.DBOrdering,
) ([]feedback.Feedback, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	fbs := repo.query(filter)
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "created_at"}}
	}
	sort.SliceStable(fbs, func(i, j int) bool {
		for _, ord := range ordering {
			c := compare(fbs[i], fbs[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return fbs[i].ID < fbs[j].ID
	})
	return fbs, nil
}

func (repo *feedbackRepository) GetFeedbackByID(_ context.Context, id string) (feedback.Feedback, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if fb, ok := repo.db.table[id]; ok {
		return *fb, nil
	}
	return feedback.Feedback{}, feedback.ErrNotFound
}

func (repo *feedbackRepository) UpdateFeedback(_ context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[fb.ID]
	if !ok {
		return feedback.Feedback{}, feedback.ErrNotFound
	}
	// identity & creation fields are immutable
	fb.SubmissionID = orig.SubmissionID
	fb.GraderID = orig.GraderID
	fb.GraderEmail = orig.GraderEmail
	fb.CreatedAt = orig.CreatedAt
	fb.Totals = nil

	repo.db.table[fb.ID] = &fb
	return fb, nil
}

func (repo *feedbackRepository) DeleteFeedbackByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

// compare returns -1, 0 or 1 as a's `field` is lower, equal or greater than b's.
func compare(a, b feedback.Feedback, field string) int {
	switch field {
	case "created_at":
		return compareInt64(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	case "updated_at":
		return compareInt64(a.UpdatedAt.UnixNano(), b.UpdatedAt.UnixNano())
	case "submission_id":
		return strings.Compare(a.SubmissionID, b.SubmissionID)
	case "grader_id":
		return strings.Compare(a.GraderID, b.GraderID)
	case "grade_percent":
		// NULL is greatest, as in Postgres
		switch {
		case a.GradePercent == nil && b.GradePercent == nil:
			return 0
		case a.GradePercent == nil:
			return 1
		case b.GradePercent == nil:
			return -1
		case *a.GradePercent < *b.GradePercent:
			return -1
		case *a.GradePercent > *b.GradePercent:
			return 1
		}
	}
	return 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
