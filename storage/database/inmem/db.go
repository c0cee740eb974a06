package inmemdb

import (
	"sync"

	"github.com/trezcool/masomo/core/feedback"
)

type (
	DB struct {
		feedback *feedbackTable
	}

	feedbackTable struct {
		sync.RWMutex
		table map[string]*feedback.Feedback
	}
)

func Open() *DB {
	return &DB{
		feedback: &feedbackTable{table: make(map[string]*feedback.Feedback)},
	}
}

// Reset drops all the rows.
func (db *DB) Reset() {
	db.feedback.Lock()
	defer db.feedback.Unlock()
	db.feedback.table = make(map[string]*feedback.Feedback)
}
