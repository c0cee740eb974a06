package testutil

import (
	"context"
	"io"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/feedback"
	logsvc "github.com/trezcool/masomo/services/logger"
	"github.com/trezcool/masomo/storage/database"
)

var (
	conf     *core.Config
	confOnce sync.Once
)

// Config returns the TEST config, loaded once.
func Config() *core.Config {
	confOnce.Do(func() {
		_ = os.Setenv("ENV", "TEST")
		conf = core.NewConfig()
		conf.Debug = false // routes errors through the app error handler
	})
	return conf
}

// Logger returns a silent logger with Rollbar disabled.
func Logger() core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "TEST : ", log.LstdFlags), Config())
	logger.Enable(false)
	return logger
}

// Validator returns a validator with the app-wide and feedback validators registered.
func Validator() (*validator.Validate, ut.Translator) {
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	feedback.InitValidators(validate, translator, Config().Grading)
	return validate, translator
}

// ParseTemplates parses the email templates for tests sending emails.
func ParseTemplates() {
	core.ParseEmailTemplates(Config(), Logger())
}

func FloatPtr(f float64) *float64 { return &f }

func CreateFeedback(
	t *testing.T,
	repo feedback.Repository,
	submissionID, graderID, text string,
	released bool,
	createdAt ...time.Time,
) feedback.Feedback {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	fb := feedback.Feedback{
		ID:           uuid.New().String(),
		SubmissionID: submissionID,
		GraderID:     graderID,
		Text:         text,
		Released:     released,
		CreatedAt:    tstamp,
		UpdatedAt:    tstamp,
	}
	fb, err := repo.CreateFeedback(context.Background(), fb)
	if err != nil {
		t.Fatalf("CreateFeedback() failed: %v", err)
	}
	return fb
}

// PrepareDB opens the TEST database, migrates it and empties the tables.
// The test is skipped when no database is reachable.
func PrepareDB(t *testing.T) *sqlx.DB {
	c := Config()
	db, err := sqlx.Open(c.Database.Engine, database.DataSourceName(c))
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db.DB); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	if _, err = db.Exec("TRUNCATE TABLE feedback"); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}
