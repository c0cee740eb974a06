package dig_container

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/masomo/apps/api/echo"
	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/feedback"
	emailsvc "github.com/trezcool/masomo/services/email"
	logsvc "github.com/trezcool/masomo/services/logger"
	"github.com/trezcool/masomo/storage/database"
	inmemdb "github.com/trezcool/masomo/storage/database/inmem"
	sqlxrepos "github.com/trezcool/masomo/storage/database/sqlx"
)

const inmemEngine = "inmem"

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// DBCloser releases the database connections.
type DBCloser func() error

type serverParams struct {
	dig.In
	Conf        *core.Config
	Logger      core.Logger
	FeedbackSvc feedback.Service
	Validate    *validator.Validate
	Translator  ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

// newFeedbackRepository serves feedback from postgres, or from memory with the `inmem` engine.
func newFeedbackRepository(conf *core.Config, loggerParam DBLoggerParam) (feedback.Repository, DBCloser) {
	if conf.Database.Engine == inmemEngine {
		loggerParam.Logger.Info("using the in-memory database; feedback will not survive a restart")
		return inmemdb.NewFeedbackRepository(inmemdb.Open()), func() error { return nil }
	}

	setUp := func() (feedback.Repository, DBCloser, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, nil, err
		}

		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqlxrepos.NewFeedbackRepository(db), db.Close, nil
	}

	repo, closeDB, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return repo, closeDB
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator(conf *core.Config, translator ut.Translator) *validator.Validate {
	validate := core.NewValidator(translator)
	feedback.InitValidators(validate, translator, conf.Grading)
	return validate
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:        p.Conf,
		Logger:      p.Logger,
		FeedbackSvc: p.FeedbackSvc,
		Validate:    p.Validate,
		Translator:  p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newFeedbackRepository))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(feedback.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
