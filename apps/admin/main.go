package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/trezcool/masomo/core"
	logsvc "github.com/trezcool/masomo/services/logger"
	"github.com/trezcool/masomo/storage/database"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	openDB := func() (*sql.DB, error) {
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		return db.DB, nil
	}

	// start CLI
	cli := newCommandLine(conf, openDB)
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
