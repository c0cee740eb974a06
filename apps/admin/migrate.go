package main

import (
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/storage/database"
)

var migrateFunc = database.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	db, err := cli.openDB()
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer db.Close()

	return migrateFunc(args[0], db, args[1:]...)
}
