package main

import (
	"fmt"

	echoapi "github.com/trezcool/masomo/apps/api/echo"
)

func (cli *commandLine) token(graderID, name, email string, roles []string) error {
	token, err := echoapi.GenerateToken(cli.conf, echoapi.Grader{
		ID:    graderID,
		Name:  name,
		Email: email,
		Roles: roles,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
