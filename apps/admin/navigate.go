package main

import (
	"fmt"

	"github.com/trezcool/masomo/core/points"
)

func (cli *commandLine) navigate(text string, cursor int, backward bool) error {
	dir := points.Forward
	if backward {
		dir = points.Backward
	}
	offset, found := points.Navigate(text, cursor, dir)
	if !found {
		fmt.Fprintln(cli.out, "not found")
		return nil
	}
	fmt.Fprintln(cli.out, offset)
	return nil
}
