package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/trezcool/masomo/core"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf    *core.Config
	openDB  func() (*sql.DB, error)
	stdin   io.Reader
	stdinFd int
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  check [-file PATH] [-points N]                 - scan feedback text (file or stdin), print its points specs")
	fmt.Fprintln(cli.out, "  navigate -file PATH -cursor N [-backward]      - print the offset of the next (previous) points spec")
	fmt.Fprintln(cli.out, "  token -grader ID [-role ROLES] [-email EMAIL]  - print a signed API token for a grader")
	fmt.Fprintln(cli.out, "  migrate CMD [ARGS]                             - run database migrations (up, down, status, ...)")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	checkCmd := cli.newFlagSet("check")
	checkFile := checkCmd.String("file", "", "The feedback text file. Read from stdin when empty.")
	checkPoints := checkCmd.String("points", "", "The page's point value, to suggest a grade.")

	navigateCmd := cli.newFlagSet("navigate")
	navigateFile := navigateCmd.String("file", "", "The feedback text file.")
	navigateCursor := navigateCmd.Int("cursor", -1, "The cursor (byte offset) to search from.")
	navigateBackward := navigateCmd.Bool("backward", false, "Search for the previous points spec.")

	tokenCmd := cli.newFlagSet("token")
	tokenGrader := tokenCmd.String("grader", "", "The grader's ID.")
	tokenRoles := tokenCmd.String("role", "grader", "Comma separated roles (grader, instructor).")
	tokenEmail := tokenCmd.String("email", "", "The grader's email.")
	tokenName := tokenCmd.String("name", "", "The grader's name.")

	switch args[1] {
	case "check":
		if err := checkCmd.Parse(args[2:]); err != nil {
			return err
		}
		var pointValue *float64
		if *checkPoints != "" {
			pv, err := strconv.ParseFloat(*checkPoints, 64)
			if err != nil || pv < 0 {
				checkCmd.Usage()
				return errHelp
			}
			pointValue = &pv
		}
		text, err := cli.readText(*checkFile)
		if err != nil {
			return err
		}
		return cli.check(text, pointValue)
	case "navigate":
		if err := navigateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *navigateFile == "" || *navigateCursor < 0 {
			navigateCmd.Usage()
			return errHelp
		}
		text, err := cli.readText(*navigateFile)
		if err != nil {
			return err
		}
		return cli.navigate(text, *navigateCursor, *navigateBackward)
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if strings.TrimSpace(*tokenGrader) == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(*tokenGrader, *tokenName, *tokenEmail, splitRoles(*tokenRoles))
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

// readText reads the file at path, or stdin when path is empty.
func (cli *commandLine) readText(path string) (string, error) {
	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	if isTerminalFunc(cli.stdinFd) {
		fmt.Fprintln(cli.out, "Enter feedback text (Ctrl-D to end):")
	}
	data, err := ioutil.ReadAll(cli.stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitRoles(raw string) []string {
	var roles []string
	for _, role := range strings.Split(raw, ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}

func newCommandLine(conf *core.Config, openDB func() (*sql.DB, error)) *commandLine {
	return &commandLine{
		conf:    conf,
		openDB:  openDB,
		stdin:   os.Stdin,
		stdinFd: int(os.Stdin.Fd()),
		out:     os.Stdout,
	}
}
