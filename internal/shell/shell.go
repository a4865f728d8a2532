// Package shell runs the interactive command loop over a session.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/agentic-research/restcli/internal/session"
)

const help = `commands:
  cd <path>   change directory (.., /absolute, relative)
  list        show records under the current directory
  refresh     fetch everything again
  status      show snapshot details
  help        show this message
  exit        leave the shell`

type Shell struct {
	Session *session.Session
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	// Prompt enables the "restcli <cursor>> " prompt.
	Prompt bool
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run reads commands until exit or end of input.
func (sh *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(sh.In)
	sh.prompt()
	for scanner.Scan() {
		if sh.Exec(ctx, scanner.Text()) {
			return nil
		}
		sh.prompt()
	}
	return scanner.Err()
}

func (sh *Shell) prompt() {
	if sh.Prompt {
		fmt.Fprintf(sh.Out, "restcli %s> ", sh.Session.Cursor())
	}
}

// Exec runs a single command line and reports whether the shell should exit.
func (sh *Shell) Exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	command, arg, _ := strings.Cut(line, " ")
	switch command {
	case "cd":
		sh.report(sh.Session.ChangeDirectory(ctx, strings.TrimSpace(arg)))
	case "list":
		out, err := sh.Session.List()
		if err != nil {
			fmt.Fprintf(sh.Err, "list failed: %v\n", err)
			return false
		}
		fmt.Fprint(sh.Out, out)
	case "refresh":
		sh.report(sh.Session.Refresh(ctx))
	case "status":
		fmt.Fprintln(sh.Out, sh.Session.Status())
	case "help":
		fmt.Fprintln(sh.Out, help)
	case "exit":
		return true
	default:
		fmt.Fprintf(sh.Err, "Unknown command %s\n", command)
	}
	return false
}

func (sh *Shell) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNoSuchPath):
		fmt.Fprintln(sh.Out, "No such path")
	default:
		fmt.Fprintf(sh.Err, "request backend failed: %v\n", err)
	}
}
