// ABOUTME: Interactive shell keeping one session for the life of the process.
// ABOUTME: Select a profile once, then log and review records line by line.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/healthtrack/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shellHelp = `Commands:
  profiles                                  list profiles (* = selected)
  add <name> [age] [gender]                 create and select a profile
  select <name|id>                          select a profile
  clear                                     deselect
  whoami                                    show the selected profile
  log <sys> <dia> <pulse> [weight] [pos]    log a record (weight defaults to last)
  history                                   show records, newest first
  help                                      show this help
  exit                                      leave the shell
Quote arguments containing spaces: add "Grandpa Joe" 80`

var errExit = errors.New("exit")

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session",
	Long: `Start an interactive session.

Unlike one-shot commands, the shell keeps the selected profile in memory until
you exit, so you can select once and log several records.

` + shellHelp,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.runShell(cmd.InOrStdin())
	},
}

// runShell reads commands from in until EOF or exit. Errors from a command
// are printed and the loop continues.
func (a *app) runShell(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(a.out, "healthtrack shell. Type 'help' for commands.")

	for {
		fmt.Fprint(a.out, a.prompt())
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			return scanner.Err()
		}

		args, err := splitArgs(scanner.Text())
		if err == nil {
			err = a.dispatch(args)
		}
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			if errors.Is(err, storage.ErrStorageFailure) {
				a.log.Error("storage failure", zap.Error(err))
			}
			fmt.Fprintln(a.out, color.RedString("error: %v", err))
		}
	}
}

func (a *app) prompt() string {
	if sel, ok := a.sess.Current(); ok {
		return fmt.Sprintf("[%s] > ", sel.Name)
	}
	return "[no profile] > "
}

func (a *app) dispatch(args []string) error {
	if len(args) == 0 {
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "profiles", "ls":
		return a.listProfiles()
	case "add":
		if len(rest) < 1 || len(rest) > 3 {
			return fmt.Errorf("usage: add <name> [age] [gender]")
		}
		var ageStr string
		if len(rest) > 1 {
			ageStr = rest[1]
		}
		age, err := parseAge(ageStr)
		if err != nil {
			return err
		}
		var gender *string
		if len(rest) > 2 {
			gender = &rest[2]
		}
		_, err = a.addProfile(rest[0], age, gender)
		return err
	case "select", "use":
		if len(rest) != 1 {
			return fmt.Errorf("usage: select <name|id>")
		}
		p, err := a.selectRef(rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, color.GreenString("✓ Selected %s", p.Name))
		return nil
	case "clear", "deselect":
		a.sess.ClearSelection()
		fmt.Fprintln(a.out, "No profile selected")
		return nil
	case "whoami":
		return a.whoami()
	case "log":
		if len(rest) < 3 || len(rest) > 5 {
			return fmt.Errorf("usage: log <sys> <dia> <pulse> [weight] [position]")
		}
		var position *string
		if len(rest) == 5 {
			position = &rest[4]
		}
		values := rest
		if len(values) > 4 {
			values = values[:4]
		}
		return a.logRecord(values, "", position)
	case "history", "hist":
		return a.history()
	case "help", "?":
		fmt.Fprintln(a.out, shellHelp)
		return nil
	case "exit", "quit", "q":
		return errExit
	default:
		return fmt.Errorf("unknown command %q (type 'help')", cmd)
	}
}

// splitArgs splits a line on whitespace, keeping double-quoted runs together.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
