package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"

	"github.com/calvinalkan/roster/internal/person"
	"github.com/calvinalkan/roster/internal/registry"

	flag "github.com/spf13/pflag"
)

// ShellCmd returns the shell command.
func ShellCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Start an interactive session",
		Long: `Start an interactive session with line editing and history.
Type 'help' inside the shell for its commands.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			reg, err := a.open(ctx)
			if err != nil {
				return err
			}

			sh := &shell{reg: reg, io: o}

			return sh.run(ctx, a.in, historyFile(a.env))
		},
	}
}

// prompter reads one line of input per prompt. *liner.State implements it.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// scanPrompter reads piped input line by line without echoing prompts.
type scanPrompter struct {
	sc *bufio.Scanner
}

func (p *scanPrompter) Prompt(string) (string, error) {
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return p.sc.Text(), nil
}

func (*scanPrompter) AppendHistory(string) {}

type shell struct {
	reg    *registry.Registry
	io     *IO
	prompt prompter
}

var shellCommands = []string{"add", "ls", "find", "show", "help", "exit", "quit"}

func (sh *shell) run(ctx context.Context, in io.Reader, history string) error {
	if f, ok := in.(*os.File); ok && f == os.Stdin {
		line := liner.NewLiner()
		defer func() {
			saveHistory(line, history)
			_ = line.Close()
		}()

		line.SetCtrlCAborts(true)
		line.SetCompleter(completer)

		if f, err := os.Open(history); err == nil {
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}

		sh.prompt = line
	} else {
		if in == nil {
			in = strings.NewReader("")
		}

		sh.prompt = &scanPrompter{sc: bufio.NewScanner(in)}
	}

	sh.io.Println("roster shell. Type 'help' for commands.")

	for ctx.Err() == nil {
		line, err := sh.prompt.Prompt("roster> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		sh.prompt.AppendHistory(line)

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch strings.ToLower(cmd) {
		case "exit", "quit", "q":
			return nil
		case "help", "?":
			sh.printHelp()
		case "add":
			err = sh.add()
		case "ls", "list":
			err = sh.ls()
		case "find", "search":
			err = sh.find(ctx, rest)
		case "show":
			err = sh.show(ctx, rest)
		default:
			sh.io.ErrPrintln("unknown command:", cmd, "(type 'help' for commands)")
		}

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			sh.io.ErrPrintln("error:", err)
		}
	}

	return ctx.Err()
}

func (sh *shell) printHelp() {
	sh.io.Println("Commands:")
	sh.io.Println("  add                          Add a record (prompts for each field)")
	sh.io.Println("  ls                           List all records")
	sh.io.Println("  find <id|name|birthday> <kw> Find records")
	sh.io.Println("  show <id>                    Show one record")
	sh.io.Println("  help                         Show this help")
	sh.io.Println("  exit / quit / q              Exit")
}

func (sh *shell) ask(label string) (string, error) {
	return sh.prompt.Prompt(label + ": ")
}

// add prompts for each field in turn. An empty gender means the default.
func (sh *shell) add() error {
	var (
		in  registry.Input
		err error
	)

	fields := []struct {
		label string
		dst   *string
	}{
		{"First name", &in.First},
		{"Middle name (optional)", &in.Middle},
		{"Last name", &in.Last},
		{"Birthday (YYYY-MM-DD)", &in.Birthday},
		{"Gender [" + strings.Join(person.Genders, "/") + "] (default " + person.DefaultGender + ")", &in.Gender},
	}

	for _, f := range fields {
		*f.dst, err = sh.ask(f.label)
		if err != nil {
			return err
		}
	}

	if strings.TrimSpace(in.Gender) == "" {
		in.Gender = person.DefaultGender
	}

	rec, err := sh.reg.CreateRecord(in)
	if err != nil {
		return err
	}

	sh.io.Println("Record saved successfully! ID:", rec.ID)

	return nil
}

func (sh *shell) ls() error {
	records, err := sh.reg.ListRecords()
	if err != nil {
		return err
	}

	printRecords(sh.io, records, msgNoRecords)

	return nil
}

func (sh *shell) find(ctx context.Context, args string) error {
	by, keyword, _ := strings.Cut(args, " ")

	mode, err := person.ParseMode(by)
	if err != nil {
		return err
	}

	records, err := sh.reg.FindRecords(ctx, mode, keyword)
	if err != nil {
		return err
	}

	printRecords(sh.io, records, msgNoMatching)

	return nil
}

func (sh *shell) show(ctx context.Context, id string) error {
	if id == "" {
		return errIDRequired
	}

	rec, err := sh.reg.GetRecord(ctx, id)
	if err != nil {
		return err
	}

	printRecord(sh.io, rec)

	return nil
}

func completer(line string) []string {
	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range shellCommands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

// historyFile returns $XDG_STATE_HOME/roster/history, or ~/.roster_history.
// Returns "" when neither location is known.
func historyFile(env map[string]string) string {
	if state := env["XDG_STATE_HOME"]; state != "" {
		return filepath.Join(state, "roster", "history")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".roster_history")
	}

	return ""
}

func saveHistory(line *liner.State, path string) {
	if path == "" {
		return
	}

	var buf bytes.Buffer

	if _, err := line.WriteHistory(&buf); err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return
	}

	_ = atomic.WriteFile(path, &buf)
}
