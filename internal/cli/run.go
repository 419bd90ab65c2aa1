// Package cli implements the roster command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/calvinalkan/roster/internal/config"
	"github.com/calvinalkan/roster/internal/registry"
	"github.com/calvinalkan/roster/internal/store"

	flag "github.com/spf13/pflag"
)

var errNoCommand = errors.New("no command provided")

// Run is the main entry point. Returns exit code.
// sigCh may be nil; when it delivers, the command context is cancelled.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("roster", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	flagCwd := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	flagConfig := globals.StringP("config", "c", "", "Use specified config `file`")
	flagStore := globals.String("store", "", "Use `file` as the record store")
	flagIndex := globals.Bool("index", false, "Enable the SQLite lookup index")
	flagHelp := globals.BoolP("help", "h", false, "Show help")

	if len(args) == 0 {
		args = []string{"roster"}
	}

	err := globals.Parse(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printUsage(errOut, globals)

		return 1
	}

	rest := globals.Args()

	if *flagHelp || len(args) == 1 {
		printUsage(out, globals)

		return 0
	}

	if len(rest) == 0 {
		fprintln(errOut, "error:", errNoCommand)
		fprintln(errOut)
		printUsage(errOut, globals)

		return 1
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride:   *flagCwd,
		ConfigPath:        *flagConfig,
		StoreFileOverride: *flagStore,
		HasStoreOverride:  globals.Changed("store"),
		IndexOverride:     *flagIndex,
		Env:               env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printUsage(errOut, globals)

		return 1
	}

	a := &app{cfg: cfg, in: in, env: env}
	defer a.close()

	commands := allCommands(a)

	cmdName := rest[0]

	cmd, ok := commandMap(commands)[cmdName]
	if !ok {
		fprintln(errOut, "error: unknown command:", cmdName)
		fprintln(errOut)
		printUsage(errOut, globals)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	ioCtx := NewIO(out, errOut)

	if code := cmd.Run(ctx, ioCtx, rest[1:]); code != 0 {
		return code
	}

	// Finish handles warnings and exit code
	return ioCtx.Finish()
}

// app carries what commands share. The store is opened on first use so
// that commands like print-config never touch it.
type app struct {
	cfg config.Config
	in  io.Reader
	env map[string]string

	store *store.Store
	reg   *registry.Registry
}

func (a *app) open(ctx context.Context) (*registry.Registry, error) {
	if a.reg != nil {
		return a.reg, nil
	}

	var opts []store.Option
	if a.cfg.IndexEnabled() {
		opts = append(opts, store.WithIndex(a.cfg.IndexPathAbs))
	}

	s, err := store.Open(ctx, a.cfg.StoreFileAbs, opts...)
	if err != nil {
		return nil, err
	}

	a.store = s
	a.reg = registry.New(s)

	return a.reg, nil
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

func allCommands(a *app) []*Command {
	return []*Command{
		AddCmd(a),
		LsCmd(a),
		FindCmd(a),
		ShowCmd(a),
		NextIDCmd(a),
		CheckCmd(a),
		ReindexCmd(a),
		ShellCmd(a),
		PrintConfigCmd(&a.cfg),
	}
}

func commandMap(commands []*Command) map[string]*Command {
	m := make(map[string]*Command, len(commands))
	for _, cmd := range commands {
		m[cmd.Name()] = cmd
	}

	return m
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, globals *flag.FlagSet) {
	fprintln(w, "roster - personal records registry")
	fprintln(w)
	fprintln(w, "Usage: roster [flags] <command> [args]")
	fprintln(w)
	fprintln(w, "Global flags:")

	var buf strings.Builder
	globals.SetOutput(&buf)
	globals.PrintDefaults()
	_, _ = io.WriteString(w, buf.String())

	fprintln(w)
	fprintln(w, "Commands:")

	for _, cmd := range allCommands(&app{}) {
		fprintln(w, cmd.HelpLine())
	}

	fprintln(w)
	fprintln(w, "Run 'roster <command> --help' for more information on a command.")
}
