package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/calvinalkan/roster/internal/person"

	flag "github.com/spf13/pflag"
)

var errKeywordRequired = errors.New("keyword is required")

// FindCmd returns the find command.
func FindCmd(a *app) *Command {
	fs := flag.NewFlagSet("find", flag.ContinueOnError)
	fs.String("by", person.ModeID.String(), "Search by id|name|birthday")

	return &Command{
		Flags: fs,
		Usage: "find [flags] <keyword>",
		Short: "Find records by ID, name or birthday",
		Long: `Find records. Matching ignores case and surrounding whitespace.
  --by id        exact ID match (default)
  --by name      substring of the full name
  --by birthday  exact YYYY-MM-DD match`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			by, _ := fs.GetString("by")

			return execFind(ctx, io, a, by, args)
		},
	}
}

func execFind(ctx context.Context, io *IO, a *app, by string, args []string) error {
	mode, err := person.ParseMode(by)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return errKeywordRequired
	}

	reg, err := a.open(ctx)
	if err != nil {
		return err
	}

	records, err := reg.FindRecords(ctx, mode, strings.Join(args, " "))
	if err != nil {
		return err
	}

	printRecords(io, records, msgNoMatching)

	return nil
}
