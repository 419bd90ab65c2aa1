package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"
)

var errIDRequired = errors.New("record ID is required")

// ShowCmd returns the show command.
func ShowCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("show", flag.ContinueOnError),
		Usage: "show <id>",
		Short: "Show one record",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) == 0 {
				return errIDRequired
			}

			reg, err := a.open(ctx)
			if err != nil {
				return err
			}

			rec, err := reg.GetRecord(ctx, args[0])
			if err != nil {
				return err
			}

			printRecord(io, rec)

			return nil
		},
	}
}
