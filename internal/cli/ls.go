package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// LsCmd returns the ls command.
func LsCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("ls", flag.ContinueOnError),
		Usage: "ls",
		Short: "List all records",
		Long:  "List every record in the order it was added.",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			reg, err := a.open(ctx)
			if err != nil {
				return err
			}

			records, err := reg.ListRecords()
			if err != nil {
				return err
			}

			printRecords(io, records, msgNoRecords)

			return nil
		},
	}
}
