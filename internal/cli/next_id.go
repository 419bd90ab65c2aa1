package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// NextIDCmd returns the next-id command.
func NextIDCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("next-id", flag.ContinueOnError),
		Usage: "next-id",
		Short: "Print the ID the next add would assign",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			_, err := a.open(ctx)
			if err != nil {
				return err
			}

			id, err := a.store.NextID()
			if err != nil {
				return err
			}

			io.Println(id)

			return nil
		},
	}
}
