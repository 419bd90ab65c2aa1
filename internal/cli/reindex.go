package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/calvinalkan/roster/internal/store"

	flag "github.com/spf13/pflag"
)

// ReindexCmd returns the reindex command.
func ReindexCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("reindex", flag.ContinueOnError),
		Usage: "reindex",
		Short: "Rebuild the SQLite lookup index",
		Long: `Rebuild the lookup index from the store file. Lookups rebuild a stale
index on their own; this forces it.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			_, err := a.open(ctx)
			if err != nil {
				return err
			}

			n, err := a.store.Reindex(ctx)
			if errors.Is(err, store.ErrIndexDisabled) {
				return fmt.Errorf("%w (use --index or set \"index\": true)", err)
			}

			if err != nil {
				return err
			}

			io.Printf("indexed %d records into %s\n", n, a.store.IndexPath())

			return nil
		},
	}
}
