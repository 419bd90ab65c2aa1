package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// CheckCmd returns the check command.
func CheckCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("check", flag.ContinueOnError),
		Usage: "check",
		Short: "Report malformed and duplicate lines",
		Long: `Inspect every line of the store file and report malformed lines,
duplicate IDs, duplicate lines and field values that fail validation.
Exits 1 if any problem is found.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			reg, err := a.open(ctx)
			if err != nil {
				return err
			}

			report, err := reg.CheckRecords()
			if err != nil {
				return err
			}

			for _, p := range report.Problems {
				io.Warn(p.String(), "edit "+a.cfg.StoreFileAbs+" to fix or remove the line")
			}

			io.Printf("%d records, %d problems\n", report.Records, len(report.Problems))

			return nil
		},
	}
}
