package cli

import (
	"context"

	"github.com/calvinalkan/roster/internal/config"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			execPrintConfig(io, cfg)

			return nil
		},
	}
}

func execPrintConfig(io *IO, cfg *config.Config) {
	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Println("store_file=" + cfg.StoreFileAbs)

	if cfg.IndexEnabled() {
		io.Println("index_path=" + cfg.IndexPathAbs)
	} else {
		io.Println("index=off")
	}

	io.Println("")
	io.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		io.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			io.Println("global_config=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			io.Println("project_config=" + cfg.Sources.Project)
		}
	}
}
