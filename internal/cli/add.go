package cli

import (
	"context"

	"github.com/calvinalkan/roster/internal/person"
	"github.com/calvinalkan/roster/internal/registry"

	flag "github.com/spf13/pflag"
)

// AddCmd returns the add command.
func AddCmd(a *app) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.StringP("first", "f", "", "First name (required)")
	fs.StringP("middle", "m", "", "Middle name")
	fs.StringP("last", "l", "", "Last name (required)")
	fs.StringP("birthday", "b", "", "Birthday as YYYY-MM-DD (required)")
	fs.StringP("gender", "g", person.DefaultGender, "Gender (Male|Female|Other)")

	return &Command{
		Flags: fs,
		Usage: "add [flags]",
		Short: "Add a record and print its ID",
		Long: `Add a record. The next free ID is assigned and printed.
Names may contain only letters and spaces. The middle name is optional.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execAdd(ctx, io, a, fs)
		},
	}
}

func execAdd(ctx context.Context, io *IO, a *app, fs *flag.FlagSet) error {
	in := registry.Input{}
	in.First, _ = fs.GetString("first")
	in.Middle, _ = fs.GetString("middle")
	in.Last, _ = fs.GetString("last")
	in.Birthday, _ = fs.GetString("birthday")
	in.Gender, _ = fs.GetString("gender")

	reg, err := a.open(ctx)
	if err != nil {
		return err
	}

	rec, err := reg.CreateRecord(in)
	if err != nil {
		return err
	}

	io.Println(rec.ID)

	return nil
}
