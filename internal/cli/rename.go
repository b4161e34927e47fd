package cli

import (
	"context"
	"errors"
	"strings"

	flag "github.com/spf13/pflag"
)

// RenameCmd returns the rename command.
func RenameCmd(nb *notebook) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rename", flag.ContinueOnError),
		Usage: "rename <id> <title>",
		Short: "Change a document's title",
		Long:  "Change a document's title. Words after the id are joined with spaces.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execRename(o, nb, args)
		},
	}
}

func execRename(o *IO, nb *notebook, args []string) (err error) {
	if len(args) == 0 {
		return errIDRequired
	}

	title := strings.Join(args[1:], " ")
	if title == "" {
		return errTitleRequired
	}

	reg, release, err := nb.openLocked()
	if err != nil {
		return err
	}

	defer func() { err = errors.Join(err, release()) }()

	id, _, err := lookup(reg, args[0])
	if err != nil {
		return err
	}

	warnWrite(o, "title of "+id.String(), reg.Rename(id, title))

	o.Println("Renamed", id, "to", title)

	return nil
}
