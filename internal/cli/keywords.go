package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/notebook/internal/registry"
)

// KeywordsCmd returns the keywords command.
func KeywordsCmd(nb *notebook) *Command {
	fs := flag.NewFlagSet("keywords", flag.ContinueOnError)
	set := fs.StringSlice("set", nil, "Replace all keywords (comma separated, empty to clear)")
	add := fs.StringArrayP("add", "a", nil, "Add a keyword (repeatable)")
	remove := fs.StringArrayP("remove", "r", nil, "Remove a keyword (repeatable)")

	return &Command{
		Flags: fs,
		Usage: "keywords <id> [flags]",
		Short: "Show or edit keywords",
		Long: `Show or edit a document's keywords, one per line.

--set is applied first, then --add, then --remove. Adding a keyword that is
already present does nothing.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			edit := keywordEdit{set: *set, replace: fs.Changed("set"), add: *add, remove: *remove}

			return execKeywords(o, nb, edit, args)
		},
	}
}

type keywordEdit struct {
	set     []string
	replace bool // --set was given, possibly empty
	add     []string
	remove  []string
}

func execKeywords(o *IO, nb *notebook, edit keywordEdit, args []string) (err error) {
	if len(args) == 0 {
		return errIDRequired
	}

	if err := errors.Join(nonEmpty("add", edit.add), nonEmpty("remove", edit.remove)); err != nil {
		return err
	}

	editing := edit.replace || len(edit.add) > 0 || len(edit.remove) > 0

	var reg *registry.Registry

	if editing {
		var release func() error

		reg, release, err = nb.openLocked()
		if err != nil {
			return err
		}

		defer func() { err = errors.Join(err, release()) }()
	} else {
		reg = nb.open()
	}

	id, _, err := lookup(reg, args[0])
	if err != nil {
		return err
	}

	var writeErrs []error

	if edit.replace {
		writeErrs = append(writeErrs, reg.SetKeywords(id, uniq(edit.set)))
	}

	for _, k := range edit.add {
		writeErrs = append(writeErrs, reg.AddKeyword(id, k))
	}

	for _, k := range edit.remove {
		writeErrs = append(writeErrs, reg.RemoveKeyword(id, k))
	}

	warnWrite(o, "keywords of "+id.String(), errors.Join(writeErrs...))

	rec, _ := reg.Record(id)
	for _, k := range rec.Keywords {
		o.Println(k)
	}

	return nil
}
