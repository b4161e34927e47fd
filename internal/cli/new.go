package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/notebook/internal/doc"
	"github.com/calvinalkan/notebook/internal/store"
)

var errEmptyValue = errors.New("empty value not allowed")

// NewCmd returns the new command.
func NewCmd(nb *notebook) *Command {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	table := fs.BoolP("table", "t", false, "Create a table document instead of text")
	keywords := fs.StringArrayP("keyword", "k", nil, "Keyword (repeatable)")

	return &Command{
		Flags: fs,
		Usage: "new <title> [--table]",
		Short: "Create a document, prints ID",
		Long: `Create a new document and print its ID.

The document is empty; its content file is written the first time it is shown,
exported or edited.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execNew(o, nb, *table, *keywords, args)
		},
	}
}

func execNew(o *IO, nb *notebook, table bool, keywords []string, args []string) (err error) {
	if len(args) == 0 || args[0] == "" {
		return errTitleRequired
	}

	category := doc.CategoryText
	if table {
		category = doc.CategoryTable
	}

	if err := nonEmpty("keyword", keywords); err != nil {
		return err
	}

	reg, release, err := nb.openLocked()
	if err != nil {
		return err
	}

	defer func() { err = errors.Join(err, release()) }()

	id, err := reg.NewFile(args[0], category)
	if err != nil {
		if !isWriteFailure(err) {
			return err
		}

		warnWrite(o, "cover of "+id.String(), err)
	}

	if len(keywords) > 0 {
		warnWrite(o, "keywords of "+id.String(), reg.SetKeywords(id, uniq(keywords)))
	}

	o.Println(id)

	return nil
}

// nonEmpty rejects an empty value given to a repeatable flag.
func nonEmpty(flagName string, values []string) error {
	for _, v := range values {
		if v == "" {
			return fmt.Errorf("%w: --%s", errEmptyValue, flagName)
		}
	}

	return nil
}

// isWriteFailure reports whether err came from the store, meaning the
// in-memory change happened but did not reach the disk.
func isWriteFailure(err error) bool {
	var storeErr *store.Error

	return errors.As(err, &storeErr)
}

func uniq(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))

	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	return out
}
