package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/notebook/internal/doc"
)

// LsCmd returns the ls command.
func LsCmd(nb *notebook) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.String("category", "", "Filter by category (text|table)")
	fs.StringP("keyword", "k", "", "Only documents with this keyword")

	return &Command{
		Flags:   fs,
		Usage:   "ls [--category=X] [--keyword=K]",
		Aliases: []string{"list"},
		Short:   "List documents",
		Long: `List documents as "<id>  <category>  <title>  [keywords]".

Documents whose cover cannot be read are left out silently; run with -v to see
which entries were skipped.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execLs(o, nb, fs, args)
		},
	}
}

func execLs(o *IO, nb *notebook, fs *flag.FlagSet, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	var category doc.Category

	if tag, _ := fs.GetString("category"); tag != "" {
		parsed, err := doc.ParseCategory(tag)
		if err != nil {
			return err
		}

		category = parsed
	}

	keyword, _ := fs.GetString("keyword")

	for _, e := range nb.open().Entries() {
		if category != 0 && e.Record.Category != category {
			continue
		}

		if keyword != "" && !e.Record.HasKeyword(keyword) {
			continue
		}

		o.Println(entryLine(e))
	}

	return nil
}
