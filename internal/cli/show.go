package cli

import (
	"context"
	"errors"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/notebook/internal/doc"
	"github.com/calvinalkan/notebook/internal/markdown"
)

// ShowCmd returns the show command.
func ShowCmd(nb *notebook) *Command {
	return &Command{
		Flags: flag.NewFlagSet("show", flag.ContinueOnError),
		Usage: "show <id>",
		Short: "Show document details",
		Long: `Display the cover and content of a document.

Text is rendered as Markdown and tables as an aligned grid. A document without
a content file gets an empty one; a malformed content file is backed up to
content.json.corrupt-<nanos> and replaced by an empty one.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execShow(o, nb, args)
		},
	}
}

func execShow(o *IO, nb *notebook, args []string) (err error) {
	if len(args) == 0 {
		return errIDRequired
	}

	reg, release, err := nb.openLocked()
	if err != nil {
		return err
	}

	defer func() { err = errors.Join(err, release()) }()

	id, rec, err := lookup(reg, args[0])
	if err != nil {
		return err
	}

	content, loadErr := reg.Content(id)
	if loadErr != nil {
		o.Warn("showing empty content for "+id.String(), loadErr)
	}

	o.Println("id:", id)
	o.Println("title:", rec.Title)
	o.Println("category:", rec.Category)
	o.Println("keywords:", strings.Join(rec.Keywords, ", "))
	o.Println()

	switch c := content.(type) {
	case doc.Text:
		o.Printf("%s", markdown.Export(c))
	case doc.Table:
		renderTable(o.Out(), c)
	}

	return nil
}
