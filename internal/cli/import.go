package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/notebook/internal/doc"
	"github.com/calvinalkan/notebook/internal/markdown"
)

var errPathRequired = errors.New("file path is required")

// ImportCmd returns the import command.
func ImportCmd(nb *notebook) *Command {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.StringP("title", "t", "", "Document title [default: file name without extension]")

	return &Command{
		Flags: fs,
		Usage: "import <file> [--title=T]",
		Short: "Create a document from Markdown or CSV, prints ID",
		Long: `Create a document from a file and print its ID.

A .csv file becomes a table whose header row names the columns. Anything else
is read as Markdown and becomes a text document: # and ## headings map to
level 2, ### to level 3, deeper headings to level 4, and every other block to a
plain paragraph.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execImport(o, nb, fs, args)
		},
	}
}

func execImport(o *IO, nb *notebook, fs *flag.FlagSet, args []string) (err error) {
	if len(args) == 0 || args[0] == "" {
		return errPathRequired
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(nb.cfg.EffectiveCwd, path)
	}

	data, err := nb.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	title, _ := fs.GetString("title")
	if fs.Changed("title") && title == "" {
		return fmt.Errorf("%w: --title", errEmptyValue)
	}

	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	var content doc.Content

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		table, err := markdown.ImportTable(bytes.NewReader(data), nb.gen)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		content = table
	} else {
		content = markdown.Import(data)
	}

	reg, release, err := nb.openLocked()
	if err != nil {
		return err
	}

	defer func() { err = errors.Join(err, release()) }()

	id, err := reg.NewFile(title, content.Category())
	if err != nil {
		if !isWriteFailure(err) {
			return err
		}

		warnWrite(o, "cover of "+id.String(), err)
	}

	warnWrite(o, "content of "+id.String(), reg.Save(id, content))

	o.Println(id)

	return nil
}
