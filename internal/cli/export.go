package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/notebook/internal/doc"
	"github.com/calvinalkan/notebook/internal/markdown"
)

// ExportCmd returns the export command.
func ExportCmd(nb *notebook) *Command {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.StringP("output", "o", "", "Write to `file` instead of stdout")

	return &Command{
		Flags: fs,
		Usage: "export <id> [-o file]",
		Short: "Export as Markdown (text) or CSV (table)",
		Long: `Export a document. Text documents are written as Markdown, tables as CSV
with a header row of column names.

With --output the file is replaced atomically.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execExport(o, nb, fs, args)
		},
	}
}

func execExport(o *IO, nb *notebook, fs *flag.FlagSet, args []string) (err error) {
	if len(args) == 0 {
		return errIDRequired
	}

	output, _ := fs.GetString("output")
	if fs.Changed("output") && output == "" {
		return fmt.Errorf("%w: --output", errEmptyValue)
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

	content, loadErr := reg.Content(id)
	if loadErr != nil {
		o.Warn("exporting empty content for "+id.String(), loadErr)
	}

	var buf bytes.Buffer

	switch c := content.(type) {
	case doc.Text:
		buf.WriteString(markdown.Export(c))
	case doc.Table:
		if err := markdown.ExportTable(&buf, c); err != nil {
			return err
		}
	}

	if output == "" {
		o.Printf("%s", buf.String())

		return nil
	}

	if !filepath.IsAbs(output) {
		output = filepath.Join(nb.cfg.EffectiveCwd, output)
	}

	if err := nb.fs.WriteFileAtomic(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	nb.log.Debug().Str("file_id", id.String()).Str("path", output).Int("bytes", buf.Len()).Msg("exported")

	return nil
}
