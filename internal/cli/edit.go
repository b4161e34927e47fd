package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/notebook/internal/doc"
	"github.com/calvinalkan/notebook/internal/registry"
)

var errBadArgs = errors.New("bad arguments")

// EditCmd returns the edit command.
func EditCmd(nb *notebook, in io.Reader) *Command {
	return &Command{
		Flags: flag.NewFlagSet("edit", flag.ContinueOnError),
		Usage: "edit <id>",
		Short: "Edit a document in an interactive shell",
		Long: `Open a document in a line-oriented editing shell.

On a terminal the shell offers history and tab completion. Otherwise commands
are read from stdin one per line, so edits can be scripted:

  printf 'h2 Shopping\nadd milk and eggs\n' | nb edit <id>

Type "help" in the shell for the commands of the document's category.
Changes are written on "save" and on leaving with "quit", Ctrl-D or end of
input, and also when reading input fails. "abort" leaves without saving.
Ctrl-C clears the line being typed. The notebook stays locked while the shell
runs.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execEdit(ctx, o, nb, in, args)
		},
	}
}

func execEdit(ctx context.Context, o *IO, nb *notebook, in io.Reader, args []string) (err error) {
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

	var ed editor

	switch rec.Category {
	case doc.CategoryTable:
		table, loadErr := reg.Table(id)
		if loadErr != nil {
			o.Warn("editing empty content for "+id.String(), loadErr)
		}

		ed = newTableEditor(table, nb.gen)
	default:
		text, loadErr := reg.Text(id)
		if loadErr != nil {
			o.Warn("editing empty content for "+id.String(), loadErr)
		}

		ed = newTextEditor(text)
	}

	sh := &shell{o: o, reg: reg, id: id, title: rec.Title, ed: ed}

	lines := newLineReader(in, nb.history, sh.complete)
	defer func() { err = errors.Join(err, lines.Close()) }()

	return sh.run(ctx, lines)
}

// shellCmd is one editing command of a document shell.
type shellCmd struct {
	names   []string
	usage   string
	mutates bool
	run     func(o *IO, args string) error
}

// editor is the editing buffer of one document category.
type editor interface {
	commands() []shellCmd
	print(o *IO)
	snapshot() doc.Content
}

// shell is the read-eval loop shared by both document categories.
type shell struct {
	o     *IO
	reg   *registry.Registry
	id    doc.FileID
	title string
	ed    editor
	dirty bool
}

func (s *shell) run(ctx context.Context, lines lineReader) error {
	s.o.Printf("Editing %q (%s). Type 'help' for commands.\n", s.title, s.id)

	prompt := s.id.String() + "> "

	for {
		if ctx.Err() != nil {
			s.o.Println("Interrupted.")

			return s.leave(true)
		}

		line, err := lines.ReadLine(prompt)
		if errors.Is(err, io.EOF) {
			return s.leave(true)
		}

		if err != nil {
			return errors.Join(fmt.Errorf("reading input: %w", err), s.leave(true))
		}

		if !utf8.ValidString(line) {
			s.o.ErrPrintln("error: input is not valid UTF-8, line ignored")

			continue
		}

		name, rest := cutWord(line)
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}

		switch strings.ToLower(name) {
		case "quit", "q", "exit":
			return s.leave(true)

		case "abort":
			return s.leave(false)

		case "save", "w":
			if err := s.save(); err != nil {
				s.o.ErrPrintln("error: save failed:", err)
			} else {
				s.o.Println("Saved.")
			}

		case "print", "p", "ls":
			s.ed.print(s.o)

		case "help", "?":
			s.printHelp()

		default:
			s.dispatch(name, rest)
		}
	}
}

func (s *shell) dispatch(name, rest string) {
	cmd, ok := s.find(name)
	if !ok {
		s.o.ErrPrintln("error: unknown command:", name, "(type 'help' for commands)")

		return
	}

	if err := cmd.run(s.o, rest); err != nil {
		s.o.ErrPrintln("error:", err)
		s.o.ErrPrintln("usage:", cmd.usage)

		return
	}

	if cmd.mutates {
		s.dirty = true
	}
}

func (s *shell) find(name string) (shellCmd, bool) {
	name = strings.ToLower(name)

	for _, cmd := range s.ed.commands() {
		for _, n := range cmd.names {
			if n == name {
				return cmd, true
			}
		}
	}

	return shellCmd{}, false
}

func (s *shell) save() error {
	if err := s.reg.Save(s.id, s.ed.snapshot()); err != nil {
		return err
	}

	s.dirty = false

	return nil
}

// leave ends the session, saving pending changes if keep is set. A failed
// final save is reported as a warning rather than an error.
func (s *shell) leave(keep bool) error {
	switch {
	case !s.dirty:
	case !keep:
		s.o.Println("Discarded unsaved changes.")
	default:
		if err := s.save(); err != nil {
			s.o.Warn("changes to "+s.id.String()+" were not saved", err)
		} else {
			s.o.Println("Saved.")
		}
	}

	return nil
}

func (s *shell) printHelp() {
	s.o.Println("Commands:")

	for _, cmd := range s.ed.commands() {
		s.o.Printf("  %s\n", cmd.usage)
	}

	s.o.Println("  print | p                      Show the document")
	s.o.Println("  save | w                       Write changes to disk")
	s.o.Println("  quit | q                       Save and leave")
	s.o.Println("  abort                          Leave without saving")
	s.o.Println("Rows and paragraphs are numbered from 1.")
}

func (s *shell) complete(line string) []string {
	names := []string{"print", "save", "quit", "abort", "help"}
	for _, cmd := range s.ed.commands() {
		names = append(names, cmd.names[0])
	}

	var out []string

	lower := strings.ToLower(line)
	for _, n := range names {
		if strings.HasPrefix(n, lower) {
			out = append(out, n)
		}
	}

	return out
}

// cutWord splits off the first whitespace-separated word. The rest keeps
// its inner spacing.
func cutWord(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")

	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}

	return s[:i], strings.TrimLeft(s[i:], " \t")
}

// position parses a 1-based position in [1, limit] and returns it 0-based.
func position(s string, limit int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errBadArgs, s)
	}

	if n < 1 || n > limit {
		if limit == 0 {
			return 0, fmt.Errorf("%w: %d (document is empty)", doc.ErrOutOfRange, n)
		}

		return 0, fmt.Errorf("%w: %d (want 1-%d)", doc.ErrOutOfRange, n, limit)
	}

	return n - 1, nil
}
