package cli

import (
	"fmt"

	"github.com/calvinalkan/notebook/internal/doc"
)

type textEditor struct {
	text doc.Text
}

func newTextEditor(text doc.Text) *textEditor {
	return &textEditor{text: text}
}

func (e *textEditor) snapshot() doc.Content {
	return e.text
}

func (e *textEditor) print(o *IO) {
	if e.text.Len() == 0 {
		o.Println("(empty)")

		return
	}

	for i, p := range e.text.Paragraphs {
		o.Printf("%3d  %-2s  %s\n", i+1, p.Kind, flatten(p.Text))
	}
}

func (e *textEditor) commands() []shellCmd {
	heading := func(kind doc.Kind) func(*IO, string) error {
		return func(_ *IO, args string) error {
			e.text.Append(doc.Paragraph{Kind: kind, Text: args})

			return nil
		}
	}

	return []shellCmd{
		{
			names:   []string{"add", "a"},
			usage:   "add <text>                     Append a plain paragraph",
			mutates: true,
			run:     heading(doc.KindPlain),
		},
		{
			names:   []string{"h2"},
			usage:   "h2 <text>                      Append a level 2 heading",
			mutates: true,
			run:     heading(doc.KindHeading2),
		},
		{
			names:   []string{"h3"},
			usage:   "h3 <text>                      Append a level 3 heading",
			mutates: true,
			run:     heading(doc.KindHeading3),
		},
		{
			names:   []string{"h4"},
			usage:   "h4 <text>                      Append a level 4 heading",
			mutates: true,
			run:     heading(doc.KindHeading4),
		},
		{
			names:   []string{"insert", "i"},
			usage:   "insert <n> <p|h2|h3|h4> <text>  Insert before paragraph n",
			mutates: true,
			run:     e.insert,
		},
		{
			names:   []string{"set"},
			usage:   "set <n> <text>                 Replace the text of paragraph n",
			mutates: true,
			run:     e.set,
		},
		{
			names:   []string{"kind"},
			usage:   "kind <n> <p|h2|h3|h4>          Change the style of paragraph n",
			mutates: true,
			run:     e.kind,
		},
		{
			names:   []string{"rm", "del"},
			usage:   "rm <n>                         Delete paragraph n",
			mutates: true,
			run:     e.remove,
		},
	}
}

func (e *textEditor) insert(_ *IO, args string) error {
	pos, rest := cutWord(args)
	tag, body := cutWord(rest)

	// Inserting at Len()+1 appends.
	i, err := position(pos, e.text.Len()+1)
	if err != nil {
		return err
	}

	kind, err := doc.ParseKind(tag)
	if err != nil {
		return err
	}

	return e.text.Insert(i, doc.Paragraph{Kind: kind, Text: body})
}

func (e *textEditor) set(_ *IO, args string) error {
	pos, body := cutWord(args)

	i, err := position(pos, e.text.Len())
	if err != nil {
		return err
	}

	p := e.text.Paragraphs[i]
	p.Text = body

	return e.text.Set(i, p)
}

func (e *textEditor) kind(_ *IO, args string) error {
	pos, tag := cutWord(args)

	i, err := position(pos, e.text.Len())
	if err != nil {
		return err
	}

	kind, err := doc.ParseKind(tag)
	if err != nil {
		return err
	}

	p := e.text.Paragraphs[i]
	p.Kind = kind

	return e.text.Set(i, p)
}

func (e *textEditor) remove(_ *IO, args string) error {
	pos, extra := cutWord(args)
	if extra != "" {
		return fmt.Errorf("%w: unexpected %q", errBadArgs, extra)
	}

	i, err := position(pos, e.text.Len())
	if err != nil {
		return err
	}

	return e.text.Remove(i)
}
