// Package markdown converts notebook documents to and from portable formats:
// Markdown for text documents and CSV for tables.
//
// Text paragraphs only carry a heading level, so conversion is lossy. Inline
// markup is flattened to its text and block structure such as lists or
// quotes becomes plain paragraphs.
package markdown

import (
	"bytes"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/calvinalkan/notebook/internal/doc"
)

var parser = sync.OnceValue(func() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(extension.GFM))
})

// Import parses src as Markdown.
//
// Level 1 and 2 headings become [doc.KindHeading2], level 3 becomes
// [doc.KindHeading3] and deeper levels [doc.KindHeading4]. Every other
// block becomes one plain paragraph per leaf block; list items keep a "- "
// marker and table rows are joined with " | ".
func Import(src []byte) doc.Text {
	root := parser().Parser().Parse(text.NewReader(src))

	im := importer{src: src, out: doc.Text{Paragraphs: []doc.Paragraph{}}}
	im.blocks(root, "")

	return im.out
}

type importer struct {
	src []byte
	out doc.Text
}

func (im *importer) blocks(parent ast.Node, marker string) {
	for node := parent.FirstChild(); node != nil; node = node.NextSibling() {
		im.block(node, marker)
	}
}

func (im *importer) block(node ast.Node, marker string) {
	switch n := node.(type) {
	case *ast.Heading:
		im.add(headingKind(n.Level), inline(n, im.src))

	case *ast.Paragraph, *ast.TextBlock:
		im.add(doc.KindPlain, marker+inline(n, im.src))

	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		im.add(doc.KindPlain, strings.TrimRight(rawLines(n, im.src), "\n"))

	case *ast.List:
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			im.blocks(item, "- ")
		}

	case *extast.TableHeader, *extast.TableRow:
		cells := make([]string, 0, n.ChildCount())
		for cell := n.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, inline(cell, im.src))
		}

		im.add(doc.KindPlain, strings.Join(cells, " | "))

	case *ast.ThematicBreak:
		// No paragraph kind for a rule.

	default:
		im.blocks(n, marker)
	}
}

func (im *importer) add(kind doc.Kind, s string) {
	im.out.Append(doc.Paragraph{Kind: kind, Text: s})
}

func headingKind(level int) doc.Kind {
	switch {
	case level <= 2:
		return doc.KindHeading2
	case level == 3:
		return doc.KindHeading3
	default:
		return doc.KindHeading4
	}
}

// inline returns the text of node's inline children with markup removed.
func inline(node ast.Node, src []byte) string {
	var buf bytes.Buffer

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Text:
			buf.Write(n.Segment.Value(src))

			switch {
			case n.HardLineBreak():
				buf.WriteByte('\n')
			case n.SoftLineBreak():
				buf.WriteByte(' ')
			}

		case *ast.String:
			buf.Write(n.Value)

		case *ast.AutoLink:
			buf.Write(n.URL(src))

			return ast.WalkSkipChildren, nil

		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(buf.String())
}

func rawLines(node ast.Node, src []byte) string {
	var buf bytes.Buffer

	lines := node.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}

	return buf.String()
}

// Export renders t as Markdown, one block per paragraph separated by blank
// lines.
func Export(t doc.Text) string {
	var b strings.Builder

	for i, p := range t.Paragraphs {
		if i > 0 {
			b.WriteString("\n\n")
		}

		switch p.Kind {
		case doc.KindHeading2:
			b.WriteString("## ")
		case doc.KindHeading3:
			b.WriteString("### ")
		case doc.KindHeading4:
			b.WriteString("#### ")
		case doc.KindPlain:
		}

		b.WriteString(p.Text)
	}

	if b.Len() > 0 {
		b.WriteByte('\n')
	}

	return b.String()
}
