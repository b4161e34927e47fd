package doc

import "fmt"

// Kind is the paragraph style of a text document block.
type Kind int

// Paragraph kinds.
const (
	KindPlain Kind = iota
	KindHeading2
	KindHeading3
	KindHeading4
)

// ParseKind parses the short tag used on disk and in the editor ("p", "h2", "h3", "h4").
func ParseKind(s string) (Kind, error) {
	switch s {
	case "p":
		return KindPlain, nil
	case "h2":
		return KindHeading2, nil
	case "h3":
		return KindHeading3, nil
	case "h4":
		return KindHeading4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// String returns the short tag for k.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "p"
	case KindHeading2:
		return "h2"
	case KindHeading3:
		return "h3"
	case KindHeading4:
		return "h4"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Paragraph is one block of a text document.
type Paragraph struct {
	Kind Kind
	Text string
}

// Text is the body of a text document: paragraphs in display order.
type Text struct {
	Paragraphs []Paragraph
}

// Category implements [Content].
func (Text) Category() Category {
	return CategoryText
}

// Len returns the number of paragraphs.
func (t *Text) Len() int {
	return len(t.Paragraphs)
}

// Append adds p after the last paragraph.
func (t *Text) Append(p Paragraph) {
	t.Paragraphs = append(t.Paragraphs, p)
}

// Insert places p at index i, shifting later paragraphs back.
// i may equal Len() to append.
func (t *Text) Insert(i int, p Paragraph) error {
	if i < 0 || i > len(t.Paragraphs) {
		return fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(t.Paragraphs))
	}

	t.Paragraphs = append(t.Paragraphs, Paragraph{})
	copy(t.Paragraphs[i+1:], t.Paragraphs[i:])
	t.Paragraphs[i] = p

	return nil
}

// Set replaces the paragraph at index i.
func (t *Text) Set(i int, p Paragraph) error {
	if i < 0 || i >= len(t.Paragraphs) {
		return fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(t.Paragraphs))
	}

	t.Paragraphs[i] = p

	return nil
}

// Remove deletes the paragraph at index i.
func (t *Text) Remove(i int) error {
	if i < 0 || i >= len(t.Paragraphs) {
		return fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(t.Paragraphs))
	}

	t.Paragraphs = append(t.Paragraphs[:i], t.Paragraphs[i+1:]...)

	return nil
}
