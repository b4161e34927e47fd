package store

import (
	"encoding/json"
	"fmt"

	"github.com/calvinalkan/notebook/internal/doc"
)

type paragraphJSON struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// LoadText reads the content of a text document.
//
// The file must hold a JSON array of {"type", "text"} objects. Elements with
// an unknown type are dropped. Errors wrap [ErrContentMissing] when the file
// does not exist and [ErrContentMalformed] when it is not a JSON array.
func (s *Store) LoadText(id doc.FileID) (doc.Text, error) {
	rel := relContentPath(id)

	data, err := s.readEntryFile(id, rel)
	if err != nil {
		return doc.Text{}, err
	}

	text, err := parseText(data)
	if err != nil {
		return doc.Text{}, s.fileError(id, rel, err)
	}

	return text, nil
}

func parseText(data []byte) (doc.Text, error) {
	elems, ok := array(data)
	if !ok {
		return doc.Text{}, fmt.Errorf("%w: text content is not a JSON array", ErrContentMalformed)
	}

	text := doc.Text{Paragraphs: make([]doc.Paragraph, 0, len(elems))}

	for _, elem := range elems {
		obj, ok := object(elem)
		if !ok {
			continue
		}

		tag, ok := str(obj["type"])
		if !ok {
			continue
		}

		kind, err := doc.ParseKind(tag)
		if err != nil {
			continue
		}

		body := ""
		if raw, ok := obj["text"]; ok && string(raw) != "null" {
			body = textOf(raw)
		}

		text.Append(doc.Paragraph{Kind: kind, Text: body})
	}

	return text, nil
}

// StoreText replaces the content of id with text.
func (s *Store) StoreText(id doc.FileID, text doc.Text) error {
	rel := relContentPath(id)

	paragraphs := make([]paragraphJSON, 0, len(text.Paragraphs))
	bodies := make([]string, 0, len(text.Paragraphs))

	for _, p := range text.Paragraphs {
		paragraphs = append(paragraphs, paragraphJSON{Type: p.Kind.String(), Text: p.Text})
		bodies = append(bodies, p.Text)
	}

	if err := checkUTF8("paragraph", bodies...); err != nil {
		return s.writeFailed(id, rel, err)
	}

	data, err := json.Marshal(paragraphs)
	if err != nil {
		return s.fileError(id, rel, fmt.Errorf("encode: %w", err))
	}

	return s.writeEntryFile(id, rel, data)
}
