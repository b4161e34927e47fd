package doc_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/notebook/internal/doc"
	"github.com/calvinalkan/notebook/internal/ident"
)

func TestFileID_TextRoundTrip(t *testing.T) {
	t.Parallel()

	id := doc.FileID(0xdeadbeefcafe)

	data, err := json.Marshal(map[doc.FileID]string{id: "x"})
	require.NoError(t, err)
	require.JSONEq(t, `{"`+id.String()+`":"x"}`, string(data))

	var back map[doc.FileID]string
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, "x", back[id])

	parsed, err := doc.ParseFileID(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseIDs_RejectInvalid(t *testing.T) {
	t.Parallel()

	_, err := doc.ParseFileID("nope")
	require.ErrorIs(t, err, ident.ErrDecode)

	_, err = doc.ParseColumnID("nope")
	require.ErrorIs(t, err, ident.ErrDecode)

	var col doc.ColumnID
	require.ErrorIs(t, col.UnmarshalText([]byte("!!")), ident.ErrDecode)
}

func TestCategory(t *testing.T) {
	t.Parallel()

	for _, c := range []doc.Category{doc.CategoryText, doc.CategoryTable} {
		parsed, err := doc.ParseCategory(c.String())
		require.NoError(t, err)
		require.Equal(t, c, parsed)
		require.True(t, c.Valid())
	}

	_, err := doc.ParseCategory("spreadsheet")
	require.ErrorIs(t, err, doc.ErrUnknownCategory)

	var zero doc.Category
	require.False(t, zero.Valid())

	require.Equal(t, doc.CategoryText, doc.Text{}.Category())
	require.Equal(t, doc.CategoryTable, doc.Table{}.Category())
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	rec := doc.Record{Title: "a", Category: doc.CategoryText, Keywords: []string{"x"}}
	clone := rec.Clone()
	clone.Keywords[0] = "y"

	require.Equal(t, "x", rec.Keywords[0])
	require.True(t, rec.HasKeyword("x"))
	require.False(t, rec.HasKeyword("y"))

	empty := doc.Record{}.Clone()
	require.NotNil(t, empty.Keywords)
}

func TestKind_Tags(t *testing.T) {
	t.Parallel()

	for _, tag := range []string{"p", "h2", "h3", "h4"} {
		kind, err := doc.ParseKind(tag)
		require.NoError(t, err)
		require.Equal(t, tag, kind.String())
	}

	_, err := doc.ParseKind("h1")
	require.ErrorIs(t, err, doc.ErrUnknownKind)
}

func TestText_Editing(t *testing.T) {
	t.Parallel()

	var text doc.Text

	text.Append(doc.Paragraph{Kind: doc.KindPlain, Text: "b"})
	require.NoError(t, text.Insert(0, doc.Paragraph{Kind: doc.KindHeading2, Text: "a"}))
	require.NoError(t, text.Insert(2, doc.Paragraph{Kind: doc.KindPlain, Text: "c"}))
	require.NoError(t, text.Set(1, doc.Paragraph{Kind: doc.KindHeading3, Text: "B"}))

	want := []doc.Paragraph{
		{Kind: doc.KindHeading2, Text: "a"},
		{Kind: doc.KindHeading3, Text: "B"},
		{Kind: doc.KindPlain, Text: "c"},
	}
	if diff := cmp.Diff(want, text.Paragraphs); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	require.NoError(t, text.Remove(0))
	require.Equal(t, 2, text.Len())

	for _, err := range []error{
		text.Insert(5, doc.Paragraph{}),
		text.Set(2, doc.Paragraph{}),
		text.Remove(-1),
	} {
		if !errors.Is(err, doc.ErrOutOfRange) {
			t.Fatalf("err=%v, want ErrOutOfRange", err)
		}
	}
}
