package cli_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/notebook/internal/cli"
)

func TestShowCommand(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{name: "missing ID returns error", args: []string{"show"}, wantStderr: "file ID is required"},
		{name: "malformed ID returns error", args: []string{"show", "xyz"}, wantStderr: "invalid file ID"},
		{name: "unknown ID returns error", args: []string{"show", "AAAAAAAAAAE"}, wantStderr: "file not found"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			cli.AssertContains(t, c.MustFail(tt.args...), tt.wantStderr)
		})
	}
}

func Test_Show_Creates_Default_Content_When_Text_Is_New(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.MustRun("new", "Journal", "-k", "daily")

	stdout, stderr, exitCode := c.Run("show", id)

	if got, want := exitCode, 0; got != want {
		t.Fatalf("exitCode=%d, want=%d, stderr=%s", got, want, stderr)
	}

	if got, want := stderr, ""; got != want {
		t.Errorf("stderr=%q, want=%q", got, want)
	}

	want := "id: " + id + "\ntitle: Journal\ncategory: text\nkeywords: daily\n\n"
	if got := stdout; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	if got, want := c.ReadContent(id), "[]"; got != want {
		t.Errorf("content.json=%q, want=%q", got, want)
	}
}

func Test_Show_Creates_Default_Content_Once_When_Table_Shown_Twice(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.MustRun("new", "Grocery List", "--table")

	first := c.MustRun("show", id)
	cli.AssertContains(t, first, "(empty table)")

	content := c.ReadContent(id)
	if got, want := content, `{"columns":[],"cells":[]}`; got != want {
		t.Fatalf("content.json=%q, want=%q", got, want)
	}

	if got, want := c.MustRun("show", id), first; got != want {
		t.Errorf("second show=%q, want=%q", got, want)
	}

	if got, want := c.ReadContent(id), content; got != want {
		t.Errorf("content.json after second show=%q, want=%q", got, want)
	}
}

func Test_Show_Backs_Up_Content_When_Malformed(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.MustRun("new", "Broken")
	c.WriteContent(id, `{"this is": "not a paragraph list"`)

	stdout, stderr, exitCode := c.Run("show", id)

	if got, want := exitCode, 0; got != want {
		t.Fatalf("exitCode=%d, want=%d, stderr=%s", got, want, stderr)
	}

	cli.AssertContains(t, stdout, "title: Broken")
	cli.AssertContains(t, stderr, "content is malformed")

	if got, want := c.ReadContent(id), "[]"; got != want {
		t.Errorf("content.json=%q, want=%q", got, want)
	}

	backups, err := filepath.Glob(filepath.Join(c.FileDir(id), "content.json.corrupt-*"))
	if err != nil {
		t.Fatal(err)
	}

	if got, want := len(backups), 1; got != want {
		t.Fatalf("backups=%d, want=%d", got, want)
	}

	data, err := os.ReadFile(backups[0])
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), `{"this is": "not a paragraph list"`; got != want {
		t.Errorf("backup=%q, want=%q", got, want)
	}
}

func Test_Show_Drops_Unknown_Paragraphs_When_Content_Has_Them(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.MustRun("new", "Mixed")
	c.WriteContent(id, `[{"type":"h2","text":"Title"},{"type":"image","src":"x.png"},{"type":"p","text":"Body"}]`)

	stdout := c.MustRun("show", id)

	if got, want := stdout[strings.Index(stdout, "## "):], "## Title\n\nBody"; got != want {
		t.Errorf("body=%q, want=%q", got, want)
	}
}

func Test_Search_Ranks_Fuzzy_Matches_When_Query_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	grocery := c.MustRun("new", "Grocery List", "--table")
	c.MustRun("new", "Calendar")
	tagged := c.MustRun("new", "Weekend", "-k", "grocery list")

	out := c.MustRun("search", "grcl")
	lines := strings.Split(out, "\n")

	if got, want := len(lines), 2; got != want {
		t.Fatalf("lines=%d, want=%d\n%s", got, want, out)
	}

	cli.AssertContains(t, out, grocery+"  table  Grocery List")
	cli.AssertContains(t, out, tagged)
	cli.AssertNotContains(t, out, "Calendar")

	if got, want := c.MustRun("search", "-n", "1", "GROCERY", "LIST"), grocery+"  table  Grocery List"; got != want {
		t.Errorf("search=%q, want=%q", got, want)
	}

	cli.AssertContains(t, c.MustFail("search"), "query is required")

	if got, want := c.MustRun("search", "zzzz"), ""; got != want {
		t.Errorf("search=%q, want=%q", got, want)
	}
}

func Test_Search_Prints_Score_When_Flag_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.MustRun("new", "Grocery List")

	out := c.MustRun("search", "--score", "grocery")
	fields := strings.Fields(out)

	if got, want := fields[1], id; got != want {
		t.Fatalf("id=%q, want=%q (out=%q)", got, want, out)
	}

	if fields[0] == "0" {
		t.Fatalf("score=%q, want positive", fields[0])
	}
}
