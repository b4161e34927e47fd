package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/calvinalkan/notebook/internal/cli"
)

// dashID is a valid file id whose encoding starts with "-". Ids like this are
// no longer generated, but may exist on disk.
const dashID = "-ofoBA1Wj6I"

func newDashDocument(t *testing.T) *cli.CLI {
	t.Helper()

	c := cli.NewCLI(t)
	c.WriteFile(filepath.Join(c.FileDir(dashID), "cover.json"), `{"title":"Dashing","category":"text","keywords":[]}`)

	return c
}

func Test_Commands_Address_Document_When_ID_Starts_With_Dash(t *testing.T) {
	t.Parallel()

	c := newDashDocument(t)

	cli.AssertContains(t, c.MustRun("show", dashID), "title: Dashing")

	c.MustRun("rename", dashID, "Renamed")
	cli.AssertContains(t, c.ReadCover(dashID), `"title":"Renamed"`)

	if got, want := c.MustRun("keywords", dashID, "--add", "k1", "-a", "k2"), "k1\nk2"; got != want {
		t.Fatalf("keywords=%q, want=%q", got, want)
	}

	c.MustEdit(dashID, "add hello\n")
	cli.AssertContains(t, c.ReadContent(dashID), `"text":"hello"`)

	cli.AssertContains(t, c.MustRun("show", "--", dashID), "title: Renamed")
}

func Test_Export_Treats_Attached_Short_Flag_As_ID_When_It_Parses_As_One(t *testing.T) {
	t.Parallel()

	c := newDashDocument(t)
	c.MustEdit(dashID, "add body\n")

	// "-ofoBA1Wj6I" would otherwise read as --output=foBA1Wj6I.
	if got, want := c.MustRun("export", dashID), "body"; got != want {
		t.Fatalf("export=%q, want=%q", got, want)
	}

	c.MustRun("export", "-o", "before.md", dashID)
	c.MustRun("export", dashID, "--output", "after.md")

	for _, name := range []string{"before.md", "after.md"} {
		data, err := os.ReadFile(filepath.Join(c.Dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}

		if got, want := string(data), "body\n"; got != want {
			t.Errorf("%s=%q, want=%q", name, got, want)
		}
	}

	if _, err := os.Stat(filepath.Join(c.Dir, "foBA1Wj6I")); !os.IsNotExist(err) {
		t.Fatalf("id must not be used as output path, stat err=%v", err)
	}
}

func Test_Command_Help_Mentions_Terminator(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	cli.AssertContains(t, c.MustRun("show", "--help"), `nb show -- <arg>`)
	cli.AssertContains(t, c.MustRun("--help"), `nb show -- <id>`)
}

func Test_Unknown_Flag_Still_Fails_When_Dash_ID_Present(t *testing.T) {
	t.Parallel()

	c := newDashDocument(t)

	cli.AssertContains(t, c.MustFail("show", "--bogus", dashID), "unknown flag: --bogus")
}
