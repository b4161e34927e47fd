package cli

import (
	"bytes"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/notebook/internal/ident"
)

// CLI runs nb in-process against a temp directory. Every invocation gets
// "--cwd Dir" prepended and sees only Env.
//
// Ids come from a generator seeded with the test name, so a test sees the
// same ids on every run.
type CLI struct {
	t   *testing.T
	gen *ident.Generator
	Dir string
	Env map[string]string
}

// NewCLI returns a CLI rooted in a fresh temp directory with an empty environment.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	var seed [32]byte
	copy(seed[:], t.Name())

	return &CLI{
		t:   t,
		gen: ident.NewGeneratorFrom(rand.NewChaCha8(seed)),
		Dir: t.TempDir(),
		Env: map[string]string{},
	}
}

// Run executes nb with args and empty stdin.
func (r *CLI) Run(args ...string) (stdout string, stderr string, code int) {
	return r.RunStdin("", args...)
}

// RunStdin executes nb with args, feeding stdin as standard input.
func (r *CLI) RunStdin(stdin string, args ...string) (stdout string, stderr string, code int) {
	return r.RunInput(strings.NewReader(stdin), args...)
}

// RunInput executes nb with args, reading standard input from in.
func (r *CLI) RunInput(in io.Reader, args ...string) (stdout string, stderr string, code int) {
	var out, errOut bytes.Buffer

	argv := make([]string, 0, len(args)+3)
	argv = append(argv, "nb", "--cwd", r.Dir)
	argv = append(argv, args...)

	code = run(in, &out, &errOut, argv, r.Env, nil, r.gen)

	return out.String(), errOut.String(), code
}

// MustRun executes the CLI and fails the test if the command returns non-zero.
// Returns trimmed stdout on success.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustEdit pipes script into "nb edit id" and fails the test on a non-zero exit.
// Returns stdout.
func (r *CLI) MustEdit(id, script string) string {
	r.t.Helper()

	stdout, stderr, code := r.RunStdin(script, "edit", id)
	if code != 0 {
		r.t.Fatalf("edit %s failed with exit code %d\nstderr: %s", id, code, stderr)
	}

	return stdout
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Also fails if stdout is not empty. Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	if stdout != "" {
		r.t.Fatalf("command %v failed but stdout should be empty\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// Root returns the path to the default .notebook directory.
func (r *CLI) Root() string {
	return filepath.Join(r.Dir, ".notebook")
}

// FileDir returns the entry directory of a file.
func (r *CLI) FileDir(id string) string {
	return filepath.Join(r.Root(), "files", id)
}

// ReadCover reads a file's cover.json.
func (r *CLI) ReadCover(id string) string {
	r.t.Helper()

	return r.read(filepath.Join(r.FileDir(id), "cover.json"))
}

// ReadContent reads a file's content.json.
func (r *CLI) ReadContent(id string) string {
	r.t.Helper()

	return r.read(filepath.Join(r.FileDir(id), "content.json"))
}

// WriteContent replaces a file's content.json.
func (r *CLI) WriteContent(id, content string) {
	r.t.Helper()

	r.WriteFile(filepath.Join(r.FileDir(id), "content.json"), content)
}

// WriteFile writes content to path, creating parent directories. A relative
// path is taken from Dir.
func (r *CLI) WriteFile(path, content string) {
	r.t.Helper()

	if !filepath.IsAbs(path) {
		path = filepath.Join(r.Dir, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("failed to create dir for %s: %v", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		r.t.Fatalf("failed to write %s: %v", path, err)
	}
}

func (r *CLI) read(path string) string {
	r.t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		r.t.Fatalf("failed to read %s: %v", path, err)
	}

	return string(content)
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
