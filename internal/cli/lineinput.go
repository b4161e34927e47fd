package cli

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// maxLineSize bounds one piped line of the edit shell.
const maxLineSize = 16 << 20

// lineReader yields input lines for the edit shell. ReadLine returns io.EOF
// when the input ends, including Ctrl-D on a terminal.
type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// newLineReader returns a liner prompt with history and completion when in
// is a terminal, and a plain line scanner otherwise.
func newLineReader(in io.Reader, historyPath string, complete func(string) []string) lineReader {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return newLinerReader(historyPath, complete)
	}

	if in == nil {
		in = strings.NewReader("")
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &scanReader{scanner: scanner}
}

type linerReader struct {
	state   *liner.State
	history string
}

func newLinerReader(historyPath string, complete func(string) []string) *linerReader {
	// Ctrl-C clears the line being typed instead of ending the session.
	state := liner.NewLiner()
	state.SetCtrlCAborts(false)
	state.SetCompleter(complete)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			_ = f.Close()
		}
	}

	return &linerReader{state: state, history: historyPath}
}

func (r *linerReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}

	return line, nil
}

func (r *linerReader) Close() error {
	if r.history != "" {
		if err := os.MkdirAll(filepath.Dir(r.history), 0o755); err == nil {
			if f, err := os.Create(r.history); err == nil {
				_, _ = r.state.WriteHistory(f)
				_ = f.Close()
			}
		}
	}

	return r.state.Close()
}

// scanReader reads piped input. It never prints the prompt.
type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) ReadLine(string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}

	if err := r.scanner.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}

func (r *scanReader) Close() error {
	return nil
}

// historyPath returns $XDG_STATE_HOME/nb/history, falling back to
// ~/.local/state/nb/history. Empty if neither variable is set.
func historyPath(env map[string]string) string {
	if state := env["XDG_STATE_HOME"]; state != "" {
		return filepath.Join(state, "nb", "history")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".local", "state", "nb", "history")
	}

	return ""
}
