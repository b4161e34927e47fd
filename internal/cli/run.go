// Package cli implements the nb command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/notebook/internal/config"
	"github.com/calvinalkan/notebook/internal/ident"
	"github.com/calvinalkan/notebook/pkg/fs"
)

// Run is the main entry point. Returns exit code.
//
// A signal received on sigCh cancels the context passed to the running
// command. sigCh may be nil.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	return run(in, out, errOut, args, env, sigCh, ident.NewGenerator())
}

func run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal, gen *ident.Generator) int {
	globals := flag.NewFlagSet("nb", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(io.Discard)

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use specified config `file`")
	rootDir := globals.String("root", "", "Notebook root `dir` (overrides config)")
	verbose := globals.BoolP("verbose", "v", false, "Log debug output to stderr")
	help := globals.BoolP("help", "h", false, "Show help")

	cfg := &config.Config{}
	nb := newNotebook(cfg, fs.NewReal(), zerolog.Nop(), gen)
	commands := allCommands(nb, in)

	if len(args) > 1 {
		if err := globals.Parse(args[1:]); err != nil {
			fprintln(errOut, "error:", err)
			printUsage(errOut, globals, commands)

			return 1
		}
	}

	rest := globals.Args()
	if *help || len(rest) == 0 {
		printUsage(out, globals, commands)

		return 0
	}

	if globals.Changed("root") && *rootDir == "" {
		fprintln(errOut, "error:", config.ErrRootEmpty)
		printUsage(errOut, globals, commands)

		return 1
	}

	input := config.Input{
		WorkDirOverride: *workDir,
		ConfigPath:      *configPath,
		RootOverride:    *rootDir,
		Env:             env,
	}
	if *verbose {
		input.LogLevelOverride = zerolog.DebugLevel.String()
	}

	loaded, err := config.Load(input)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	*cfg = loaded
	nb.log = newLogger(errOut, cfg.Level)
	nb.history = historyPath(env)

	name := rest[0]

	var cmd *Command

	for _, c := range commands {
		if c.Matches(name) {
			cmd = c

			break
		}
	}

	if cmd == nil {
		fprintln(errOut, "error: unknown command:", name)
		printUsage(errOut, globals, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case sig := <-sigCh:
				nb.log.Debug().Str("signal", sig.String()).Msg("cancelling")
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	return cmd.Run(ctx, NewIO(out, errOut), rest[1:])
}

func allCommands(nb *notebook, in io.Reader) []*Command {
	return []*Command{
		NewCmd(nb),
		LsCmd(nb),
		ShowCmd(nb),
		RenameCmd(nb),
		KeywordsCmd(nb),
		SearchCmd(nb),
		ImportCmd(nb),
		ExportCmd(nb),
		EditCmd(nb, in),
		PrintConfigCmd(nb),
	}
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, globals *flag.FlagSet, commands []*Command) {
	fprintln(w, `nb - file-backed notebook of text and table documents

Usage: nb [global flags] <command> [args]

Global flags:`)

	var buf strings.Builder
	globals.SetOutput(&buf)
	globals.PrintDefaults()
	globals.SetOutput(io.Discard)
	_, _ = io.WriteString(w, buf.String())

	fprintln(w)
	fprintln(w, "Commands:")

	for _, c := range commands {
		fprintln(w, c.HelpLine())
	}

	fprintln(w)
	fprintln(w, `Run "nb <command> --help" for command flags.`)
	fprintln(w, `Put "--" before an argument that starts with "-", as in: nb show -- <id>`)
}

// warnWrite records a failed write of what as a warning. A nil err is ignored.
func warnWrite(o *IO, what string, err error) {
	if err == nil {
		return
	}

	o.Warn(what+" was not saved", err)
}
