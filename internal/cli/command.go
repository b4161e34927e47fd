package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/notebook/internal/doc"
)

// Command is one nb subcommand.
//
// Usage starts with the command name followed by its arguments, for example
// "show <id>". Long is printed by "nb <cmd> --help" and falls back to Short.
type Command struct {
	Flags   *flag.FlagSet
	Usage   string
	Aliases []string
	Short   string
	Long    string
	Exec    func(ctx context.Context, o *IO, args []string) error
}

// Name returns the first word of Usage.
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// Matches reports whether name selects this command.
func (c *Command) Matches(name string) bool {
	return name == c.Name() || slices.Contains(c.Aliases, name)
}

// HelpLine is the command's entry in the global usage listing.
func (c *Command) HelpLine() string {
	line := fmt.Sprintf("  %-30s %s", c.Usage, c.Short)
	if len(c.Aliases) > 0 {
		line += " (alias: " + strings.Join(c.Aliases, ", ") + ")"
	}

	return line
}

func (c *Command) writeHelp(w io.Writer) {
	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	_, _ = fmt.Fprintf(w, "Usage: nb %s\n\n%s\n", c.Usage, desc)

	if c.Flags.HasFlags() {
		_, _ = fmt.Fprintf(w, "\nFlags:\n%s", c.Flags.FlagUsages())
	}

	_, _ = fmt.Fprintf(w, "\nArguments after \"--\" are never read as flags: nb %s -- <arg>\n", c.Name())
}

// Run parses args into the command's flags and executes it. It returns the
// process exit code: 1 on error or when warnings were recorded.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(io.Discard)

	if err := c.Flags.Parse(c.separateIDs(args)); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.writeHelp(o.Out())

			return 0
		}

		o.ErrPrintln("error:", err)
		o.ErrPrintln(`Run "nb ` + c.Name() + ` --help" for usage.`)

		return 1
	}

	err := c.Exec(ctx, o, c.Flags.Args())

	code := o.Finish()
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return code
}

// separateIDs lets file ids that begin with "-" through flag parsing. When
// args hold such an id, flags are moved to the front and every positional
// argument follows a "--" terminator in its original order. An id-shaped
// argument wins over a short flag with an attached value: "-ofoBA1Wj6I" is
// an id, "-o foBA1Wj6I" is the flag.
func (c *Command) separateIDs(args []string) []string {
	var flags, positional []string

	moved := false

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)
		case isDashID(arg) && !c.isLongFlag(arg):
			positional = append(positional, arg)
			moved = true
		case len(arg) > 1 && arg[0] == '-':
			flags = append(flags, arg)

			if c.takesNextValue(arg) && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		default:
			positional = append(positional, arg)
		}
	}

	if !moved {
		return args
	}

	out := make([]string, 0, len(flags)+1+len(positional))
	out = append(out, flags...)
	out = append(out, "--")

	return append(out, positional...)
}

func isDashID(arg string) bool {
	if !strings.HasPrefix(arg, "-") {
		return false
	}

	_, err := doc.ParseFileID(arg)

	return err == nil
}

func (c *Command) isLongFlag(arg string) bool {
	name, ok := strings.CutPrefix(arg, "--")

	return ok && c.Flags.Lookup(name) != nil
}

// takesNextValue reports whether pflag will consume the argument after arg
// as the value of the flag arg ends with.
func (c *Command) takesNextValue(arg string) bool {
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		if strings.Contains(name, "=") {
			return false
		}

		f := c.Flags.Lookup(name)

		return f != nil && f.NoOptDefVal == ""
	}

	shorthands := arg[1:]
	for i := range len(shorthands) {
		f := c.Flags.ShorthandLookup(shorthands[i : i+1])
		if f == nil {
			return false
		}

		if f.NoOptDefVal == "" {
			return i == len(shorthands)-1
		}
	}

	return false
}
