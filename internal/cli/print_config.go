package cli

import (
	"context"
	"path/filepath"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(nb *notebook) *Command {
	return &Command{
		Flags:   flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage:   "print-config",
		Aliases: []string{"config"},
		Short:   "Show resolved configuration",
		Long: `Print the effective settings as key=value lines, followed by the config
files they were read from.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			printConfig(o, nb)

			return nil
		},
	}
}

func printConfig(o *IO, nb *notebook) {
	cfg := nb.cfg

	settings := [][2]string{
		{"effective_cwd", cfg.EffectiveCwd},
		{"root", cfg.RootAbs},
		{"log_level", cfg.Level.String()},
		{"lock_file", filepath.Join(cfg.RootAbs, lockFileName)},
	}
	if nb.history != "" {
		settings = append(settings, [2]string{"history_file", nb.history})
	}

	for _, kv := range settings {
		o.Printf("%s=%s\n", kv[0], kv[1])
	}

	o.Println()
	o.Println("# sources")

	sources := 0

	for _, kv := range [][2]string{
		{"global_config", cfg.Sources.Global},
		{"project_config", cfg.Sources.Project},
	} {
		if kv[1] != "" {
			o.Printf("%s=%s\n", kv[0], kv[1])
			sources++
		}
	}

	if sources == 0 {
		o.Println("(defaults only)")
	}
}
