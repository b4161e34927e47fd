package cli

import (
	"context"
	"errors"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/notebook/internal/search"
)

var errQueryRequired = errors.New("query is required")

// SearchCmd returns the search command.
func SearchCmd(nb *notebook) *Command {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.IntP("limit", "n", 20, "Maximum results (0 for all)")
	fs.Bool("score", false, "Prefix each result with its score")

	return &Command{
		Flags: fs,
		Usage: "search <query>",
		Short: "Fuzzy-find documents by title and keywords",
		Long: `Fuzzy-find documents by title and keywords, best match first.

Query words are joined with spaces. Matching ignores case; "grcl" finds
"Grocery List".`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execSearch(o, nb, fs, args)
		},
	}
}

func execSearch(o *IO, nb *notebook, fs *flag.FlagSet, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errQueryRequired
	}

	limit, _ := fs.GetInt("limit")
	withScore, _ := fs.GetBool("score")

	matches := search.Rank(nb.open().Entries(), query)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	for _, m := range matches {
		if withScore {
			o.Printf("%5d  %s\n", m.Score, entryLine(m.Entry))

			continue
		}

		o.Println(entryLine(m.Entry))
	}

	return nil
}
