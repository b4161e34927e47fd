package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/calvinalkan/notebook/internal/config"
	"github.com/calvinalkan/notebook/internal/doc"
	"github.com/calvinalkan/notebook/internal/ident"
	"github.com/calvinalkan/notebook/internal/registry"
	"github.com/calvinalkan/notebook/internal/store"
	"github.com/calvinalkan/notebook/pkg/fs"
)

const (
	lockFileName = ".lock"
	lockTimeout  = 2 * time.Second
)

var (
	errIDRequired    = errors.New("file ID is required")
	errTitleRequired = errors.New("title is required")
	errLocked        = errors.New("notebook is locked by another process")
)

// notebook bundles what commands need to reach the documents under one root.
type notebook struct {
	cfg     *config.Config
	fs      fs.FS
	log     zerolog.Logger
	gen     *ident.Generator // file and column ids
	history string           // edit shell history file, empty to disable
}

func newNotebook(cfg *config.Config, fsys fs.FS, log zerolog.Logger, gen *ident.Generator) *notebook {
	return &notebook{cfg: cfg, fs: fsys, log: log, gen: gen}
}

// newLogger returns a human-readable logger on w at the configured level.
func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.TimeOnly}

	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

func (nb *notebook) open() *registry.Registry {
	st := store.New(nb.fs, nb.cfg.RootAbs, store.WithLogger(nb.log))

	return registry.Load(st, registry.WithLogger(nb.log), registry.WithGenerator(nb.gen))
}

// openLocked loads the registry while holding the root lock. The returned
// release function must be called when the command is done writing.
func (nb *notebook) openLocked() (*registry.Registry, func() error, error) {
	lock, err := fs.NewLocker(nb.fs).LockWithTimeout(filepath.Join(nb.cfg.RootAbs, lockFileName), lockTimeout)
	if errors.Is(err, fs.ErrWouldBlock) {
		return nil, nil, fmt.Errorf("%w (waited %s)", errLocked, lockTimeout)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("lock root: %w", err)
	}

	nb.log.Debug().Str("root", nb.cfg.RootAbs).Msg("lock acquired")

	return nb.open(), lock.Close, nil
}

// lookup resolves a command line id argument to a known file.
func lookup(reg *registry.Registry, arg string) (doc.FileID, doc.Record, error) {
	if arg == "" {
		return 0, doc.Record{}, errIDRequired
	}

	id, err := doc.ParseFileID(arg)
	if err != nil {
		return 0, doc.Record{}, fmt.Errorf("invalid file ID %q: %w", arg, err)
	}

	rec, ok := reg.Record(id)
	if !ok {
		return 0, doc.Record{}, fmt.Errorf("%w: %s", registry.ErrNotFound, arg)
	}

	return id, rec, nil
}
