package fs

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
)

// ChaosConfig controls fault injection probabilities.
// Each rate is a float64 from 0.0 (never) to 1.0 (always).
type ChaosConfig struct {
	ReadFailRate    float64 // Fail ReadFile/OpenFile(read-only)
	WriteFailRate   float64 // Fail WriteFileAtomic/OpenFile(write)
	ReadDirFailRate float64 // Fail ReadDir
	MkdirFailRate   float64 // Fail MkdirAll
}

// PathState tracks the fault state of a path for consistent error injection.
// A state set on a directory applies to everything below it.
type PathState int

const (
	// PathNormal means no persistent fault. This is the zero value.
	PathNormal PathState = iota
	// PathIOError is sticky: every operation on the path returns EIO.
	PathIOError
	// PathReadOnly is sticky for writes: mutations return EROFS, reads pass.
	PathReadOnly
)

// ChaosMode controls how Chaos behaves.
type ChaosMode uint8

const (
	// ChaosModePassthrough behaves like the underlying FS and ignores sticky state.
	ChaosModePassthrough ChaosMode = iota

	// ChaosModeInject enables fault-rate injection and sticky path state.
	ChaosModeInject

	// ChaosModeStickyOnly applies only sticky path state. Fault rates are disabled.
	ChaosModeStickyOnly
)

// InjectedError marks an error as intentionally injected by [Chaos].
// It wraps an *os.PathError carrying a syscall.Errno, so errors.Is checks
// against syscall errors keep working.
type InjectedError struct {
	Err error
}

func (e *InjectedError) Error() string {
	return e.Err.Error()
}

func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by [Chaos].
func IsInjected(err error) bool {
	var injected *InjectedError

	return errors.As(err, &injected)
}

// ChaosStats counts injected faults.
type ChaosStats struct {
	ReadFails  int64
	WriteFails int64
}

// Chaos wraps an [FS] and injects failures for testing.
//
// Sticky path states give deterministic failures for a subtree ("the disk
// under files/X is read-only"); fault rates give seeded random failures.
// The zero mode is passthrough; call [Chaos.SetMode] to enable injection.
type Chaos struct {
	fs     FS
	config ChaosConfig
	mode   atomic.Uint32

	mu         sync.Mutex
	rng        *rand.Rand
	pathStates map[string]PathState

	readFails  atomic.Int64
	writeFails atomic.Int64
}

// NewChaos creates a new Chaos filesystem wrapping the given [FS].
// The seed controls random fault injection for reproducibility.
func NewChaos(fs FS, seed int64, config ChaosConfig) *Chaos {
	return &Chaos{
		fs:         fs,
		config:     config,
		rng:        rand.New(rand.NewSource(seed)),
		pathStates: make(map[string]PathState),
	}
}

// SetMode switches the injection mode.
func (c *Chaos) SetMode(mode ChaosMode) {
	c.mode.Store(uint32(mode))
}

// SetPathState marks path and everything below it with state.
func (c *Chaos) SetPathState(path string, state PathState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path = filepath.Clean(path)
	if state == PathNormal {
		delete(c.pathStates, path)

		return
	}

	c.pathStates[path] = state
}

// Stats returns the number of faults injected so far.
func (c *Chaos) Stats() ChaosStats {
	return ChaosStats{
		ReadFails:  c.readFails.Load(),
		WriteFails: c.writeFails.Load(),
	}
}

// OpenFile opens path on the wrapped FS unless a fault is injected.
func (c *Chaos) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	writing := flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0
	if writing {
		if err := c.writeFault("open", path, c.config.WriteFailRate); err != nil {
			return nil, err
		}
	} else if err := c.readFault("open", path, c.config.ReadFailRate); err != nil {
		return nil, err
	}

	return c.fs.OpenFile(path, flag, perm)
}

// ReadFile reads path on the wrapped FS unless a fault is injected.
func (c *Chaos) ReadFile(path string) ([]byte, error) {
	if err := c.readFault("read", path, c.config.ReadFailRate); err != nil {
		return nil, err
	}

	return c.fs.ReadFile(path)
}

// WriteFileAtomic writes path on the wrapped FS unless a fault is injected.
// An injected failure leaves the existing file untouched.
func (c *Chaos) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := c.writeFault("write", path, c.config.WriteFailRate); err != nil {
		return err
	}

	return c.fs.WriteFileAtomic(path, data, perm)
}

// ReadDir lists path on the wrapped FS unless a fault is injected.
func (c *Chaos) ReadDir(path string) ([]os.DirEntry, error) {
	if err := c.readFault("readdirent", path, c.config.ReadDirFailRate); err != nil {
		return nil, err
	}

	return c.fs.ReadDir(path)
}

// MkdirAll creates path on the wrapped FS unless a fault is injected.
func (c *Chaos) MkdirAll(path string, perm os.FileMode) error {
	if err := c.writeFault("mkdir", path, c.config.MkdirFailRate); err != nil {
		return err
	}

	return c.fs.MkdirAll(path, perm)
}

// Stat only fails for paths in the [PathIOError] state.
func (c *Chaos) Stat(path string) (os.FileInfo, error) {
	if err := c.readFault("stat", path, 0); err != nil {
		return nil, err
	}

	return c.fs.Stat(path)
}

// Exists only fails for paths in the [PathIOError] state.
func (c *Chaos) Exists(path string) (bool, error) {
	if err := c.readFault("stat", path, 0); err != nil {
		return false, err
	}

	return c.fs.Exists(path)
}

// --- Private api ---

func (c *Chaos) readFault(op, path string, rate float64) error {
	mode := ChaosMode(c.mode.Load())
	if mode == ChaosModePassthrough {
		return nil
	}

	if c.stateOf(path) == PathIOError {
		c.readFails.Add(1)

		return inject(op, path, syscall.EIO)
	}

	if mode == ChaosModeInject && c.roll(rate) {
		c.readFails.Add(1)

		return inject(op, path, syscall.EIO)
	}

	return nil
}

func (c *Chaos) writeFault(op, path string, rate float64) error {
	mode := ChaosMode(c.mode.Load())
	if mode == ChaosModePassthrough {
		return nil
	}

	switch c.stateOf(path) {
	case PathIOError:
		c.writeFails.Add(1)

		return inject(op, path, syscall.EIO)
	case PathReadOnly:
		c.writeFails.Add(1)

		return inject(op, path, syscall.EROFS)
	case PathNormal:
	}

	if mode == ChaosModeInject && c.roll(rate) {
		c.writeFails.Add(1)

		return inject(op, path, syscall.ENOSPC)
	}

	return nil
}

// stateOf returns the state of path or its nearest marked ancestor.
func (c *Chaos) stateOf(path string) PathState {
	c.mu.Lock()
	defer c.mu.Unlock()

	path = filepath.Clean(path)
	for marked, state := range c.pathStates {
		if path == marked || strings.HasPrefix(path, marked+string(filepath.Separator)) {
			return state
		}
	}

	return PathNormal
}

func (c *Chaos) roll(rate float64) bool {
	if rate <= 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rng.Float64() < rate
}

func inject(op, path string, errno syscall.Errno) error {
	return &InjectedError{Err: &os.PathError{Op: op, Path: path, Err: errno}}
}

// Compile-time interface check.
var _ FS = (*Chaos)(nil)
