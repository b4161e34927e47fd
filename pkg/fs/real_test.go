package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func Test_RealFS_Exists_Returns_False_When_Path_Does_Not_Exist(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	dir := t.TempDir()

	exists, err := fs.Exists(filepath.Join(dir, "does-not-exist.json"))

	if got, want := err, error(nil); !errors.Is(got, want) {
		t.Fatalf("err=%v, want=%v", got, want)
	}

	if got, want := exists, false; got != want {
		t.Fatalf("exists=%v, want=%v", got, want)
	}
}

func Test_RealFS_Exists_Returns_True_When_Path_Is_A_Directory(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	subdir := filepath.Join(t.TempDir(), "files", "AAAAAAAAAAE")

	if err := fs.MkdirAll(subdir, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	exists, err := fs.Exists(subdir)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}

	if !exists {
		t.Fatalf("exists=false, want true")
	}
}

func Test_RealFS_WriteFileAtomic_Replaces_Content_And_Applies_Perm(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	path := filepath.Join(t.TempDir(), "cover.json")

	if err := os.WriteFile(path, []byte("old content that is longer"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := fs.WriteFileAtomic(path, []byte("new"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	got, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if string(got) != "new" {
		t.Fatalf("content=%q, want %q", got, "new")
	}

	info, err := fs.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	if got, want := info.Mode().Perm(), os.FileMode(0o644); got != want {
		t.Fatalf("perm=%v, want=%v", got, want)
	}
}

func Test_RealFS_WriteFileAtomic_Leaves_No_Temp_Files(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	dir := t.TempDir()

	for range 3 {
		if err := fs.WriteFileAtomic(filepath.Join(dir, "content.json"), []byte("[]"), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic: %v", err)
		}
	}

	entries, err := fs.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	if len(entries) != 1 || entries[0].Name() != "content.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}

		t.Fatalf("entries=%v, want [content.json]", names)
	}
}

func Test_RealFS_WriteFileAtomic_Fails_When_Dir_Missing(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	path := filepath.Join(t.TempDir(), "missing", "cover.json")

	if err := fs.WriteFileAtomic(path, []byte("{}"), 0o644); err == nil {
		t.Fatalf("WriteFileAtomic into missing dir: want error")
	}
}
