// Package fsys is the only permitted I/O surface for the rest of the
// pipeline. Production code backs it with the real OS filesystem; tests
// back it with an in-memory tree, so the resolver and collector never
// need a real disk to be exercised.
package fsys

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// FS is the capability interface every higher layer depends on.
type FS interface {
	Cwd() (string, error)
	Exists(path string) bool
	IsDir(path string) bool
	IsFile(path string) bool
	Read(path string) (string, error)
	// Canonicalize resolves path to an absolute, symlink-free form. Calling
	// it twice on the same input must yield the same output.
	Canonicalize(path string) (string, error)
}

// aferoFS adapts an afero.Fs to FS. It is unexported: callers obtain one
// through OS or Mem below, via exposed constructors rather than a
// concrete type.
type aferoFS struct {
	fs     afero.Fs
	cwd    string
	osImpl bool
}

// OS returns an FS backed by the real operating-system filesystem rooted
// at the process's actual working directory.
func OS() FS {
	cwd, _ := filepath.Abs(".")
	return &aferoFS{fs: afero.NewOsFs(), cwd: cwd, osImpl: true}
}

// Mem returns an FS backed by an empty in-memory filesystem, for test
// code to seed a synthetic tree into. cwd is the directory Cwd()
// reports; it need not exist until created.
func Mem(cwd string) FS {
	return &aferoFS{fs: afero.NewMemMapFs(), cwd: filepath.Clean(cwd)}
}

func (a *aferoFS) Cwd() (string, error) { return a.cwd, nil }

func (a *aferoFS) Exists(path string) bool {
	ok, err := afero.Exists(a.fs, path)
	return err == nil && ok
}

func (a *aferoFS) IsDir(path string) bool {
	info, err := a.fs.Stat(path)
	return err == nil && info.IsDir()
}

func (a *aferoFS) IsFile(path string) bool {
	info, err := a.fs.Stat(path)
	return err == nil && !info.IsDir()
}

func (a *aferoFS) Read(path string) (string, error) {
	b, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Canonicalize lexically cleans the path and, for the OS-backed
// filesystem, additionally resolves symlinks via filepath.EvalSymlinks.
// The in-memory filesystem has no symlinks, so a lexical clean is
// already a fixed point.
func (a *aferoFS) Canonicalize(path string) (string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(a.cwd, abs)
	}
	abs = filepath.Clean(abs)
	if a.osImpl {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			return filepath.Clean(resolved), nil
		}
		// A not-yet-existing path (e.g. one we're about to fail resolving)
		// still canonicalises lexically.
	}
	return abs, nil
}

// MemFS is the concrete in-memory FS, exposed so tests can seed files
// directly instead of going through Write (which FS intentionally omits:
// the pipeline never writes).
type MemFS struct {
	FS
	raw afero.Fs
}

// NewMem builds a MemFS rooted at cwd.
func NewMem(cwd string) *MemFS {
	raw := afero.NewMemMapFs()
	return &MemFS{FS: &aferoFS{fs: raw, cwd: filepath.Clean(cwd)}, raw: raw}
}

// WriteFile seeds a file into the synthetic tree, creating parent
// directories as needed.
func (m *MemFS) WriteFile(path, contents string) error {
	if err := m.raw.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(m.raw, path, []byte(contents), 0o644)
}

// Mkdir seeds an (otherwise empty) directory.
func (m *MemFS) Mkdir(path string) error {
	return m.raw.MkdirAll(path, 0o755)
}
