package stub

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoStubsFound is returned when a path resolves to zero stub files.
var ErrNoStubsFound = errors.New("no stub files found")

// LoadError reports which stub file could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("unable to load file %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// File is a stub definition read from disk.
type File struct {
	Path string
	Data []byte
}

// Loader resolves stub definition files relative to a stubs directory.
type Loader struct {
	// Root is the stubs directory. Relative paths given to Resolve are
	// joined to it.
	Root string
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{Root: dir}
}

// Resolve expands path into the list of stub files it names:
//   - a glob pattern (supports ** via doublestar) matches files recursively
//   - a directory yields its regular files, non-recursively
//   - anything else is treated as a single file
//
// Results are sorted so stubs always register in the same order.
func (l *Loader) Resolve(path string) ([]string, error) {
	resolved := l.abs(path)

	if isGlob(path) {
		matches, err := doublestar.FilepathGlob(resolved)
		if err != nil {
			return nil, fmt.Errorf("expanding glob pattern %q: %w", path, err)
		}
		files := make([]string, 0, len(matches))
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			files = append(files, m)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoStubsFound, resolved)
		}
		sort.Strings(files)
		return files, nil
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, &LoadError{Path: resolved, Err: err}
	}
	if !info.IsDir() {
		return []string{resolved}, nil
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return nil, &LoadError{Path: resolved, Err: err}
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		// Subdirectories are skipped, only direct children are stubs
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(resolved, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoStubsFound, resolved)
	}
	// os.ReadDir already sorts by name
	return files, nil
}

// Load resolves path and reads every stub file it names.
func (l *Loader) Load(path string) ([]File, error) {
	paths, err := l.Resolve(path)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, &LoadError{Path: p, Err: err}
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			return nil, &LoadError{Path: p, Err: errors.New("file is empty")}
		}
		files = append(files, File{Path: p, Data: data})
	}
	return files, nil
}

func (l *Loader) abs(path string) string {
	if filepath.IsAbs(path) || l.Root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(l.Root, path)
}

func isGlob(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
