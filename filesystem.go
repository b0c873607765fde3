package papyri

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileSystem resolves and reads Papyri source files for the module
// loader's `import`/`include`/`list_files`. Split from the write-side
// OutputSink the way the teacher splits its read-only TemplateLoader
// from an ad-hoc write sink — reads and writes have independent sandbox
// policies.
type FileSystem interface {
	// Abs resolves name relative to the directory containing base (the
	// importing file's path), the way LocalFilesystemLoader.Abs does.
	Abs(base, name string) string
	// ReadFile returns the full contents of path.
	ReadFile(path string) (string, error)
	// ListDir returns every ".papyri" file under dir, relative to dir and
	// without the extension, in lexicographic order.
	ListDir(dir string) ([]string, error)
}

// LocalFileSystem resolves paths against the local OS filesystem rooted
// at BaseDir (empty means resolve relative to each importing file, as
// the teacher's LocalFilesystemLoader does when baseDir == "").
type LocalFileSystem struct {
	BaseDir string
}

func (l *LocalFileSystem) Abs(base, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if l.BaseDir == "" {
		if base != "" {
			return filepath.Join(filepath.Dir(base), name)
		}
		return name
	}
	return filepath.Join(l.BaseDir, name)
}

func (l *LocalFileSystem) ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (l *LocalFileSystem) ListDir(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".papyri") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, strings.TrimSuffix(rel, ".papyri"))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// OutputSink is the caller-configured write target for `write_file`. Every
// path is checked against OutDir before the write is allowed — spec.md
// §5's "no sandboxing beyond refusing writes outside a declared output
// directory".
type OutputSink struct {
	OutDir string
	Writes map[string]HTMLNode
}

// NewOutputSink creates a sink that accepts writes under outDir.
func NewOutputSink(outDir string) *OutputSink {
	return &OutputSink{OutDir: outDir, Writes: make(map[string]HTMLNode)}
}

// TryPush records content under path if path resolves inside OutDir;
// returns false (and records nothing) otherwise.
func (s *OutputSink) TryPush(path string, content HTMLNode) bool {
	full := filepath.Join(s.OutDir, path)
	rel, err := filepath.Rel(s.OutDir, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	s.Writes[path] = content
	return true
}
