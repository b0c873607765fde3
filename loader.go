package papyri

import (
	"sync"

	om "github.com/wk8/go-ordered-map/v2"
)

// loadState discriminates a path's position in the Unseen -> Loading ->
// Loaded state machine of spec.md §4.J. A missing cache entry is Unseen;
// Loading is left in place as a tombstone while the path's own Compile
// call is in flight, so a reentrant load of the same path is detected as
// a cycle instead of recursing forever.
type loadState int

const (
	stateLoading loadState = iota
	stateLoaded
)

type cacheEntry struct {
	state   loadState
	module  *Module
	loadErr error
}

// Module is the cached result of compiling one source file: its rendered
// HTML output and the Dict of names it exported.
type Module struct {
	Output  HTMLNode
	Exports *om.OrderedMap[string, Value]
}

// Loader resolves, reads, and compiles imported Papyri source files,
// caching by canonical path so that within one compile session a given
// path is ever actually compiled once (spec.md §8, "Module cache").
// Compile installs the CompileFn once per session; it's a closure over
// the owning Compiler rather than a method, so Loader has no import-time
// dependency on the parser/evaluator package-internal state.
type Loader struct {
	mu      sync.Mutex
	cache   map[string]*cacheEntry
	FS      FileSystem
	Compile CompileFn
}

// CompileFn compiles the source file at path (already resolved to an
// absolute/canonical form by FileSystem.Abs) into a Module.
type CompileFn func(path string) (*Module, error)

// NewLoader creates a loader backed by fs, with compile installed by the
// owning Compiler once it exists (loader and compiler are mutually
// referential: the loader needs to recurse into the compiler for
// imports, and the compiler needs the loader for `import`/`include`).
func NewLoader(fs FileSystem) *Loader {
	return &Loader{cache: make(map[string]*cacheEntry), FS: fs}
}

// Load resolves base+name to a canonical path and returns its cached
// Module, compiling it on first request. A path encountered while its
// own Loading tombstone is still in place reports CircularImport without
// recursing further (spec.md §8, "Cycle detection").
func (l *Loader) Load(base, name string, callRange SourceRange) (*Module, error) {
	path := l.FS.Abs(base, name)

	l.mu.Lock()
	entry, seen := l.cache[path]
	if seen {
		l.mu.Unlock()
		switch entry.state {
		case stateLoading:
			return nil, ModuleError{Variant: CircularImport, Path: path}
		default:
			return entry.module, entry.loadErr
		}
	}
	l.cache[path] = &cacheEntry{state: stateLoading}
	l.mu.Unlock()

	mod, err := l.Compile(path)

	var wrapped error
	if me, ok := err.(ModuleError); ok {
		wrapped = me
	} else if err != nil {
		wrapped = ModuleError{Variant: IOError, Path: path, Cause: err}
	}

	l.mu.Lock()
	l.cache[path] = &cacheEntry{state: stateLoaded, module: mod, loadErr: wrapped}
	l.mu.Unlock()

	return mod, wrapped
}

// ListFiles enumerates the .papyri files under base's directory joined
// with name, for the `list_files` native.
func (l *Loader) ListFiles(base, name string) ([]string, error) {
	dir := l.FS.Abs(base, name)
	return l.FS.ListDir(dir)
}
