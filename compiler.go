package papyri

import (
	"fmt"
	"log"
	"os"

	om "github.com/wk8/go-ordered-map/v2"
)

// logger and debug mirror the teacher's package-level `logf`/`debug`
// toggle in template_sets.go: a single shared *log.Logger gated by a
// bool, rather than a structured logging dependency, because the
// teacher itself reaches for stdlib `log` here (see DESIGN.md).
var (
	debug  = false
	logger = log.New(os.Stdout, "[papyri] ", log.LstdFlags)
)

// SetDebug turns on verbose compile logging to STDOUT, mirroring
// pongo2.SetDebug.
func SetDebug(b bool) { debug = b }

func logf(format string, args ...any) {
	if debug {
		logger.Printf(format, args...)
	}
}

// CompileResult is the output of compiling one source file: its rendered
// HTML tree, whatever names it exported via `@export`, and the full list
// of diagnostics raised along the way (errors and warnings alike).
type CompileResult struct {
	Output      HTMLNode
	Exports     *om.OrderedMap[string, Value]
	Diagnostics []*Diagnostic
}

// Compiler is the package's single entry point: it owns the string pool,
// the module loader (and its cache), the configured filesystem and
// syntax highlighter, and the optional write-file sandbox. The string pool
// and loader cache are shared by every compile the Compiler runs: the pool
// grows as names are interned, and a file whose load is still in progress
// is seen by any other compile as Loading, so two concurrent compiles that
// load the same file can report a CircularImport.
type Compiler struct {
	Names       *StringPool
	FS          FileSystem
	Highlighter Highlighter
	Loader      *Loader

	// OutDir, if non-empty, enables `write_file` and confines it to this
	// directory (spec.md §4.I). Empty means write_file always fails with
	// WriteFileNotAllowed.
	OutDir string

	// Debug is not read by the compile pipeline; logging follows only the
	// package-level switch set with SetDebug.
	Debug bool
}

// NewCompiler returns a Compiler backed by the local OS filesystem and
// the default chroma-backed Highlighter, with no output sandbox
// configured (write_file disabled until OutDir is set).
func NewCompiler() *Compiler {
	fs := &LocalFileSystem{}
	c := &Compiler{
		Names:       NewStringPool(),
		FS:          fs,
		Highlighter: NewChromaHighlighter(),
	}
	c.Loader = NewLoader(fs)
	c.Loader.Compile = c.compilePath
	return c
}

// sink builds this Compiler's OutputSink, or nil if no OutDir was
// configured — nil disables `write_file` (WriteFileNotAllowed).
func (c *Compiler) sink() *OutputSink {
	if c.OutDir == "" {
		return nil
	}
	return NewOutputSink(c.OutDir)
}

// CompileString compiles src (given the synthetic file name, used only
// for diagnostics and relative-import resolution) and returns its
// output, exports, and diagnostics. err is non-nil only when the sink
// contains an error-severity diagnostic (spec.md §7, "a compile succeeds
// only if the sink contains no error-severity diagnostic").
func (c *Compiler) CompileString(name, src string) (*CompileResult, error) {
	logf("compiling string %q (%d bytes)", name, len(src))
	return c.compile(&Source{Name: name, Content: src})
}

// CompileFile reads path through the configured FileSystem and compiles
// it, the same way an `@import`/`@include` resolves and loads a nested
// module.
func (c *Compiler) CompileFile(path string) (*CompileResult, error) {
	content, err := c.FS.ReadFile(path)
	if err != nil {
		return nil, ModuleError{Variant: IOError, Path: path, Cause: err}
	}
	logf("compiling file %s", path)
	return c.compile(&Source{Name: path, Content: content})
}

// compilePath is installed as the Loader's CompileFn: it recurses into
// this same Compiler for an import/include target, sharing the string
// pool, loader cache, and highlighter with the top-level compile. The
// output sink is not shared: each compile builds a fresh one from OutDir.
func (c *Compiler) compilePath(path string) (*Module, error) {
	result, err := c.CompileFile(path)
	if err != nil {
		return nil, err
	}
	if result.hasErrors() {
		return nil, ModuleError{Variant: CompileFailed, Path: path}
	}
	return &Module{Output: result.Output, Exports: result.Exports}, nil
}

func (r *CompileResult) hasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Kind != KindWarning {
			return true
		}
	}
	return false
}

// compile runs the full pipeline — lex, parse, evaluate — against one
// Source, sharing this Compiler's string pool and loader (so cached
// imports resolve against the same NameIDs).
func (c *Compiler) compile(src *Source) (*CompileResult, error) {
	diags := NewDiagnostics()
	nodes := Parse(src, c.Names, diags)

	exports := om.New[string, Value]()
	ev := NewEvaluator(c.Names, diags, c.Loader, c.Highlighter, c.sink(), src, exports)
	output := ev.EvalModule(nodes)

	result := &CompileResult{Output: output, Exports: exports, Diagnostics: diags.All()}
	if result.hasErrors() {
		return result, diags
	}
	return result, nil
}

// Compile is a package-level convenience wrapping a one-shot Compiler
// for a single string, matching the ergonomics of pongo2.FromString +
// Execute collapsed into one call — most callers with no imports to
// resolve and no highlighter/output-dir configuration need only this.
func Compile(name, src string) (*CompileResult, error) {
	return NewCompiler().CompileString(name, src)
}

// MustCompile panics if CompileString reports any error diagnostic,
// mirroring pongo2.Must.
func MustCompile(name, src string) *CompileResult {
	result, err := Compile(name, src)
	if err != nil {
		panic(fmt.Sprintf("papyri: %s", err))
	}
	return result
}
