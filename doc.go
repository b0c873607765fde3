// Package papyri implements a markup-and-templating language that compiles
// a source document into an HTML tree (or plain text).
//
// Source mixes literal HTML-like tags, paragraphs of free text, function
// calls written with a leading "@" sigil, user-defined functions with
// named/positional/spread/content parameters, pattern matching, variable
// bindings, and cross-file imports.
//
// Current caveats
//   - Single-threaded per compile: don't share a *Compiler's module cache
//     across concurrent Compile() calls that touch overlapping files.
//   - No incremental recompilation: an imported module's source is parsed
//     and evaluated once per Compiler, then cached for the lifetime of
//     that Compiler.
//
// A tiny example with a source string:
//
//	c := papyri.NewCompiler()
//	result, err := c.CompileString("<string>", "Hello, @b world!")
//	if err != nil {
//	    panic(err)
//	}
//	var out bytes.Buffer
//	papyri.NewRenderer(papyri.RenderHTML, c.Names).Render(&out, result.Output)
//	fmt.Println(out.String()) // <p>Hello, <b>world</b>!</p>
package papyri
