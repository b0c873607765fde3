package papyri

import "testing"

// End-to-end scenarios, literal input -> literal expected output.

func compileToHTML(t *testing.T, src string) (string, *CompileResult) {
	t.Helper()
	c := NewCompiler()
	result, err := c.CompileString("test.papyri", src)
	if err != nil {
		t.Fatalf("unexpected compile error for %q: %v", src, err)
	}
	r := NewRenderer(RenderHTML, c.Names)
	return r.RenderString(result.Output), result
}

func TestCompilePlainText(t *testing.T) {
	got, _ := compileToHTML(t, "Hello, world!")
	want := "<p>Hello, world!</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileTwoParagraphs(t *testing.T) {
	got, _ := compileToHTML(t, "Paragraph 1\n\nParagraph 2")
	want := "<p>Paragraph 1</p><p>Paragraph 2</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileImplicitTagCall(t *testing.T) {
	got, _ := compileToHTML(t, "@b Something")
	want := "<p><b>Something</b></p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileHrefAbbreviation(t *testing.T) {
	got, _ := compileToHTML(t, "@href(`foo.html`) Foo")
	want := `<p><a href="foo.html">Foo</a></p>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileImageAbbreviation(t *testing.T) {
	got, _ := compileToHTML(t, "@image(alt=`Foo`) `foo.png`")
	want := `<img src="foo.png" alt="Foo">`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileImageWithoutAlt(t *testing.T) {
	got, _ := compileToHTML(t, "@image `foo.png`")
	want := `<img src="foo.png">`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileGroupContent(t *testing.T) {
	got, _ := compileToHTML(t, "@b {Something else}")
	want := "<p><b>Something else</b></p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileLetAndCallTerminator(t *testing.T) {
	got, _ := compileToHTML(t, "@let(x=5). $x $x")
	want := "<p>5 5</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileLineComment(t *testing.T) {
	got, _ := compileToHTML(t, "# Nothing\nSomething")
	want := "<p>Something</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileUnterminatedVerbatimIsSyntaxError(t *testing.T) {
	c := NewCompiler()
	result, err := c.CompileString("test.papyri", "`unterminated")
	if err == nil {
		t.Fatalf("expected a compile error, got none")
	}
	found := false
	for _, d := range result.Diagnostics {
		if d.Kind == KindSyntax {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a syntax-error diagnostic, got %#v", result.Diagnostics)
	}
}

func TestCompileRaiseIsRuntimeError(t *testing.T) {
	c := NewCompiler()
	result, err := c.CompileString("test.papyri", "@raise `foobar`")
	if err == nil {
		t.Fatalf("expected a compile error, got none")
	}
	found := false
	for _, d := range result.Diagnostics {
		if d.Kind == KindRuntime {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a runtime-error diagnostic, got %#v", result.Diagnostics)
	}
}
