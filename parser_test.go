package papyri

import "testing"

func parseSrc(t *testing.T, src string) ([]AST, *Diagnostics, *StringPool) {
	t.Helper()
	names := NewStringPool()
	diags := NewDiagnostics()
	nodes := Parse(&Source{Name: "test.papyri", Content: src}, names, diags)
	return nodes, diags, names
}

func findFuncDef(nodes []AST) *FuncDef {
	for _, n := range nodes {
		if n.Kind == AstFuncDef {
			return n.Def
		}
	}
	return nil
}

func hasSyntaxVariant(diags *Diagnostics, variant SyntaxErrorKind) bool {
	for _, d := range diags.All() {
		if d.Kind != KindSyntax {
			continue
		}
		if se, ok := d.Err.(SyntaxError); ok && se.Variant == variant {
			return true
		}
	}
	return false
}

func TestParseSignatureClassifiesBarePositional(t *testing.T) {
	nodes, diags, names := parseSrc(t, "@fn f(x) $x")
	def := findFuncDef(nodes)
	if def == nil {
		t.Fatalf("expected a FuncDef node")
	}
	if len(def.Signature.Positional) != 1 || names.Get(def.Signature.Positional[0].Name) != "x" {
		t.Errorf("expected x to be positional, got Positional=%v Named=%v", def.Signature.Positional, def.Signature.Named)
	}
	if len(def.Signature.Named) != 0 {
		t.Errorf("expected no named params, got %v", def.Signature.Named)
	}
	if diags.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", diags.All())
	}
}

func TestParseSignatureClassifiesOptionalAsNamed(t *testing.T) {
	nodes, _, names := parseSrc(t, "@fn f(x?=5) $x")
	def := findFuncDef(nodes)
	if def == nil {
		t.Fatalf("expected a FuncDef node")
	}
	if len(def.Signature.Positional) != 0 {
		t.Errorf("expected no positional params, got %v", def.Signature.Positional)
	}
	if len(def.Signature.Named) != 1 || names.Get(def.Signature.Named[0].Name) != "x" {
		t.Errorf("expected x to be named, got %v", def.Signature.Named)
	}
}

func TestParseSignaturePositionalAfterNamedIsSyntaxError(t *testing.T) {
	_, diags, _ := parseSrc(t, "@fn f(x=1, y) $x $y")
	if !hasSyntaxVariant(diags, ParamPositionalAfterNamed) {
		t.Errorf("expected ParamPositionalAfterNamed, got %v", diags.All())
	}
}

func TestParseSignatureDuplicateParamNameIsSyntaxError(t *testing.T) {
	_, diags, _ := parseSrc(t, "@fn f(x, x) $x")
	if !hasSyntaxVariant(diags, ParamDuplicateName) {
		t.Errorf("expected ParamDuplicateName, got %v", diags.All())
	}
}

func TestParseSignatureNamedSpreadUnderscoreIsSyntaxError(t *testing.T) {
	_, diags, _ := parseSrc(t, "@fn f(**_kwargs) $kwargs")
	if !hasSyntaxVariant(diags, ParamNamedSpreadUnderscore) {
		t.Errorf("expected ParamNamedSpreadUnderscore, got %v", diags.All())
	}
}

func TestParseSignaturePositionalSpreadNoUnderscoreIsSyntaxError(t *testing.T) {
	_, diags, _ := parseSrc(t, "@fn f(*args) $args")
	if !hasSyntaxVariant(diags, ParamPositionalSpreadNoUnderscore) {
		t.Errorf("expected ParamPositionalSpreadNoUnderscore, got %v", diags.All())
	}
}

func TestParseArgPositionalAfterNamedIsSyntaxError(t *testing.T) {
	_, diags, _ := parseSrc(t, "@f(x=1, 2)")
	if !hasSyntaxVariant(diags, ArgPositionalAfterNamed) {
		t.Errorf("expected ArgPositionalAfterNamed, got %v", diags.All())
	}
}

func TestParseArgNamedUnderscoreIsSyntaxError(t *testing.T) {
	_, diags, _ := parseSrc(t, "@f(_x=1)")
	if !hasSyntaxVariant(diags, ArgNamedUnderscore) {
		t.Errorf("expected ArgNamedUnderscore, got %v", diags.All())
	}
}

func TestParseMatchPatternBareNameIsSyntaxError(t *testing.T) {
	_, diags, _ := parseSrc(t, "@match($x) { foo => yes, $_ => no }")
	if !hasSyntaxVariant(diags, PatternBareName) {
		t.Errorf("expected PatternBareName, got %v", diags.All())
	}
}
