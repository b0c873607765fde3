package papyri

import "fmt"

// DiagnosticKind discriminates the five diagnostic families spec.md §7
// requires: SyntaxError, TypeError, RuntimeError, ModuleError, and the
// non-fatal Warning family.
type DiagnosticKind int

const (
	KindSyntax DiagnosticKind = iota
	KindType
	KindRuntime
	KindModule
	KindWarning
)

func (k DiagnosticKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax error"
	case KindType:
		return "type error"
	case KindRuntime:
		return "runtime error"
	case KindModule:
		return "module error"
	case KindWarning:
		return "warning"
	default:
		return "error"
	}
}

// SyntaxErrorKind enumerates every variant of the parser's static
// well-formedness checks. Names and trigger sites are ported verbatim from
// the original implementation's exhaustive enumeration
// (original_source/src/errors/syntax_error.rs) per spec.md §7.1's
// requirement that "an implementer must reproduce every variant by message
// and trigger".
type SyntaxErrorKind int

const (
	TokenExpected SyntaxErrorKind = iota
	TokenExpectedDoctype
	TokenExpectedWas
	TokenExpectedWasEOF
	TokenUnexpected
	TokenUnmatched
	TokenInvalidNumber
	TokenEntityMissingSemicolon
	TokenInvalidEntity
	TokenInvalidEscape
	TokenInvalidPrimitiveType
	TokenInvalidGroupType
	TokenVerbatimMultilineNotEnoughBackticks
	TokenVerbatimTooManyBackticks
	TokenVerbatimEOF

	ExpectedValue
	UnexpectedEOF

	TagCloseMalformed
	TagUnmatchedOpen
	TagDuplicateAttr

	SpreadPositionalNotAllowed
	SpreadNamedNotAllowed

	AnonymousFunctionNotAllowed
	ParamDuplicateName
	ParamPositionalAfterNamed
	ParamRequiredAfterOptional
	ParamDefaultImplicit
	ParamPositionalImplicit
	ParamSpreadDefault
	ParamSpreadImplicit
	ParamMultipleSpread
	ParamAfterSpread
	ParamPositionalSpreadNoUnderscore
	ParamNamedSpreadUnderscore
	ParamContentSpread
	ParamContentDefault

	ArgDuplicateName
	ArgNamedNotAllowed
	ArgPositionalAfterNamed
	ArgSpreadNamed
	ArgNamedUnderscore

	DeclMissingArgs
	DeclPositionalArg
	LetInLiteral
	ExportNotAllowed

	PatternBareName
	PatternMultipleSpreads
	PatternNamedUnderscore
	PatternNamedAfterSpread
	PatternDuplicateName
	PatternIncorrectCloseTag
	PatternCannotMatchHTMLSyntax
	PatternAttrAccess
	PatternIndexAccess
)

// syntaxErrorMessages holds the fixed message of each SyntaxErrorKind that
// carries no variant-specific payload.
var syntaxErrorMessages = map[SyntaxErrorKind]string{
	TokenExpectedDoctype:                     "expected 'DOCTYPE'",
	TokenInvalidEntity:                       "invalid entity",
	TokenEntityMissingSemicolon:              "entity must end with a semicolon ';'",
	TokenInvalidEscape:                       "invalid escape sequence",
	TokenInvalidPrimitiveType:                "not a primitive type name",
	TokenInvalidGroupType:                    "not a type modifier",
	TokenVerbatimMultilineNotEnoughBackticks: "multiline string literal must be delimited by at least three backticks",
	TokenVerbatimTooManyBackticks:            "too many backticks in string literal closing delimiter",
	TokenVerbatimEOF:                         "unexpected end of source in string literal",
	ExpectedValue:                            "expected value",
	UnexpectedEOF:                            "unexpected end of source",
	TagCloseMalformed:                        "malformed closing tag",
	TagUnmatchedOpen:                         "unmatched opening tag",
	SpreadPositionalNotAllowed:               "positional spread not allowed here",
	SpreadNamedNotAllowed:                    "named spread not allowed here",
	AnonymousFunctionNotAllowed:              "anonymous function not allowed here",
	ParamPositionalAfterNamed:                "positional parameter cannot occur after named parameter",
	ParamRequiredAfterOptional:               "required parameter cannot occur after optional parameter",
	ParamDefaultImplicit:                     "implicit parameter cannot have default value",
	ParamPositionalImplicit:                  "positional parameter cannot be implicit",
	ParamSpreadDefault:                       "spread parameter cannot have default value",
	ParamSpreadImplicit:                      "spread parameter cannot be implicit",
	ParamMultipleSpread:                      "cannot have multiple spread parameters",
	ParamAfterSpread:                         "parameter cannot occur after spread",
	ParamPositionalSpreadNoUnderscore:        "positional spread parameter must begin with underscore",
	ParamNamedSpreadUnderscore:               "named spread parameter must not begin with underscore",
	ParamContentSpread:                       "content parameter cannot be spread",
	ParamContentDefault:                      "content parameter cannot have default value",
	ArgNamedNotAllowed:                       "named argument not allowed here",
	ArgPositionalAfterNamed:                  "positional argument cannot occur after named argument",
	ArgSpreadNamed:                           "named argument cannot be spread",
	ArgNamedUnderscore:                       "named argument cannot begin with underscore",
	DeclMissingArgs:                          "missing named declarations; expected '(name=value, ...)'",
	DeclPositionalArg:                        "positional argument not allowed in this declaration",
	LetInLiteral:                             "let expression with literal has no effect",
	ExportNotAllowed:                         "'@export' declaration not allowed here",
	PatternBareName:                          "bare name not allowed in match pattern; use $ for a variable or backticks for a string literal",
	PatternMultipleSpreads:                   "match pattern cannot have multiple spreads",
	PatternNamedUnderscore:                   "named pattern cannot begin with underscore",
	PatternNamedAfterSpread:                  "named pattern cannot occur after spread",
	PatternIncorrectCloseTag:                 "incorrect closing tag in match pattern; use </> for an unnamed tag",
	PatternCannotMatchHTMLSyntax:             "this pattern cannot match HTML content",
	PatternAttrAccess:                        "variable pattern must be a simple name, not attribute access",
	PatternIndexAccess:                       "variable pattern must be a simple name, not indexed access",
}

// SyntaxError is the payload of a KindSyntax diagnostic.
type SyntaxError struct {
	Variant SyntaxErrorKind
	Name    string // duplicate attr/param/pattern name, when the variant carries one
	Want    string // TokenKind name, for TokenExpected/TokenExpectedWas[EOF]
	Got     string // TokenKind name, for TokenExpectedWas/TokenUnexpected/TokenUnmatched
}

func (e SyntaxError) Error() string {
	switch e.Variant {
	case TokenExpected:
		return fmt.Sprintf("expected %s", e.Want)
	case TokenExpectedWas:
		return fmt.Sprintf("expected %s, got %s", e.Want, e.Got)
	case TokenExpectedWasEOF:
		return fmt.Sprintf("expected %s, got end of input", e.Want)
	case TokenUnexpected:
		return fmt.Sprintf("unexpected %s", e.Got)
	case TokenUnmatched:
		return fmt.Sprintf("unmatched %s", e.Got)
	case TokenInvalidNumber:
		return "invalid number literal"
	case TagDuplicateAttr:
		return fmt.Sprintf("duplicate attribute name %q", e.Name)
	case ParamDuplicateName:
		return fmt.Sprintf("duplicate parameter name %q", e.Name)
	case ArgDuplicateName:
		return fmt.Sprintf("duplicate named argument %q", e.Name)
	case PatternDuplicateName:
		return fmt.Sprintf("duplicate named pattern %q", e.Name)
	default:
		if msg, ok := syntaxErrorMessages[e.Variant]; ok {
			return msg
		}
		return "syntax error"
	}
}

// TypeErrorKind enumerates the binding/coercion error variants from
// spec.md §7.2.
type TypeErrorKind int

const (
	TypeMismatch TypeErrorKind = iota
	UnknownNamed
	DuplicateNamed
	MissingRequired
	TooManyPositional
	NotCallable
	NotIndexable
	IndexOutOfRange
)

// TypeError is the payload of a KindType diagnostic.
type TypeError struct {
	Variant  TypeErrorKind
	Expected Type
	Got      Type
	Name     string
	Value    Value
}

func (e TypeError) Error() string {
	switch e.Variant {
	case TypeMismatch:
		return fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
	case UnknownNamed:
		return fmt.Sprintf("unknown named argument %q", e.Name)
	case DuplicateNamed:
		return fmt.Sprintf("duplicate named argument %q", e.Name)
	case MissingRequired:
		return fmt.Sprintf("missing required argument %q", e.Name)
	case TooManyPositional:
		return "too many positional arguments"
	case NotCallable:
		return fmt.Sprintf("value of type %s is not callable", e.Got)
	case NotIndexable:
		return fmt.Sprintf("value of type %s is not indexable", e.Got)
	case IndexOutOfRange:
		return "index out of range"
	default:
		return "type error"
	}
}

// RuntimeErrorKind enumerates the evaluation-time error variants from
// spec.md §7.3.
type RuntimeErrorKind int

const (
	Raised RuntimeErrorKind = iota
	WriteFileNotAllowed
	PathNotInOutDir
	NameNotDefined
	NoMatchingBranch
	PatternCannotMatchHTML
)

// RuntimeError is the payload of a KindRuntime diagnostic.
type RuntimeError struct {
	Variant RuntimeErrorKind
	Message string
	Name    string
}

func (e RuntimeError) Error() string {
	switch e.Variant {
	case Raised:
		return e.Message
	case WriteFileNotAllowed:
		return "write_file is not permitted in this compile session"
	case PathNotInOutDir:
		return fmt.Sprintf("path %q escapes the declared output directory", e.Message)
	case NameNotDefined:
		return fmt.Sprintf("name %q is not defined", e.Name)
	case NoMatchingBranch:
		return "no match branch applies to this value"
	case PatternCannotMatchHTML:
		return "this pattern cannot match HTML content"
	default:
		return "runtime error"
	}
}

// ModuleErrorKind enumerates the loader error variants from spec.md §7.4.
type ModuleErrorKind int

const (
	IOError ModuleErrorKind = iota
	CircularImport
	CompileFailed
)

// ModuleError is the payload of a KindModule diagnostic.
type ModuleError struct {
	Variant ModuleErrorKind
	Path    string
	Cause   error
}

func (e ModuleError) Error() string {
	switch e.Variant {
	case IOError:
		return fmt.Sprintf("could not read %q: %v", e.Path, e.Cause)
	case CircularImport:
		return fmt.Sprintf("circular import of %q", e.Path)
	case CompileFailed:
		return fmt.Sprintf("module %q failed to compile", e.Path)
	default:
		return "module error"
	}
}

func (e ModuleError) Unwrap() error { return e.Cause }

// WarningKind enumerates the non-fatal diagnostic variants from spec.md
// §7.5.
type WarningKind int

const (
	NameAlreadyExported WarningKind = iota
	HighlightLanguageUnknown
	HighlightNotEnabled
	InlineHighlightMultiline
	InlineHighlightEnumerate
)

// Warning is the payload of a KindWarning diagnostic.
type Warning struct {
	Variant WarningKind
	Name    string
}

func (w Warning) Error() string {
	switch w.Variant {
	case NameAlreadyExported:
		return fmt.Sprintf("name %q is already exported; last write wins", w.Name)
	case HighlightLanguageUnknown:
		return fmt.Sprintf("unknown syntax-highlighting language %q", w.Name)
	case HighlightNotEnabled:
		return "syntax highlighting is not enabled for this compile session"
	case InlineHighlightMultiline:
		return "inline syntax highlighting produced multiple lines"
	case InlineHighlightEnumerate:
		return "first_line_no has no effect outside a code block"
	default:
		return "warning"
	}
}

// Diagnostic is a single entry in the Diagnostics sink: a diagnostic kind,
// its typed payload (one of SyntaxError/TypeError/RuntimeError/ModuleError/
// Warning), and the source range it's anchored to.
type Diagnostic struct {
	Kind  DiagnosticKind
	Err   error
	Range SourceRange
}

// Error satisfies the error interface so a Diagnostic can be returned or
// wrapped directly; Unwrap exposes the underlying typed payload to
// errors.As/errors.Is.
func (d *Diagnostic) Error() string {
	line, col := d.Range.LineCol()
	name := "<string>"
	if d.Range.Src != nil {
		name = d.Range.Src.Name
	}
	if line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", name, line, col, d.Kind, d.Err)
	}
	return fmt.Sprintf("%s: %s: %v", name, d.Kind, d.Err)
}

func (d *Diagnostic) Unwrap() error { return d.Err }

// RawLine returns the source line the diagnostic points at, the way the
// teacher's Error.RawLine does for a *Template, except here it's a plain
// slice of the already-resident Source buffer rather than a reopened file.
func (d *Diagnostic) RawLine() (line string, available bool) {
	if d.Range.Src == nil || d.Range.Start < 0 {
		return "", false
	}
	content := d.Range.Src.Content
	lineNo, _ := d.Range.LineCol()
	cur := 1
	start := 0
	for i := 0; i <= len(content); i++ {
		if i == len(content) || content[i] == '\n' {
			if cur == lineNo {
				return content[start:i], true
			}
			cur++
			start = i + 1
		}
	}
	return "", false
}
