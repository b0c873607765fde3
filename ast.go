package papyri

// TokenKind discriminates every token the lexer can produce (spec.md §3).
type TokenKind int

const (
	TkName TokenKind = iota
	TkVarName
	TkVerbatim
	TkNumber
	TkBoolean
	TkEntity
	TkEscape
	TkLAngle
	TkRAngle
	TkLBrace
	TkRBrace
	TkLSqb
	TkRSqb
	TkLParen
	TkRParen
	TkEquals
	TkAsterisk
	TkDoubleAsterisk
	TkQuestionMark
	TkDot
	TkComma
	TkBar
	TkFatArrow
	TkExclamationMark
	TkFuncName
	TkWhitespace
	TkNewline
	TkParagraphBreak
	TkComment
	TkLineComment
	TkRawText
	TkSlash
	TkEOF
)

// Token is a scanned lexeme: its kind, the exact source range it spans,
// and (for Name/VarName/FuncName/Verbatim/Number/Boolean) the decoded
// text the parser needs without re-slicing the source.
type Token struct {
	Kind  TokenKind
	Range SourceRange
	Text  string
}

// TypeExpr is a written type annotation: either a bare primitive name
// (range points at the name) or a bracketed modifier wrapping a child
// (list[...], dict[...], the trailing "?" for Optional).
type TypeExpr struct {
	Range    SourceRange
	Resolved Type
	Child    *TypeExpr
}

// TagAttribute is one `name`, `name=value`, `name?=value`, or `*expr`
// attribute in a Tag node.
type TagAttribute struct {
	Range        SourceRange
	Name         NameID
	QuestionMark bool
	Value        AST  // nil for the bare `name` form
	Spread       bool // `*expr` form; Value holds expr, Name is unused
}

// Tag is a literal `<name attrs...> children </name>` (or self-closing)
// node. NameExpr is set instead of Name when the tag name was written as
// `<$var>`; the evaluator resolves it to a concrete NameID at eval time.
type Tag struct {
	Range        SourceRange
	Name         NameID
	NameExpr     AST
	IsDoctype    bool
	Attrs        []TagAttribute
	Children     []AST
	SelfClosed   bool
}

// Param is one parameter of a Signature.
type Param struct {
	Range        SourceRange
	Name         NameID
	QuestionMark bool
	IsImplicit   bool
	IsSpread     bool
	TypeAnn      *TypeExpr
	Default      AST    // the written default expression; zero value if none
	DefaultValue *Value // set instead of Default for natives' built-in signatures
}

// Signature is a function's full parameter list, split by kind the way
// the binder needs it (spec.md §3/§4.H).
type Signature struct {
	Range            SourceRange
	Positional       []Param
	SpreadPositional *Param
	Named            []Param
	SpreadNamed      *Param
	Content          Param
}

// FuncDef is `@fn name(sig) body`.
type FuncDef struct {
	Range     SourceRange
	Name      NameID
	Signature Signature
	Body      AST
}

// SpreadKind discriminates an Arg's spread form.
type SpreadKind int

const (
	NoSpread SpreadKind = iota
	SpreadPositional
	SpreadNamed
)

// Arg is one argument at a call site.
type Arg struct {
	Range  SourceRange
	Name   NameID
	Spread SpreadKind
	Value  AST
}

// IsPositional reports whether this argument fills a positional slot.
func (a Arg) IsPositional() bool {
	return a.Name == NameAnonymous && a.Spread != SpreadNamed
}

// FuncCall is `@name(args) content` or `@name content`.
type FuncCall struct {
	Range   SourceRange
	Name    NameID
	NameExpr AST
	Args    []Arg
	Content AST
}

// GroupOrList backs Group/List/Template — an ordered run of child nodes.
type GroupOrList struct {
	Range    SourceRange
	Children []AST
}

// VarName is a `$name` reference.
type VarName struct {
	Range SourceRange
	Name  NameID
}

// MatchPatternKind discriminates the MatchPattern variants.
type MatchPatternKind int

const (
	PatIgnore MatchPatternKind = iota
	PatSpreadIgnore
	PatLiteral
	PatVarName
	PatSpreadVarName
	PatTyped
	PatExactList
	PatSpreadList
	PatTag
)

// MatchPattern is one arm's pattern in a @match expression.
type MatchPattern struct {
	Range   SourceRange
	Kind    MatchPatternKind
	Literal Token
	Var     VarName
	Child   *MatchPattern // Typed: the wrapped pattern
	TypeAnn *TypeExpr     // Typed
	List    []MatchPattern
	SpreadAt int // PatSpreadList: index of the spread element within List

	// PatTag
	TagName     NameID
	TagAnyName  bool // `</>`  — matches any tag name
	TagAttrs    []TagAttribute
	TagChildren []MatchPattern
}

// IsSpread reports whether this pattern occupies the spread position of
// its containing list/signature.
func (p MatchPattern) IsSpread() bool {
	switch p.Kind {
	case PatSpreadIgnore, PatSpreadVarName:
		return true
	case PatTyped:
		return p.Child != nil && p.Child.IsSpread()
	default:
		return false
	}
}

// MatchBranch is one `pattern -> body` arm.
type MatchBranch struct {
	Pattern MatchPattern
	Then    AST
}

// Match is `@match value { branches... }`.
type Match struct {
	Range    SourceRange
	Value    AST
	Branches []MatchBranch
}

// ASTKind discriminates the AST tagged union.
type ASTKind int

const (
	AstLiteralValue ASTKind = iota
	AstVerbatim
	AstFuncCall
	AstFuncDef
	AstMatch
	AstGroup
	AstList
	AstTemplate
	AstTag
	AstVarName
	AstText
	AstEntity
	AstEscape
	AstWhitespace
	AstParagraphBreak
)

// AST is a single node of the parse tree. Exactly one payload field is
// populated per Kind, mirroring the source's tagged-union shape (spec.md
// §9, "Tagged-variant polymorphism").
type AST struct {
	Kind  ASTKind
	Range SourceRange

	Token    Token  // LiteralValue, Verbatim
	Text     string // Text, Entity (decoded), Escape (decoded)
	Var      VarName
	Group    *GroupOrList // Group, List, Template
	TagNode  *Tag
	Call     *FuncCall
	Def      *FuncDef
	MatchVal *Match
}

// IsWhitespace reports whether this node is Whitespace or ParagraphBreak —
// the two leaf kinds paragraph segmentation treats specially.
func (n AST) IsWhitespace() bool {
	return n.Kind == AstWhitespace || n.Kind == AstParagraphBreak
}

// Seq builds a Group/List/Template payload, computing its range the way
// the original's AST::seq helper does: close token's end if present,
// else the last child's end, else the opening token's own end.
func Seq(open Token, children []AST, close *Token) *GroupOrList {
	end := open.Range.End
	if close != nil {
		end = close.Range.End
	} else if len(children) > 0 {
		end = children[len(children)-1].Range.End
	}
	return &GroupOrList{
		Range:    open.Range.ToEnd(end),
		Children: children,
	}
}
