package papyri

import "strings"

// parser is a straightforward recursive-descent reader over the flat
// Token stream Tokenize produces, grounded on the teacher's hand-written
// single-pass parser shape (parser.go/parser_expression.go) rather than
// a generated one.
type parser struct {
	toks  []Token
	pos   int
	names *StringPool
	diags *Diagnostics
	src   *Source
}

// Parse scans and parses src's full content into a top-level node
// sequence (spec.md §4.E).
func Parse(src *Source, names *StringPool, diags *Diagnostics) []AST {
	toks := Tokenize(src, diags)
	p := &parser{toks: toks, names: names, diags: diags, src: src}
	return p.parseContent(nil)
}

func (p *parser) cur() Token  { return p.toks[p.pos] }
func (p *parser) atEOF() bool { return p.cur().Kind == TkEOF }

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) check(k TokenKind) bool { return p.cur().Kind == k }

func (p *parser) accept(k TokenKind) (Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return Token{}, false
}

func (p *parser) expect(k TokenKind, want string) Token {
	if p.check(k) {
		return p.advance()
	}
	t := p.cur()
	p.diags.Syntax(SyntaxError{Variant: TokenExpectedWas, Want: want, Got: tokenKindName(t.Kind)}, t.Range)
	return t
}

func tokenKindName(k TokenKind) string {
	names := map[TokenKind]string{
		TkName: "name", TkVarName: "variable", TkVerbatim: "string", TkNumber: "number",
		TkBoolean: "boolean", TkEntity: "entity", TkEscape: "escape", TkLAngle: "<", TkRAngle: ">",
		TkLBrace: "{", TkRBrace: "}", TkLSqb: "[", TkRSqb: "]", TkLParen: "(", TkRParen: ")",
		TkEquals: "=", TkAsterisk: "*", TkDoubleAsterisk: "**", TkQuestionMark: "?", TkDot: ".",
		TkComma: ",", TkBar: "|", TkFatArrow: "=>", TkExclamationMark: "!", TkFuncName: "@name",
		TkWhitespace: "whitespace", TkNewline: "newline", TkParagraphBreak: "paragraph break",
		TkComment: "comment", TkLineComment: "comment", TkRawText: "text", TkSlash: "/", TkEOF: "end of input",
	}
	if s, ok := names[k]; ok {
		return s
	}
	return "token"
}

// parseContent reads a markup node sequence until EOF or, inside a tag,
// until a closing `</name>` header is found (stopName non-empty).
func (p *parser) parseContent(stopName *NameID) []AST {
	var out []AST
	for !p.atEOF() {
		if stopName != nil && p.isClosingTagFor(*stopName) {
			break
		}
		if p.check(TkLAngle) && p.isAnyClosingTag() && stopName == nil {
			break
		}
		out = append(out, p.parseMarkupNode())
	}
	return out
}

func (p *parser) isAnyClosingTag() bool {
	return p.toks[p.pos].Kind == TkLAngle && p.pos+1 < len(p.toks) && p.toks[p.pos+1].Kind == TkSlash
}

func (p *parser) isClosingTagFor(name NameID) bool {
	if !p.isAnyClosingTag() {
		return false
	}
	i := p.pos + 2
	if i >= len(p.toks) {
		return false
	}
	return p.toks[i].Kind == TkName && p.names.Intern(p.toks[i].Text) == name
}

func (p *parser) parseMarkupNode() AST {
	t := p.cur()
	switch t.Kind {
	case TkRawText:
		p.advance()
		return AST{Kind: AstText, Range: t.Range, Text: t.Text}
	case TkWhitespace, TkNewline:
		p.advance()
		return AST{Kind: AstWhitespace, Range: t.Range}
	case TkParagraphBreak:
		p.advance()
		return AST{Kind: AstParagraphBreak, Range: t.Range}
	case TkEntity:
		p.advance()
		return AST{Kind: AstEntity, Range: t.Range, Text: decodeEntity(t.Text)}
	case TkEscape:
		p.advance()
		return AST{Kind: AstEscape, Range: t.Range, Text: decodeEscape(t.Text)}
	case TkLineComment, TkComment:
		p.advance()
		return AST{Kind: AstWhitespace, Range: t.Range}
	case TkVerbatim:
		p.advance()
		return AST{Kind: AstVerbatim, Range: t.Range, Token: t}
	case TkLAngle:
		return p.parseTagNode()
	case TkFuncName:
		return p.parseFuncCallOrDef()
	case TkVarName:
		p.advance()
		return AST{Kind: AstVarName, Range: t.Range, Var: VarName{Range: t.Range, Name: p.names.Intern(t.Text)}}
	default:
		p.diags.Syntax(SyntaxError{Variant: TokenUnexpected, Got: tokenKindName(t.Kind)}, t.Range)
		p.advance()
		return AST{Kind: AstText, Range: t.Range}
	}
}

func decodeEntity(text string) string { return text }
func decodeEscape(text string) string {
	if len(text) >= 2 {
		return text[1:]
	}
	return text
}

// parseTagNode parses a single `<name attrs...>children</name>` or
// self-closing `<name attrs.../>` node (spec.md §4.E, Tag grammar).
func (p *parser) parseTagNode() AST {
	open := p.expect(TkLAngle, "<")
	tag := &Tag{Range: open.Range}

	if rt, ok := p.accept(TkRawText); ok {
		if !strings.HasPrefix(strings.ToUpper(rt.Text), "DOCTYPE") {
			p.diags.Syntax(SyntaxError{Variant: TokenExpectedDoctype}, rt.Range)
		}
		tag.IsDoctype = true
		tag.Name = NameDoctype
		tag.SelfClosed = true
		p.expect(TkRAngle, ">")
		tag.Range = tag.Range.ToEnd(rt.Range.End)
		return AST{Kind: AstTag, Range: tag.Range, TagNode: tag}
	}

	if nameTok, ok := p.accept(TkName); ok {
		tag.Name = p.names.Intern(nameTok.Text)
	} else if varTok, ok := p.accept(TkVarName); ok {
		tag.NameExpr = AST{Kind: AstVarName, Range: varTok.Range, Var: VarName{Range: varTok.Range, Name: p.names.Intern(varTok.Text)}}
	} else {
		t := p.cur()
		p.diags.Syntax(SyntaxError{Variant: ExpectedValue, Got: tokenKindName(t.Kind)}, t.Range)
	}

	seen := map[NameID]bool{}
	for p.check(TkName) || p.check(TkAsterisk) {
		attr := p.parseTagAttribute()
		if !attr.Spread {
			if seen[attr.Name] {
				p.diags.Syntax(SyntaxError{Variant: TagDuplicateAttr, Name: p.names.Get(attr.Name)}, attr.Range)
			}
			seen[attr.Name] = true
		}
		tag.Attrs = append(tag.Attrs, attr)
	}

	if _, ok := p.accept(TkSlash); ok {
		tag.SelfClosed = true
		close := p.expect(TkRAngle, ">")
		tag.Range = tag.Range.ToEnd(close.Range.End)
		return AST{Kind: AstTag, Range: tag.Range, TagNode: tag}
	}
	p.expect(TkRAngle, ">")

	tag.Children = p.parseContent(&tag.Name)

	if p.isAnyClosingTag() {
		p.advance() // '<'
		p.advance() // '/'
		if nameTok, ok := p.accept(TkName); ok {
			if p.names.Intern(nameTok.Text) != tag.Name && tag.NameExpr.Range.Src == nil {
				p.diags.Syntax(SyntaxError{Variant: TagUnmatchedOpen, Name: nameTok.Text}, nameTok.Range)
			}
		}
		close := p.expect(TkRAngle, ">")
		tag.Range = tag.Range.ToEnd(close.Range.End)
	} else {
		p.diags.Syntax(SyntaxError{Variant: TagCloseMalformed}, p.cur().Range)
	}

	return AST{Kind: AstTag, Range: tag.Range, TagNode: tag}
}

func (p *parser) parseTagAttribute() TagAttribute {
	if star, ok := p.accept(TkAsterisk); ok {
		val := p.parseExpression()
		return TagAttribute{Range: star.Range.ToEnd(val.Range.End), Spread: true, Value: val}
	}
	nameTok := p.expect(TkName, "attribute name")
	attr := TagAttribute{Range: nameTok.Range, Name: p.names.Intern(nameTok.Text)}
	if _, ok := p.accept(TkQuestionMark); ok {
		attr.QuestionMark = true
	}
	if _, ok := p.accept(TkEquals); ok {
		attr.Value = p.parseExpression()
		attr.Range = attr.Range.ToEnd(attr.Value.Range.End)
	}
	return attr
}

// parseFuncCallOrDef parses everything starting with `@name`: a bare
// call, a call with arguments and/or content, a `@fn` definition, or a
// `@match` expression (spec.md §4.E).
func (p *parser) parseFuncCallOrDef() AST {
	nameTok := p.expect(TkFuncName, "@name")
	name := p.names.Intern(nameTok.Text)

	switch nameTok.Text {
	case "fn":
		return p.parseFuncDef(nameTok)
	case "match":
		return p.parseMatch(nameTok)
	}

	call := &FuncCall{Range: nameTok.Range, Name: name}
	if _, ok := p.accept(TkLParen); ok {
		call.Args = p.parseArgList()
		close := p.expect(TkRParen, ")")
		call.Range = call.Range.ToEnd(close.Range.End)
	}
	if p.consumeCallTerminator() {
		// explicit `.` terminator: no content, even though the next
		// token would otherwise look like inline content.
	} else if p.hasContentFollowing() {
		call.Content = p.parseFuncContent()
		call.Range = call.Range.ToEnd(call.Content.Range.End)
	}
	return AST{Kind: AstFuncCall, Range: call.Range, Call: call}
}

// consumeCallTerminator recognizes the `.` convention that explicitly
// ends a call with no content argument, even when the following text
// would otherwise read as inline content (e.g. "@let(x=5). $x" — the
// space after the argument list would otherwise become the call's
// content). Only a literal leading "." immediately after the argument
// list counts; the remainder of that text token, if any, is spliced
// back in as ordinary sibling markup.
func (p *parser) consumeCallTerminator() bool {
	t := p.cur()
	if t.Kind != TkRawText || len(t.Text) == 0 || t.Text[0] != '.' {
		return false
	}
	rest := t.Text[1:]
	if rest == "" {
		p.advance()
		return true
	}
	p.toks[p.pos] = Token{
		Kind:  TkRawText,
		Range: SourceRange{Src: t.Range.Src, Start: t.Range.Start + 1, End: t.Range.End},
		Text:  rest,
	}
	return true
}

// hasContentFollowing reports whether the call is immediately followed
// by inline content rather than terminating (a bare `@name` with
// whitespace/newline/EOF/closing-tag next has no content).
func (p *parser) hasContentFollowing() bool {
	switch p.cur().Kind {
	case TkLBrace, TkVerbatim, TkFuncName, TkVarName, TkLAngle, TkRawText:
		return true
	default:
		return false
	}
}

// parseFuncContent parses a call's trailing content argument: either a
// `{...}` group or a single inline node.
func (p *parser) parseFuncContent() AST {
	if open, ok := p.accept(TkLBrace); ok {
		children := p.parseContentUntilBrace()
		close := p.expect(TkRBrace, "}")
		return AST{Kind: AstGroup, Range: open.Range.ToEnd(close.Range.End), Group: Seq(open, children, &close)}
	}
	return p.parseMarkupNode()
}

func (p *parser) parseContentUntilBrace() []AST {
	var out []AST
	for !p.atEOF() && !p.check(TkRBrace) {
		out = append(out, p.parseMarkupNode())
	}
	return out
}

// parseArgList parses a call's `(args)` list, enforcing that once a named
// argument has appeared no positional argument may follow it (spec.md
// §4.E: positional arguments always fill left-to-right before named ones
// are considered).
func (p *parser) parseArgList() []Arg {
	var args []Arg
	seen := map[NameID]bool{}
	sawNamed := false
	for !p.check(TkRParen) && !p.atEOF() {
		arg := p.parseArg()
		if arg.IsPositional() {
			if sawNamed {
				p.diags.Syntax(SyntaxError{Variant: ArgPositionalAfterNamed}, arg.Range)
			}
		} else if arg.Name != NameAnonymous {
			sawNamed = true
			if seen[arg.Name] {
				p.diags.Syntax(SyntaxError{Variant: ArgDuplicateName, Name: p.names.Get(arg.Name)}, arg.Range)
			}
			seen[arg.Name] = true
			if strings.HasPrefix(p.names.Get(arg.Name), "_") {
				p.diags.Syntax(SyntaxError{Variant: ArgNamedUnderscore}, arg.Range)
			}
		}
		args = append(args, arg)
		if _, ok := p.accept(TkComma); !ok {
			break
		}
	}
	return args
}

func (p *parser) parseArg() Arg {
	if star, ok := p.accept(TkAsterisk); ok {
		if _, ok := p.accept(TkAsterisk); ok {
			val := p.parseExpression()
			return Arg{Range: star.Range.ToEnd(val.Range.End), Name: NameAnonymous, Spread: SpreadNamed, Value: val}
		}
		val := p.parseExpression()
		return Arg{Range: star.Range.ToEnd(val.Range.End), Name: NameAnonymous, Spread: SpreadPositional, Value: val}
	}
	if p.check(TkName) && p.peekKindAt(1) == TkEquals {
		nameTok := p.advance()
		p.advance() // '='
		val := p.parseExpression()
		return Arg{Range: nameTok.Range.ToEnd(val.Range.End), Name: p.names.Intern(nameTok.Text), Value: val}
	}
	val := p.parseExpression()
	return Arg{Range: val.Range, Name: NameAnonymous, Value: val}
}

func (p *parser) peekKindAt(offset int) TokenKind {
	i := p.pos + offset
	if i >= len(p.toks) {
		return TkEOF
	}
	return p.toks[i].Kind
}

// parseExpression parses one expression-context node: literal, variable,
// list, template string, tag, nested call, or parenthesised group.
func (p *parser) parseExpression() AST {
	t := p.cur()
	switch t.Kind {
	case TkNumber, TkBoolean:
		p.advance()
		return AST{Kind: AstLiteralValue, Range: t.Range, Token: t}
	case TkVerbatim:
		p.advance()
		return AST{Kind: AstVerbatim, Range: t.Range, Token: t}
	case TkVarName:
		p.advance()
		return AST{Kind: AstVarName, Range: t.Range, Var: VarName{Range: t.Range, Name: p.names.Intern(t.Text)}}
	case TkFuncName:
		return p.parseFuncCallOrDef()
	case TkLAngle:
		return p.parseTagNode()
	case TkLSqb:
		return p.parseList()
	case TkLBrace:
		return p.parseTemplate()
	case TkLParen:
		p.advance()
		inner := p.parseExpression()
		p.expect(TkRParen, ")")
		return inner
	default:
		p.diags.Syntax(SyntaxError{Variant: ExpectedValue, Got: tokenKindName(t.Kind)}, t.Range)
		p.advance()
		return AST{Kind: AstLiteralValue, Range: t.Range}
	}
}

func (p *parser) parseList() AST {
	open := p.expect(TkLSqb, "[")
	var children []AST
	for !p.check(TkRSqb) && !p.atEOF() {
		children = append(children, p.parseExpression())
		if _, ok := p.accept(TkComma); !ok {
			break
		}
	}
	close := p.expect(TkRSqb, "]")
	return AST{Kind: AstList, Range: open.Range.ToEnd(close.Range.End), Group: Seq(open, children, &close)}
}

// parseTemplate parses a `{...}` string-interpolation template: a run of
// text/escape/entity/var/call nodes concatenated at eval time.
func (p *parser) parseTemplate() AST {
	open := p.expect(TkLBrace, "{")
	var children []AST
	for !p.check(TkRBrace) && !p.atEOF() {
		children = append(children, p.parseMarkupNode())
	}
	close := p.expect(TkRBrace, "}")
	return AST{Kind: AstTemplate, Range: open.Range.ToEnd(close.Range.End), Group: Seq(open, children, &close)}
}

// parseFuncDef parses `@fn name(signature) body`.
func (p *parser) parseFuncDef(start Token) AST {
	nameTok := p.expect(TkName, "function name")
	def := &FuncDef{Range: start.Range, Name: p.names.Intern(nameTok.Text)}
	if _, ok := p.accept(TkLParen); ok {
		def.Signature = p.parseSignature()
		p.expect(TkRParen, ")")
	}
	if p.hasContentFollowing() {
		def.Body = p.parseFuncContent()
	}
	def.Range = def.Range.ToEnd(p.toks[p.pos-1].Range.End)
	return AST{Kind: AstFuncDef, Range: def.Range, Def: def}
}

// parseSignature parses a parameter list, splitting positional/spread-
// positional/named/spread-named/content exactly as spec.md §3 lays out.
// A bare parameter (no `?`, no default) is positional; one written with
// `?` or `=default` is optional and goes in the named bucket (spec.md
// §4.E) — so a positional parameter occurring once any named parameter
// has been seen is an ordering error, and spreads may appear at most
// once and only as the signature's last entries.
func (p *parser) parseSignature() Signature {
	var sig Signature
	seen := map[NameID]bool{}
	sawSpread := false
	sawNamed := false

	checkName := func(param Param) {
		if param.Name == NameAnonymous {
			return
		}
		if seen[param.Name] {
			p.diags.Syntax(SyntaxError{Variant: ParamDuplicateName, Name: p.names.Get(param.Name)}, param.Range)
		}
		seen[param.Name] = true
	}

	for !p.check(TkRParen) && !p.atEOF() {
		param, spreadKind := p.parseParam()
		checkName(param)

		if sawSpread {
			variant := ParamAfterSpread
			if spreadKind != NoSpread {
				variant = ParamMultipleSpread
			}
			p.diags.Syntax(SyntaxError{Variant: variant}, param.Range)
		}

		switch spreadKind {
		case SpreadPositional:
			sawSpread = true
			if param.Name == NameContent {
				p.diags.Syntax(SyntaxError{Variant: ParamContentSpread}, param.Range)
			}
			if !strings.HasPrefix(p.names.Get(param.Name), "_") {
				p.diags.Syntax(SyntaxError{Variant: ParamPositionalSpreadNoUnderscore}, param.Range)
			}
			sp := param
			sig.SpreadPositional = &sp
		case SpreadNamed:
			sawSpread = true
			if param.Name == NameContent {
				p.diags.Syntax(SyntaxError{Variant: ParamContentSpread}, param.Range)
			}
			if strings.HasPrefix(p.names.Get(param.Name), "_") {
				p.diags.Syntax(SyntaxError{Variant: ParamNamedSpreadUnderscore}, param.Range)
			}
			sp := param
			sig.SpreadNamed = &sp
		default:
			optional := param.QuestionMark || hasDefault(param)
			switch {
			case param.Name == NameContent:
				if optional {
					p.diags.Syntax(SyntaxError{Variant: ParamContentDefault}, param.Range)
				}
				sig.Content = param
			case optional:
				sawNamed = true
				sig.Named = append(sig.Named, param)
			default:
				if sawNamed {
					p.diags.Syntax(SyntaxError{Variant: ParamPositionalAfterNamed}, param.Range)
				}
				sig.Positional = append(sig.Positional, param)
			}
		}
		if _, ok := p.accept(TkComma); !ok {
			break
		}
	}
	return sig
}

func (p *parser) parseParam() (Param, SpreadKind) {
	start := p.cur()
	param := Param{Range: start.Range}
	spreadKind := NoSpread

	if _, ok := p.accept(TkAsterisk); ok {
		if _, ok := p.accept(TkAsterisk); ok {
			spreadKind = SpreadNamed
		} else {
			spreadKind = SpreadPositional
		}
		param.IsSpread = true
	}
	if _, ok := p.accept(TkExclamationMark); ok {
		param.IsImplicit = true
	}
	nameTok := p.expect(TkName, "parameter name")
	param.Name = p.names.Intern(nameTok.Text)
	if _, ok := p.accept(TkQuestionMark); ok {
		param.QuestionMark = true
	}
	if _, ok := p.accept(TkDot); ok {
		param.TypeAnn = p.parseTypeExpr()
	}
	if _, ok := p.accept(TkEquals); ok {
		param.Default = p.parseExpression()
	}
	param.Range = param.Range.ToEnd(p.toks[p.pos-1].Range.End)

	if param.IsSpread {
		if hasDefault(param) {
			p.diags.Syntax(SyntaxError{Variant: ParamSpreadDefault}, param.Range)
		}
		if param.IsImplicit {
			p.diags.Syntax(SyntaxError{Variant: ParamSpreadImplicit}, param.Range)
		}
	} else if param.IsImplicit {
		if hasDefault(param) {
			p.diags.Syntax(SyntaxError{Variant: ParamDefaultImplicit}, param.Range)
		}
		if !param.QuestionMark && !hasDefault(param) {
			p.diags.Syntax(SyntaxError{Variant: ParamPositionalImplicit}, param.Range)
		}
	}
	return param, spreadKind
}

func (p *parser) parseTypeExpr() *TypeExpr {
	nameTok := p.expect(TkName, "type name")
	te := &TypeExpr{Range: nameTok.Range, Resolved: resolveTypeName(nameTok.Text)}
	if _, ok := p.accept(TkLSqb); ok {
		te.Child = p.parseTypeExpr()
		close := p.expect(TkRSqb, "]")
		te.Range = te.Range.ToEnd(close.Range.End)
		switch nameTok.Text {
		case "list":
			te.Resolved = ListOf(te.Child.Resolved)
		case "dict":
			te.Resolved = DictOf(te.Child.Resolved)
		}
	}
	if _, ok := p.accept(TkQuestionMark); ok {
		te.Resolved = OptionalOf(te.Resolved)
	}
	return te
}

func resolveTypeName(s string) Type {
	switch s {
	case "bool":
		return Bool
	case "int":
		return Int
	case "str":
		return Str
	case "html":
		return HTML
	case "any_html":
		return AnyHTML
	case "any":
		return AnyValue
	case "function":
		return Function
	default:
		return AnyValue
	}
}

// parseMatch parses `@match value { pattern => body ... }`.
func (p *parser) parseMatch(start Token) AST {
	m := &Match{Range: start.Range}
	m.Value = p.parseExpression()
	p.expect(TkLBrace, "{")
	for !p.check(TkRBrace) && !p.atEOF() {
		branch := MatchBranch{}
		branch.Pattern = p.parseMatchPattern()
		p.expect(TkFatArrow, "=>")
		branch.Then = p.parseFuncContent()
		m.Branches = append(m.Branches, branch)
		p.accept(TkComma)
	}
	close := p.expect(TkRBrace, "}")
	m.Range = m.Range.ToEnd(close.Range.End)
	return AST{Kind: AstMatch, Range: m.Range, MatchVal: m}
}

// parseMatchPattern parses one pattern (spec.md §4.E/§4.H): `$_`, `*$_`,
// a literal, `$name`/`*$name`, a typed pattern `pat.type`, a list
// `[p, p, *p]`, or a tag pattern `<name attrs...>children</>`. A bare
// name, including a bare `_`, is rejected with PatternBareName.
func (p *parser) parseMatchPattern() MatchPattern {
	t := p.cur()
	switch t.Kind {
	case TkVarName:
		p.advance()
		if t.Text == "_" {
			return MatchPattern{Range: t.Range, Kind: PatIgnore}
		}
		return p.maybeTyped(MatchPattern{Range: t.Range, Kind: PatVarName, Var: VarName{Range: t.Range, Name: p.names.Intern(t.Text)}})
	case TkAsterisk:
		p.advance()
		inner := p.parseMatchPattern()
		if inner.Kind == PatIgnore {
			return MatchPattern{Range: t.Range.ToEnd(inner.Range.End), Kind: PatSpreadIgnore}
		}
		return MatchPattern{Range: t.Range.ToEnd(inner.Range.End), Kind: PatSpreadVarName, Var: inner.Var}
	case TkNumber, TkBoolean, TkVerbatim:
		p.advance()
		return p.maybeTyped(MatchPattern{Range: t.Range, Kind: PatLiteral, Literal: t})
	case TkLSqb:
		return p.parseListPattern()
	case TkLAngle:
		return p.parseTagPattern()
	case TkName:
		p.diags.Syntax(SyntaxError{Variant: PatternBareName}, t.Range)
		p.advance()
		return MatchPattern{Range: t.Range, Kind: PatIgnore}
	default:
		p.diags.Syntax(SyntaxError{Variant: ExpectedValue, Got: tokenKindName(t.Kind)}, t.Range)
		p.advance()
		return MatchPattern{Range: t.Range, Kind: PatIgnore}
	}
}

func (p *parser) maybeTyped(inner MatchPattern) MatchPattern {
	if _, ok := p.accept(TkDot); ok {
		te := p.parseTypeExpr()
		child := inner
		return MatchPattern{Range: inner.Range.ToEnd(te.Range.End), Kind: PatTyped, Child: &child, TypeAnn: te}
	}
	return inner
}

func (p *parser) parseListPattern() MatchPattern {
	open := p.expect(TkLSqb, "[")
	var items []MatchPattern
	spreadAt := -1
	for !p.check(TkRSqb) && !p.atEOF() {
		pat := p.parseMatchPattern()
		if pat.IsSpread() {
			if spreadAt >= 0 {
				p.diags.Syntax(SyntaxError{Variant: PatternMultipleSpreads}, pat.Range)
			}
			spreadAt = len(items)
		}
		items = append(items, pat)
		if _, ok := p.accept(TkComma); !ok {
			break
		}
	}
	close := p.expect(TkRSqb, "]")
	kind := PatExactList
	if spreadAt >= 0 {
		kind = PatSpreadList
	}
	return MatchPattern{Range: open.Range.ToEnd(close.Range.End), Kind: kind, List: items, SpreadAt: spreadAt}
}

// parseTagPattern parses `<name attrs...>children</>` (or `</name>`).
// Attribute values written inside a pattern are parsed but not compared:
// matchTagPattern in matcher.go checks only that each attribute not
// marked with `?` is present on the tag.
func (p *parser) parseTagPattern() MatchPattern {
	open := p.expect(TkLAngle, "<")
	pat := MatchPattern{Range: open.Range}
	if _, ok := p.accept(TkExclamationMark); ok {
		pat.TagAnyName = true
	} else if nameTok, ok := p.accept(TkName); ok {
		pat.TagName = p.names.Intern(nameTok.Text)
	} else {
		pat.TagAnyName = true
	}
	seen := map[NameID]bool{}
	sawSpread := false
	for p.check(TkName) || p.check(TkAsterisk) {
		attr := p.parseTagAttribute()
		if attr.Spread {
			if sawSpread {
				p.diags.Syntax(SyntaxError{Variant: PatternMultipleSpreads}, attr.Range)
			}
			sawSpread = true
		} else {
			if sawSpread {
				p.diags.Syntax(SyntaxError{Variant: PatternNamedAfterSpread}, attr.Range)
			}
			if seen[attr.Name] {
				p.diags.Syntax(SyntaxError{Variant: PatternDuplicateName, Name: p.names.Get(attr.Name)}, attr.Range)
			}
			seen[attr.Name] = true
		}
		pat.TagAttrs = append(pat.TagAttrs, attr)
	}
	selfClosed := false
	if _, ok := p.accept(TkSlash); ok {
		selfClosed = true
	}
	close := p.expect(TkRAngle, ">")
	pat.Range = pat.Range.ToEnd(close.Range.End)
	if selfClosed {
		pat.Kind = PatTag
		return pat
	}
	for !p.atEOF() && !p.isAnyClosingTag() {
		pat.TagChildren = append(pat.TagChildren, p.parseMatchPattern())
	}
	if p.isAnyClosingTag() {
		p.advance()
		p.advance()
		p.accept(TkName)
		closeEnd := p.expect(TkRAngle, ">")
		pat.Range = pat.Range.ToEnd(closeEnd.Range.End)
	}
	pat.Kind = PatTag
	return pat
}
