package papyri

import (
	"fmt"
	"strings"

	om "github.com/wk8/go-ordered-map/v2"
)

// Evaluator walks an AST and produces Values, threading a single
// Diagnostics sink, StringPool, module loader, and output sink through
// every call — the cross-cutting resources of spec.md §5.
type Evaluator struct {
	Names       *StringPool
	Diags       *Diagnostics
	Loader      *Loader
	Highlighter Highlighter
	Sink        *OutputSink // nil if write_file is disabled for this session

	src     *Source
	exports *om.OrderedMap[string, Value]
}

// NewEvaluator creates an evaluator for compiling src, with exports
// accumulating into the given dict (owned by the Module being built).
func NewEvaluator(names *StringPool, diags *Diagnostics, loader *Loader, hl Highlighter, sink *OutputSink, src *Source, exports *om.OrderedMap[string, Value]) *Evaluator {
	return &Evaluator{Names: names, Diags: diags, Loader: loader, Highlighter: hl, Sink: sink, src: src, exports: exports}
}

// rootFrame builds the frame a top-level module evaluates in: a child of
// the natives frame, so every native primitive (`export`, `let`, `@b`-
// style tag functions are not natives but this covers `import`, `map`,
// `raise`, ...) is in lexical scope from the first node of the file.
func (ev *Evaluator) rootFrame() *Frame {
	return NewFrame(NewNativesFrame(ev.Names))
}

// EvalModule evaluates the top-level node sequence of a source file and
// returns the rendered HTML output. exports is populated as a side
// effect via @export calls. The document root is itself subject to the
// RequireBlock(p) content-model rule, the same one `article`/`section`/
// etc. use (spec.md §8 scenario 1: bare text at top level comes out
// wrapped in a <p>, not left bare).
func (ev *Evaluator) EvalModule(nodes []AST) HTMLNode {
	frame := ev.rootFrame()
	content := ev.EvalContent(nodes, frame)
	return normalizeWrap(content, NameP, true)
}

// EvalContent evaluates a flat node sequence for markup content: each
// node contributes zero or more HTML children, in source order, and the
// result is wrapped as a Sequence (spec.md §5, "evaluation is strictly
// source order, left to right, depth first").
func (ev *Evaluator) EvalContent(nodes []AST, frame *Frame) HTMLNode {
	children := make([]HTMLNode, 0, len(nodes))
	for _, n := range nodes {
		children = append(children, ev.evalNodeToHTML(n, frame)...)
	}
	return NewSequence(children)
}

// evalNodeToHTML evaluates one markup-context node into zero or more
// HTML children (a FuncCall/Tag/Match contributes one; a Group/Template
// flattens its own children; let/implicit/export contribute none).
func (ev *Evaluator) evalNodeToHTML(n AST, frame *Frame) []HTMLNode {
	switch n.Kind {
	case AstText:
		return []HTMLNode{NewText(n.Text)}
	case AstWhitespace:
		return []HTMLNode{HTMLWhitespace{Text: " "}}
	case AstParagraphBreak:
		return []HTMLNode{htmlParaBreak{}}
	case AstEntity, AstEscape:
		return []HTMLNode{NewText(n.Text)}
	case AstTag:
		return []HTMLNode{ev.evalTag(n.TagNode, frame)}
	case AstGroup, AstList, AstTemplate:
		return flattenChildren(ev.EvalContent(n.Group.Children, frame))
	default:
		v := ev.Eval(n, frame)
		return flattenChildren(ev.CompileValue(v))
	}
}

// Eval evaluates a single node in expression context, returning its
// Value. This is the path used for call arguments, $var references,
// match subjects, and anything nested in (), [], or {}.
func (ev *Evaluator) Eval(n AST, frame *Frame) Value {
	switch n.Kind {
	case AstLiteralValue:
		return ev.evalLiteral(n.Token)
	case AstVerbatim:
		return StrValue(n.Token.Text)
	case AstVarName:
		if v, ok := frame.Lookup(n.Var.Name); ok {
			return v
		}
		ev.Diags.Runtime(RuntimeError{Variant: NameNotDefined, Name: ev.Names.Get(n.Var.Name)}, n.Range)
		return UnitValue
	case AstGroup:
		// `{...}` groups markup content, not an expression list (spec.md
		// "group `{…}`, list `[…]`" are distinct source productions): it
		// evaluates the same way a tag's own children do, producing an
		// HTML value rather than a Value per child.
		return HTMLValue(ev.EvalContent(n.Group.Children, frame))
	case AstList:
		items := make([]Value, len(n.Group.Children))
		for i, c := range n.Group.Children {
			items[i] = ev.Eval(c, frame)
		}
		return ListValue(items)
	case AstTemplate:
		return StrValue(ev.evalTemplateText(n.Group.Children, frame))
	case AstTag:
		return HTMLValue(ev.evalTag(n.TagNode, frame))
	case AstFuncCall:
		return ev.evalFuncCall(n.Call, frame)
	case AstFuncDef:
		return ev.evalFuncDef(n.Def, frame)
	case AstMatch:
		return ev.evalMatch(n.MatchVal, frame)
	case AstText:
		return StrValue(n.Text)
	case AstWhitespace:
		return StrValue(" ")
	case AstParagraphBreak:
		return HTMLValue(htmlParaBreak{})
	case AstEntity, AstEscape:
		return StrValue(n.Text)
	default:
		return UnitValue
	}
}

func (ev *Evaluator) evalLiteral(tok Token) Value {
	switch tok.Kind {
	case TkNumber:
		var n int
		fmt.Sscanf(tok.Text, "%d", &n)
		return IntValue(n)
	case TkBoolean:
		return BoolValue(tok.Text == "True")
	default:
		return UnitValue
	}
}

func (ev *Evaluator) evalTemplateText(parts []AST, frame *Frame) string {
	var sb strings.Builder
	for _, p := range parts {
		if p.Kind == AstText {
			sb.WriteString(p.Text)
			continue
		}
		sb.WriteString(ev.Eval(p, frame).AsStr())
	}
	return sb.String()
}

// evalTag evaluates a literal (or variable-named) tag into an HTMLTag,
// applying the content-model normalizer to its children per spec.md §4.G.
func (ev *Evaluator) evalTag(tag *Tag, frame *Frame) HTMLNode {
	name := tag.Name
	if tag.NameExpr.Kind != 0 || tag.NameExpr.Range.End > tag.NameExpr.Range.Start {
		v := ev.Eval(tag.NameExpr, frame)
		name = ev.Names.Intern(v.AsStr())
	}

	attrs := NewDict()
	for _, a := range tag.Attrs {
		if a.Spread {
			v := ev.Eval(a.Value, frame)
			if v.Kind == VDict && v.D != nil {
				for pair := v.D.Oldest(); pair != nil; pair = pair.Next() {
					attrs.Set(pair.Key, pair.Value)
				}
			}
			continue
		}
		if a.Value == nil {
			attrs.Set(ev.Names.Get(a.Name), BoolValue(true))
			continue
		}
		v := ev.Eval(a.Value, frame)
		if a.QuestionMark && v.Kind == VUnit {
			continue
		}
		attrs.Set(ev.Names.Get(a.Name), v)
	}

	children := ev.EvalContent(tag.Children, frame)
	children = NormalizeContent(name, children)

	return HTMLTag{
		Name:       name,
		Attrs:      attrs,
		Children:   children,
		SelfClosed: tag.SelfClosed || IsSelfClosing(name),
	}
}

// evalImplicitTagCall is the fallback for `@name(...) content` when name
// isn't bound to any variable or function: it behaves exactly as the
// literal tag `<name attrs...>content</name>` would, with the call's
// named/spread arguments playing the role of attributes. This lets an
// undecorated tag like `@b Something` work with no import at all — the
// sigil form is sugar over the tag form for any name the caller hasn't
// shadowed with a function of their own. A positional argument has no
// meaning here (plain tags have no positional attributes), so any are
// reported as TooManyPositional rather than silently dropped.
func (ev *Evaluator) evalImplicitTagCall(call *FuncCall, frame *Frame) HTMLNode {
	attrs := NewDict()
	for _, a := range call.Args {
		switch {
		case a.Spread == SpreadNamed:
			v := ev.Eval(a.Value, frame)
			if v.Kind == VDict && v.D != nil {
				for pair := v.D.Oldest(); pair != nil; pair = pair.Next() {
					attrs.Set(pair.Key, pair.Value)
				}
			}
		case a.IsPositional():
			ev.Diags.Type(TypeError{Variant: TooManyPositional}, a.Range)
		default:
			attrs.Set(ev.Names.Get(a.Name), ev.Eval(a.Value, frame))
		}
	}

	var children HTMLNode = HTMLEmpty{}
	if call.Content.Kind != 0 || call.Content.Range.End > call.Content.Range.Start {
		children = ev.CompileValue(ev.Eval(call.Content, frame))
	}
	children = NormalizeContent(call.Name, children)

	return HTMLTag{
		Name:       call.Name,
		Attrs:      attrs,
		Children:   children,
		SelfClosed: IsSelfClosing(call.Name),
	}
}

// evalFuncCall evaluates the call's own arguments and content, resolves
// the callee, binds, and invokes — the uniform pipeline of spec.md §9
// ("Native functions as one uniform call").
func (ev *Evaluator) evalFuncCall(call *FuncCall, frame *Frame) Value {
	var fnVal Value
	if call.NameExpr.Kind != 0 || call.NameExpr.Range.End > call.NameExpr.Range.Start {
		fnVal = ev.Eval(call.NameExpr, frame)
	} else if v, ok := frame.Lookup(call.Name); ok {
		fnVal = v
	} else {
		return HTMLValue(ev.evalImplicitTagCall(call, frame))
	}
	if fnVal.Kind != VFunc {
		ev.Diags.Type(TypeError{Variant: NotCallable, Got: fnVal.Type()}, call.Range)
		return UnitValue
	}

	var positional []Value
	named := om.New[NameID, Value]()
	for _, arg := range call.Args {
		v := ev.Eval(arg.Value, frame)
		switch arg.Spread {
		case SpreadPositional:
			if v.Kind == VList {
				positional = append(positional, v.L...)
			}
		case SpreadNamed:
			if v.Kind == VDict && v.D != nil {
				for pair := v.D.Oldest(); pair != nil; pair = pair.Next() {
					named.Set(ev.Names.Intern(pair.Key), pair.Value)
				}
			}
		default:
			if arg.IsPositional() {
				positional = append(positional, v)
			} else {
				named.Set(arg.Name, v)
			}
		}
	}
	content := UnitValue
	if call.Content.Kind != 0 || call.Content.Range.End > call.Content.Range.Start {
		content = ev.Eval(call.Content, frame)
	}

	return ev.invoke(fnVal.F, CallArgs{Positional: positional, Named: named, Content: content}, frame, call.Range)
}

// invoke binds args against fn's signature and executes its body (native
// Go code, or a user-defined AST body evaluated in a fresh frame whose
// parent is fn's definition frame).
func (ev *Evaluator) invoke(fn *Function, args CallArgs, callerFrame *Frame, rng SourceRange) Value {
	resolveDefault := func(p Param) (Value, error) {
		return ev.Eval(p.Default, fn.DefFrame), nil
	}
	argFrame, err := Bind(fn.Signature, args, callerFrame, resolveDefault, ev.Names)
	if err != nil {
		if te, ok := err.(TypeError); ok {
			ev.Diags.Type(te, rng)
		}
		return UnitValue
	}

	if fn.IsNative() {
		return fn.Native(ev, argFrame, callerFrame, rng)
	}

	bodyFrame := fn.DefFrame.Child()
	bodyFrame.bindings = argFrame.bindings
	bodyFrame.parent = fn.DefFrame
	return ev.Eval(fn.Body, bodyFrame)
}

func (ev *Evaluator) evalFuncDef(def *FuncDef, frame *Frame) Value {
	fn := &Function{Name: def.Name, Signature: def.Signature, Body: def.Body, DefFrame: frame}
	v := FuncValue(fn)
	frame.Bind(def.Name, v)
	return v
}

func (ev *Evaluator) evalMatch(m *Match, frame *Frame) Value {
	v := ev.Eval(m.Value, frame)
	for _, branch := range m.Branches {
		bindings := make(map[NameID]Value)
		if branch.Pattern.Kind == PatTag && v.Kind == VHTML {
			if !inlineShaped(v.H) {
				ev.Diags.Runtime(RuntimeError{Variant: PatternCannotMatchHTML}, branch.Pattern.Range)
				continue
			}
		}
		if Match(v, branch.Pattern, bindings, ev.Names) {
			branchFrame := frame.Child()
			for name, bv := range bindings {
				branchFrame.Bind(name, bv)
			}
			return ev.Eval(branch.Then, branchFrame)
		}
	}
	ev.Diags.Runtime(RuntimeError{Variant: NoMatchingBranch}, m.Range)
	return UnitValue
}

func inlineShaped(n HTMLNode) bool {
	for _, c := range flattenChildren(n) {
		if !isInlineNode(c) {
			return false
		}
	}
	return true
}

// CompileValue renders an arbitrary Value as HTML the way spec.md §4.H's
// compile_value does: scalars become text, lists join with a space,
// dicts render as "(k=v, ...)", functions stringify to their name (or
// "<anonymous>"), and unit becomes Empty.
func (ev *Evaluator) CompileValue(v Value) HTMLNode {
	switch v.Kind {
	case VUnit:
		return HTMLEmpty{}
	case VHTML:
		return v.H
	case VList:
		parts := make([]HTMLNode, 0, len(v.L)*2)
		for i, item := range v.L {
			if i > 0 {
				parts = append(parts, HTMLWhitespace{Text: " "})
			}
			parts = append(parts, ev.CompileValue(item))
		}
		return NewSequence(parts)
	case VFunc:
		name := "<anonymous>"
		if v.F.Name != NameAnonymous {
			name = ev.Names.Get(v.F.Name)
		}
		return NewText(name)
	default:
		return NewText(v.AsStr())
	}
}
