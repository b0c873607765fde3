package papyri

import (
	"strings"

	om "github.com/wk8/go-ordered-map/v2"
)

// HTMLNode is any node in the HTML tree the evaluator builds and the
// renderer walks. Every variant below implements it.
type HTMLNode interface {
	// WriteText appends this node's plain-text content (tags stripped,
	// entities decoded) to sb — used for Any -> Str coercion of HTML
	// values and for the plain-text renderer.
	WriteText(sb *strings.Builder)
	// Equal reports structural equality, used by Value.Equal and by
	// match-pattern HTML literals.
	Equal(other HTMLNode) bool
	isHTMLNode()
}

// HTMLEmpty is the empty tree: no output, no text.
type HTMLEmpty struct{}

func (HTMLEmpty) WriteText(*strings.Builder) {}
func (HTMLEmpty) Equal(other HTMLNode) bool  { _, ok := other.(HTMLEmpty); return ok }
func (HTMLEmpty) isHTMLNode()                {}

// htmlParaBreak is the marker the evaluator emits for a source
// ParagraphBreak token. It never reaches the renderer: content-model
// normalization always resolves it away first, either as a forced split
// between two wrapped blocks (RequireBlock/AllowBlock), a <br> (RequireInline),
// or simply dropped (RequireInlineNoLineBreaks) — spec.md §4.G.
type htmlParaBreak struct{}

func (htmlParaBreak) WriteText(*strings.Builder)    {}
func (htmlParaBreak) Equal(other HTMLNode) bool     { _, ok := other.(htmlParaBreak); return ok }
func (htmlParaBreak) isHTMLNode()                   {}

// HTMLText is plain text content; the renderer entity-escapes it.
type HTMLText struct{ Text string }

func NewText(s string) HTMLNode {
	if s == "" {
		return HTMLEmpty{}
	}
	return HTMLText{Text: s}
}

func (t HTMLText) WriteText(sb *strings.Builder) { sb.WriteString(t.Text) }
func (t HTMLText) Equal(other HTMLNode) bool {
	o, ok := other.(HTMLText)
	return ok && o.Text == t.Text
}
func (HTMLText) isHTMLNode() {}

// HTMLWhitespace is a run of inter-element whitespace collapsed from the
// source; it renders as a single space in HTML mode and is preserved
// as-is in plain-text mode.
type HTMLWhitespace struct{ Text string }

func (w HTMLWhitespace) WriteText(sb *strings.Builder) { sb.WriteString(w.Text) }
func (w HTMLWhitespace) Equal(other HTMLNode) bool {
	o, ok := other.(HTMLWhitespace)
	return ok && o.Text == w.Text
}
func (HTMLWhitespace) isHTMLNode() {}

// HTMLRawText is content written verbatim with no entity escaping. The
// renderer supports it, but the evaluator and the natives do not build
// one: @syntax_highlight output is made of text nodes and <span> tags.
type HTMLRawText struct{ Text string }

func (r HTMLRawText) WriteText(sb *strings.Builder) { sb.WriteString(r.Text) }
func (r HTMLRawText) Equal(other HTMLNode) bool {
	o, ok := other.(HTMLRawText)
	return ok && o.Text == r.Text
}
func (HTMLRawText) isHTMLNode() {}

// HTMLTag is an element. Name is always a concrete tag name: for the
// `<$tagvar>` syntax the evaluator resolves the variable before the
// HTMLTag is built.
type HTMLTag struct {
	Name       NameID
	Attrs      *om.OrderedMap[string, Value]
	Children   HTMLNode
	SelfClosed bool
}

func (t HTMLTag) WriteText(sb *strings.Builder) {
	if t.Children != nil {
		t.Children.WriteText(sb)
	}
}

func (t HTMLTag) Equal(other HTMLNode) bool {
	o, ok := other.(HTMLTag)
	if !ok || o.Name != t.Name || o.SelfClosed != t.SelfClosed {
		return false
	}
	if (t.Children == nil) != (o.Children == nil) {
		return false
	}
	if t.Children != nil && !t.Children.Equal(o.Children) {
		return false
	}
	return attrsEqual(t.Attrs, o.Attrs)
}

func attrsEqual(a, b *om.OrderedMap[string, Value]) bool {
	if a == nil || b == nil {
		return a == b || (a != nil && a.Len() == 0 && b == nil) || (b != nil && b.Len() == 0 && a == nil)
	}
	if a.Len() != b.Len() {
		return false
	}
	for pair := a.Oldest(); pair != nil; pair = pair.Next() {
		bv, ok := b.Get(pair.Key)
		if !ok || !bv.Equal(pair.Value) {
			return false
		}
	}
	return true
}

func (HTMLTag) isHTMLNode() {}

// HTMLSequence is an ordered run of sibling nodes. NewSequence flattens
// any nested HTMLSequence, drops HTMLEmpty members, and merges any two
// adjacent HTMLWhitespace children into one, so a Sequence in the final
// tree is never empty, never one element long (it collapses to that
// element directly), and never carries a run of consecutive whitespace
// nodes — callers can rely on len(children) >= 2 for any Sequence value
// they see.
type HTMLSequence struct{ Children []HTMLNode }

func NewSequence(nodes []HTMLNode) HTMLNode {
	flat := make([]HTMLNode, 0, len(nodes))
	for _, n := range nodes {
		switch v := n.(type) {
		case nil:
			continue
		case HTMLEmpty:
			continue
		case HTMLSequence:
			flat = append(flat, v.Children...)
		default:
			flat = append(flat, n)
		}
	}
	merged := flat[:0]
	for _, n := range flat {
		if _, ok := n.(HTMLWhitespace); ok {
			if last := len(merged) - 1; last >= 0 {
				if _, ok := merged[last].(HTMLWhitespace); ok {
					continue
				}
			}
		}
		merged = append(merged, n)
	}
	switch len(merged) {
	case 0:
		return HTMLEmpty{}
	case 1:
		return merged[0]
	default:
		return HTMLSequence{Children: merged}
	}
}

func (s HTMLSequence) WriteText(sb *strings.Builder) {
	for _, c := range s.Children {
		c.WriteText(sb)
	}
}

func (s HTMLSequence) Equal(other HTMLNode) bool {
	o, ok := other.(HTMLSequence)
	if !ok || len(o.Children) != len(s.Children) {
		return false
	}
	for i := range s.Children {
		if !s.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

func (HTMLSequence) isHTMLNode() {}

// flattenChildren returns the direct child nodes of an HTMLNode for
// content-model inspection: a Sequence's members, a single node's own
// slice of one, or nothing for Empty.
func flattenChildren(n HTMLNode) []HTMLNode {
	switch v := n.(type) {
	case nil:
		return nil
	case HTMLEmpty:
		return nil
	case HTMLSequence:
		return v.Children
	default:
		return []HTMLNode{n}
	}
}

func isInlineNode(n HTMLNode) bool {
	switch v := n.(type) {
	case HTMLTag:
		return !IsBlock(v.Name)
	case HTMLText, HTMLWhitespace, HTMLRawText, HTMLEmpty:
		return true
	default:
		return true
	}
}

func tagNamed(n HTMLNode, name NameID) bool {
	t, ok := n.(HTMLTag)
	return ok && t.Name == name
}

// NormalizeContent applies the content-model rule for parentName to
// children, wrapping loose inline runs in rule.Wrap where the rule
// requires it. It is idempotent: re-normalizing an already-normalized
// tree is a no-op, since a tree that already satisfies the rule has
// nothing left to wrap.
func NormalizeContent(parentName NameID, children HTMLNode) HTMLNode {
	rule := ContentKindFor(parentName)
	switch rule.Kind {
	case RequireInline:
		return convertBreaksToBR(children)
	case RequireInlineNoLineBreaks:
		return dropBreaks(children)
	case RequireOneOf:
		return normalizeRequireOneOf(rule, children)
	case RequireBlock:
		return normalizeWrap(children, rule.Wrap, true)
	case AllowBlock:
		return normalizeWrap(children, rule.Wrap, false)
	default:
		return children
	}
}

// convertBreaksToBR replaces every paragraph-break marker with a <br>,
// the RequireInline rule of spec.md §4.G.
func convertBreaksToBR(n HTMLNode) HTMLNode {
	kids := flattenChildren(n)
	out := make([]HTMLNode, 0, len(kids))
	changed := false
	for _, k := range kids {
		if _, ok := k.(htmlParaBreak); ok {
			out = append(out, HTMLTag{Name: NameBr, SelfClosed: true})
			changed = true
			continue
		}
		out = append(out, k)
	}
	if !changed {
		return n
	}
	return NewSequence(out)
}

// dropBreaks removes every paragraph-break marker with nothing in its
// place, the RequireInlineNoLineBreaks rule of spec.md §4.G.
func dropBreaks(n HTMLNode) HTMLNode {
	kids := flattenChildren(n)
	out := make([]HTMLNode, 0, len(kids))
	changed := false
	for _, k := range kids {
		if _, ok := k.(htmlParaBreak); ok {
			changed = true
			continue
		}
		out = append(out, k)
	}
	if !changed {
		return n
	}
	return NewSequence(out)
}

func normalizeRequireOneOf(rule ContentRule, children HTMLNode) HTMLNode {
	kids := flattenChildren(children)
	out := make([]HTMLNode, 0, len(kids))
	var pending []HTMLNode
	flushPending := func() {
		if len(pending) == 0 {
			return
		}
		out = append(out, HTMLTag{
			Name:     rule.OneOf[0],
			Children: NewSequence(pending),
		})
		pending = nil
	}
	for _, k := range kids {
		if matchesOneOf(k, rule.OneOf) {
			flushPending()
			out = append(out, k)
			continue
		}
		if _, isWS := k.(HTMLWhitespace); isWS && len(pending) == 0 {
			continue
		}
		pending = append(pending, k)
	}
	flushPending()
	return NewSequence(out)
}

func matchesOneOf(n HTMLNode, names []NameID) bool {
	for _, name := range names {
		if tagNamed(n, name) {
			return true
		}
	}
	return false
}

// normalizeWrap implements RequireBlock(wrap) (forceWrap) and
// AllowBlock(wrap) (!forceWrap): a paragraph-break marker always forces
// a split between runs (consumed, never itself emitted); a genuine
// block child also splits a run and passes through unwrapped; the
// inline material collected between splits is wrapped in <wrap> unless
// it's empty or whitespace-only, in which case it's simply dropped —
// matching spec.md §8's "Paragraph 1\n\nParagraph 2" -> two <p>s with no
// spurious empty one in between.
func normalizeWrap(children HTMLNode, wrap NameID, forceWrap bool) HTMLNode {
	kids := flattenChildren(children)
	anyBlock := false
	for _, k := range kids {
		if !isInlineNode(k) {
			anyBlock = true
			break
		}
	}
	if !anyBlock && !forceWrap {
		return convertBreaksToBR(children)
	}

	out := make([]HTMLNode, 0, len(kids))
	var pending []HTMLNode
	hasContent := false
	flushPending := func() {
		if hasContent {
			out = append(out, HTMLTag{Name: wrap, Children: NewSequence(trimWhitespace(pending))})
		}
		pending, hasContent = nil, false
	}
	for _, k := range kids {
		if _, isBreak := k.(htmlParaBreak); isBreak {
			flushPending()
			continue
		}
		if anyBlock && !isInlineNode(k) {
			flushPending()
			out = append(out, k)
			continue
		}
		pending = append(pending, k)
		if _, isWS := k.(HTMLWhitespace); !isWS {
			hasContent = true
		}
	}
	flushPending()
	return NewSequence(out)
}

// trimWhitespace drops leading and trailing HTMLWhitespace nodes from a
// run before it's wrapped: a paragraph's content never starts or ends
// with the inter-node space left over from a call that produced no
// visible output of its own (spec.md §8 scenario "@let(x=5). $x $x" ->
// "<p>5 5</p>", not "<p> 5 5</p>").
func trimWhitespace(nodes []HTMLNode) []HTMLNode {
	start := 0
	for start < len(nodes) {
		if _, ok := nodes[start].(HTMLWhitespace); !ok {
			break
		}
		start++
	}
	end := len(nodes)
	for end > start {
		if _, ok := nodes[end-1].(HTMLWhitespace); !ok {
			break
		}
		end--
	}
	return nodes[start:end]
}
