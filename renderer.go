package papyri

import (
	"io"
	"strings"
)

// RenderMode selects the renderer's output format.
type RenderMode int

const (
	RenderHTML RenderMode = iota
	RenderText
)

// Renderer serialises an HTML tree to bytes, in either HTML or plain-text
// mode (spec.md §4.K). Renderer is stateless and safe to reuse across
// Render calls.
type Renderer struct {
	Mode  RenderMode
	Names *StringPool
}

// NewRenderer creates a renderer in the given mode. names resolves tag
// NameIDs back to their text for HTML mode; it may be nil in text mode,
// which never needs tag names.
func NewRenderer(mode RenderMode, names *StringPool) *Renderer {
	return &Renderer{Mode: mode, Names: names}
}

// Render writes n to w.
func (r *Renderer) Render(w io.Writer, n HTMLNode) error {
	var sb strings.Builder
	switch r.Mode {
	case RenderHTML:
		r.writeHTML(&sb, n)
	default:
		r.writeText(&sb, n, true)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderString is a convenience wrapper around Render for callers that
// just want a string back.
func (r *Renderer) RenderString(n HTMLNode) string {
	var sb strings.Builder
	switch r.Mode {
	case RenderHTML:
		r.writeHTML(&sb, n)
	default:
		r.writeText(&sb, n, true)
	}
	return sb.String()
}

func (r *Renderer) writeHTML(sb *strings.Builder, n HTMLNode) {
	switch v := n.(type) {
	case nil, HTMLEmpty:
		return
	case HTMLText:
		sb.WriteString(escapeHTMLText(v.Text))
	case HTMLWhitespace:
		sb.WriteString(" ")
	case HTMLRawText:
		sb.WriteString(v.Text)
	case HTMLSequence:
		for _, c := range v.Children {
			r.writeHTML(sb, c)
		}
	case HTMLTag:
		r.writeTagHTML(sb, v)
	}
}

func (r *Renderer) writeTagHTML(sb *strings.Builder, t HTMLTag) {
	name := r.tagName(t.Name)
	sb.WriteByte('<')
	sb.WriteString(name)
	if t.Attrs != nil {
		for pair := t.Attrs.Oldest(); pair != nil; pair = pair.Next() {
			writeAttr(sb, pair.Key, pair.Value)
		}
	}
	if t.SelfClosed || IsSelfClosing(t.Name) {
		sb.WriteString(">")
		return
	}
	sb.WriteByte('>')
	r.writeHTML(sb, t.Children)
	sb.WriteString("</")
	sb.WriteString(name)
	sb.WriteByte('>')
}

func (r *Renderer) tagName(id NameID) string {
	if r.Names == nil {
		return ""
	}
	return r.Names.Get(id)
}

func writeAttr(sb *strings.Builder, key string, v Value) {
	if v.Kind == VBool && v.B {
		sb.WriteByte(' ')
		sb.WriteString(key)
		return
	}
	if v.Kind == VBool && !v.B {
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(key)
	sb.WriteString(`="`)
	sb.WriteString(escapeHTMLAttr(v.AsStr()))
	sb.WriteByte('"')
}

// escapeHTMLText escapes the minimal set of entities required in text
// content (spec.md §6): & < >.
func escapeHTMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// escapeHTMLAttr escapes the minimal set required in a quoted attribute
// value: & and the quote character itself.
func escapeHTMLAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}

// writeText renders the plain-text mode: tags stripped, text and
// whitespace kept, blank lines inserted at paragraph (block-tag)
// boundaries.
func (r *Renderer) writeText(sb *strings.Builder, n HTMLNode, topLevel bool) {
	switch v := n.(type) {
	case nil, HTMLEmpty:
		return
	case HTMLText:
		sb.WriteString(v.Text)
	case HTMLWhitespace:
		sb.WriteString(v.Text)
	case HTMLRawText:
		sb.WriteString(v.Text)
	case HTMLSequence:
		for i, c := range v.Children {
			if i > 0 && isBlockChild(c) {
				sb.WriteString("\n\n")
			}
			r.writeText(sb, c, false)
		}
	case HTMLTag:
		r.writeText(sb, v.Children, false)
	}
}

func isBlockChild(n HTMLNode) bool {
	t, ok := n.(HTMLTag)
	return ok && IsBlock(t.Name)
}
