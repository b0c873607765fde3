package papyri

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter is the pluggable syntax-highlighting collaborator spec.md
// §1 keeps external to the core: "invoked with a language tag and
// returning tokenised lines". HighlightLines returns one HTMLNode per
// source line, or ok=false if language isn't recognized.
type Highlighter interface {
	HighlightLines(language, source string) (lines []HTMLNode, ok bool)
}

// ChromaHighlighter is the default Highlighter, backed by
// github.com/alecthomas/chroma/v2. Each token the style has an entry for
// becomes an inline <span class="..."> in the corresponding line's
// HTMLNode; any other token stays plain text.
type ChromaHighlighter struct {
	Style *chroma.Style
}

// NewChromaHighlighter returns a highlighter using chroma's built-in
// "github" style, a reasonable default for embedded documentation code
// blocks.
func NewChromaHighlighter() *ChromaHighlighter {
	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}
	return &ChromaHighlighter{Style: style}
}

func (h *ChromaHighlighter) HighlightLines(language, source string) ([]HTMLNode, bool) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return nil, false
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil, false
	}

	var lines [][]HTMLNode
	var current []HTMLNode
	for _, tok := range iterator.Tokens() {
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, current)
				current = nil
			}
			if part == "" {
				continue
			}
			current = append(current, spanFor(h.Style, tok.Type, part))
		}
	}
	lines = append(lines, current)

	out := make([]HTMLNode, len(lines))
	for i, l := range lines {
		out[i] = NewSequence(l)
	}
	return out, true
}

func spanFor(style *chroma.Style, tt chroma.TokenType, text string) HTMLNode {
	entry := style.Get(tt)
	if entry.IsZero() {
		return NewText(text)
	}
	attrs := NewDict()
	attrs.Set("class", StrValue(chroma.StandardTypes[tt]))
	return HTMLTag{
		Name:     NameSpan,
		Attrs:    attrs,
		Children: NewText(text),
	}
}

// NoHighlighting splits src into one text-node line per input line, used
// when a Highlighter is absent or doesn't recognize the language — the
// original's `no_highlighting` fallback.
func NoHighlighting(src string) []HTMLNode {
	lines := strings.Split(src, "\n")
	out := make([]HTMLNode, len(lines))
	for i, l := range lines {
		out[i] = NewText(l)
	}
	return out
}

// EnumerateLines wraps each line in an <li> inside an <ol> starting at
// firstLineNo, the way a fenced code block numbers its lines.
func EnumerateLines(lines []HTMLNode, firstLineNo int) HTMLNode {
	items := make([]HTMLNode, len(lines))
	for i, l := range lines {
		items[i] = HTMLTag{Name: NameLi, Children: l}
	}
	attrs := NewDict()
	if firstLineNo != 1 {
		attrs.Set("start", IntValue(firstLineNo))
	}
	return HTMLTag{Name: NameOl, Attrs: attrs, Children: NewSequence(items)}
}
