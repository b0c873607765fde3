package papyri

import "testing"

func TestNormalizeWrapSplitsOnParagraphBreak(t *testing.T) {
	// "Paragraph 1\n\nParagraph 2" -> two <p>s, no spurious empty one in
	// between (spec.md §8 scenario 1/2).
	content := NewSequence([]HTMLNode{
		NewText("Paragraph 1"),
		htmlParaBreak{},
		NewText("Paragraph 2"),
	})
	got := normalizeWrap(content, NameP, true)
	seq, ok := got.(HTMLSequence)
	if !ok {
		t.Fatalf("expected HTMLSequence, got %T", got)
	}
	if len(seq.Children) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %#v", len(seq.Children), seq.Children)
	}
	for i, want := range []string{"Paragraph 1", "Paragraph 2"} {
		p, ok := seq.Children[i].(HTMLTag)
		if !ok || p.Name != NameP {
			t.Fatalf("child %d: expected <p>, got %#v", i, seq.Children[i])
		}
		if text, ok := p.Children.(HTMLText); !ok || text.Text != want {
			t.Errorf("child %d: expected text %q, got %#v", i, want, p.Children)
		}
	}
}

func TestNormalizeWrapDropsEmptyRuns(t *testing.T) {
	// A leading/trailing paragraph break with nothing around it (or only
	// whitespace) must not produce an empty <p></p>.
	content := NewSequence([]HTMLNode{
		htmlParaBreak{},
		NewText("only paragraph"),
		htmlParaBreak{},
	})
	got := normalizeWrap(content, NameP, true)
	p, ok := got.(HTMLTag)
	if !ok || p.Name != NameP {
		t.Fatalf("expected a single <p>, got %#v", got)
	}
	if text, ok := p.Children.(HTMLText); !ok || text.Text != "only paragraph" {
		t.Errorf("unexpected paragraph content: %#v", p.Children)
	}
}

func TestNormalizeWrapPassesThroughBlockChildren(t *testing.T) {
	block := HTMLTag{Name: NameDiv, Children: NewText("block")}
	content := NewSequence([]HTMLNode{
		NewText("inline before"),
		block,
		NewText("inline after"),
	})
	got := normalizeWrap(content, NameP, false)
	seq, ok := got.(HTMLSequence)
	if !ok || len(seq.Children) != 3 {
		t.Fatalf("expected 3 siblings (p, div, p), got %#v", got)
	}
	if _, ok := seq.Children[0].(HTMLTag); !ok {
		t.Errorf("expected first child wrapped in a tag, got %#v", seq.Children[0])
	}
	if d, ok := seq.Children[1].(HTMLTag); !ok || d.Name != NameDiv {
		t.Errorf("expected the block child to pass through unwrapped, got %#v", seq.Children[1])
	}
}

func TestNormalizeContentRequireInlineConvertsBreaksToBR(t *testing.T) {
	content := NewSequence([]HTMLNode{NewText("a"), htmlParaBreak{}, NewText("b")})
	got := NormalizeContent(NameSpan, content)
	seq, ok := got.(HTMLSequence)
	if !ok {
		t.Fatalf("expected HTMLSequence, got %T", got)
	}
	found := false
	for _, c := range seq.Children {
		if tag, ok := c.(HTMLTag); ok && tag.Name == NameBr {
			found = true
		}
		if _, ok := c.(htmlParaBreak); ok {
			t.Errorf("htmlParaBreak marker must not survive normalization")
		}
	}
	if !found {
		t.Errorf("expected a <br> in place of the paragraph break, got %#v", seq.Children)
	}
}

func TestNewSequenceMergesAdjacentWhitespace(t *testing.T) {
	got := NewSequence([]HTMLNode{
		NewText("a"),
		HTMLWhitespace{Text: " "},
		HTMLWhitespace{Text: "\n"},
		NewText("b"),
	})
	seq, ok := got.(HTMLSequence)
	if !ok {
		t.Fatalf("expected HTMLSequence, got %T", got)
	}
	if len(seq.Children) != 3 {
		t.Fatalf("expected 3 children (text, whitespace, text), got %d: %#v", len(seq.Children), seq.Children)
	}
	if _, ok := seq.Children[1].(HTMLWhitespace); !ok {
		t.Errorf("expected a single merged whitespace node, got %#v", seq.Children[1])
	}
}

func TestNormalizeContentRequireInlineNoLineBreaksDropsBreaks(t *testing.T) {
	content := NewSequence([]HTMLNode{NewText("a"), htmlParaBreak{}, NewText("b")})
	got := NormalizeContent(NameH1, content)
	seq, ok := got.(HTMLSequence)
	if !ok {
		t.Fatalf("expected HTMLSequence, got %T", got)
	}
	for _, c := range seq.Children {
		if _, ok := c.(htmlParaBreak); ok {
			t.Errorf("htmlParaBreak marker must not survive normalization")
		}
	}
}
