package papyri

// Source is an immutable source buffer: a file name (or a synthetic name
// like "<string>") plus its full byte content. Every later phase addresses
// into it by byte offset instead of copying substrings around until a
// token or AST node needs its text.
type Source struct {
	Name    string
	Content string
}

// SourceRange is a half-open byte range [Start, End) within a Source. It is
// attached to every token, AST node, and runtime value that carries
// provenance, and is used solely for diagnostics — never for execution
// semantics.
type SourceRange struct {
	Src   *Source
	Start int
	End   int
}

// Text returns the exact source slice this range covers.
func (r SourceRange) Text() string {
	if r.Src == nil {
		return ""
	}
	return r.Src.Content[r.Start:r.End]
}

// ToEnd returns a copy of r extended (or truncated) to end at the given
// byte offset. Used when a compound AST node's range grows to include a
// closing token discovered later in parsing.
func (r SourceRange) ToEnd(end int) SourceRange {
	r.End = end
	return r
}

// LineCol computes the 1-based line and column of offset within the
// source, by scanning for newlines. Only used for diagnostics, never on
// a hot path.
func (r SourceRange) LineCol() (line, col int) {
	if r.Src == nil {
		return 0, 0
	}
	line, col = 1, 1
	for i := 0; i < r.Start && i < len(r.Src.Content); i++ {
		if r.Src.Content[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return
}
