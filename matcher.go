package papyri

import "strconv"

// Match attempts to match v against pat, extending bindings with any
// names the pattern captures. It returns ok=false when the pattern
// doesn't apply — spec.md §4.H's pattern-matching rules, one arm per
// MatchPatternKind. names resolves NameIDs to text for attribute-key
// comparisons against the string-keyed HTML attribute maps.
func Match(v Value, pat MatchPattern, bindings map[NameID]Value, names *StringPool) bool {
	switch pat.Kind {
	case PatIgnore, PatSpreadIgnore:
		return true

	case PatLiteral:
		return literalEquals(pat.Literal, v)

	case PatVarName, PatSpreadVarName:
		bindings[pat.Var.Name] = v
		return true

	case PatTyped:
		cv, ok := Coerce(v, pat.TypeAnn.Resolved)
		if !ok {
			return false
		}
		return Match(cv, *pat.Child, bindings, names)

	case PatExactList:
		items, ok := asMatchableList(v)
		if !ok || len(items) != len(pat.List) {
			return false
		}
		for i, sub := range pat.List {
			if !Match(items[i], sub, bindings, names) {
				return false
			}
		}
		return true

	case PatSpreadList:
		items, ok := asMatchableList(v)
		if !ok || len(items) < len(pat.List) {
			return false
		}
		before := pat.List[:pat.SpreadAt]
		spread := pat.List[pat.SpreadAt]
		after := pat.List[pat.SpreadAt+1:]
		for i, sub := range before {
			if !Match(items[i], sub, bindings, names) {
				return false
			}
		}
		tailStart := len(items) - len(after)
		for i, sub := range after {
			if !Match(items[tailStart+i], sub, bindings, names) {
				return false
			}
		}
		spreadItems := items[len(before):tailStart]
		if spread.Kind == PatSpreadVarName {
			bindings[spread.Var.Name] = ListValue(append([]Value{}, spreadItems...))
		}
		return true

	case PatTag:
		return matchTagPattern(v, pat, bindings, names)

	default:
		return false
	}
}

func literalEquals(tok Token, v Value) bool {
	switch tok.Kind {
	case TkNumber:
		n, err := strconv.Atoi(tok.Text)
		return err == nil && v.Kind == VInt && v.N == n
	case TkBoolean:
		return v.Kind == VBool && v.AsStr() == tok.Text
	case TkVerbatim:
		return v.Kind == VStr && v.S == tok.Text
	default:
		return false
	}
}

func asMatchableList(v Value) ([]Value, bool) {
	if v.Kind == VList {
		return v.L, true
	}
	return nil, false
}

// matchTagPattern matches an HTML tag pattern (spec.md §4.H): the tag
// name must be equal unless the pattern accepts any name, every pattern
// attribute not marked with `?` must be present on the tag, and the tag's
// non-whitespace children must match the pattern's children one for one.
// A value that is not a single HTML tag simply does not match. Match is a
// pure predicate: PatternCannotMatchHTML is raised by evalMatch, which
// checks that an HTML subject is inline-shaped before calling Match.
func matchTagPattern(v Value, pat MatchPattern, bindings map[NameID]Value, names *StringPool) bool {
	if v.Kind != VHTML {
		return false
	}
	tag, ok := v.H.(HTMLTag)
	if !ok {
		return false
	}
	if !pat.TagAnyName && tag.Name != pat.TagName {
		return false
	}
	for _, attr := range pat.TagAttrs {
		present := false
		if tag.Attrs != nil {
			_, present = tag.Attrs.Get(names.Get(attr.Name))
		}
		if !present && !attr.QuestionMark {
			return false
		}
	}
	children := flattenChildren(tag.Children)
	values := make([]Value, 0, len(children))
	for _, c := range children {
		if _, ws := c.(HTMLWhitespace); ws {
			continue
		}
		values = append(values, HTMLValue(c))
	}
	if len(values) != len(pat.TagChildren) {
		return false
	}
	for i, sub := range pat.TagChildren {
		if !Match(values[i], sub, bindings, names) {
			return false
		}
	}
	return true
}
