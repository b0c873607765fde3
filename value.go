package papyri

import (
	"fmt"
	"strconv"
	"strings"

	om "github.com/wk8/go-ordered-map/v2"
)

// ValueKind discriminates the tagged variants of Value (spec.md §4.C).
type ValueKind int

const (
	VUnit ValueKind = iota
	VBool
	VInt
	VStr
	VList
	VDict
	VHTML
	VFunc
)

// Value is a Papyri runtime value. Exactly one of the fields matching Kind
// is meaningful; the rest are zero. Values are shared and immutable once
// constructed — List/Dict/HTML are never mutated in place after creation,
// so a Value can be passed around and reused across frames without
// copying.
type Value struct {
	Kind ValueKind
	B    bool
	N    int
	S    string
	L    []Value
	D    *om.OrderedMap[string, Value]
	H    HTMLNode
	F    *Function
}

// UnitValue is the single value of the unit type.
var UnitValue = Value{Kind: VUnit}

func BoolValue(b bool) Value { return Value{Kind: VBool, B: b} }
func IntValue(n int) Value   { return Value{Kind: VInt, N: n} }
func StrValue(s string) Value { return Value{Kind: VStr, S: s} }
func ListValue(items []Value) Value { return Value{Kind: VList, L: items} }
func HTMLValue(n HTMLNode) Value { return Value{Kind: VHTML, H: n} }
func FuncValue(f *Function) Value { return Value{Kind: VFunc, F: f} }

// DictValue wraps an already-built ordered map. NewDict creates an empty
// one to populate via Set.
func DictValue(d *om.OrderedMap[string, Value]) Value { return Value{Kind: VDict, D: d} }

// NewDict returns an empty ordered-map-backed dict value.
func NewDict() *om.OrderedMap[string, Value] {
	return om.New[string, Value]()
}

// Type returns the static Type tag of v, matching the widest member of the
// lattice that v's concrete shape belongs to.
func (v Value) Type() Type {
	switch v.Kind {
	case VUnit:
		return Unit
	case VBool:
		return Bool
	case VInt:
		return Int
	case VStr:
		return Str
	case VList:
		elem := AnyValue
		for i, item := range v.L {
			t := item.Type()
			if i == 0 {
				elem = t
			} else {
				elem = Unify(elem, t)
			}
		}
		return ListOf(elem)
	case VDict:
		elem := AnyValue
		first := true
		if v.D != nil {
			for pair := v.D.Oldest(); pair != nil; pair = pair.Next() {
				t := pair.Value.Type()
				if first {
					elem, first = t, false
				} else {
					elem = Unify(elem, t)
				}
			}
		}
		return DictOf(elem)
	case VHTML:
		return HTML
	case VFunc:
		return Function
	default:
		return AnyValue
	}
}

// IsTrue reports whether v counts as truthy for @if-style conditions: unit
// and false are falsy, empty strings/lists/dicts are falsy, everything
// else (including zero, which Papyri treats as a value like any other
// int) is truthy.
func (v Value) IsTrue() bool {
	switch v.Kind {
	case VUnit:
		return false
	case VBool:
		return v.B
	case VStr:
		return v.S != ""
	case VList:
		return len(v.L) > 0
	case VDict:
		return v.D != nil && v.D.Len() > 0
	default:
		return true
	}
}

// AsStr renders v the way a string-context coercion (Any -> Str) does: the
// literal text for Str, decimal for Int, "True"/"False" for Bool, the
// rendered text content for HTML, and "(k=v, ...)" for Dict.
func (v Value) AsStr() string {
	switch v.Kind {
	case VStr:
		return v.S
	case VInt:
		return strconv.Itoa(v.N)
	case VBool:
		if v.B {
			return "True"
		}
		return "False"
	case VUnit:
		return ""
	case VHTML:
		var sb strings.Builder
		v.H.WriteText(&sb)
		return sb.String()
	case VList:
		parts := make([]string, len(v.L))
		for i, item := range v.L {
			parts[i] = item.AsStr()
		}
		return strings.Join(parts, "")
	case VDict:
		var parts []string
		if v.D != nil {
			for pair := v.D.Oldest(); pair != nil; pair = pair.Next() {
				parts = append(parts, pair.Key+"="+pair.Value.AsStr())
			}
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return fmt.Sprintf("%v", v.Kind)
	}
}

// AsHTML coerces v the way Any -> AnyHTML does: a Str becomes a text node,
// an Html value passes through, a List recurses into a sequence, and Unit
// becomes the empty sequence.
func (v Value) AsHTML() HTMLNode {
	switch v.Kind {
	case VHTML:
		return v.H
	case VStr:
		return NewText(v.S)
	case VUnit:
		return HTMLEmpty{}
	case VList:
		children := make([]HTMLNode, len(v.L))
		for i, item := range v.L {
			children[i] = item.AsHTML()
		}
		return NewSequence(children)
	default:
		return NewText(v.AsStr())
	}
}

// Equal compares two values structurally. Functions are compared by
// identity of their underlying *Function.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case VUnit:
		return true
	case VBool:
		return v.B == other.B
	case VInt:
		return v.N == other.N
	case VStr:
		return v.S == other.S
	case VFunc:
		return v.F == other.F
	case VList:
		if len(v.L) != len(other.L) {
			return false
		}
		for i := range v.L {
			if !v.L[i].Equal(other.L[i]) {
				return false
			}
		}
		return true
	case VDict:
		if v.D.Len() != other.D.Len() {
			return false
		}
		for pair := v.D.Oldest(); pair != nil; pair = pair.Next() {
			ov, ok := other.D.Get(pair.Key)
			if !ok || !ov.Equal(pair.Value) {
				return false
			}
		}
		return true
	case VHTML:
		return v.H.Equal(other.H)
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case VStr:
		return strconv.Quote(v.S)
	case VList:
		parts := make([]string, len(v.L))
		for i, item := range v.L {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VDict:
		var parts []string
		if v.D != nil {
			for pair := v.D.Oldest(); pair != nil; pair = pair.Next() {
				parts = append(parts, fmt.Sprintf("%s=%s", pair.Key, pair.Value.String()))
			}
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return v.AsStr()
	}
}
