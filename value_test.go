package papyri

import "testing"

func TestValueIsTrue(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"unit", UnitValue, false},
		{"false", BoolValue(false), false},
		{"true", BoolValue(true), true},
		{"zero int", IntValue(0), true},
		{"empty str", StrValue(""), false},
		{"nonempty str", StrValue("x"), true},
		{"empty list", ListValue(nil), false},
		{"nonempty list", ListValue([]Value{IntValue(1)}), true},
		{"empty dict", DictValue(NewDict()), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.IsTrue(); got != c.want {
				t.Errorf("IsTrue() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestValueAsStr(t *testing.T) {
	if got := IntValue(42).AsStr(); got != "42" {
		t.Errorf("AsStr() = %q, want %q", got, "42")
	}
	if got := BoolValue(true).AsStr(); got != "True" {
		t.Errorf("AsStr() = %q, want %q", got, "True")
	}
	if got := BoolValue(false).AsStr(); got != "False" {
		t.Errorf("AsStr() = %q, want %q", got, "False")
	}
	html := HTMLValue(HTMLTag{Name: NameSpan, Children: NewText("hi")})
	if got := html.AsStr(); got != "hi" {
		t.Errorf("AsStr() on HTML = %q, want %q", got, "hi")
	}
	list := ListValue([]Value{StrValue("a"), StrValue("b")})
	if got := list.AsStr(); got != "ab" {
		t.Errorf("AsStr() on list = %q, want %q", got, "ab")
	}
}

func TestValueAsHTML(t *testing.T) {
	if _, ok := StrValue("x").AsHTML().(HTMLText); !ok {
		t.Errorf("AsHTML() on Str should produce HTMLText")
	}
	if _, ok := UnitValue.AsHTML().(HTMLEmpty); !ok {
		t.Errorf("AsHTML() on Unit should produce HTMLEmpty")
	}
	seq := ListValue([]Value{StrValue("a"), StrValue("b")}).AsHTML()
	if _, ok := seq.(HTMLSequence); !ok {
		t.Errorf("AsHTML() on multi-item list should produce HTMLSequence, got %T", seq)
	}
}

func TestValueEqual(t *testing.T) {
	a := ListValue([]Value{IntValue(1), StrValue("x")})
	b := ListValue([]Value{IntValue(1), StrValue("x")})
	c := ListValue([]Value{IntValue(1), StrValue("y")})
	if !a.Equal(b) {
		t.Errorf("expected equal lists to compare equal")
	}
	if a.Equal(c) {
		t.Errorf("expected differing lists to compare unequal")
	}
	if !UnitValue.Equal(UnitValue) {
		t.Errorf("Unit should equal Unit")
	}
}

func TestValueDictOrdersByInsertion(t *testing.T) {
	d := NewDict()
	d.Set("z", IntValue(1))
	d.Set("a", IntValue(2))
	v := DictValue(d)
	var keys []string
	for pair := v.D.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	if len(keys) != 2 || keys[0] != "z" || keys[1] != "a" {
		t.Errorf("dict should preserve insertion order, got %v", keys)
	}
}
