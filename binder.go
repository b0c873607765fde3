package papyri

import om "github.com/wk8/go-ordered-map/v2"

// CallArgs is the already-evaluated argument bundle at a call site:
// positionals in order, named arguments in call order (an ordered map so
// error messages stay stable; it holds each name once, so a name given
// twice at a call site arrives with its last value and Bind's
// DuplicateNamed check does not fire), and the content argument
// (UnitValue if the call had none).
type CallArgs struct {
	Positional []Value
	Named      *om.OrderedMap[NameID, Value]
	Content    Value
}

// DefaultResolver evaluates a parameter's declared default expression (in
// whatever frame the caller considers lexically correct for defaults —
// the function's own definition frame) and returns the resulting Value.
// Bind calls it only for parameters that are unsupplied, not implicit-
// resolved, and declared with a default.
type DefaultResolver func(p Param) (Value, error)

// Bind implements the argument-binding algorithm of spec.md §4.H: fill
// positionals left to right, absorb overflow into the positional-spread
// parameter, fill named from the caller's dict, absorb overflow into the
// named-spread parameter, fill content last. Unsupplied implicit
// parameters resolve from callerFrame's implicit chain; otherwise the
// declared default (via resolveDefault); otherwise MissingRequired. Every
// value is coerced to its parameter's declared type.
//
// Bind is total (spec.md §8, "Binding totality"): it always returns either
// a frame binding every parameter in sig, or a non-nil error — never a
// partially-filled frame.
func Bind(sig Signature, args CallArgs, callerFrame *Frame, resolveDefault DefaultResolver, names *StringPool) (*Frame, error) {
	frame := NewFrame(nil)

	positional := args.Positional
	for _, p := range sig.Positional {
		if len(positional) == 0 {
			v, err := resolveUnsupplied(p, callerFrame, resolveDefault, names)
			if err != nil {
				return nil, err
			}
			frame.Bind(p.Name, v)
			continue
		}
		v, rest := positional[0], positional[1:]
		positional = rest
		cv, ok := Coerce(v, declaredType(p.TypeAnn))
		if !ok {
			return nil, TypeError{Variant: TypeMismatch, Expected: declaredType(p.TypeAnn), Got: v.Type()}
		}
		frame.Bind(p.Name, cv)
	}

	if sig.SpreadPositional != nil {
		items := make([]Value, len(positional))
		copy(items, positional)
		frame.Bind(sig.SpreadPositional.Name, ListValue(items))
	} else if len(positional) > 0 {
		return nil, TypeError{Variant: TooManyPositional}
	}

	named := om.New[NameID, Value]()
	if args.Named != nil {
		for pair := args.Named.Oldest(); pair != nil; pair = pair.Next() {
			if _, dup := named.Get(pair.Key); dup {
				return nil, TypeError{Variant: DuplicateNamed, Name: names.Get(pair.Key)}
			}
			named.Set(pair.Key, pair.Value)
		}
	}

	for _, p := range sig.Named {
		if v, ok := named.Delete(p.Name); ok {
			cv, okc := Coerce(v, declaredType(p.TypeAnn))
			if !okc {
				return nil, TypeError{Variant: TypeMismatch, Expected: declaredType(p.TypeAnn), Got: v.Type()}
			}
			frame.Bind(p.Name, cv)
			continue
		}
		v, err := resolveUnsupplied(p, callerFrame, resolveDefault, names)
		if err != nil {
			return nil, err
		}
		frame.Bind(p.Name, v)
	}

	if sig.SpreadNamed != nil {
		rest := NewDict()
		for pair := named.Oldest(); pair != nil; pair = pair.Next() {
			rest.Set(names.Get(pair.Key), pair.Value)
		}
		frame.Bind(sig.SpreadNamed.Name, DictValue(rest))
	} else if named.Len() > 0 {
		pair := named.Oldest()
		return nil, TypeError{Variant: UnknownNamed, Name: names.Get(pair.Key)}
	}

	contentType := declaredType(sig.Content.TypeAnn)
	cv, ok := Coerce(args.Content, contentType)
	if !ok {
		return nil, TypeError{Variant: TypeMismatch, Expected: contentType, Got: args.Content.Type()}
	}
	frame.Bind(sig.Content.Name, cv)

	return frame, nil
}

func resolveUnsupplied(p Param, callerFrame *Frame, resolveDefault DefaultResolver, names *StringPool) (Value, error) {
	if p.IsImplicit && callerFrame != nil {
		if v, ok := callerFrame.LookupImplicit(p.Name); ok {
			return v, nil
		}
	}
	if p.DefaultValue != nil {
		return *p.DefaultValue, nil
	}
	if resolveDefault != nil && hasDefault(p) {
		return resolveDefault(p)
	}
	if p.QuestionMark {
		return UnitValue, nil
	}
	return Value{}, TypeError{Variant: MissingRequired, Name: names.Get(p.Name)}
}

// hasDefault distinguishes "no default was written" from "the zero AST
// value happens to look like one": Param.Default is the zero AST{} when
// absent, and a real default always carries a populated SourceRange.
func hasDefault(p Param) bool {
	return p.Default.Range.Src != nil || p.Default.Range.End > p.Default.Range.Start
}

func declaredType(t *TypeExpr) Type {
	if t == nil {
		return AnyValue
	}
	return t.Resolved
}
