package transform

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"shaper/node"
)

type pair struct {
	key   any
	value any
}

var (
	mapType = reflect.TypeFor[*Map]()
	anyType = reflect.TypeFor[any]()
)

// pairsOf lists the pairs of any mapping-like input: interchange maps, factory mappings,
// Go maps with keys in sorted order, and tree-shaped sequences of two-slot sequences.
func pairsOf(in any) ([]pair, bool) {
	switch m := in.(type) {
	case nil:
		return nil, false
	case *Map:
		if m == nil {
			return nil, true
		}
		pairs := make([]pair, 0, m.Len())
		for el := m.Oldest(); el != nil; el = el.Next() {
			pairs = append(pairs, pair{el.Key, el.Value})
		}
		return pairs, true
	case node.FactoryMapping:
		var pairs []pair
		m.Range(func(key, value any) bool {
			pairs = append(pairs, pair{key, value})
			return true
		})
		return pairs, true
	}

	rv := reflect.ValueOf(in)

	switch rv.Kind() {
	case reflect.Map:
		keys := rv.MapKeys()
		slices.SortFunc(keys, compareKeys)

		pairs := make([]pair, 0, len(keys))
		for _, key := range keys {
			pairs = append(pairs, pair{key.Interface(), rv.MapIndex(key).Interface()})
		}
		return pairs, true

	case reflect.Slice, reflect.Array:
		pairs := make([]pair, 0, rv.Len())
		for i := range rv.Len() {
			slots, ok := elemsOf(rv.Index(i).Interface())
			if !ok || len(slots) != 2 {
				return nil, false
			}
			pairs = append(pairs, pair{slots[0], slots[1]})
		}
		return pairs, true
	}

	return nil, false
}

// elemsOf lists the elements of any sequence-like input.
func elemsOf(in any) ([]any, bool) {
	switch s := in.(type) {
	case nil:
		return nil, false
	case []any:
		return s, true
	case node.NamedSequence:
		return s.Elems(), true
	}

	rv := reflect.ValueOf(in)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	elems := make([]any, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}

	return elems, true
}

// compareKeys orders map keys of one type deterministically.
func compareKeys(a, b reflect.Value) int {
	if a.Kind() == reflect.Interface {
		a, b = a.Elem(), b.Elem()
	}

	if a.IsValid() && b.IsValid() && a.Kind() == b.Kind() {
		switch {
		case a.Kind() == reflect.String:
			return cmp.Compare(a.String(), b.String())
		case a.CanInt():
			return cmp.Compare(a.Int(), b.Int())
		case a.CanUint():
			return cmp.Compare(a.Uint(), b.Uint())
		case a.CanFloat():
			return cmp.Compare(a.Float(), b.Float())
		}
	}

	return cmp.Compare(fmt.Sprint(valueOrNil(a)), fmt.Sprint(valueOrNil(b)))
}

func valueOrNil(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	return v.Interface()
}

// fit returns v as a value assignable to rtype.
func fit(v any, rtype reflect.Type) (reflect.Value, bool) {
	if v == nil {
		switch rtype.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return reflect.Zero(rtype), true
		}
		return reflect.Value{}, false
	}

	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(rtype) {
		return reflect.Value{}, false
	}

	return rv, true
}

// plainMapping collects encoded pairs into an interchange map when every key is a string,
// else into a map[any]any.
func plainMapping(pairs []pair) (any, error) {
	allStrings := true
	for _, p := range pairs {
		if _, ok := p.key.(string); !ok {
			allStrings = false
			break
		}
	}

	if allStrings {
		m := NewMap()
		for _, p := range pairs {
			m.Set(p.key.(string), p.value)
		}
		return m, nil
	}

	m := make(map[any]any, len(pairs))
	for _, p := range pairs {
		if p.key != nil && !reflect.TypeOf(p.key).Comparable() {
			return nil, fmt.Errorf("%w: map key of type %s is not comparable", ErrTypeMismatch, node.TypeName(reflect.TypeOf(p.key)))
		}
		m[p.key] = p.value
	}

	return m, nil
}

// treePairs renders pairs in tree shape.
func treePairs(pairs []pair) []any {
	out := make([]any, len(pairs))
	for i, p := range pairs {
		out[i] = []any{p.key, p.value}
	}

	return out
}
