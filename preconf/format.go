package preconf

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"shaper/internal/match"
	"shaper/node"
	"shaper/transform"
)

var ErrUnknownFormat = errors.New("unknown format")

// Format converts interchange values to bytes and back.
type Format interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte) (any, error)
}

var (
	JSON          Format = jsonFormat{}
	CanonicalJSON Format = canonicalJSONFormat{}
	YAML          Format = yamlFormat{}
	Msgpack       Format = msgpackFormat{}
)

// Formats lists every built-in format.
func Formats() []Format {
	return []Format{JSON, CanonicalJSON, YAML, Msgpack}
}

// Lookup returns the built-in format called name.
func Lookup(name string) (Format, error) {
	names := make([]string, 0, 4)
	for _, f := range Formats() {
		if f.Name() == name {
			return f, nil
		}
		names = append(names, f.Name())
	}

	if suggestions := match.Suggest(name, names, 1); len(suggestions) > 0 {
		return nil, fmt.Errorf("%w %q, did you mean %q?", ErrUnknownFormat, name, suggestions[0])
	}

	return nil, fmt.Errorf("%w %q, expected one of: %v", ErrUnknownFormat, name, names)
}

// Marshal encodes v with an engine built from opts and renders the result in f.
func Marshal(f Format, v any, opts ...transform.Option) ([]byte, error) {
	out, err := transform.Encode(v, opts...)
	if err != nil {
		return nil, err
	}

	data, err := f.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name(), err)
	}

	return data, nil
}

// Unmarshal parses data in f and decodes the result into a T.
func Unmarshal[T any](f Format, data []byte, opts ...transform.Option) (T, error) {
	in, err := f.Unmarshal(data)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", f.Name(), err)
	}

	return transform.Decode[T](in, opts...)
}

// Convert re-renders data from one format in another.
func Convert(from, to Format, data []byte) ([]byte, error) {
	in, err := from.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", from.Name(), err)
	}

	out, err := to.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", to.Name(), err)
	}

	return out, nil
}

func ToJSON(v any, opts ...transform.Option) ([]byte, error) { return Marshal(JSON, v, opts...) }
func FromJSON[T any](data []byte, opts ...transform.Option) (T, error) {
	return Unmarshal[T](JSON, data, opts...)
}

// ToCanonicalJSON renders v as RFC 8785 canonical JSON.
func ToCanonicalJSON(v any, opts ...transform.Option) ([]byte, error) {
	return Marshal(CanonicalJSON, v, opts...)
}

func ToYAML(v any, opts ...transform.Option) ([]byte, error) { return Marshal(YAML, v, opts...) }
func FromYAML[T any](data []byte, opts ...transform.Option) (T, error) {
	return Unmarshal[T](YAML, data, opts...)
}

func ToMsgpack(v any, opts ...transform.Option) ([]byte, error) { return Marshal(Msgpack, v, opts...) }
func FromMsgpack[T any](data []byte, opts ...transform.Option) (T, error) {
	return Unmarshal[T](Msgpack, data, opts...)
}

// plain rewrites v into interchange maps, []any lists and scalars: named sequences
// become lists, Go maps and factory mappings become interchange maps. Mappings with
// non-string keys become map[any]any unless text is set, which renders keys as text.
func plain(v any, text bool) any {
	switch t := v.(type) {
	case nil:
		return nil

	case *transform.Map:
		if t == nil {
			return nil
		}
		out := transform.NewMap()
		for el := t.Oldest(); el != nil; el = el.Next() {
			out.Set(el.Key, plain(el.Value, text))
		}
		return out

	case node.NamedSequence:
		return plainList(t.Elems(), text)

	case node.FactoryMapping:
		var pairs []pair
		t.Range(func(key, value any) bool {
			pairs = append(pairs, pair{key, value})
			return true
		})
		return plainMapping(pairs, text)
	}

	rv := reflect.ValueOf(v)

	switch {
	case isList(rv):
		elems := make([]any, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return plainList(elems, text)

	case rv.Kind() == reflect.Map:
		if rv.IsNil() {
			return nil
		}
		return plainMapping(entries(rv), text)
	}

	return v
}

func plainList(elems []any, text bool) []any {
	out := make([]any, len(elems))
	for i, elem := range elems {
		out[i] = plain(elem, text)
	}

	return out
}

func plainMapping(pairs []pair, text bool) any {
	stringKeys := true
	for _, p := range pairs {
		if p.key == nil || reflect.TypeOf(p.key).Kind() != reflect.String {
			stringKeys = false
			break
		}
	}

	if stringKeys || text {
		out := transform.NewMap()
		for _, p := range pairs {
			out.Set(keyText(p.key), plain(p.value, text))
		}
		return out
	}

	out := make(map[any]any, len(pairs))
	for _, p := range pairs {
		out[p.key] = plain(p.value, text)
	}

	return out
}

func keyText(key any) string {
	if rv := reflect.ValueOf(key); rv.Kind() == reflect.String {
		return rv.String()
	}

	return fmt.Sprint(key)
}

type pair struct {
	key   any
	value any
}

// entries lists the pairs of a Go map in a stable key order.
func entries(rv reflect.Value) []pair {
	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	})

	pairs := make([]pair, len(keys))
	for i, key := range keys {
		pairs[i] = pair{key.Interface(), rv.MapIndex(key).Interface()}
	}

	return pairs
}

func entriesOf(m map[any]any) []pair {
	return entries(reflect.ValueOf(m))
}

// isList reports whether rv renders as a list: slices and arrays other than byte strings.
func isList(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	default:
		return false
	}
}
