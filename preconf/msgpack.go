package preconf

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/tinylib/msgp/msgp"

	"shaper/transform"
)

type msgpackFormat struct{}

func (msgpackFormat) Name() string { return "msgpack" }

func (msgpackFormat) Marshal(v any) ([]byte, error) {
	return appendMsgpack(nil, plain(v, false))
}

// Unmarshal keeps map key order. Maps with non-string keys become map[any]any.
func (msgpackFormat) Unmarshal(data []byte) (any, error) {
	v, rest, err := readMsgpack(data)
	if err != nil {
		return nil, err
	}

	if len(rest) > 0 {
		return nil, fmt.Errorf("%d unexpected bytes after the top-level value", len(rest))
	}

	return v, nil
}

func appendMsgpack(b []byte, v any) ([]byte, error) {
	var err error

	switch t := v.(type) {
	case *transform.Map:
		b = msgp.AppendMapHeader(b, uint32(t.Len()))
		for el := t.Oldest(); el != nil; el = el.Next() {
			b = msgp.AppendString(b, el.Key)
			if b, err = appendMsgpack(b, el.Value); err != nil {
				return nil, fmt.Errorf("%s: %w", el.Key, err)
			}
		}
		return b, nil

	case map[any]any:
		b = msgp.AppendMapHeader(b, uint32(len(t)))
		for _, p := range entriesOf(t) {
			if b, err = appendMsgpack(b, p.key); err != nil {
				return nil, err
			}
			if b, err = appendMsgpack(b, p.value); err != nil {
				return nil, fmt.Errorf("%v: %w", p.key, err)
			}
		}
		return b, nil

	case []any:
		b = msgp.AppendArrayHeader(b, uint32(len(t)))
		for i, elem := range t {
			if b, err = appendMsgpack(b, elem); err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return b, nil
	}

	// named scalars, e.g. enums, travel as their base kind
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.String:
		return msgp.AppendString(b, rv.String()), nil
	case reflect.Bool:
		return msgp.AppendBool(b, rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return msgp.AppendInt64(b, rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return msgp.AppendUint64(b, rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return msgp.AppendFloat64(b, rv.Float()), nil
	}

	return msgp.AppendIntf(b, v)
}

func readMsgpack(b []byte) (any, []byte, error) {
	if len(b) == 0 {
		return nil, nil, errors.New("empty input")
	}

	switch msgp.NextType(b) {
	case msgp.MapType:
		size, rest, err := msgp.ReadMapHeaderBytes(b)
		if err != nil {
			return nil, nil, err
		}

		pairs := make([]pair, 0, size)
		for range size {
			var key, value any
			if key, rest, err = readMsgpack(rest); err != nil {
				return nil, nil, err
			}
			if value, rest, err = readMsgpack(rest); err != nil {
				return nil, nil, err
			}
			pairs = append(pairs, pair{key, value})
		}
		return plainMapping(pairs, false), rest, nil

	case msgp.ArrayType:
		size, rest, err := msgp.ReadArrayHeaderBytes(b)
		if err != nil {
			return nil, nil, err
		}

		list := make([]any, 0, size)
		for range size {
			var value any
			if value, rest, err = readMsgpack(rest); err != nil {
				return nil, nil, err
			}
			list = append(list, value)
		}
		return list, rest, nil
	}

	return msgp.ReadIntfBytes(b)
}
