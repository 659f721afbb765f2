package preconf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"shaper/transform"
)

type jsonFormat struct{}

func (jsonFormat) Name() string { return "json" }

func (jsonFormat) Marshal(v any) ([]byte, error) {
	return json.Marshal(plain(v, true))
}

// Unmarshal keeps object key order. Integral numbers become int64, others float64.
func (jsonFormat) Unmarshal(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSON(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after the top-level value")
	}

	return v, nil
}

type canonicalJSONFormat struct{ jsonFormat }

func (canonicalJSONFormat) Name() string { return "canonical-json" }

func (f canonicalJSONFormat) Marshal(v any) ([]byte, error) {
	data, err := f.jsonFormat.Marshal(v)
	if err != nil {
		return nil, err
	}

	return jsoncanonicalizer.Transform(data)
}

func readJSON(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := transform.NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}

				value, err := readJSON(dec)
				if err != nil {
					return nil, err
				}

				m.Set(keyTok.(string), value)
			}
			_, err := dec.Token()
			return m, err

		case '[':
			list := []any{}
			for dec.More() {
				value, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, value)
			}
			_, err := dec.Token()
			return list, err
		}

		return nil, fmt.Errorf("unexpected delimiter %v", t)

	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		return t.Float64()

	default:
		return t, nil
	}
}
