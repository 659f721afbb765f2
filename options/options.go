// Package options holds the enumerations shared by record policies and the transform engine.
package options

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=ShapeEnum -trimprefix=Shape -output=shape_string.go
//go:generate go tool stringer -type=UnknownFieldsEnum -trimprefix=UnknownFields -output=unknown_fields_string.go
//go:generate go tool stringer -type=CopyEnum -trimprefix=Copy -output=copy_string.go

// ShapeEnum selects how a record is packaged on encode.
type ShapeEnum int

const (
	ShapeMap   ShapeEnum = iota // ordered map of emitted key to value
	ShapeTuple                  // positional sequence, nested mappings stay mappings
	ShapeTree                   // positional sequence, nested mappings become pair sequences
)

// UnknownFieldsEnum decides what decoding does with keys no field claims.
type UnknownFieldsEnum int

const (
	UnknownFieldsIgnore UnknownFieldsEnum = iota // drop silently
	UnknownFieldsAllow                           // keep in the record's overflow field when it has one
	UnknownFieldsDeny                            // fail with every offending key
)

// CopyEnum is the duplication policy for opaque values.
type CopyEnum int

const (
	CopyDeep    CopyEnum = iota // clone the whole value graph
	CopyShallow                 // share the value
)

// ParseShape accepts a shape name in any letter case.
func ParseShape(s string) (ShapeEnum, error) {
	return parse(s, "shape", ShapeMap, ShapeTuple, ShapeTree)
}

// ParseUnknownFields accepts an unknown fields policy name in any letter case.
func ParseUnknownFields(s string) (UnknownFieldsEnum, error) {
	return parse(s, "unknown fields policy", UnknownFieldsIgnore, UnknownFieldsAllow, UnknownFieldsDeny)
}

// ParseCopy accepts a copy policy name in any letter case.
func ParseCopy(s string) (CopyEnum, error) {
	return parse(s, "copy policy", CopyDeep, CopyShallow)
}

func parse[E fmt.Stringer](s, what string, values ...E) (E, error) {
	names := make([]string, 0, len(values))

	for _, v := range values {
		if strings.EqualFold(s, v.String()) {
			return v, nil
		}

		names = append(names, strings.ToLower(v.String()))
	}

	var zero E

	return zero, fmt.Errorf("unknown %s %q, expected one of: %s", what, s, strings.Join(names, ", "))
}
