// Package transform converts value graphs of records, sequences and mappings into
// interchange values and back.
//
// Encode walks a value and produces, per record, an ordered Map (ShapeMap) or a
// positional []any (ShapeTuple, ShapeTree). Tree shape also turns every mapping into
// a sequence of key/value pairs. Sequences and mappings keep their container type
// when every encoded element still fits it. Atomic values are returned unchanged,
// opaque values are copied according to the engine's copy policy.
//
// Decode is the inverse: it rebuilds a value of a target type from an interchange
// value, honoring defaults, aliases, renames and the record's unknown-field policy.
// Records are assembled field by field and then checked through Validator.
//
// Settings are resolved per field in this order: field metadata, the record policy
// attached to the record type (see package policy), the engine options.
//
//	e := transform.Must(transform.WithRename(casing.Camel))
//	out, err := e.Encode(person)
//	back, err := transform.DecodeAs[Person](e, out)
package transform
