// Package meta describes record fields and the per-field policy overlay.
//
// A FieldDescriptor is produced once per record type (see package node) and carries
// Metadata: an optional fixed key, a rename convention, one exclusion control,
// value converters and layout flags. The resolvers in this package merge that overlay
// with the enclosing scope:
//
//   - ResolveFilter decides whether a field is emitted,
//   - ResolveKeyFunc decides under which key,
//   - ResolveConverterTo and ResolveConverterFrom decide how its value is converted.
//
// Field settings always win over record and call scope settings.
package meta
