package node

import (
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"shaper/primitive"
)

// OrderedMap is the interchange map produced for records in map shape.
type OrderedMap = orderedmap.OrderedMap[string, any]

var (
	orderedMapType     = reflect.TypeFor[*OrderedMap]()
	namedSequenceType  = reflect.TypeFor[NamedSequence]()
	factoryMappingType = reflect.TypeFor[FactoryMapping]()
)

// Classify returns the variant of v. Pointers are classified by the value they
// point to, nil is atomic.
func Classify(v any) VariantEnum {
	if v == nil {
		return VariantAtomic
	}

	return ClassifyType(reflect.TypeOf(v))
}

// ClassifyType returns the variant of values of rtype. The atomic check goes first
// and compares exact types, so a named type over a builtin is never atomic.
func ClassifyType(rtype reflect.Type) VariantEnum {
	if rtype == nil || primitive.IsAtomicType(rtype) {
		return VariantAtomic
	}

	switch {
	case rtype.Implements(namedSequenceType):
		return VariantNamedSequence
	case rtype.Implements(factoryMappingType), rtype == orderedMapType:
		return VariantMapping
	}

	switch rtype.Kind() {
	case reflect.Pointer:
		return ClassifyType(rtype.Elem())
	case reflect.Struct:
		if isRecordStruct(rtype) {
			return VariantRecord
		}
	case reflect.Slice, reflect.Array:
		return VariantSequence
	case reflect.Map:
		return VariantMapping
	}

	return VariantOpaque
}

// isRecordStruct reports whether a struct type exposes fields, so that types like
// time.Time with only unexported state stay opaque.
func isRecordStruct(rtype reflect.Type) bool {
	if rtype.NumField() == 0 {
		return true
	}

	for i := range rtype.NumField() {
		if rtype.Field(i).IsExported() {
			return true
		}
	}

	return false
}

// IsAtomic reports whether v is returned unchanged by the transform engine.
func IsAtomic(v any) bool {
	return v == nil || primitive.IsAtomicType(reflect.TypeOf(v))
}
