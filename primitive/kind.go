package primitive

import (
	"math"
	"reflect"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindUintptr
	KindFloat32
	KindFloat64
	KindComplex64
	KindComplex128
	KindBool
	KindString
	KindBytes
	KindTime
	KindDuration
	KindPrimitiveEnum // named type over any integer, float, boolean or string

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var exactTypes = map[reflect.Type]KindEnum{
	reflect.TypeOf(int(0)):            KindInt,
	reflect.TypeOf(int8(0)):           KindInt8,
	reflect.TypeOf(int16(0)):          KindInt16,
	reflect.TypeOf(int32(0)):          KindInt32,
	reflect.TypeOf(int64(0)):          KindInt64,
	reflect.TypeOf(uint(0)):           KindUint,
	reflect.TypeOf(uint8(0)):          KindUint8,
	reflect.TypeOf(uint16(0)):         KindUint16,
	reflect.TypeOf(uint32(0)):         KindUint32,
	reflect.TypeOf(uint64(0)):         KindUint64,
	reflect.TypeOf(uintptr(0)):        KindUintptr,
	reflect.TypeOf(float32(0)):        KindFloat32,
	reflect.TypeOf(float64(0)):        KindFloat64,
	reflect.TypeOf(complex64(0)):      KindComplex64,
	reflect.TypeOf(complex128(0)):     KindComplex128,
	reflect.TypeOf(false):             KindBool,
	reflect.TypeOf(""):                KindString,
	reflect.TypeOf([]byte(nil)):       KindBytes,
	reflect.TypeOf(time.Time{}):       KindTime,
	reflect.TypeOf(time.Duration(0)): KindDuration,
}

var baseKinds = map[reflect.Kind]KindEnum{
	reflect.Int:     KindInt,
	reflect.Int8:    KindInt8,
	reflect.Int16:   KindInt16,
	reflect.Int32:   KindInt32,
	reflect.Int64:   KindInt64,
	reflect.Uint:    KindUint,
	reflect.Uint8:   KindUint8,
	reflect.Uint16:  KindUint16,
	reflect.Uint32:  KindUint32,
	reflect.Uint64:  KindUint64,
	reflect.Float32: KindFloat32,
	reflect.Float64: KindFloat64,
	reflect.Bool:    KindBool,
	reflect.String:  KindString,
}

func (k KindEnum) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsInteger() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

// IsAtomic reports whether values of the kind never need recursive handling and
// are returned by the transform engine unchanged.
func (k KindEnum) IsAtomic() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64, KindUintptr,
		KindFloat32, KindFloat64, KindComplex64, KindComplex128,
		KindBool, KindString, KindBytes:
		return true
	}
}

func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only number kinds has meaningful bits amount, but requested for: " + k.String())
	case KindInt, KindUint:
		power := 0
		for n := uint(math.MaxUint); n > 0; n >>= 1 {
			power++
		}
		return power
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32:
		return 32
	case KindInt64, KindUint64:
		return 64
	case KindFloat32:
		return 32
	case KindFloat64:
		return 64
	}
}

// FromReflectType classifies rtype by exact type identity first, so that a named
// type over a builtin is never mistaken for the builtin itself.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	if kind, ok := exactTypes[rtype]; ok {
		return kind
	}

	if _, ok := baseKinds[rtype.Kind()]; ok {
		return KindPrimitiveEnum
	}

	return 0
}

// BaseKind returns the kind of the builtin type underlying rtype,
// e.g. KindString for `type Color string`.
func BaseKind(rtype reflect.Type) KindEnum {
	kind := FromReflectType(rtype)
	if kind != KindPrimitiveEnum {
		return kind
	}

	return baseKinds[rtype.Kind()]
}

// IsAtomicType reports whether rtype is one of the atomic builtin types.
func IsAtomicType(rtype reflect.Type) bool {
	return FromReflectType(rtype).IsAtomic()
}
