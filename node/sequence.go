package node

import (
	"fmt"
	"reflect"
)

// NamedSequence is a fixed-arity value whose slots are independently typed,
// like a pair or a triple. It is rebuilt from its slots rather than field by field.
type NamedSequence interface {
	// Elems returns the slots in order.
	Elems() []any
	// ElemTypes returns the declared slot types, one per slot.
	ElemTypes() []reflect.Type
	// WithElems builds a new value of the same type from slots, the receiver is not modified.
	WithElems(elems []any) (NamedSequence, error)
}

// FactoryMapping is a mapping that creates values for missing keys.
type FactoryMapping interface {
	// Empty returns a new empty mapping sharing the receiver's factory.
	Empty() FactoryMapping
	// Range calls fn for every pair in iteration order until fn returns false.
	Range(fn func(key, value any) bool)
	// Store sets key to value, both must be assignable to the mapping's types.
	Store(key, value any) error
	KeyType() reflect.Type
	ValueType() reflect.Type
}

// Frozen marks record types whose values are never changed after construction.
// Frozen types carry their policy themselves instead of having one attached.
type Frozen interface {
	Frozen()
}

var frozenType = reflect.TypeFor[Frozen]()

// IsFrozen reports whether values of rtype, or pointers to them, are Frozen.
func IsFrozen(rtype reflect.Type) bool {
	rtype = Indirect(rtype)

	return rtype.Implements(frozenType) || reflect.PointerTo(rtype).Implements(frozenType)
}

// Pair is a two-slot named sequence.
type Pair[A, B any] struct {
	First  A
	Second B
}

func (p Pair[A, B]) Elems() []any { return []any{p.First, p.Second} }

func (p Pair[A, B]) ElemTypes() []reflect.Type {
	return []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[B]()}
}

func (p Pair[A, B]) WithElems(elems []any) (NamedSequence, error) {
	if len(elems) != 2 {
		return nil, fmt.Errorf("%s takes 2 elements, got %d", TypeName(reflect.TypeOf(p)), len(elems))
	}

	first, err := slot[A](elems[0])
	if err != nil {
		return nil, err
	}

	second, err := slot[B](elems[1])
	if err != nil {
		return nil, err
	}

	return Pair[A, B]{First: first, Second: second}, nil
}

// slot asserts v to T, treating nil as the zero value.
func slot[T any](v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}

	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("slot of type %s cannot hold %s", TypeName(reflect.TypeFor[T]()), TypeName(reflect.TypeOf(v)))
	}

	return t, nil
}
