package transform

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"shaper/internal/diagnostic"
	"shaper/node"
)

var (
	ErrKeyCollision  = errors.New("key collision")
	ErrMissingField  = errors.New("missing field")
	ErrArity         = errors.New("arity mismatch")
	ErrUnknownField  = errors.New("unknown field")
	ErrDepthExceeded = errors.New("depth limit exceeded")
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrHookExists    = errors.New("hook already registered")

	errNotPointer  = errors.New("decode target must be a non-nil pointer")
	errHookResult  = errors.New("decode hook returned a value of another type")
	errDefaultType = errors.New("default value does not fit the field")
)

// KeyCollisionError reports two fields emitted under the same key.
type KeyCollisionError struct {
	Type  reflect.Type
	Key   string
	Field string // the field emitted second
}

func (e *KeyCollisionError) Error() string {
	return fmt.Sprintf("%s: %s field %s emits key %q twice", ErrKeyCollision, node.TypeName(e.Type), e.Field, e.Key)
}

func (e *KeyCollisionError) Unwrap() error { return ErrKeyCollision }

// MissingFieldError reports a required field absent from the input.
type MissingFieldError struct {
	Type  reflect.Type
	Field string
	Key   string
}

func (e *MissingFieldError) Error() string {
	if e.Key == e.Field {
		return fmt.Sprintf("%s: %s requires %q", ErrMissingField, node.TypeName(e.Type), e.Field)
	}

	return fmt.Sprintf("%s: %s requires %q under key %q", ErrMissingField, node.TypeName(e.Type), e.Field, e.Key)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// ArityError reports a positional input of the wrong length.
type ArityError struct {
	Type     reflect.Type
	Expected int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: %s takes %d values, got %d", ErrArity, node.TypeName(e.Type), e.Expected, e.Got)
}

func (e *ArityError) Unwrap() error { return ErrArity }

// UnknownFieldError reports every key of the input no field claims.
type UnknownFieldError struct {
	Type        reflect.Type
	Keys        []string            // in input order
	Suggestions map[string][]string // closest declared keys per unknown key
}

func (e *UnknownFieldError) Error() string {
	var d diagnostic.Diagnostics
	for _, key := range e.Keys {
		d.AddError("", fmt.Sprintf("%q", key), "", "", e.Suggestions[key]...)
	}

	parts := make([]string, 0, len(d.Errors))
	for _, entry := range d.Errors {
		parts = append(parts, entry.String())
	}

	return fmt.Sprintf("%s: %s does not declare %s", ErrUnknownField, node.TypeName(e.Type), strings.Join(parts, ", "))
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }

// DepthExceededError reports a value graph nested deeper than the engine allows.
type DepthExceededError struct {
	Limit int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("%s: more than %d levels", ErrDepthExceeded, e.Limit)
}

func (e *DepthExceededError) Unwrap() error { return ErrDepthExceeded }

// TypeMismatchError reports an input value that cannot become the target type.
type TypeMismatchError struct {
	Want reflect.Type
	Got  reflect.Type
	Err  error
}

func (e *TypeMismatchError) Error() string {
	msg := fmt.Sprintf("%s: cannot decode %s into %s", ErrTypeMismatch, node.TypeName(e.Got), node.TypeName(e.Want))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *TypeMismatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTypeMismatch}
	}

	return []error{ErrTypeMismatch, e.Err}
}

// PathError locates an error inside the value graph, e.g. Person.addresses[1].city.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error { return e.Err }

// at prefixes the path of err with segment.
func at(segment string, err error) error {
	if err == nil {
		return nil
	}

	var pathErr *PathError
	if errors.As(err, &pathErr) && pathErr == err {
		return &PathError{Path: segment + pathErr.Path, Err: pathErr.Err}
	}

	return &PathError{Path: segment, Err: err}
}

func fieldSegment(name string) string { return "." + name }
func indexSegment(i int) string       { return fmt.Sprintf("[%d]", i) }
func keySegment(key any) string       { return fmt.Sprintf("[%v]", key) }
