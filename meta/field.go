package meta

import (
	"fmt"
	"reflect"
)

// FieldDescriptor is one declared field of a record type.
type FieldDescriptor struct {
	Name   string // canonical name, unique within the record type
	GoName string
	Index  []int
	Type   reflect.Type

	HasDefault     bool
	Default        any
	DefaultFactory func() any

	Metadata Metadata
}

// DefaultValue returns the value used when the field is absent on decode.
func (fd FieldDescriptor) DefaultValue() (any, bool) {
	switch {
	case fd.DefaultFactory != nil:
		return fd.DefaultFactory(), true
	case fd.HasDefault:
		return fd.Default, true
	default:
		return nil, false
	}
}

// Validate checks the descriptor's invariants.
func (fd FieldDescriptor) Validate() error {
	if fd.HasDefault && fd.DefaultFactory != nil {
		return &ConfigConflictError{Field: fd.Name, Reason: "default value and default factory are mutually exclusive"}
	}

	if fd.Metadata.Overflow && fd.Type != nil && fd.Type != overflowType {
		return &ConfigConflictError{Field: fd.Name, Reason: fmt.Sprintf("overflow field must be map[string]any, got %s", fd.Type)}
	}

	if err := fd.Metadata.Validate(); err != nil {
		if conflict, ok := err.(*ConfigConflictError); ok {
			conflict.Field = fd.Name
		}

		return err
	}

	return nil
}

var overflowType = reflect.TypeFor[map[string]any]()

// WithMetadata returns a copy of fd with md merged over its metadata.
// The merged result is validated, fd itself is never modified.
func WithMetadata(fd FieldDescriptor, md Metadata) (FieldDescriptor, error) {
	fd.Metadata = fd.Metadata.Merge(md)
	if err := fd.Validate(); err != nil {
		return FieldDescriptor{}, err
	}

	return fd, nil
}

// Declaration attaches metadata and defaults to a field in code,
// for settings a struct tag cannot express.
type Declaration struct {
	GoName         string
	Metadata       Metadata
	HasDefault     bool
	Default        any
	DefaultFactory func() any
}

// Declare starts a declaration for the Go field named goName.
func Declare(goName string, opts ...Option) Declaration {
	d := Declaration{GoName: goName}
	for _, opt := range opts {
		opt(&d.Metadata)
	}

	return d
}

func (d Declaration) WithDefault(v any) Declaration {
	d.HasDefault, d.Default = true, v
	return d
}

func (d Declaration) WithDefaultFactory(fn func() any) Declaration {
	d.DefaultFactory = fn
	return d
}

// Declarer is implemented by record types declaring field settings in code.
// Declarations are applied over struct tags once per type.
type Declarer interface {
	DeclareFields() []Declaration
}
