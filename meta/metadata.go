package meta

import (
	"errors"
	"fmt"
	"strings"

	"shaper/casing"
)

var ErrConfigConflict = errors.New("conflicting field configuration")

// ConfigConflictError reports metadata that cannot be honored, e.g. two exclusion controls on one field.
type ConfigConflictError struct {
	Field  string
	Reason string
}

func (e *ConfigConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrConfigConflict, e.Reason)
	}

	return fmt.Sprintf("%s: field %s: %s", ErrConfigConflict, e.Field, e.Reason)
}

func (e *ConfigConflictError) Unwrap() error {
	return ErrConfigConflict
}

// Metadata is the policy overlay of one field. Every control is optional,
// unset is distinct from any concrete value.
type Metadata struct {
	Alias      *string     // fixed emitted key, wins over any rename
	Rename     string      // case convention name, resolved through a casing.Registry
	RenameFunc casing.Func // custom key converter

	// At most one exclusion control may be set.
	Exclude          *bool
	ExcludeIf        Filter // reports whether the field is kept
	ExcludeIfDefault *bool
	ExcludeIfFalse   *bool

	ConverterTo   ValueFunc // applied to the field value before encoding
	ConverterFrom ValueFunc // applied to the interchange value before it is decoded

	Flatten  bool // splice a nested record's pairs into the parent map
	Overflow bool // map[string]any field collecting unknown keys on decode
}

// Option sets one control of Metadata.
type Option func(*Metadata)

// New builds metadata from options and validates the result.
func New(opts ...Option) (Metadata, error) {
	var md Metadata
	for _, opt := range opts {
		opt(&md)
	}

	return md, md.Validate()
}

// Must is like New but panics on invalid metadata.
func Must(opts ...Option) Metadata {
	md, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return md
}

func Alias(key string) Option           { return func(md *Metadata) { md.Alias = &key } }
func Rename(convention string) Option   { return func(md *Metadata) { md.Rename = convention } }
func RenameFunc(fn casing.Func) Option  { return func(md *Metadata) { md.RenameFunc = fn } }
func Exclude(b bool) Option             { return func(md *Metadata) { md.Exclude = &b } }
func ExcludeIf(keep Filter) Option      { return func(md *Metadata) { md.ExcludeIf = keep } }
func ExcludeIfDefault(b bool) Option    { return func(md *Metadata) { md.ExcludeIfDefault = &b } }
func ExcludeIfFalse(b bool) Option      { return func(md *Metadata) { md.ExcludeIfFalse = &b } }
func ConverterTo(fn ValueFunc) Option   { return func(md *Metadata) { md.ConverterTo = fn } }
func ConverterFrom(fn ValueFunc) Option { return func(md *Metadata) { md.ConverterFrom = fn } }
func Flatten() Option                   { return func(md *Metadata) { md.Flatten = true } }
func Overflow() Option                  { return func(md *Metadata) { md.Overflow = true } }

// Validate checks that the controls can be honored together.
func (md Metadata) Validate() error {
	if controls := md.exclusionControls(); len(controls) > 1 {
		return &ConfigConflictError{
			Reason: "only one of " + strings.Join(controls, ", ") + " can be set",
		}
	}

	if md.Rename != "" && md.RenameFunc != nil {
		return &ConfigConflictError{Reason: "rename convention and rename func are mutually exclusive"}
	}

	if md.Flatten && md.Overflow {
		return &ConfigConflictError{Reason: "a field cannot be both flattened and the overflow bag"}
	}

	return nil
}

// HasFilter reports whether any exclusion control is set.
func (md Metadata) HasFilter() bool {
	return len(md.exclusionControls()) > 0
}

// MayDrop reports whether the field's own exclusion control can leave it out on encode.
func (md Metadata) MayDrop() bool {
	return md.IsExcluded() || md.ExcludeIf != nil ||
		(md.ExcludeIfDefault != nil && *md.ExcludeIfDefault) ||
		(md.ExcludeIfFalse != nil && *md.ExcludeIfFalse)
}

// HasKey reports whether the emitted key is set at field level.
func (md Metadata) HasKey() bool {
	return md.Alias != nil || md.Rename != "" || md.RenameFunc != nil
}

// IsExcluded reports whether the field is dropped unconditionally.
func (md Metadata) IsExcluded() bool {
	return md.Exclude != nil && *md.Exclude
}

func (md Metadata) exclusionControls() []string {
	var controls []string
	if md.Exclude != nil {
		controls = append(controls, "exclude")
	}
	if md.ExcludeIf != nil {
		controls = append(controls, "exclude_if")
	}
	if md.ExcludeIfDefault != nil {
		controls = append(controls, "exclude_if_default")
	}
	if md.ExcludeIfFalse != nil {
		controls = append(controls, "exclude_if_false")
	}

	return controls
}

// Merge returns md overlaid with every control set in other.
// Setting any exclusion control in other replaces all exclusion controls of md,
// the same holds for the key controls.
func (md Metadata) Merge(other Metadata) Metadata {
	if other.HasFilter() {
		md.Exclude, md.ExcludeIf, md.ExcludeIfDefault, md.ExcludeIfFalse =
			other.Exclude, other.ExcludeIf, other.ExcludeIfDefault, other.ExcludeIfFalse
	}

	if other.Alias != nil {
		md.Alias = other.Alias
	}
	if other.Rename != "" || other.RenameFunc != nil {
		md.Rename, md.RenameFunc = other.Rename, other.RenameFunc
	}
	if other.ConverterTo != nil {
		md.ConverterTo = other.ConverterTo
	}
	if other.ConverterFrom != nil {
		md.ConverterFrom = other.ConverterFrom
	}

	md.Flatten = md.Flatten || other.Flatten
	md.Overflow = md.Overflow || other.Overflow

	return md
}
