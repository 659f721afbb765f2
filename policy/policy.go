// Package policy holds record-level settings and the registry attaching them to record types.
//
// Policies live in a side table keyed by type identity. The Default registry is empty
// at startup and is only ever appended to. Frozen record types cannot have a policy
// attached and declare one through Provider instead.
package policy

import (
	"shaper/casing"
	"shaper/meta"
	"shaper/options"
)

// Policy is the record-level default for every field without its own setting.
type Policy struct {
	Rename     string      // case convention name
	RenameFunc casing.Func // custom key converter, exclusive with Rename
	Shape      options.ShapeEnum
	Filter     meta.Filter

	// UnknownFields applies to decoding only.
	UnknownFields options.UnknownFieldsEnum

	ValueConverterTo   meta.ValueFunc
	ValueConverterFrom meta.ValueFunc
}

// Provider is implemented by record types declaring their own policy.
type Provider interface {
	RecordPolicy() Policy
}

// KeyFunc resolves the record's rename setting, nil when unset.
func (p Policy) KeyFunc(registry *casing.Registry) (casing.Func, error) {
	switch {
	case p.RenameFunc != nil:
		return p.RenameFunc, nil
	case p.Rename != "":
		if registry == nil {
			registry = casing.Default
		}
		return registry.Lookup(p.Rename)
	default:
		return nil, nil
	}
}

// Validate checks that the settings can be honored together.
func (p Policy) Validate() error {
	if p.Rename != "" && p.RenameFunc != nil {
		return &meta.ConfigConflictError{Reason: "record rename convention and rename func are mutually exclusive"}
	}

	return nil
}
