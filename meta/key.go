package meta

import (
	"shaper/casing"
)

// Identity returns the name unchanged.
func Identity(name string) string { return name }

// ResolveKeyFunc returns the converter producing fd's emitted key:
// the field alias, else the field rename, else scope, else Identity.
// Rename conventions are looked up in registry, casing.Default when nil.
func ResolveKeyFunc(fd FieldDescriptor, scope casing.Func, registry *casing.Registry) (casing.Func, error) {
	md := fd.Metadata

	switch {
	case md.Alias != nil:
		alias := *md.Alias
		return func(string) string { return alias }, nil

	case md.RenameFunc != nil:
		return md.RenameFunc, nil

	case md.Rename != "":
		if registry == nil {
			registry = casing.Default
		}
		return registry.Lookup(md.Rename)

	case scope != nil:
		return scope, nil

	default:
		return Identity, nil
	}
}

// Key resolves and applies fd's key converter to its canonical name.
func Key(fd FieldDescriptor, scope casing.Func, registry *casing.Registry) (string, error) {
	fn, err := ResolveKeyFunc(fd, scope, registry)
	if err != nil {
		return "", err
	}

	return fn(fd.Name), nil
}
