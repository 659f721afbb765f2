package mapping

import (
	"reflect"
	"strings"

	"shaper/internal/common"
	"shaper/node"
)

// TypeResolver finds registered record types by the identifiers used in policy files.
type TypeResolver struct {
	types []reflect.Type
}

// NewTypeResolver registers types, pointers are followed.
func NewTypeResolver(types ...reflect.Type) *TypeResolver {
	r := &TypeResolver{}
	for _, rtype := range types {
		r.Register(rtype)
	}

	return r
}

// Register adds rtype unless it is already known. Unnamed types are ignored.
func (r *TypeResolver) Register(rtype reflect.Type) {
	rtype = node.Indirect(rtype)
	if rtype == nil || rtype.Name() == "" {
		return
	}

	for _, known := range r.types {
		if known == rtype {
			return
		}
	}

	r.types = append(r.types, rtype)
}

// RegisterReachable registers roots and every record type their fields lead to.
func (r *TypeResolver) RegisterReachable(roots ...reflect.Type) error {
	types, err := node.Reachable(roots...)
	for _, rtype := range types {
		r.Register(rtype)
	}

	return err
}

// Resolve looks up an identifier like:
// - "store.Order" (short)
// - "example.com/shop/store.Order" (full)
// - "Order" (name only, the first registered match wins).
func (r *TypeResolver) Resolve(id string) (reflect.Type, bool) {
	if r == nil || id == "" {
		return nil, false
	}

	lastDot := strings.LastIndex(id, ".")
	if lastDot < 0 {
		for _, rtype := range r.types {
			if rtype.Name() == id {
				return rtype, true
			}
		}

		return nil, false
	}

	pkg, name := id[:lastDot], id[lastDot+1:]
	if pkg == "" || name == "" {
		return nil, false
	}

	// exact import path first, then the short package form
	for _, rtype := range r.types {
		if rtype.Name() == name && rtype.PkgPath() == pkg {
			return rtype, true
		}
	}

	for _, rtype := range r.types {
		if rtype.Name() == name && strings.HasSuffix(rtype.PkgPath(), "/"+pkg) {
			return rtype, true
		}
	}

	return nil, false
}

// Names returns the short identifier of every registered type.
func (r *TypeResolver) Names() []string {
	if r == nil {
		return nil
	}

	names := make([]string, 0, len(r.types))
	for _, rtype := range r.types {
		names = append(names, ShortName(rtype))
	}

	return names
}

// ShortName renders rtype as "pkg.Name".
func ShortName(rtype reflect.Type) string {
	alias := common.PkgAlias(rtype.PkgPath())
	if alias == "" {
		return rtype.Name()
	}

	return alias + "." + rtype.Name()
}
