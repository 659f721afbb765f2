package mapping

import (
	"fmt"
	"reflect"

	"shaper/casing"
	"shaper/internal/diagnostic"
	"shaper/meta"
	"shaper/options"
	"shaper/policy"
)

// Binding is one record type together with the policy built for it.
type Binding struct {
	Type   reflect.Type
	Policy policy.Policy
}

// Build validates pf and turns every entry into a policy, in file order.
// Nothing is built when validation reports an error.
func Build(pf *PolicyFile, resolver *TypeResolver, casings *casing.Registry) ([]Binding, *diagnostic.Diagnostics) {
	res := Validate(pf, resolver, casings)
	if res.HasErrors() {
		return nil, res
	}

	bindings := make([]Binding, 0, len(pf.Policies))

	for i := range pf.Policies {
		e := &pf.Policies[i]

		rtype, _ := resolver.Resolve(e.Type)

		p, err := buildPolicy(e)
		if err != nil {
			res.AddError("invalid_policy", err.Error(), e.Type, entryPath(i))
			continue
		}

		bindings = append(bindings, Binding{Type: rtype, Policy: p})
	}

	if res.HasErrors() {
		return nil, res
	}

	return bindings, res
}

// Apply builds pf and attaches every policy to registry (policy.Default when nil).
// The diagnostics are returned even when the file is rejected.
func Apply(pf *PolicyFile, resolver *TypeResolver, registry *policy.Registry, casings *casing.Registry) (*diagnostic.Diagnostics, error) {
	if registry == nil {
		registry = policy.Default
	}

	bindings, res := Build(pf, resolver, casings)
	if err := res.Err(); err != nil {
		return res, err
	}

	for _, b := range bindings {
		if err := registry.Attach(b.Type, b.Policy); err != nil {
			return res, err
		}
	}

	return res, nil
}

func buildPolicy(e *PolicyEntry) (policy.Policy, error) {
	p := policy.Policy{Rename: e.Rename}

	var err error

	if e.Shape != "" {
		if p.Shape, err = options.ParseShape(e.Shape); err != nil {
			return p, err
		}
	}

	if e.UnknownFields != "" {
		if p.UnknownFields, err = options.ParseUnknownFields(e.UnknownFields); err != nil {
			return p, err
		}
	}

	p.Filter, err = buildFilter(e.Filter, e.Omit)

	return p, err
}

// buildFilter keeps a field when it is not omitted and every named filter keeps it.
// Nil means the entry leaves filtering to the engine.
func buildFilter(names, omit StringOrArray) (meta.Filter, error) {
	if names.IsEmpty() && omit.IsEmpty() {
		return nil, nil
	}

	chain := make([]meta.Filter, 0, len(names))

	for _, name := range names {
		f, ok := filters[name]
		if !ok {
			return nil, fmt.Errorf("unknown filter %q", name)
		}

		chain = append(chain, f)
	}

	return func(fd meta.FieldDescriptor, value any) bool {
		if omit.Contains(fd.Name) {
			return false
		}

		for _, f := range chain {
			if !f(fd, value) {
				return false
			}
		}

		return true
	}, nil
}
