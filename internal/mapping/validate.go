package mapping

import (
	"fmt"
	"reflect"

	"shaper/casing"
	"shaper/internal/diagnostic"
	"shaper/internal/match"
	"shaper/node"
	"shaper/options"
)

const maxSuggestions = 3

// Check validates everything in pf that does not depend on Go types: the version,
// convention names (from casings, casing.Default when nil), shapes and filter names.
func Check(pf *PolicyFile, casings *casing.Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if pf == nil {
		res.AddError("policy_file_is_nil", "policy file is nil", "", "")
		return res
	}

	if casings == nil {
		casings = casing.Default
	}

	if pf.Version != CurrentVersion {
		res.AddError("unsupported_version",
			fmt.Sprintf("unsupported version %q, expected %q", pf.Version, CurrentVersion), "", "version")
	}

	d := pf.Defaults
	validateSettings(res, casings, "", "defaults", d.Rename, d.Shape, d.UnknownFields)

	for i := range pf.Policies {
		e := &pf.Policies[i]
		path := entryPath(i)

		if e.Type == "" {
			res.AddError("missing_type", "policy entry has no type", "", path)
			continue
		}

		if e.IsEmpty() {
			res.AddWarning("empty_policy", "policy entry sets nothing", e.Type, path)
		}

		validateSettings(res, casings, e.Type, path, e.Rename, e.Shape, e.UnknownFields)
		validateFilters(res, e, path)
	}

	return res
}

// Validate is Check followed by resolving every entry's type against resolver
// and checking the record it names.
func Validate(pf *PolicyFile, resolver *TypeResolver, casings *casing.Registry) *diagnostic.Diagnostics {
	if pf != nil && resolver == nil {
		res := &diagnostic.Diagnostics{}
		res.AddError("resolver_is_nil", "type resolver is nil", "", "")
		return res
	}

	res := Check(pf, casings)
	if pf == nil {
		return res
	}

	seen := map[reflect.Type]int{}

	for i := range pf.Policies {
		e := &pf.Policies[i]
		if e.Type == "" {
			continue
		}

		path := entryPath(i)

		rtype, ok := resolver.Resolve(e.Type)
		if !ok {
			res.AddError("type_not_found", fmt.Sprintf("type %q not found", e.Type), e.Type, path,
				match.Suggest(e.Type, resolver.Names(), maxSuggestions)...)
			continue
		}

		if prev, dup := seen[rtype]; dup {
			res.AddError("duplicate_type",
				fmt.Sprintf("type %s already has a policy at %s", node.TypeName(rtype), entryPath(prev)), e.Type, path)
			continue
		}

		seen[rtype] = i

		validateRecord(res, e, rtype, path)
	}

	return res
}

func entryPath(i int) string {
	return fmt.Sprintf("policies[%d]", i)
}

func validateSettings(res *diagnostic.Diagnostics, casings *casing.Registry, typeName, path, rename, shape, unknown string) {
	if rename != "" {
		if _, err := casings.Lookup(rename); err != nil {
			res.AddError("unknown_convention", fmt.Sprintf("unknown case convention %q", rename), typeName, path+".rename",
				match.Suggest(rename, casings.Conventions(), maxSuggestions)...)
		}
	}

	if shape != "" {
		if _, err := options.ParseShape(shape); err != nil {
			res.AddError("invalid_shape", err.Error(), typeName, path+".shape")
		}
	}

	if unknown != "" {
		if _, err := options.ParseUnknownFields(unknown); err != nil {
			res.AddError("invalid_unknown_fields", err.Error(), typeName, path+".unknown_fields")
		}
	}
}

func validateFilters(res *diagnostic.Diagnostics, e *PolicyEntry, path string) {
	for _, name := range e.Filter {
		if _, ok := filters[name]; !ok {
			res.AddError("unknown_filter", fmt.Sprintf("unknown filter %q", name), e.Type, path+".filter",
				match.Suggest(name, FilterNames(), maxSuggestions)...)
		}
	}
}

func validateRecord(res *diagnostic.Diagnostics, e *PolicyEntry, rtype reflect.Type, path string) {
	if node.ClassifyType(rtype) != node.VariantRecord {
		res.AddError("not_a_record", fmt.Sprintf("%s is not a record type", node.TypeName(rtype)), e.Type, path)
		return
	}

	if node.IsFrozen(rtype) {
		res.AddError("frozen_record",
			fmt.Sprintf("%s is frozen and declares its own policy", node.TypeName(rtype)), e.Type, path)
		return
	}

	fields, err := node.Fields(rtype)
	if err != nil {
		res.AddError("invalid_record", err.Error(), e.Type, path)
		return
	}

	if e.Omit.IsEmpty() {
		return
	}

	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = fd.Name
	}

	for _, name := range e.Omit {
		if _, ok := node.FieldByName(fields, name); !ok {
			res.AddError("unknown_field", fmt.Sprintf("%s has no field %q", node.TypeName(rtype), name), e.Type, path+".omit",
				match.Suggest(name, names, maxSuggestions)...)
		}
	}
}
