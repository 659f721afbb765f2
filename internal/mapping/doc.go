// Package mapping loads record policies from YAML files and attaches them to a policy registry.
//
// A policy file names record types the way Go code does and sets their record-level
// defaults:
//
//	version: "1"
//	defaults:
//	  rename: camelCase
//	policies:
//	  - type: store.Order
//	    shape: map
//	    unknown_fields: deny
//	    filter: non_default
//	    omit: [Internal]
//	  - type: Customer
//	    rename: snake_case
//
// Types are looked up among the ones registered with a TypeResolver, by bare name,
// by "pkg.Name" or by full import path. Validate reports every problem at once as
// diagnostics with suggestions. Apply attaches nothing unless the whole file is valid.
//
// Filters in a file are builtin names (keep, drop, non_default, truthy) combined
// with AND; omitted fields are dropped before any filter runs.
package mapping
