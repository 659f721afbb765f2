package mapping

import (
	"slices"

	"shaper/meta"
)

// PolicyFile is the root of a YAML policy file.
type PolicyFile struct {
	Version  string         `yaml:"version"`
	Defaults PolicyDefaults `yaml:"defaults,omitempty"`
	Policies []PolicyEntry  `yaml:"policies"`
}

// PolicyDefaults are inherited by every entry that leaves the setting empty.
type PolicyDefaults struct {
	Rename        string `yaml:"rename,omitempty"`
	Shape         string `yaml:"shape,omitempty"`
	UnknownFields string `yaml:"unknown_fields,omitempty"`
}

// PolicyEntry attaches a record policy to one record type.
type PolicyEntry struct {
	// Type is "Name", "pkg.Name" or "import/path/pkg.Name".
	Type          string `yaml:"type"`
	Rename        string `yaml:"rename,omitempty"`
	Shape         string `yaml:"shape,omitempty"`
	UnknownFields string `yaml:"unknown_fields,omitempty"`

	// Filter names builtin filters, a field is kept only when every one keeps it.
	Filter StringOrArray `yaml:"filter,omitempty"`
	// Omit lists canonical field names never emitted.
	Omit StringOrArray `yaml:"omit,omitempty"`
}

// StringOrArray is written either as a single string or as a list of strings.
type StringOrArray []string

// Builtin filter names usable in policy files.
const (
	FilterKeep       = "keep"
	FilterDrop       = "drop"
	FilterNonDefault = "non_default"
	FilterTruthy     = "truthy"
)

var filters = map[string]meta.Filter{
	FilterKeep:       meta.Keep,
	FilterDrop:       meta.Drop,
	FilterNonDefault: meta.KeepNonDefault,
	FilterTruthy:     meta.KeepTruthy,
}

// FilterNames returns the builtin filter names in sorted order.
func FilterNames() []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// IsEmpty reports whether the entry sets nothing besides its type.
func (e PolicyEntry) IsEmpty() bool {
	return e.Rename == "" && e.Shape == "" && e.UnknownFields == "" && e.Filter.IsEmpty() && e.Omit.IsEmpty()
}
