package mapping

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	yaml := `
version: "1"
defaults:
  rename: camelCase
  unknown_fields: deny
policies:
  - type: mapping.Order
    shape: tuple
    filter: [non_default, truthy]
    omit: Internal
  - type: Customer
    rename: snake_case
`

	pf, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.NotNil(t, pf)

	assert.Equal(t, "1", pf.Version)
	require.Len(t, pf.Policies, 2)

	order := pf.Policies[0]
	assert.Equal(t, "mapping.Order", order.Type)
	assert.Equal(t, "camelCase", order.Rename)
	assert.Equal(t, "tuple", order.Shape)
	assert.Equal(t, "deny", order.UnknownFields)
	assert.Equal(t, StringOrArray{"non_default", "truthy"}, order.Filter)
	assert.Equal(t, StringOrArray{"Internal"}, order.Omit)

	customer := pf.Policies[1]
	assert.Equal(t, "snake_case", customer.Rename)
	assert.Empty(t, customer.Shape)
	assert.Equal(t, "deny", customer.UnknownFields)
	assert.True(t, customer.Filter.IsEmpty())
}

func TestParse_Defaults(t *testing.T) {
	pf, err := Parse([]byte("policies:\n  - type: Order\n"))
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, pf.Version)
	require.Len(t, pf.Policies, 1)
	assert.True(t, pf.Policies[0].IsEmpty())
}

func TestParse_Empty(t *testing.T) {
	pf, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, pf.Version)
	assert.Empty(t, pf.Policies)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("policies:\n  - type: Order\n    shapes: map\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shapes")
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("policies: [\n"))
	require.Error(t, err)

	_, err = Parse([]byte("policies:\n  - type: Order\n    omit: {a: b}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a name or a list of names")
}

func TestStringOrArray(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want StringOrArray
	}{
		{"scalar", "omit: Notes\n", StringOrArray{"Notes"}},
		{"empty scalar", "omit: \"\"\n", StringOrArray{}},
		{"sequence", "omit: [Notes, Internal]\n", StringOrArray{"Notes", "Internal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf, err := Parse([]byte("policies:\n  - type: Order\n    " + tt.yaml))
			require.NoError(t, err)
			assert.Equal(t, tt.want, pf.Policies[0].Omit)
		})
	}

	s := StringOrArray{"a", "b"}
	assert.Equal(t, "a", s.First())
	assert.True(t, s.IsMultiple())
	assert.False(t, s.IsSingle())
	assert.True(t, s.Contains("b"))
	assert.False(t, s.Contains("c"))
	assert.Empty(t, StringOrArray{}.First())
}

func TestMarshal(t *testing.T) {
	pf := &PolicyFile{
		Version: "1",
		Policies: []PolicyEntry{
			{Type: "Order", Shape: "tree", Omit: StringOrArray{"Notes"}},
			{Type: "Customer", Filter: StringOrArray{"truthy", "non_default"}},
		},
	}

	data, err := Marshal(pf)
	require.NoError(t, err)
	assert.Contains(t, string(data), "omit: Notes\n")
	assert.Contains(t, string(data), "- truthy\n")

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, pf, back)
}

func TestWriteFileLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.yaml")

	pf := &PolicyFile{
		Version:  "1",
		Defaults: PolicyDefaults{Rename: "kebab-case"},
		Policies: []PolicyEntry{{Type: "Order", Rename: "kebab-case"}},
	}

	require.NoError(t, WriteFile(pf, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pf, loaded)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read policy file")
}
