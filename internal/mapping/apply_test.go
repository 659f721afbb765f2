package mapping

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shaper/internal/diagnostic"
	"shaper/meta"
	"shaper/options"
	"shaper/policy"
	"shaper/preconf"
	"shaper/transform"
)

func TestBuild(t *testing.T) {
	pf, err := Parse([]byte(`
defaults:
  unknown_fields: deny
policies:
  - type: Order
    shape: tuple
    omit: internal
  - type: Customer
    rename: snake_case
    unknown_fields: ignore
`))
	require.NoError(t, err)

	bindings, res := Build(pf, testResolver(), nil)
	require.True(t, res.IsValid(), res.Err())
	require.Len(t, bindings, 2)

	order := bindings[0]
	assert.Equal(t, reflect.TypeFor[Order](), order.Type)
	assert.Equal(t, options.ShapeTuple, order.Policy.Shape)
	assert.Equal(t, options.UnknownFieldsDeny, order.Policy.UnknownFields)
	require.NotNil(t, order.Policy.Filter)
	assert.Empty(t, order.Policy.Rename)

	customer := bindings[1]
	assert.Equal(t, reflect.TypeFor[Customer](), customer.Type)
	assert.Equal(t, "snake_case", customer.Policy.Rename)
	assert.Equal(t, options.ShapeMap, customer.Policy.Shape)
	assert.Equal(t, options.UnknownFieldsIgnore, customer.Policy.UnknownFields)
	assert.Nil(t, customer.Policy.Filter)
}

func TestBuild_Invalid(t *testing.T) {
	pf, err := Parse([]byte("policies:\n  - type: Order\n    shape: grid\n"))
	require.NoError(t, err)

	bindings, res := Build(pf, testResolver(), nil)
	assert.Nil(t, bindings)
	assert.Equal(t, []string{"invalid_shape"}, codes(res.Errors))
}

func TestBuildFilter(t *testing.T) {
	f, err := buildFilter(StringOrArray{FilterTruthy}, StringOrArray{"internal"})
	require.NoError(t, err)

	assert.True(t, f(meta.FieldDescriptor{Name: "notes"}, "x"))
	assert.False(t, f(meta.FieldDescriptor{Name: "notes"}, ""))
	assert.False(t, f(meta.FieldDescriptor{Name: "internal"}, "x"))

	f, err = buildFilter(StringOrArray{FilterNonDefault, FilterKeep}, nil)
	require.NoError(t, err)

	withDefault := meta.FieldDescriptor{Name: "id", HasDefault: true, Default: 7}
	assert.False(t, f(withDefault, 7))
	assert.True(t, f(withDefault, 8))

	f, err = buildFilter(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = buildFilter(StringOrArray{"sometimes"}, nil)
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	pf, err := Parse([]byte(`
policies:
  - type: Order
    filter: truthy
    omit: internal
    unknown_fields: deny
  - type: Customer
    rename: snake_case
`))
	require.NoError(t, err)

	registry := policy.NewRegistry()

	res, err := Apply(pf, testResolver(), registry, nil)
	require.NoError(t, err)
	assert.True(t, res.IsValid())
	assert.ElementsMatch(t, []reflect.Type{reflect.TypeFor[Order](), reflect.TypeFor[Customer]()}, registry.Types())

	engine := transform.Must(transform.WithPolicies(registry))

	out, err := engine.Encode(Order{ID: 1, Customer: "Ada", Internal: "secret"})
	require.NoError(t, err)

	data, err := preconf.ToJSON(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"customer":"Ada"}`, string(data))

	out, err = engine.Encode(Customer{FullName: "Ada Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)

	data, err = preconf.ToJSON(out)
	require.NoError(t, err)
	assert.Equal(t, `{"full_name":"Ada Lovelace","email":"ada@example.com"}`, string(data))

	_, err = transform.DecodeAs[Order](engine, map[string]any{
		"id": 1, "customer": "Ada", "notes": "", "internal": "", "extra": true,
	})
	require.ErrorIs(t, err, transform.ErrUnknownField)
}

func TestApply_Rejected(t *testing.T) {
	pf, err := Parse([]byte(`
policies:
  - type: Order
    shape: tuple
  - type: Coordinates
    shape: map
`))
	require.NoError(t, err)

	registry := policy.NewRegistry()

	res, err := Apply(pf, testResolver(), registry, nil)
	require.Error(t, err)
	assert.Equal(t, []string{"frozen_record"}, codes(res.Errors))
	assert.Empty(t, registry.Types())
	require.ErrorIs(t, err, diagnostic.ErrInvalid)
}
