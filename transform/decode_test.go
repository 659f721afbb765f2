package transform_test

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"shaper/casing"
	"shaper/container"
	"shaper/meta"
	"shaper/node"
	"shaper/options"
	"shaper/policy"
	"shaper/transform"
)

func ExampleDecodeAs() {
	e := transform.Must()

	in := transform.NewMap()
	in.Set("name", "Ada")
	in.Set("age", 36)

	person, err := transform.DecodeAs[Person](e, in)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%+v\n", person)

	_, err = transform.DecodeAs[Person](e, map[string]any{"name": "Ada"})
	fmt.Println(err)

	// Output:
	// {Name:Ada Age:36}
	// Person: missing field: transform_test.Person requires "age"
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	team := Team{
		Name:    "core",
		Lead:    &Member{Name: "Ada", Email: "ada@example.com"},
		Members: []Member{{Name: "Alan", Email: "alan@example.com"}, {Name: "Grace"}},
		Scores:  map[string]int{"q1": 3, "q2": 5},
		Labels:  [2]string{"x", "y"},
		Started: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}

	for _, shape := range []options.ShapeEnum{options.ShapeMap, options.ShapeTuple, options.ShapeTree} {
		t.Run(shape.String(), func(t *testing.T) {
			t.Parallel()

			e := transform.Must(transform.WithShape(shape))

			out, err := e.Encode(team)
			require.NoError(t, err)

			back, err := transform.DecodeAs[Team](e, out)
			require.NoError(t, err, spew.Sdump(out))
			assert.Equal(t, team, back)
		})
	}
}

func TestDecode_JSON(t *testing.T) {
	t.Parallel()

	var in any
	require.NoError(t, json.Unmarshal([]byte(`{"name":"core","lead":null,"members":[{"name":"Ada","email":"a@x"}],
		"scores":{"q1":3},"labels":["x","y"],"started":"2024-03-01T09:30:00Z"}`), &in))

	team, err := transform.Decode[Team](in)
	require.NoError(t, err)

	assert.Equal(t, Team{
		Name:    "core",
		Members: []Member{{Name: "Ada", Email: "a@x"}},
		Scores:  map[string]int{"q1": 3},
		Labels:  [2]string{"x", "y"},
		Started: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}, team)

	_, err = transform.Decode[Person](map[string]any{"name": "Ada", "age": 36.5})
	require.ErrorIs(t, err, transform.ErrTypeMismatch)
	assert.Contains(t, err.Error(), "Person.age")
}

func TestDecode_MissingField(t *testing.T) {
	t.Parallel()

	_, err := transform.Decode[Person](map[string]any{"name": "Ada"})
	require.ErrorIs(t, err, transform.ErrMissingField)

	var missing *transform.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "age", missing.Field)
	assert.Equal(t, reflect.TypeFor[Person](), missing.Type)

	team := map[string]any{"name": "core", "lead": map[string]any{"name": "Ada"}}
	_, err = transform.Decode[Team](team)
	require.ErrorIs(t, err, transform.ErrMissingField)

	var pathErr *transform.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "Team.lead", pathErr.Path)
}

func TestDecode_Defaults(t *testing.T) {
	t.Parallel()

	account, err := transform.Decode[Account](map[string]any{"name": "ada"})
	require.NoError(t, err)
	assert.Equal(t, Account{Name: "ada"}, account)

	for _, filter := range []meta.Filter{meta.Keep, meta.KeepTruthy} {
		_, err = transform.Decode[Person](map[string]any{"name": "Ada"}, transform.WithFilter(filter))
		require.ErrorIs(t, err, transform.ErrMissingField, "call filters do not make fields optional")
	}

	policies := policy.NewRegistry()
	policies.MustAttach(reflect.TypeFor[Person](), policy.Policy{Filter: meta.KeepTruthy})

	_, err = transform.Decode[Person](map[string]any{"name": "Ada"}, transform.WithPolicies(policies))
	require.ErrorIs(t, err, transform.ErrMissingField, "record filters do not make fields optional")

	optional, err := transform.Decode[Optional](map[string]any{"name": "Ada"})
	require.NoError(t, err, "fields that drop themselves may be absent")
	assert.Equal(t, Optional{Name: "Ada"}, optional)
}

func TestDecode_RecordPolicy(t *testing.T) {
	t.Parallel()

	policies := policy.NewRegistry()
	policies.MustAttach(reflect.TypeFor[Contact](), policy.Policy{Rename: casing.Kebab})

	e := transform.Must(transform.WithPolicies(policies))

	contact := Contact{FirstName: "Ada", LastName: "Lovelace", HomePhone: "555", MailingAddress: Address{StreetName: "Square Street"}}

	out, err := e.Encode(contact)
	require.NoError(t, err)

	back, err := transform.DecodeAs[Contact](e, out)
	require.NoError(t, err)
	assert.Equal(t, contact, back)

	_, err = transform.DecodeAs[Contact](e, map[string]any{"FirstName": "Ada"})
	require.ErrorIs(t, err, transform.ErrMissingField)
}

func TestDecode_Flatten(t *testing.T) {
	t.Parallel()

	doc, err := transform.Decode[Document](map[string]any{"created_by": "ada", "title": "Notes"},
		transform.WithUnknownFields(options.UnknownFieldsDeny))
	require.NoError(t, err)
	assert.Equal(t, Document{Audit: Audit{CreatedBy: "ada"}, Title: "Notes"}, doc)

	_, err = transform.Decode[Shadow](map[string]any{"created_by": "ada"})
	require.ErrorIs(t, err, transform.ErrKeyCollision)
}

func TestDecode_FlattenedNilPointer(t *testing.T) {
	t.Parallel()

	for _, draft := range []Draft{
		{Title: "Notes"},
		{Audit: &Audit{CreatedBy: "ada"}, Title: "Notes"},
	} {
		out, err := transform.Encode(draft)
		require.NoError(t, err)

		back, err := transform.Decode[Draft](out, transform.WithUnknownFields(options.UnknownFieldsDeny))
		require.NoError(t, err)
		assert.Equal(t, draft, back)
	}

	_, err := transform.Decode[Draft](map[string]any{"title": "Notes", "created_by": 1})
	require.ErrorIs(t, err, transform.ErrTypeMismatch, "present keys still decode the record")
}

func TestDecode_UnknownFields(t *testing.T) {
	t.Parallel()

	in := map[string]any{"name": "Ada", "age": 36, "agee": 1}

	t.Run("ignore", func(t *testing.T) {
		t.Parallel()

		person, err := transform.Decode[Person](in)
		require.NoError(t, err)
		assert.Equal(t, Person{Name: "Ada", Age: 36}, person)
	})

	t.Run("deny", func(t *testing.T) {
		t.Parallel()

		_, err := transform.Decode[Person](in, transform.WithUnknownFields(options.UnknownFieldsDeny))
		require.ErrorIs(t, err, transform.ErrUnknownField)

		var unknown *transform.UnknownFieldError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, []string{"agee"}, unknown.Keys)
		assert.Equal(t, []string{"age"}, unknown.Suggestions["agee"])
		assert.Contains(t, err.Error(), `"agee" (did you mean "age"?)`)
	})

	t.Run("allow", func(t *testing.T) {
		t.Parallel()

		open, err := transform.Decode[Open](map[string]any{"name": "ada", "x": 1, "y": "z"},
			transform.WithUnknownFields(options.UnknownFieldsAllow))
		require.NoError(t, err)
		assert.Equal(t, Open{Name: "ada", Extra: map[string]any{"x": 1, "y": "z"}}, open)

		out, err := transform.Encode(open)
		require.NoError(t, err)
		assert.Equal(t, `{"name":"ada","x":1,"y":"z"}`, toJSON(t, out))
	})

	t.Run("record policy", func(t *testing.T) {
		t.Parallel()

		policies := policy.NewRegistry()
		policies.MustAttach(reflect.TypeFor[Person](), policy.Policy{UnknownFields: options.UnknownFieldsDeny})

		_, err := transform.Decode[Person](in, transform.WithPolicies(policies))
		require.ErrorIs(t, err, transform.ErrUnknownField)
	})
}

func TestDecode_Tuple(t *testing.T) {
	t.Parallel()

	e := transform.Must(transform.WithShape(options.ShapeTuple))

	person, err := transform.DecodeAs[Person](e, []any{"Ada", 36})
	require.NoError(t, err)
	assert.Equal(t, Person{Name: "Ada", Age: 36}, person)

	_, err = transform.DecodeAs[Person](e, []any{"Ada"})
	require.ErrorIs(t, err, transform.ErrArity)

	var arity *transform.ArityError
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, 2, arity.Expected)
	assert.Equal(t, 1, arity.Got)

	point, err := transform.Decode[Point]([]any{3, 4})
	require.NoError(t, err)
	assert.Equal(t, Point{X: 3, Y: 4}, point)

	_, err = transform.Decode[[2]int]([]any{1, 2, 3})
	require.ErrorIs(t, err, transform.ErrArity)

	for _, shape := range []options.ShapeEnum{options.ShapeTuple, options.ShapeTree} {
		e := transform.Must(transform.WithShape(shape))

		out, err := e.Encode(Open{Name: "ada", Extra: map[string]any{"x": 1}})
		require.NoError(t, err)
		assert.Equal(t, []any{"ada"}, out, "the overflow bag has no position")

		open, err := transform.DecodeAs[Open](e, out)
		require.NoError(t, err)
		assert.Equal(t, Open{Name: "ada"}, open)
	}
}

func TestDecode_NamedSequence(t *testing.T) {
	t.Parallel()

	pair, err := transform.Decode[node.Pair[string, int]]([]any{"a", 1})
	require.NoError(t, err)
	assert.Equal(t, node.Pair[string, int]{First: "a", Second: 1}, pair)

	lead := node.Pair[string, Member]{First: "lead", Second: Member{Name: "Ada"}}
	out, err := transform.Encode(lead)
	require.NoError(t, err)

	back, err := transform.Decode[*node.Pair[string, Member]](out)
	require.NoError(t, err)
	assert.Equal(t, &lead, back)

	_, err = transform.Decode[node.Pair[string, int]]([]any{"a"})
	require.ErrorIs(t, err, transform.ErrArity)
}

func TestDecode_DefaultMap(t *testing.T) {
	t.Parallel()

	words := container.NewDefaultMap[string, []int](func() []int { return []int{} })
	words.Set("go", []int{1, 4})
	words.Set("map", []int{2})

	for _, shape := range []options.ShapeEnum{options.ShapeMap, options.ShapeTuple, options.ShapeTree} {
		t.Run(shape.String(), func(t *testing.T) {
			t.Parallel()

			e := transform.Must(transform.WithShape(shape))

			out, err := e.Encode(Index{Words: words})
			require.NoError(t, err)

			back, err := transform.DecodeAs[Index](e, out)
			require.NoError(t, err)

			require.NotNil(t, back.Words)
			assert.Equal(t, []string{"go", "map"}, back.Words.Keys())
			assert.Equal(t, []int{1, 4}, back.Words.Get("go"))
			assert.Equal(t, []int{}, back.Words.Get("missing"), "the factory survives the round trip")
		})
	}

	in := orderedmap.New[string, any]()
	in.Set("words", map[string]any{"b": []any{1.0}, "a": []any{}})

	index, err := transform.Decode[Index](in)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, index.Words.Keys())
	assert.Equal(t, []int{1}, index.Words.Get("b"))

	empty, err := transform.Decode[Index](map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Words.Len())
	assert.Equal(t, []int{}, empty.Words.Get("x"))
}

func TestDecode_DefaultMapKeepsInputFactory(t *testing.T) {
	t.Parallel()

	counts := container.NewDefaultMap[string, int](func() int { return 7 })
	counts.Set("a", 1)

	out, err := transform.Encode(counts)
	require.NoError(t, err)

	back, err := transform.Decode[*container.DefaultMap[string, int]](out)
	require.NoError(t, err)
	assert.Equal(t, 1, back.Get("a"))
	assert.Equal(t, 7, back.Get("missing"), spew.Sdump(out))

	out, err = transform.Encode(Tally{Counts: counts})
	require.NoError(t, err)

	tally, err := transform.Decode[Tally](out)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, tally.Counts.Keys())
	assert.Equal(t, 7, tally.Counts.Get("missing"))
}

func TestDecode_Maps(t *testing.T) {
	t.Parallel()

	in := transform.NewMap()
	in.Set("2", "two")
	in.Set("1", "one")

	numbered, err := transform.Decode[map[int]string](in)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "one", 2: "two"}, numbered)

	tree := []any{[]any{"b", 2}, []any{"a", 1}}
	m, err := transform.Decode[*transform.Map](tree)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":1}`, toJSON(t, m))

	_, err = transform.Decode[map[string]int]("nope")
	require.ErrorIs(t, err, transform.ErrTypeMismatch)
}

func TestDecode_Validator(t *testing.T) {
	t.Parallel()

	r, err := transform.Decode[Range](map[string]any{"lo": 1, "hi": 2})
	require.NoError(t, err)
	assert.Equal(t, Range{Lo: 1, Hi: 2}, r)

	_, err = transform.Decode[Range](map[string]any{"lo": 5, "hi": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lo exceeds hi")
}

func TestDecode_ValueConverter(t *testing.T) {
	t.Parallel()

	event := Event{Name: "launch", At: time.Unix(1700000000, 0).UTC()}

	out, err := transform.Encode(event)
	require.NoError(t, err)

	back, err := transform.Decode[Event](out)
	require.NoError(t, err)
	assert.Equal(t, event, back)

	_, err = transform.Decode[Event](map[string]any{"name": "launch", "at": "yesterday"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp must be int64")
}

func TestDecode_Pointers(t *testing.T) {
	t.Parallel()

	p, err := transform.Decode[*Person](map[string]any{"name": "Ada", "age": 1})
	require.NoError(t, err)
	assert.Equal(t, &Person{Name: "Ada", Age: 1}, p)

	nilPerson, err := transform.Decode[*Person](nil)
	require.NoError(t, err)
	assert.Nil(t, nilPerson)

	var anything any
	e := transform.Must()
	require.NoError(t, e.DecodeInto([]any{1, "x"}, &anything))
	assert.Equal(t, []any{1, "x"}, anything)

	err = e.DecodeInto(map[string]any{}, Person{})
	require.ErrorIs(t, err, transform.ErrTypeMismatch)
}

func TestDecode_Hooks(t *testing.T) {
	t.Parallel()

	hooks := transform.NewHooks()
	require.NoError(t, transform.EncodeHook(hooks, func(ts time.Time) (any, error) {
		return ts.Format(time.DateOnly), nil
	}))
	require.NoError(t, transform.DecodeHook(hooks, func(in any) (time.Time, error) {
		s, _ := in.(string)
		return time.Parse(time.DateOnly, s)
	}))

	err := transform.EncodeHook(hooks, func(ts time.Time) (any, error) { return ts.Unix(), nil })
	require.ErrorIs(t, err, transform.ErrHookExists)

	e := transform.Must(transform.WithHooks(hooks))
	team := Team{Name: "core", Started: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	out, err := e.Encode(team)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", get(out, "started"))

	back, err := transform.DecodeAs[Team](e, out)
	require.NoError(t, err)
	assert.True(t, team.Started.Equal(back.Started))

	_, err = transform.DecodeAs[Team](e, map[string]any{
		"name":    "core",
		"lead":    nil,
		"members": []any{},
		"scores":  map[string]any{},
		"labels":  []any{"", ""},
		"started": "March",
	})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Team.started: "), err.Error())
}
