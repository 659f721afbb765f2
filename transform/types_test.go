package transform_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shaper/container"
	"shaper/meta"
	"shaper/options"
	"shaper/policy"
	"shaper/transform"
)

type Person struct {
	Name string `shaper:"name"`
	Age  int    `shaper:"age"`
}

type Member struct {
	Name  string `shaper:"name"`
	Email string `shaper:"email"`
}

type Team struct {
	Name    string         `shaper:"name"`
	Lead    *Member        `shaper:"lead"`
	Members []Member       `shaper:"members"`
	Scores  map[string]int `shaper:"scores"`
	Labels  [2]string      `shaper:"labels"`
	Started time.Time      `shaper:"started"`
}

type Account struct {
	Name string `shaper:"name"`
	Age  int    `shaper:"age,exclude_if_default" default:"0"`
}

type Optional struct {
	Name string `shaper:"name"`
	Nick string `shaper:"nick,exclude_if_false"`
}

type Address struct {
	StreetName string
}

type Contact struct {
	FirstName      string
	LastName       string `shaper:",alias=surname"`
	HomePhone      string `shaper:",rename=CONST_CASE"`
	MailingAddress Address
}

type Audit struct {
	CreatedBy string `shaper:"created_by"`
}

type Document struct {
	Audit
	Title string `shaper:"title"`
}

type Draft struct {
	*Audit
	Title string `shaper:"title"`
}

type Tally struct {
	Counts *container.DefaultMap[string, int] `shaper:"counts"`
}

type Open struct {
	Name  string         `shaper:"name"`
	Extra map[string]any `shaper:"extra,overflow"`
}

type Index struct {
	Words *container.DefaultMap[string, []int] `shaper:"words"`
}

func (Index) DeclareFields() []meta.Declaration {
	return []meta.Declaration{
		meta.Declare("Words").WithDefaultFactory(func() any {
			return container.NewDefaultMap[string, []int](func() []int { return []int{} })
		}),
	}
}

type Event struct {
	Name string    `shaper:"name"`
	At   time.Time `shaper:"at"`
}

func (Event) DeclareFields() []meta.Declaration {
	return []meta.Declaration{
		meta.Declare("At",
			meta.ConverterTo(func(v any) (any, error) {
				return v.(time.Time).Unix(), nil
			}),
			meta.ConverterFrom(func(v any) (any, error) {
				n, ok := v.(int64)
				if !ok {
					return nil, errors.New("timestamp must be int64")
				}
				return time.Unix(n, 0).UTC(), nil
			}),
		),
	}
}

type Range struct {
	Lo int `shaper:"lo"`
	Hi int `shaper:"hi"`
}

func (r Range) Validate() error {
	if r.Lo > r.Hi {
		return errors.New("lo exceeds hi")
	}

	return nil
}

type Point struct {
	X int `shaper:"x"`
	Y int `shaper:"y"`
}

func (Point) Frozen() {}

func (Point) RecordPolicy() policy.Policy {
	return policy.Policy{Shape: options.ShapeTuple}
}

type Link struct {
	Value int   `shaper:"value"`
	Next  *Link `shaper:"next"`
}

type Blob struct {
	data []byte
}

type Holder struct {
	Blob *Blob `shaper:"blob"`
}

type Clash struct {
	A string `shaper:"x"`
	B string `shaper:",alias=x"`
}

type Shadow struct {
	Audit
	CreatedBy string `shaper:"created_by"`
}

// toJSON renders an interchange value for comparisons.
func toJSON(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	return string(data)
}

// get reads key from an interchange map.
func get(v any, key string) any {
	m, ok := v.(*transform.Map)
	if !ok {
		return nil
	}

	value, _ := m.Get(key)
	return value
}
