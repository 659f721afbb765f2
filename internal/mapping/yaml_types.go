package mapping

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"shaper/internal/common"
)

// UnmarshalYAML accepts a scalar or a sequence of scalars. An empty scalar is an empty list.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var one string
		if err := node.Decode(&one); err != nil {
			return err
		}

		*s = StringOrArray{}
		if one != "" {
			*s = append(*s, one)
		}

	case yaml.SequenceNode:
		var many []string
		if err := node.Decode(&many); err != nil {
			return err
		}

		*s = many

	default:
		return fmt.Errorf("line %d: expected a name or a list of names", node.Line)
	}

	return nil
}

// MarshalYAML writes a single name as a scalar.
func (s StringOrArray) MarshalYAML() (any, error) {
	if s.IsSingle() {
		return s.First(), nil
	}

	return []string(s), nil
}

func (s StringOrArray) First() string {
	v, _ := common.First(s)
	return v
}

func (s StringOrArray) IsEmpty() bool    { return common.IsEmpty(s) }
func (s StringOrArray) IsSingle() bool   { return common.IsSingle(s) }
func (s StringOrArray) IsMultiple() bool { return common.IsMultiple(s) }

func (s StringOrArray) Contains(name string) bool {
	return slices.Contains(s, name)
}
