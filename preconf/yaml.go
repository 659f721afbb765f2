package preconf

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"shaper/transform"
)

type yamlFormat struct{}

func (yamlFormat) Name() string { return "yaml" }

func (yamlFormat) Marshal(v any) ([]byte, error) {
	n, err := yamlNode(plain(v, false))
	if err != nil {
		return nil, err
	}

	return yaml.Marshal(n)
}

// Unmarshal keeps mapping key order. Scalar keys are read as text.
func (yamlFormat) Unmarshal(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return fromYAML(&doc)
}

func yamlNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *transform.Map:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for el := t.Oldest(); el != nil; el = el.Next() {
			value, err := yamlNode(el.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", el.Key, err)
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: el.Key}, value)
		}
		return n, nil

	case map[any]any:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, p := range entriesOf(t) {
			key, err := yamlNode(p.key)
			if err != nil {
				return nil, err
			}
			value, err := yamlNode(p.value)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", p.key, err)
			}
			n.Content = append(n.Content, key, value)
		}
		return n, nil

	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, elem := range t {
			value, err := yamlNode(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			n.Content = append(n.Content, value)
		}
		return n, nil
	}

	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}

	return n, nil
}

func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil

	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0])

	case yaml.AliasNode:
		return fromYAML(n.Alias)

	case yaml.MappingNode:
		m := transform.NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}

			value, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(key.Value, value)
		}
		return m, nil

	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, elem := range n.Content {
			value, err := fromYAML(elem)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		return list, nil

	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
}
