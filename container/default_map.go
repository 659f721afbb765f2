// Package container provides mappings with default-factory semantics.
package container

import (
	"fmt"
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"shaper/node"
)

// DefaultMap is an insertion-ordered map that creates a value for every missing key
// read through Get. It is not safe for concurrent use.
type DefaultMap[K comparable, V any] struct {
	factory func() V
	pairs   *orderedmap.OrderedMap[K, V]
}

var _ node.FactoryMapping = (*DefaultMap[string, int])(nil)

// NewDefaultMap creates an empty map. A nil factory produces zero values.
func NewDefaultMap[K comparable, V any](factory func() V) *DefaultMap[K, V] {
	return &DefaultMap[K, V]{factory: factory, pairs: orderedmap.New[K, V]()}
}

// Get returns the value of key, storing a new one from the factory when missing.
func (m *DefaultMap[K, V]) Get(key K) V {
	if v, ok := m.Load(key); ok {
		return v
	}

	var v V
	if m.factory != nil {
		v = m.factory()
	}

	m.Set(key, v)

	return v
}

// Load returns the value of key without creating it.
func (m *DefaultMap[K, V]) Load(key K) (V, bool) {
	if m == nil || m.pairs == nil {
		var zero V
		return zero, false
	}

	return m.pairs.Get(key)
}

// Set stores value, keeping the position of a key already present.
func (m *DefaultMap[K, V]) Set(key K, value V) {
	if m.pairs == nil {
		m.pairs = orderedmap.New[K, V]()
	}

	m.pairs.Set(key, value)
}

func (m *DefaultMap[K, V]) Delete(key K) {
	if m.pairs != nil {
		m.pairs.Delete(key)
	}
}

func (m *DefaultMap[K, V]) Len() int {
	if m == nil || m.pairs == nil {
		return 0
	}

	return m.pairs.Len()
}

// Keys returns the keys in insertion order.
func (m *DefaultMap[K, V]) Keys() []K {
	if m.Len() == 0 {
		return nil
	}

	keys := make([]K, 0, m.pairs.Len())
	for el := m.pairs.Oldest(); el != nil; el = el.Next() {
		keys = append(keys, el.Key)
	}

	return keys
}

// Factory returns the function creating missing values.
func (m *DefaultMap[K, V]) Factory() func() V {
	if m == nil {
		return nil
	}

	return m.factory
}

// Empty implements node.FactoryMapping. A nil receiver yields a map without factory.
func (m *DefaultMap[K, V]) Empty() node.FactoryMapping {
	return NewDefaultMap[K, V](m.Factory())
}

// Range implements node.FactoryMapping.
func (m *DefaultMap[K, V]) Range(fn func(key, value any) bool) {
	if m.Len() == 0 {
		return
	}

	for el := m.pairs.Oldest(); el != nil; el = el.Next() {
		if !fn(el.Key, el.Value) {
			return
		}
	}
}

// Store implements node.FactoryMapping.
func (m *DefaultMap[K, V]) Store(key, value any) error {
	k, ok := key.(K)
	if !ok {
		return fmt.Errorf("%s key cannot be %s", node.TypeName(reflect.TypeOf(m)), node.TypeName(reflect.TypeOf(key)))
	}

	var v V
	if value != nil {
		if v, ok = value.(V); !ok {
			return fmt.Errorf("%s value cannot be %s", node.TypeName(reflect.TypeOf(m)), node.TypeName(reflect.TypeOf(value)))
		}
	}

	m.Set(k, v)

	return nil
}

func (m *DefaultMap[K, V]) KeyType() reflect.Type   { return reflect.TypeFor[K]() }
func (m *DefaultMap[K, V]) ValueType() reflect.Type { return reflect.TypeFor[V]() }
