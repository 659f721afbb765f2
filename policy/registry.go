package policy

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"shaper/node"
)

var (
	ErrFrozenRecord = errors.New("cannot attach a policy to a frozen record type")
	ErrNotARecord   = node.ErrNotARecord
)

// FrozenRecordError names the frozen type a policy was attached to.
type FrozenRecordError struct {
	Type reflect.Type
}

func (e *FrozenRecordError) Error() string {
	return fmt.Sprintf("%s %s, declare it with a RecordPolicy method instead", ErrFrozenRecord, node.TypeName(e.Type))
}

func (e *FrozenRecordError) Unwrap() error {
	return ErrFrozenRecord
}

var providerType = reflect.TypeFor[Provider]()

// Registry is a side table of policies keyed by record type.
// Lookups run concurrently, attachments are serialized.
type Registry struct {
	mu       sync.RWMutex
	policies map[reflect.Type]Policy
}

func NewRegistry() *Registry {
	return &Registry{policies: make(map[reflect.Type]Policy)}
}

// Attach registers p for rtype, pointers are followed. Attaching again replaces the
// previous policy with the same effect as the first attachment.
// Descriptors of rtype and the records it reaches are built and checked up front.
func (r *Registry) Attach(rtype reflect.Type, p Policy) error {
	rtype = node.Indirect(rtype)
	if rtype == nil || node.ClassifyType(rtype) != node.VariantRecord {
		return fmt.Errorf("attach policy: %w: %s", ErrNotARecord, node.TypeName(rtype))
	}

	if node.IsFrozen(rtype) {
		return &FrozenRecordError{Type: rtype}
	}

	if err := p.Validate(); err != nil {
		return fmt.Errorf("attach policy to %s: %w", node.TypeName(rtype), err)
	}

	if _, err := node.Reachable(rtype); err != nil {
		return fmt.Errorf("attach policy to %s: %w", node.TypeName(rtype), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.policies[rtype] = p

	return nil
}

// MustAttach is like Attach but panics on error.
func (r *Registry) MustAttach(rtype reflect.Type, p Policy) {
	if err := r.Attach(rtype, p); err != nil {
		panic(err)
	}
}

// Get returns the policy of rtype: the attached one, else the one the type provides.
func (r *Registry) Get(rtype reflect.Type) (Policy, bool) {
	rtype = node.Indirect(rtype)
	if rtype == nil {
		return Policy{}, false
	}

	r.mu.RLock()
	p, ok := r.policies[rtype]
	r.mu.RUnlock()

	if ok {
		return p, true
	}

	return provided(rtype)
}

func provided(rtype reflect.Type) (Policy, bool) {
	switch {
	case rtype.Implements(providerType):
		return reflect.Zero(rtype).Interface().(Provider).RecordPolicy(), true
	case reflect.PointerTo(rtype).Implements(providerType):
		return reflect.New(rtype).Interface().(Provider).RecordPolicy(), true
	default:
		return Policy{}, false
	}
}

// Types lists the types with an attached policy.
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]reflect.Type, 0, len(r.policies))
	for rtype := range r.policies {
		types = append(types, rtype)
	}

	return types
}

// Default is the process-wide registry, empty at startup.
var Default = NewRegistry()

// Attach registers p for the record type T in the Default registry.
func Attach[T any](p Policy) error {
	return Default.Attach(reflect.TypeFor[T](), p)
}

// MustAttach is like Attach but panics on error.
func MustAttach[T any](p Policy) {
	Default.MustAttach(reflect.TypeFor[T](), p)
}

// Get looks the record type T up in the Default registry.
func Get[T any]() (Policy, bool) {
	return Default.Get(reflect.TypeFor[T]())
}
