package transform

import (
	"fmt"
	"reflect"
	"sync"

	"shaper/meta"
	"shaper/node"
)

// Hooks holds type-specific converters consulted before structural dispatch.
// Lookup is by exact type: a hook for Base never fires for a type embedding Base,
// and hooks on atomic types never fire at all.
type Hooks struct {
	mu       sync.RWMutex
	encoders map[reflect.Type]meta.ValueFunc
	decoders map[reflect.Type]meta.ValueFunc
}

func NewHooks() *Hooks {
	return &Hooks{
		encoders: make(map[reflect.Type]meta.ValueFunc),
		decoders: make(map[reflect.Type]meta.ValueFunc),
	}
}

// Encoder registers fn to replace values of rtype while encoding. fn is any function
// accepted by node.Adapt; its result is encoded again.
func (h *Hooks) Encoder(rtype reflect.Type, fn any) error {
	return h.register(h.encoders, "encode", rtype, fn)
}

// Decoder registers fn to build values of rtype while decoding. fn receives the raw
// interchange value and must return a value assignable to rtype.
func (h *Hooks) Decoder(rtype reflect.Type, fn any) error {
	return h.register(h.decoders, "decode", rtype, fn)
}

func (h *Hooks) register(table map[reflect.Type]meta.ValueFunc, direction string, rtype reflect.Type, fn any) error {
	adapted, err := node.Adapt(fn)
	if err != nil {
		return fmt.Errorf("%s hook for %s: %w", direction, node.TypeName(rtype), err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := table[rtype]; ok {
		return fmt.Errorf("%w: %s hook for %s", ErrHookExists, direction, node.TypeName(rtype))
	}

	table[rtype] = adapted
	return nil
}

func (h *Hooks) encoder(rtype reflect.Type) (meta.ValueFunc, bool) {
	return h.lookup(h.encoders, rtype)
}

func (h *Hooks) decoder(rtype reflect.Type) (meta.ValueFunc, bool) {
	return h.lookup(h.decoders, rtype)
}

func (h *Hooks) lookup(table map[reflect.Type]meta.ValueFunc, rtype reflect.Type) (meta.ValueFunc, bool) {
	if h == nil || rtype == nil {
		return nil, false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	fn, ok := table[rtype]
	return fn, ok
}

// EncodeHook registers a typed encode hook for T.
func EncodeHook[T any](h *Hooks, fn func(T) (any, error)) error {
	return h.Encoder(reflect.TypeFor[T](), fn)
}

// DecodeHook registers a typed decode hook for T.
func DecodeHook[T any](h *Hooks, fn func(any) (T, error)) error {
	return h.Decoder(reflect.TypeFor[T](), fn)
}
