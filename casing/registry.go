package casing

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"shaper/internal/diagnostic"
	"shaper/internal/match"
)

var (
	ErrUnknownConvention = errors.New("unknown case convention")
	ErrConventionExists  = errors.New("case convention is already registered")
)

// UnknownConventionError names a convention missing from a Registry.
type UnknownConventionError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownConventionError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%s: %q", ErrUnknownConvention, e.Name)
	}

	return fmt.Sprintf("%s: %q (did you mean %s?)", ErrUnknownConvention, e.Name, diagnostic.Quote(e.Suggestions))
}

func (e *UnknownConventionError) Unwrap() error {
	return ErrUnknownConvention
}

// Registry maps convention names to converters.
// Lookups may run concurrently with each other and with registrations.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry creates a registry holding every builtin convention.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}

	for _, b := range builtins {
		for _, name := range b.names {
			r.funcs[name] = b.fn
		}
	}

	return r
}

var builtins = []struct {
	fn    Func
	names []string
}{
	{LowerCase, []string{Lowercase}},
	{UpperCase, []string{Uppercase, "uppercase", "upper"}},
	{CapitalizeCase, []string{Capitalize, "capitalize"}},
	{PascalCase, []string{Pascal}},
	{CamelCase, []string{Camel}},
	{SnakeCase, []string{Snake}},
	{ConstCase, []string{Const}},
	{AdaCase, []string{Ada}},
	{KebabCase, []string{Kebab}},
	{CobolCase, []string{Cobol}},
	{TrainCase, []string{Train}},
}

// Register adds fn under name. Builtin and earlier registrations are never replaced.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" || fn == nil {
		return fmt.Errorf("register case convention %q: name and func are required", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.funcs[name]; exists {
		return fmt.Errorf("%w: %q", ErrConventionExists, name)
	}

	r.funcs[name] = fn

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, fn Func) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the converter registered under name.
// A missing name fails with *UnknownConventionError carrying the closest known names.
func (r *Registry) Lookup(name string) (Func, error) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()

	if ok {
		return fn, nil
	}

	return nil, &UnknownConventionError{
		Name:        name,
		Suggestions: match.Suggest(name, r.Conventions(), 3),
	}
}

// Conventions returns all registered names in sorted order.
func (r *Registry) Conventions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Default is the process-wide registry used when no other is configured.
var Default = NewRegistry()

// Lookup resolves name in the Default registry.
func Lookup(name string) (Func, error) {
	return Default.Lookup(name)
}

// Register adds a convention to the Default registry.
func Register(name string, fn Func) error {
	return Default.Register(name, fn)
}

// Conventions lists the conventions of the Default registry.
func Conventions() []string {
	return Default.Conventions()
}
