package node

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"shaper/meta"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
	ErrCasterRejected       = errors.New("caster rejected the value")
	ErrCasterInput          = errors.New("value does not fit caster input")
)

type Caster struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseCaster recognizes a conversion function of one of the forms:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
func ParseCaster(fn any) (Caster, error) {
	fnVal := reflect.ValueOf(fn)
	if fn == nil || fnVal.Kind() != reflect.Func {
		return Caster{}, ErrCasterIsNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.IsVariadic() {
		return Caster{}, ErrIsNotACaster
	}

	hasBool, hasErr, ok := casterResults(fnType)
	if !ok {
		return Caster{}, ErrIsNotACaster
	}

	src, dst := fnType.In(0), fnType.Out(0)
	if isDoublePointer(src) || isDoublePointer(dst) {
		return Caster{}, ErrDoublePointer
	}

	alias, name := funcName(fnVal)

	return Caster{
		Src:          src,
		Dst:          dst,
		PackageAlias: alias,
		Name:         name,
		HasBool:      hasBool,
		HasErr:       hasErr,
		fn:           fnVal,
	}, nil
}

// casterResults reports which optional results follow the converted value.
func casterResults(fnType reflect.Type) (hasBool, hasErr, ok bool) {
	switch fnType.NumOut() {
	case 1:
		return false, false, true

	case 2:
		last := fnType.Out(1)
		hasBool, hasErr = last.Kind() == reflect.Bool, isError(last)
		return hasBool, hasErr, hasBool || hasErr

	case 3:
		ok = fnType.Out(1).Kind() == reflect.Bool && isError(fnType.Out(2))
		return ok, ok, ok

	default:
		return false, false, false
	}
}

func isDoublePointer(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Pointer
}

// funcName splits a runtime name like "example.com/conv.Itoa" into "conv" and "Itoa".
func funcName(fnVal reflect.Value) (alias, name string) {
	full := runtime.FuncForPC(fnVal.Pointer()).Name()
	full = full[strings.LastIndex(full, "/")+1:]

	alias, name, _ = strings.Cut(full, ".")

	return alias, name
}

// Call runs the caster on v. A false bool result fails with ErrCasterRejected.
func (c Caster) Call(v any) (any, error) {
	in, err := c.input(v)
	if err != nil {
		return nil, err
	}

	out := c.fn.Call([]reflect.Value{in})

	if c.HasErr {
		if err, _ := out[len(out)-1].Interface().(error); err != nil {
			return nil, err
		}
	}

	if c.HasBool && !out[1].Bool() {
		return nil, fmt.Errorf("%w: %s(%v)", ErrCasterRejected, c.Name, v)
	}

	return out[0].Interface(), nil
}

func (c Caster) input(v any) (reflect.Value, error) {
	if v == nil {
		switch c.Src.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return reflect.Zero(c.Src), nil
		}

		return reflect.Value{}, fmt.Errorf("%w: %s does not accept nil", ErrCasterInput, c.Name)
	}

	in := reflect.ValueOf(v)
	if !in.Type().AssignableTo(c.Src) {
		return reflect.Value{}, fmt.Errorf("%w: %s takes %s, got %s", ErrCasterInput, c.Name, TypeName(c.Src), TypeName(in.Type()))
	}

	return in, nil
}

// Adapt turns any caster function into a meta.ValueFunc.
// func(any) (any, error) and meta.ValueFunc are returned as they are.
func Adapt(fn any) (meta.ValueFunc, error) {
	switch fn := fn.(type) {
	case meta.ValueFunc:
		return fn, nil
	case func(any) (any, error):
		return fn, nil
	}

	caster, err := ParseCaster(fn)
	if err != nil {
		return nil, err
	}

	return caster.Call, nil
}

// MustAdapt is like Adapt but panics on error.
func MustAdapt(fn any) meta.ValueFunc {
	adapted, err := Adapt(fn)
	if err != nil {
		panic(err)
	}

	return adapted
}
