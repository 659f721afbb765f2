package meta

import (
	"reflect"
)

// Filter reports whether a field holding value is kept.
type Filter func(fd FieldDescriptor, value any) bool

// Keep keeps every field.
func Keep(FieldDescriptor, any) bool { return true }

// Drop drops every field.
func Drop(FieldDescriptor, any) bool { return false }

// KeepNonDefault keeps fields without a default and fields differing from their default.
func KeepNonDefault(fd FieldDescriptor, value any) bool {
	if !fd.HasDefault {
		return true
	}

	return !reflect.DeepEqual(value, fd.Default)
}

// KeepTruthy keeps fields whose value is truthy.
func KeepTruthy(_ FieldDescriptor, value any) bool {
	return Truthy(value)
}

// ResolveFilter returns the single filter deciding whether fd is emitted.
// The first of these wins: no control set (scope, else Keep), exclude, exclude_if,
// exclude_if_default, exclude_if_false; a control set to false keeps the field.
func ResolveFilter(fd FieldDescriptor, scope Filter) (Filter, error) {
	md := fd.Metadata

	switch {
	case !md.HasFilter():
		if scope != nil {
			return scope, nil
		}
		return Keep, nil

	case md.IsExcluded():
		return Drop, nil

	case md.ExcludeIf != nil:
		return md.ExcludeIf, nil

	case md.ExcludeIfDefault != nil && *md.ExcludeIfDefault:
		if fd.DefaultFactory != nil || isFunc(fd.Default) {
			return nil, &ConfigConflictError{
				Field:  fd.Name,
				Reason: "exclude_if_default does not support default factories",
			}
		}
		return KeepNonDefault, nil

	case md.ExcludeIfFalse != nil && *md.ExcludeIfFalse:
		return KeepTruthy, nil

	default:
		return Keep, nil
	}
}

func isFunc(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

// Truthy reports whether v counts as true: nil, false, numeric zero,
// empty strings and containers are false, structs are true.
func Truthy(v any) bool {
	if v == nil {
		return false
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex() != 0
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.UnsafePointer:
		return !rv.IsNil()
	default:
		return true
	}
}
