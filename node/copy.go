package node

import (
	"reflect"
)

// DeepCopy clones v through pointers, slices, arrays, maps, interfaces and
// exported struct fields. Unexported fields, funcs and channels are shared.
// The value graph must be acyclic.
func DeepCopy(v any) any {
	if v == nil {
		return nil
	}

	return deepCopy(reflect.ValueOf(v)).Interface()
}

func deepCopy(src reflect.Value) reflect.Value {
	switch src.Kind() {
	case reflect.Pointer:
		if src.IsNil() {
			return src
		}

		dst := reflect.New(src.Type().Elem())
		dst.Elem().Set(deepCopy(src.Elem()))

		return dst

	case reflect.Interface:
		if src.IsNil() {
			return src
		}

		dst := reflect.New(src.Type()).Elem()
		dst.Set(deepCopy(src.Elem()))

		return dst

	case reflect.Slice:
		if src.IsNil() {
			return src
		}

		dst := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
		for i := range src.Len() {
			dst.Index(i).Set(deepCopy(src.Index(i)))
		}

		return dst

	case reflect.Array:
		dst := reflect.New(src.Type()).Elem()
		for i := range src.Len() {
			dst.Index(i).Set(deepCopy(src.Index(i)))
		}

		return dst

	case reflect.Map:
		if src.IsNil() {
			return src
		}

		dst := reflect.MakeMapWithSize(src.Type(), src.Len())
		for iter := src.MapRange(); iter.Next(); {
			dst.SetMapIndex(deepCopy(iter.Key()), deepCopy(iter.Value()))
		}

		return dst

	case reflect.Struct:
		dst := reflect.New(src.Type()).Elem()
		dst.Set(src)

		for i := range src.NumField() {
			if src.Type().Field(i).IsExported() {
				dst.Field(i).Set(deepCopy(src.Field(i)))
			}
		}

		return dst

	default:
		return src
	}
}
