package meta

// ValueFunc converts a field value.
type ValueFunc func(any) (any, error)

// Same returns the value unchanged.
func Same(v any) (any, error) { return v, nil }

// ResolveConverterTo returns the converter applied to fd's value before encoding:
// the field converter, else scope, else Same.
func ResolveConverterTo(fd FieldDescriptor, scope ValueFunc) ValueFunc {
	return firstFunc(fd.Metadata.ConverterTo, scope)
}

// ResolveConverterFrom mirrors ResolveConverterTo for decoding.
func ResolveConverterFrom(fd FieldDescriptor, scope ValueFunc) ValueFunc {
	return firstFunc(fd.Metadata.ConverterFrom, scope)
}

func firstFunc(funcs ...ValueFunc) ValueFunc {
	for _, fn := range funcs {
		if fn != nil {
			return fn
		}
	}

	return Same
}
