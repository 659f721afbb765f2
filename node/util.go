package node

import (
	"reflect"
)

// TypeName renders rtype for messages.
func TypeName(rtype reflect.Type) string {
	if rtype == nil {
		return "nil"
	}

	return rtype.String()
}

// Indirect follows pointers down to the first non-pointer type.
func Indirect(rtype reflect.Type) reflect.Type {
	_, base := ptrDepthAndBase(rtype)
	return base
}

// ptrDepthAndBase returns the pointer depth and the final base type.
func ptrDepthAndBase(t reflect.Type) (depth int, base reflect.Type) {
	depth, base = 0, t
	for base != nil && base.Kind() == reflect.Pointer {
		depth++
		base = base.Elem()
	}

	return
}

var errorType = reflect.TypeFor[error]()

func isError(t reflect.Type) bool {
	return t != nil && t.Implements(errorType)
}
