package transform

// Encode builds an engine from opts and encodes v with it.
func Encode(v any, opts ...Option) (any, error) {
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}

	return e.Encode(v)
}

// Decode builds an engine from opts and decodes in into a T with it.
func Decode[T any](in any, opts ...Option) (T, error) {
	e, err := New(opts...)
	if err != nil {
		var zero T
		return zero, err
	}

	return DecodeAs[T](e, in)
}
