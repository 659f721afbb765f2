package transform

import (
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"shaper/meta"
	"shaper/node"
	"shaper/options"
)

func (e *Engine) encode(v any, sc scope, depth int) (any, error) {
	if depth > e.maxDepth {
		return nil, &DepthExceededError{Limit: e.maxDepth}
	}

	if node.IsAtomic(v) {
		return v, nil
	}

	rtype := reflect.TypeOf(v)
	if hook, ok := e.hooks.encoder(rtype); ok {
		out, err := hook(v)
		if err != nil {
			return nil, err
		}
		return e.encode(out, sc, depth+1)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil
	}

	switch node.ClassifyType(rtype) {
	case node.VariantNamedSequence:
		return e.encodeNamedSequence(v.(node.NamedSequence), sc, depth)

	case node.VariantMapping:
		switch m := v.(type) {
		case node.FactoryMapping:
			return e.encodeFactoryMapping(m, sc, depth)
		case *Map:
			return e.encodeMap(m, sc, depth)
		}
		if rv.Kind() == reflect.Pointer {
			return e.encode(rv.Elem().Interface(), sc, depth+1)
		}
		return e.encodeGoMap(deref(rv), sc, depth)

	case node.VariantRecord:
		return e.encodeRecord(deref(rv), sc, depth)

	case node.VariantSequence:
		return e.encodeSequence(deref(rv), sc, depth)

	case node.VariantAtomic:
		// pointer to an atomic value
		return e.encode(deref(rv).Interface(), sc, depth+1)
	}

	if e.copy == options.CopyShallow {
		return v, nil
	}

	return node.DeepCopy(v), nil
}

func deref(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}

	return rv
}

func (e *Engine) encodeRecord(rv reflect.Value, parent scope, depth int) (any, error) {
	rtype := rv.Type()

	fields, err := node.Fields(rtype)
	if err != nil {
		return nil, err
	}

	sc, err := e.recordScope(rtype, parent)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("encode record",
		zap.Stringer("type", rtype),
		zap.Stringer("shape", sc.shape),
		zap.Int("depth", depth))

	if sc.shape != options.ShapeMap {
		return e.encodeRecordTuple(rv, fields, sc, depth)
	}

	out := NewMap()
	emitted := make(map[string]string, len(fields))

	set := func(key, field string, value any) error {
		if _, ok := emitted[key]; ok {
			return &KeyCollisionError{Type: rtype, Key: key, Field: field}
		}
		emitted[key] = field
		out.Set(key, value)
		return nil
	}

	var overflow *meta.FieldDescriptor

	for i, fd := range fields {
		raw := rv.FieldByIndex(fd.Index).Interface()

		keep, err := meta.ResolveFilter(fd, sc.filter)
		if err != nil {
			return nil, err
		}
		if !keep(fd, raw) {
			continue
		}

		if fd.Metadata.Overflow {
			overflow = &fields[i]
			continue
		}

		value, err := e.encodeField(fd, raw, sc, depth)
		if err != nil {
			return nil, at(fieldSegment(fd.Name), err)
		}

		if nested, ok := value.(*Map); ok && fd.Metadata.Flatten {
			for el := nested.Oldest(); el != nil; el = el.Next() {
				if err := set(el.Key, fd.Name+"."+el.Key, el.Value); err != nil {
					return nil, err
				}
			}
			continue
		}

		if fd.Metadata.Flatten && value == nil {
			continue
		}

		key, err := meta.Key(fd, sc.key, e.casings)
		if err != nil {
			return nil, at(fieldSegment(fd.Name), err)
		}

		if err := set(key, fd.Name, value); err != nil {
			return nil, err
		}
	}

	if overflow != nil {
		bag, _ := rv.FieldByIndex(overflow.Index).Interface().(map[string]any)

		keys := make([]string, 0, len(bag))
		for key := range bag {
			keys = append(keys, key)
		}
		slices.Sort(keys)

		for _, key := range keys {
			value, err := e.encode(bag[key], sc, depth+1)
			if err != nil {
				return nil, at(fieldSegment(overflow.Name)+keySegment(key), err)
			}

			if err := set(key, overflow.Name+"["+key+"]", value); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

func (e *Engine) encodeRecordTuple(rv reflect.Value, fields []meta.FieldDescriptor, sc scope, depth int) (any, error) {
	out := make([]any, 0, len(fields))

	for _, fd := range fields {
		// overflow keys have no position
		if fd.Metadata.Overflow {
			continue
		}

		raw := rv.FieldByIndex(fd.Index).Interface()

		keep, err := meta.ResolveFilter(fd, sc.filter)
		if err != nil {
			return nil, err
		}
		if !keep(fd, raw) {
			continue
		}

		value, err := e.encodeField(fd, raw, sc, depth)
		if err != nil {
			return nil, at(fieldSegment(fd.Name), err)
		}

		out = append(out, value)
	}

	return out, nil
}

func (e *Engine) encodeField(fd meta.FieldDescriptor, raw any, sc scope, depth int) (any, error) {
	value, err := meta.ResolveConverterTo(fd, sc.valueTo)(raw)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", fd.Name, err)
	}

	return e.encode(value, sc, depth+1)
}

// encodeSequence rebuilds a slice or array with the same type when every encoded
// element still fits it, else as []any.
func (e *Engine) encodeSequence(rv reflect.Value, sc scope, depth int) (any, error) {
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return rv.Interface(), nil
	}

	elems := make([]any, rv.Len())
	sameType := true
	elemType := rv.Type().Elem()

	for i := range elems {
		value, err := e.encode(rv.Index(i).Interface(), sc, depth+1)
		if err != nil {
			return nil, at(indexSegment(i), err)
		}
		elems[i] = value

		if _, ok := fit(value, elemType); !ok {
			sameType = false
		}
	}

	if !sameType || rv.Type() == reflect.TypeFor[[]any]() {
		return elems, nil
	}

	var out reflect.Value
	if rv.Kind() == reflect.Array {
		out = reflect.New(rv.Type()).Elem()
	} else {
		out = reflect.MakeSlice(rv.Type(), len(elems), len(elems))
	}

	for i, value := range elems {
		fitted, _ := fit(value, elemType)
		out.Index(i).Set(fitted)
	}

	return out.Interface(), nil
}

func (e *Engine) encodeNamedSequence(ns node.NamedSequence, sc scope, depth int) (any, error) {
	elems := ns.Elems()
	encoded := make([]any, len(elems))

	for i, elem := range elems {
		value, err := e.encode(elem, sc, depth+1)
		if err != nil {
			return nil, at(indexSegment(i), err)
		}
		encoded[i] = value
	}

	out, err := ns.WithElems(encoded)
	if err != nil {
		e.logger.Debug("named sequence rebuilt as plain sequence",
			zap.Stringer("type", reflect.TypeOf(ns)),
			zap.Error(err))
		return encoded, nil
	}

	return out, nil
}

// encodePairs encodes every key and value of a mapping.
func (e *Engine) encodePairs(pairs []pair, sc scope, depth int) ([]pair, error) {
	out := make([]pair, len(pairs))

	for i, p := range pairs {
		key, err := e.encode(p.key, sc, depth+1)
		if err != nil {
			return nil, at(keySegment(p.key), err)
		}

		value, err := e.encode(p.value, sc, depth+1)
		if err != nil {
			return nil, at(keySegment(p.key), err)
		}

		out[i] = pair{key, value}
	}

	return out, nil
}

func (e *Engine) encodeMap(m *Map, sc scope, depth int) (any, error) {
	pairs, _ := pairsOf(m)

	encoded, err := e.encodePairs(pairs, sc, depth)
	if err != nil {
		return nil, err
	}

	if sc.shape == options.ShapeTree {
		return treePairs(encoded), nil
	}

	out := NewMap()
	for _, p := range encoded {
		out.Set(p.key.(string), p.value)
	}

	return out, nil
}

func (e *Engine) encodeGoMap(rv reflect.Value, sc scope, depth int) (any, error) {
	if rv.IsNil() && sc.shape != options.ShapeTree {
		return rv.Interface(), nil
	}

	pairs, _ := pairsOf(rv.Interface())

	encoded, err := e.encodePairs(pairs, sc, depth)
	if err != nil {
		return nil, err
	}

	if sc.shape == options.ShapeTree {
		return treePairs(encoded), nil
	}

	keyType, valueType := rv.Type().Key(), rv.Type().Elem()

	out := reflect.MakeMapWithSize(rv.Type(), len(encoded))
	for _, p := range encoded {
		key, okKey := fit(p.key, keyType)
		value, okValue := fit(p.value, valueType)
		if !okKey || !okValue {
			return plainMapping(encoded)
		}
		out.SetMapIndex(key, value)
	}

	return out.Interface(), nil
}

func (e *Engine) encodeFactoryMapping(m node.FactoryMapping, sc scope, depth int) (any, error) {
	pairs, _ := pairsOf(m)

	encoded, err := e.encodePairs(pairs, sc, depth)
	if err != nil {
		return nil, err
	}

	if sc.shape == options.ShapeTree {
		return treePairs(encoded), nil
	}

	out := m.Empty()
	for _, p := range encoded {
		if err := out.Store(p.key, p.value); err != nil {
			e.logger.Debug("factory mapping rebuilt as plain mapping",
				zap.Stringer("type", reflect.TypeOf(m)),
				zap.Error(err))
			return plainMapping(encoded)
		}
	}

	return out, nil
}
