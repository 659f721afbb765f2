package transform

import (
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"shaper/internal/match"
	"shaper/meta"
	"shaper/node"
	"shaper/options"
	"shaper/primitive"
)

var (
	namedSequenceType  = reflect.TypeFor[node.NamedSequence]()
	factoryMappingType = reflect.TypeFor[node.FactoryMapping]()
)

// structural reports whether rtype itself, not the value it points to, carries
// a structural protocol.
func structural(rtype reflect.Type) bool {
	return rtype == mapType || rtype.Implements(namedSequenceType) || rtype.Implements(factoryMappingType)
}

// decode rebuilds a value of rtype from in. A factory mapping takes its factory
// from in when in has type rtype, else from seed when seed does.
func (e *Engine) decode(in any, rtype reflect.Type, sc scope, seed any, depth int) (reflect.Value, error) {
	if depth > e.maxDepth {
		return reflect.Value{}, &DepthExceededError{Limit: e.maxDepth}
	}

	if hook, ok := e.hooks.decoder(rtype); ok {
		out, err := hook(in)
		if err != nil {
			return reflect.Value{}, err
		}

		rv, ok := fit(out, rtype)
		if !ok {
			return reflect.Value{}, &TypeMismatchError{Want: rtype, Got: reflect.TypeOf(out), Err: errHookResult}
		}
		return rv, nil
	}

	if in == nil {
		if zero, ok := fit(nil, rtype); ok {
			return zero, nil
		}
	}

	switch {
	case rtype.Kind() == reflect.Interface:
		rv, ok := fit(in, rtype)
		if !ok {
			return reflect.Value{}, &TypeMismatchError{Want: rtype, Got: reflect.TypeOf(in)}
		}
		out := reflect.New(rtype).Elem()
		out.Set(rv)
		return out, nil

	case rtype.Kind() == reflect.Pointer && (!structural(rtype) || structural(rtype.Elem())):
		elem, err := e.decode(in, rtype.Elem(), sc, seed, depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(rtype.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil

	case rtype == mapType:
		return e.decodeInterchangeMap(in, sc, depth)

	case rtype.Implements(namedSequenceType):
		return e.decodeNamedSequence(in, rtype, sc, depth)

	case rtype.Implements(factoryMappingType):
		return e.decodeFactoryMapping(in, rtype, sc, seed, depth)
	}

	switch node.ClassifyType(rtype) {
	case node.VariantAtomic:
		return e.decodeScalar(in, rtype)
	case node.VariantRecord:
		return e.decodeRecord(in, rtype, sc, depth)
	case node.VariantSequence:
		return e.decodeSequence(in, rtype, sc, depth)
	case node.VariantMapping:
		return e.decodeGoMap(in, rtype, sc, depth)
	}

	if primitive.FromReflectType(rtype) != 0 {
		return e.decodeScalar(in, rtype)
	}

	if rv, ok := fit(in, rtype); ok {
		return rv, nil
	}

	return reflect.Value{}, &TypeMismatchError{Want: rtype, Got: reflect.TypeOf(in)}
}

func (e *Engine) decodeScalar(in any, rtype reflect.Type) (reflect.Value, error) {
	rv, err := primitive.Convert(in, rtype, e.categories)
	if err != nil {
		return reflect.Value{}, &TypeMismatchError{Want: rtype, Got: reflect.TypeOf(in), Err: err}
	}

	return rv, nil
}

// prototype returns a usable value of rtype to call protocol methods on.
func prototype(rtype reflect.Type) any {
	if rtype.Kind() == reflect.Pointer {
		return reflect.New(rtype.Elem()).Interface()
	}

	return reflect.Zero(rtype).Interface()
}

func (e *Engine) decodeNamedSequence(in any, rtype reflect.Type, sc scope, depth int) (reflect.Value, error) {
	proto := prototype(rtype).(node.NamedSequence)

	elems, ok := elemsOf(in)
	if !ok {
		return reflect.Value{}, &TypeMismatchError{Want: rtype, Got: reflect.TypeOf(in)}
	}

	types := proto.ElemTypes()
	if len(elems) != len(types) {
		return reflect.Value{}, &ArityError{Type: rtype, Expected: len(types), Got: len(elems)}
	}

	slots := make([]any, len(elems))
	for i, elem := range elems {
		rv, err := e.decode(elem, types[i], sc, nil, depth+1)
		if err != nil {
			return reflect.Value{}, at(indexSegment(i), err)
		}
		slots[i] = rv.Interface()
	}

	out, err := proto.WithElems(slots)
	if err != nil {
		return reflect.Value{}, &TypeMismatchError{Want: rtype, Got: reflect.TypeOf(in), Err: err}
	}

	rv, ok := fit(out, rtype)
	if !ok {
		return reflect.Value{}, &TypeMismatchError{Want: rtype, Got: reflect.TypeOf(out)}
	}

	return rv, nil
}

func (e *Engine) decodeFactoryMapping(in any, rtype reflect.Type, sc scope, seed any, depth int) (reflect.Value, error) {
	// an input of the same type carries its own factory
	var out node.FactoryMapping
	if m, ok := in.(node.FactoryMapping); ok && reflect.TypeOf(m) == rtype {
		out = m.Empty()
	} else if s, ok := seed.(node.FactoryMapping); ok && reflect.TypeOf(s) == rtype {
		out = s.Empty()
	} else {
		out = prototype(rtype).(node.FactoryMapping).Empty()
	}

	pairs, ok := pairsOf(in)
	if !ok {
		return reflect.Value{}, &TypeMismatchError{Want: rtype, Got: reflect.TypeOf(in)}
	}

	for _, p := range pairs {
		key, err := e.decodeKey(p.key, out.KeyType(), sc, depth)
		if err != nil {
			return reflect.Value{}, at(keySegment(p.key), err)
		}

		value, err := e.decode(p.value, out.ValueType(), sc, nil, depth+1)
		if err != nil {
			return reflect.Value{}, at(keySegment(p.key), err)
		}

		if err := out.Store(key.Interface(), value.Interface()); err != nil {
			return reflect.Value{}, at(keySegment(p.key), err)
		}
	}

	rv, ok := fit(out, rtype)
	if !ok {
		return reflect.Value{}, &TypeMismatchError{Want: rtype, Got: reflect.TypeOf(out)}
	}

	return rv, nil
}

func (e *Engine) decodeInterchangeMap(in any, sc scope, depth int) (reflect.Value, error) {
	pairs, ok := pairsOf(in)
	if !ok {
		return reflect.Value{}, &TypeMismatchError{Want: mapType, Got: reflect.TypeOf(in)}
	}

	out := NewMap()
	for _, p := range pairs {
		key, err := e.decodeKey(p.key, reflect.TypeFor[string](), sc, depth)
		if err != nil {
			return reflect.Value{}, at(keySegment(p.key), err)
		}

		value, err := e.decode(p.value, anyType, sc, nil, depth+1)
		if err != nil {
			return reflect.Value{}, at(keySegment(p.key), err)
		}

		out.Set(key.String(), value.Interface())
	}

	return reflect.ValueOf(out), nil
}

func (e *Engine) decodeGoMap(in any, rtype reflect.Type, sc scope, depth int) (reflect.Value, error) {
	pairs, ok := pairsOf(in)
	if !ok {
		return reflect.Value{}, &TypeMismatchError{Want: rtype, Got: reflect.TypeOf(in)}
	}

	out := reflect.MakeMapWithSize(rtype, len(pairs))
	for _, p := range pairs {
		key, err := e.decodeKey(p.key, rtype.Key(), sc, depth)
		if err != nil {
			return reflect.Value{}, at(keySegment(p.key), err)
		}

		value, err := e.decode(p.value, rtype.Elem(), sc, nil, depth+1)
		if err != nil {
			return reflect.Value{}, at(keySegment(p.key), err)
		}

		out.SetMapIndex(key, value)
	}

	return out, nil
}

// decodeKey also accepts textual numbers, as text formats only carry string keys.
func (e *Engine) decodeKey(in any, rtype reflect.Type, sc scope, depth int) (reflect.Value, error) {
	if s, ok := in.(string); ok && primitive.BaseKind(rtype).IsNumber() {
		rv, err := primitive.Convert(s, rtype, e.categories|primitive.CategoryTextNumber)
		if err != nil {
			return reflect.Value{}, &TypeMismatchError{Want: rtype, Got: reflect.TypeOf(in), Err: err}
		}
		return rv, nil
	}

	return e.decode(in, rtype, sc, nil, depth+1)
}

func (e *Engine) decodeSequence(in any, rtype reflect.Type, sc scope, depth int) (reflect.Value, error) {
	elems, ok := elemsOf(in)
	if !ok {
		return reflect.Value{}, &TypeMismatchError{Want: rtype, Got: reflect.TypeOf(in)}
	}

	var out reflect.Value
	if rtype.Kind() == reflect.Array {
		if len(elems) != rtype.Len() {
			return reflect.Value{}, &ArityError{Type: rtype, Expected: rtype.Len(), Got: len(elems)}
		}
		out = reflect.New(rtype).Elem()
	} else {
		out = reflect.MakeSlice(rtype, len(elems), len(elems))
	}

	for i, elem := range elems {
		rv, err := e.decode(elem, rtype.Elem(), sc, nil, depth+1)
		if err != nil {
			return reflect.Value{}, at(indexSegment(i), err)
		}
		out.Index(i).Set(rv)
	}

	return out, nil
}

// recordInput is a keyed input consumed field by field, possibly by several
// records when fields are flattened.
type recordInput struct {
	keys     []string
	values   map[string]any
	consumed map[string]bool
	declared []string
}

func newRecordInput(pairs []pair) *recordInput {
	input := &recordInput{
		keys:     make([]string, 0, len(pairs)),
		values:   make(map[string]any, len(pairs)),
		consumed: make(map[string]bool, len(pairs)),
	}

	for _, p := range pairs {
		var key string
		if rv := reflect.ValueOf(p.key); rv.Kind() == reflect.String {
			key = rv.String()
		} else {
			key = fmt.Sprint(p.key)
		}

		if _, ok := input.values[key]; !ok {
			input.keys = append(input.keys, key)
		}
		input.values[key] = p.value
	}

	return input
}

// take consumes key on behalf of a field, failing when another field already claimed it.
func (r *recordInput) take(key string) (any, bool, bool) {
	if slices.Contains(r.declared, key) {
		return nil, false, false
	}
	r.declared = append(r.declared, key)

	value, ok := r.values[key]
	if ok {
		r.consumed[key] = true
	}

	return value, ok, true
}

func (r *recordInput) unknown() []string {
	var keys []string
	for _, key := range r.keys {
		if !r.consumed[key] {
			keys = append(keys, key)
		}
	}

	return keys
}

func (e *Engine) decodeRecord(in any, rtype reflect.Type, parent scope, depth int) (reflect.Value, error) {
	fields, err := node.Fields(rtype)
	if err != nil {
		return reflect.Value{}, err
	}

	sc, err := e.recordScope(rtype, parent)
	if err != nil {
		return reflect.Value{}, err
	}

	e.logger.Debug("decode record",
		zap.Stringer("type", rtype),
		zap.Stringer("shape", sc.shape),
		zap.Int("depth", depth))

	out := reflect.New(rtype).Elem()

	if sc.shape == options.ShapeMap {
		pairs, ok := pairsOf(in)
		if !ok {
			return reflect.Value{}, &TypeMismatchError{Want: rtype, Got: reflect.TypeOf(in)}
		}

		input := newRecordInput(pairs)

		overflow, err := e.fillRecord(out, fields, input, sc, depth)
		if err != nil {
			return reflect.Value{}, err
		}

		if err := e.unknownFields(out, overflow, input, sc); err != nil {
			return reflect.Value{}, err
		}
	} else {
		if err := e.fillRecordTuple(out, fields, in, sc, depth); err != nil {
			return reflect.Value{}, err
		}
	}

	if err := validate(out); err != nil {
		return reflect.Value{}, err
	}

	return out, nil
}

// fillRecord sets the fields of out from input and returns the overflow field, if any.
func (e *Engine) fillRecord(out reflect.Value, fields []meta.FieldDescriptor, input *recordInput, sc scope, depth int) (*meta.FieldDescriptor, error) {
	var overflow *meta.FieldDescriptor

	for i, fd := range fields {
		target := out.FieldByIndex(fd.Index)

		switch {
		case fd.Metadata.Overflow:
			overflow = &fields[i]
			continue

		case fd.Metadata.IsExcluded():
			if err := setDefault(target, fd); err != nil {
				return nil, at(fieldSegment(fd.Name), err)
			}
			continue

		case fd.Metadata.Flatten && node.ClassifyType(fd.Type) == node.VariantRecord:
			if err := e.fillFlattened(target, fd, input, sc, depth); err != nil {
				return nil, at(fieldSegment(fd.Name), err)
			}
			continue
		}

		key, err := meta.Key(fd, sc.key, e.casings)
		if err != nil {
			return nil, at(fieldSegment(fd.Name), err)
		}

		raw, ok, claimed := input.take(key)
		if !claimed {
			return nil, &KeyCollisionError{Type: out.Type(), Key: key, Field: fd.Name}
		}
		if !ok {
			if err := e.absent(target, fd, key, out.Type()); err != nil {
				return nil, err
			}
			continue
		}

		if err := e.decodeField(target, fd, raw, sc, depth); err != nil {
			return nil, err
		}
	}

	return overflow, nil
}

// fillFlattened decodes a flattened record from the keys of its parent's input.
func (e *Engine) fillFlattened(target reflect.Value, fd meta.FieldDescriptor, input *recordInput, parent scope, depth int) error {
	rtype := node.Indirect(fd.Type)

	fields, err := node.Fields(rtype)
	if err != nil {
		return err
	}

	sc, err := e.recordScope(rtype, parent)
	if err != nil {
		return err
	}

	// a nil pointer is encoded as no keys at all
	if fd.Type.Kind() == reflect.Pointer {
		present, err := e.anyKeyPresent(fields, input, sc)
		if err != nil || !present {
			return err
		}
	}

	nested := reflect.New(rtype).Elem()
	if _, err := e.fillRecord(nested, fields, input, sc, depth+1); err != nil {
		return err
	}

	if err := validate(nested); err != nil {
		return err
	}

	for rtype != target.Type() {
		ptr := reflect.New(nested.Type())
		ptr.Elem().Set(nested)
		nested = ptr
		rtype = ptr.Type()
	}

	target.Set(nested)
	return nil
}

// anyKeyPresent reports whether input holds a key of any of fields, looking
// through flattened records.
func (e *Engine) anyKeyPresent(fields []meta.FieldDescriptor, input *recordInput, sc scope) (bool, error) {
	for _, fd := range fields {
		switch {
		case fd.Metadata.Overflow, fd.Metadata.IsExcluded():
			continue

		case fd.Metadata.Flatten && node.ClassifyType(fd.Type) == node.VariantRecord:
			rtype := node.Indirect(fd.Type)

			nested, err := node.Fields(rtype)
			if err != nil {
				return false, err
			}

			nestedScope, err := e.recordScope(rtype, sc)
			if err != nil {
				return false, err
			}

			if present, err := e.anyKeyPresent(nested, input, nestedScope); present || err != nil {
				return present, err
			}
			continue
		}

		key, err := meta.Key(fd, sc.key, e.casings)
		if err != nil {
			return false, err
		}

		if _, ok := input.values[key]; ok {
			return true, nil
		}
	}

	return false, nil
}

// absent fills a field missing from the input: default, else zero when the field's
// own exclusion control may drop it on encode, else MissingFieldError.
// Record and call filters never relax the check.
func (e *Engine) absent(target reflect.Value, fd meta.FieldDescriptor, key string, rtype reflect.Type) error {
	switch {
	case fd.HasDefault || fd.DefaultFactory != nil:
		if err := setDefault(target, fd); err != nil {
			return at(fieldSegment(fd.Name), err)
		}
		return nil

	case fd.Metadata.MayDrop():
		return nil

	default:
		return &MissingFieldError{Type: rtype, Field: fd.Name, Key: key}
	}
}

func (e *Engine) decodeField(target reflect.Value, fd meta.FieldDescriptor, raw any, sc scope, depth int) error {
	value, err := meta.ResolveConverterFrom(fd, sc.valueFrom)(raw)
	if err != nil {
		return at(fieldSegment(fd.Name), fmt.Errorf("convert %s: %w", fd.Name, err))
	}

	var seed any
	if fd.Type.Implements(factoryMappingType) {
		seed, _ = fd.DefaultValue()
	}

	rv, err := e.decode(value, fd.Type, sc, seed, depth+1)
	if err != nil {
		return at(fieldSegment(fd.Name), err)
	}

	target.Set(rv)
	return nil
}

func (e *Engine) fillRecordTuple(out reflect.Value, fields []meta.FieldDescriptor, in any, sc scope, depth int) error {
	elems, ok := elemsOf(in)
	if !ok {
		return &TypeMismatchError{Want: out.Type(), Got: reflect.TypeOf(in)}
	}

	positional := make([]meta.FieldDescriptor, 0, len(fields))
	for _, fd := range fields {
		if fd.Metadata.Overflow {
			continue
		}

		if fd.Metadata.IsExcluded() {
			if err := setDefault(out.FieldByIndex(fd.Index), fd); err != nil {
				return at(fieldSegment(fd.Name), err)
			}
			continue
		}
		positional = append(positional, fd)
	}

	if len(elems) != len(positional) {
		return &ArityError{Type: out.Type(), Expected: len(positional), Got: len(elems)}
	}

	for i, fd := range positional {
		if err := e.decodeField(out.FieldByIndex(fd.Index), fd, elems[i], sc, depth); err != nil {
			return err
		}
	}

	return nil
}

func (e *Engine) unknownFields(out reflect.Value, overflow *meta.FieldDescriptor, input *recordInput, sc scope) error {
	keys := input.unknown()
	if len(keys) == 0 {
		return nil
	}

	switch {
	case sc.unknown == options.UnknownFieldsDeny:
		suggestions := make(map[string][]string, len(keys))
		for _, key := range keys {
			if s := match.Suggest(key, input.declared, 3); len(s) > 0 {
				suggestions[key] = s
			}
		}
		return &UnknownFieldError{Type: out.Type(), Keys: keys, Suggestions: suggestions}

	case sc.unknown == options.UnknownFieldsAllow && overflow != nil:
		bag := make(map[string]any, len(keys))
		for _, key := range keys {
			bag[key] = input.values[key]
		}
		out.FieldByIndex(overflow.Index).Set(reflect.ValueOf(bag))
		return nil
	}

	e.logger.Debug("unknown keys dropped",
		zap.Stringer("type", out.Type()),
		zap.Strings("keys", keys))

	return nil
}

// setDefault sets target to the field's default, leaving the zero value when there is none.
func setDefault(target reflect.Value, fd meta.FieldDescriptor) error {
	def, ok := fd.DefaultValue()
	if !ok {
		return nil
	}

	rv, ok := fit(def, target.Type())
	if !ok {
		return &TypeMismatchError{Want: target.Type(), Got: reflect.TypeOf(def), Err: errDefaultType}
	}

	target.Set(rv)
	return nil
}

func validate(rv reflect.Value) error {
	validator, ok := rv.Addr().Interface().(Validator)
	if !ok {
		return nil
	}

	if err := validator.Validate(); err != nil {
		return fmt.Errorf("validate %s: %w", node.TypeName(rv.Type()), err)
	}

	return nil
}
