package transform

import (
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"

	"shaper/casing"
	"shaper/meta"
	"shaper/node"
	"shaper/options"
	"shaper/policy"
	"shaper/primitive"
)

// DefaultMaxDepth bounds the nesting of value graphs walked by an Engine.
const DefaultMaxDepth = 512

// Map is the interchange map of records in map shape.
type Map = node.OrderedMap

// NewMap returns an empty interchange map.
func NewMap() *Map {
	return orderedmap.New[string, any]()
}

// Validator is implemented by records checking their own invariants.
// Decode calls Validate on every record it builds.
type Validator interface {
	Validate() error
}

// Engine encodes value graphs into interchange values and decodes them back.
// An Engine is immutable once built and safe for concurrent use.
type Engine struct {
	shape      options.ShapeEnum
	renameName string
	rename     casing.Func
	filter     meta.Filter
	valueTo    meta.ValueFunc
	valueFrom  meta.ValueFunc
	copy       options.CopyEnum
	unknown    options.UnknownFieldsEnum
	maxDepth   int
	categories primitive.CategoryEnum

	policies *policy.Registry
	casings  *casing.Registry
	hooks    *Hooks
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithShape sets the call-level record shape.
func WithShape(shape options.ShapeEnum) Option {
	return func(e *Engine) { e.shape = shape }
}

// WithRename sets the call-level key convention by name, resolved when the engine is built.
func WithRename(convention string) Option {
	return func(e *Engine) { e.renameName, e.rename = convention, nil }
}

// WithKeyFunc sets a custom call-level key converter.
func WithKeyFunc(fn casing.Func) Option {
	return func(e *Engine) { e.renameName, e.rename = "", fn }
}

// WithFilter sets the call-level filter for fields without their own exclusion control.
func WithFilter(keep meta.Filter) Option {
	return func(e *Engine) { e.filter = keep }
}

// WithValueConverter sets the call-level converters for fields without their own.
// Either may be nil.
func WithValueConverter(to, from meta.ValueFunc) Option {
	return func(e *Engine) { e.valueTo, e.valueFrom = to, from }
}

// WithCopy sets how opaque values are carried into the output.
func WithCopy(c options.CopyEnum) Option {
	return func(e *Engine) { e.copy = c }
}

// WithUnknownFields sets the call-level handling of undeclared keys on decode.
func WithUnknownFields(u options.UnknownFieldsEnum) Option {
	return func(e *Engine) { e.unknown = u }
}

// WithMaxDepth bounds the nesting depth, non-positive values restore DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n <= 0 {
			n = DefaultMaxDepth
		}
		e.maxDepth = n
	}
}

// WithCategories sets the scalar conversions allowed on decode.
func WithCategories(c primitive.CategoryEnum) Option {
	return func(e *Engine) { e.categories = c }
}

// WithPolicies replaces policy.Default as the source of record policies.
func WithPolicies(r *policy.Registry) Option {
	return func(e *Engine) { e.policies = r }
}

// WithCasing replaces casing.Default as the source of named conventions.
func WithCasing(r *casing.Registry) Option {
	return func(e *Engine) { e.casings = r }
}

// WithHooks installs type-specific encode and decode hooks.
func WithHooks(h *Hooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// WithLogger sets the logger receiving debug traces, zap.NewNop by default.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New builds an Engine. The call-level rename convention must be known to the casing registry.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		maxDepth:   DefaultMaxDepth,
		categories: primitive.CategoryDecode,
		policies:   policy.Default,
		casings:    casing.Default,
		hooks:      NewHooks(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.renameName != "" {
		fn, err := e.casings.Lookup(e.renameName)
		if err != nil {
			return nil, err
		}
		e.rename = fn
	}

	return e, nil
}

// Must is like New but panics on error.
func Must(opts ...Option) *Engine {
	e, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return e
}

// scope is the set of settings in force while walking one level of the graph.
type scope struct {
	shape     options.ShapeEnum
	key       casing.Func
	filter    meta.Filter
	valueTo   meta.ValueFunc
	valueFrom meta.ValueFunc
	unknown   options.UnknownFieldsEnum
}

func (e *Engine) rootScope() scope {
	return scope{
		shape:     e.shape,
		key:       e.rename,
		filter:    e.filter,
		valueTo:   e.valueTo,
		valueFrom: e.valueFrom,
		unknown:   e.unknown,
	}
}

// recordScope returns the scope for the fields of rtype. An attached or provided
// policy decides shape and unknown-field handling, its other settings override
// the enclosing scope only when set.
func (e *Engine) recordScope(rtype reflect.Type, parent scope) (scope, error) {
	p, ok := e.policies.Get(rtype)
	if !ok {
		return parent, nil
	}

	sc := parent
	sc.shape = p.Shape
	sc.unknown = p.UnknownFields

	key, err := p.KeyFunc(e.casings)
	if err != nil {
		return scope{}, err
	}
	if key != nil {
		sc.key = key
	}

	if p.Filter != nil {
		sc.filter = p.Filter
	}
	if p.ValueConverterTo != nil {
		sc.valueTo = p.ValueConverterTo
	}
	if p.ValueConverterFrom != nil {
		sc.valueFrom = p.ValueConverterFrom
	}

	return sc, nil
}

// Encode converts v into its interchange value.
func (e *Engine) Encode(v any) (any, error) {
	out, err := e.encode(v, e.rootScope(), 0)
	if err != nil {
		return nil, at(rootSegment(reflect.TypeOf(v)), err)
	}

	return out, nil
}

// Decode rebuilds a value of type rtype from an interchange value.
func (e *Engine) Decode(in any, rtype reflect.Type) (any, error) {
	out, err := e.decode(in, rtype, e.rootScope(), nil, 0)
	if err != nil {
		return nil, at(rootSegment(rtype), err)
	}

	return out.Interface(), nil
}

// DecodeInto decodes in into the value target points to.
func (e *Engine) DecodeInto(in any, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &TypeMismatchError{Want: reflect.TypeOf(target), Got: reflect.TypeOf(in), Err: errNotPointer}
	}

	out, err := e.decode(in, rv.Elem().Type(), e.rootScope(), nil, 0)
	if err != nil {
		return at(rootSegment(rv.Elem().Type()), err)
	}

	rv.Elem().Set(out)
	return nil
}

// DecodeAs decodes in into a T.
func DecodeAs[T any](e *Engine, in any) (T, error) {
	var out T
	err := e.DecodeInto(in, &out)
	return out, err
}

func rootSegment(rtype reflect.Type) string {
	rtype = node.Indirect(rtype)
	if rtype != nil && rtype.Name() != "" {
		return rtype.Name()
	}

	return node.TypeName(rtype)
}
