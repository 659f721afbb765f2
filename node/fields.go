package node

import (
	"errors"
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"

	"shaper/meta"
	"shaper/primitive"
)

var ErrNotARecord = errors.New("type is not a record")

// DefaultCacheSize bounds the number of record types whose descriptors are kept.
const DefaultCacheSize = 1024

// CategoryDefaultText lists the conversions allowed when parsing `default` tags.
const CategoryDefaultText = primitive.CategoryTextNumber | primitive.CategoryTextualBool |
	primitive.CategoryDatetime | primitive.CategoryDuration | primitive.CategoryEnumString

type fieldsEntry struct {
	fields []meta.FieldDescriptor
	err    error
}

var fieldsCache = func() *lru.Cache[reflect.Type, fieldsEntry] {
	cache, err := lru.New[reflect.Type, fieldsEntry](DefaultCacheSize)
	if err != nil {
		panic(err)
	}

	return cache
}()

var declarerType = reflect.TypeFor[meta.Declarer]()

// Fields returns the ordered field descriptors of a record type, pointers are followed.
// Descriptors are built once per type; every call returns a fresh slice.
func Fields(rtype reflect.Type) ([]meta.FieldDescriptor, error) {
	rtype = Indirect(rtype)
	if rtype == nil || rtype.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotARecord, TypeName(rtype))
	}

	entry, ok := fieldsCache.Get(rtype)
	if !ok {
		fields, err := buildFields(rtype)
		entry = fieldsEntry{fields: fields, err: err}
		fieldsCache.Add(rtype, entry)
	}

	if entry.err != nil {
		return nil, entry.err
	}

	return append([]meta.FieldDescriptor(nil), entry.fields...), nil
}

// FieldsOf is Fields for the type of a value.
func FieldsOf(v any) ([]meta.FieldDescriptor, error) {
	return Fields(reflect.TypeOf(v))
}

func buildFields(rtype reflect.Type) ([]meta.FieldDescriptor, error) {
	var fields []meta.FieldDescriptor

	byName := map[string]int{}
	byGoName := map[string]int{}

	for i := range rtype.NumField() {
		sf := rtype.Field(i)
		if !sf.IsExported() {
			continue
		}

		shaperTag, hasShaper := sf.Tag.Lookup(TagName)

		tag, err := parseTag(shaperTag, sf.Tag.Get(TagJSON), hasShaper)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", TypeName(rtype), sf.Name, err)
		}

		if tag.skip {
			continue
		}

		fd := meta.FieldDescriptor{
			Name:     tag.name,
			GoName:   sf.Name,
			Index:    sf.Index,
			Type:     sf.Type,
			Metadata: tag.metadata,
		}

		if fd.Name == "" {
			fd.Name = sf.Name
		}

		// untagged embedded records are spliced into the parent
		if sf.Anonymous && !hasShaper && ClassifyType(sf.Type) == VariantRecord {
			fd.Metadata.Flatten = true
		}

		if text, ok := sf.Tag.Lookup(TagDefault); ok {
			value, err := primitive.Convert(text, sf.Type, CategoryDefaultText)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: default %q: %w", TypeName(rtype), sf.Name, text, err)
			}

			fd.HasDefault, fd.Default = true, value.Interface()
		}

		if prev, dup := byName[fd.Name]; dup {
			return nil, &meta.ConfigConflictError{
				Field:  fd.Name,
				Reason: fmt.Sprintf("%s declares it twice, by %s and %s", TypeName(rtype), fields[prev].GoName, sf.Name),
			}
		}

		byName[fd.Name] = len(fields)
		byGoName[fd.GoName] = len(fields)
		fields = append(fields, fd)
	}

	if err := applyDeclarations(rtype, fields, byGoName); err != nil {
		return nil, err
	}

	for _, fd := range fields {
		if err := fd.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", TypeName(rtype), err)
		}
	}

	return fields, nil
}

func applyDeclarations(rtype reflect.Type, fields []meta.FieldDescriptor, byGoName map[string]int) error {
	var declarer meta.Declarer

	switch {
	case rtype.Implements(declarerType):
		declarer, _ = reflect.Zero(rtype).Interface().(meta.Declarer)
	case reflect.PointerTo(rtype).Implements(declarerType):
		declarer, _ = reflect.New(rtype).Interface().(meta.Declarer)
	default:
		return nil
	}

	for _, d := range declarer.DeclareFields() {
		i, ok := byGoName[d.GoName]
		if !ok {
			return &meta.ConfigConflictError{
				Field:  d.GoName,
				Reason: fmt.Sprintf("declared field does not exist in %s", TypeName(rtype)),
			}
		}

		if d.HasDefault && d.DefaultFactory != nil {
			return &meta.ConfigConflictError{Field: fields[i].Name, Reason: "default value and default factory are mutually exclusive"}
		}

		fd, err := meta.WithMetadata(fields[i], d.Metadata)
		if err != nil {
			return fmt.Errorf("%s: %w", TypeName(rtype), err)
		}

		if d.HasDefault {
			value, err := primitive.Convert(d.Default, fd.Type, primitive.CategorySafeNumber|primitive.CategoryEnumString)
			if err != nil {
				return fmt.Errorf("%s.%s: declared default: %w", TypeName(rtype), d.GoName, err)
			}

			fd.HasDefault, fd.Default, fd.DefaultFactory = true, value.Interface(), nil
		}

		if d.DefaultFactory != nil {
			fd.HasDefault, fd.Default, fd.DefaultFactory = false, nil, d.DefaultFactory
		}

		fields[i] = fd
	}

	return nil
}

// FieldByName returns the descriptor with the given canonical name.
func FieldByName(fields []meta.FieldDescriptor, name string) (meta.FieldDescriptor, bool) {
	for _, fd := range fields {
		if fd.Name == name {
			return fd, true
		}
	}

	return meta.FieldDescriptor{}, false
}
