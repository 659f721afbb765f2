package node

import (
	"fmt"
	"strconv"
	"strings"

	"shaper/meta"
)

// Tag names read from struct fields.
const (
	TagName     = "shaper"
	TagJSON     = "json"
	TagDefault  = "default"
	tagSkip     = "-"
	tagOmitJSON = "omitempty"
)

// fieldTag is the parsed form of `shaper:"name,option,key=value,..."`.
type fieldTag struct {
	name     string
	skip     bool
	metadata meta.Metadata
}

func parseTag(shaperTag, jsonTag string, hasShaper bool) (fieldTag, error) {
	if !hasShaper {
		return parseJSONTag(jsonTag), nil
	}

	if shaperTag == tagSkip {
		return fieldTag{skip: true}, nil
	}

	name, rest, _ := strings.Cut(shaperTag, ",")
	tag := fieldTag{name: name}
	if name == "" {
		tag.name = parseJSONTag(jsonTag).name
	}

	var opts []meta.Option

	for _, item := range strings.Split(rest, ",") {
		if item = strings.TrimSpace(item); item == "" {
			continue
		}

		key, value, hasValue := strings.Cut(item, "=")

		switch key {
		default:
			return fieldTag{}, fmt.Errorf("unknown %s tag option %q", TagName, key)

		case "alias":
			opts = append(opts, meta.Alias(value))

		case "rename":
			if value == "" {
				return fieldTag{}, fmt.Errorf("%s tag option rename needs a convention", TagName)
			}
			opts = append(opts, meta.Rename(value))

		case "exclude", "exclude_if_default", "exclude_if_false":
			b := true
			if hasValue {
				var err error
				if b, err = strconv.ParseBool(value); err != nil {
					return fieldTag{}, fmt.Errorf("%s tag option %s: %w", TagName, key, err)
				}
			}

			switch key {
			case "exclude":
				opts = append(opts, meta.Exclude(b))
			case "exclude_if_default":
				opts = append(opts, meta.ExcludeIfDefault(b))
			default:
				opts = append(opts, meta.ExcludeIfFalse(b))
			}

		case "flatten":
			opts = append(opts, meta.Flatten())

		case "overflow":
			opts = append(opts, meta.Overflow())
		}
	}

	md, err := meta.New(opts...)
	if err != nil {
		return fieldTag{}, err
	}

	tag.metadata = md

	return tag, nil
}

// parseJSONTag honors the name, "-" and omitempty of encoding/json tags.
func parseJSONTag(jsonTag string) fieldTag {
	if jsonTag == tagSkip {
		return fieldTag{skip: true}
	}

	name, rest, _ := strings.Cut(jsonTag, ",")
	tag := fieldTag{name: name}

	for _, item := range strings.Split(rest, ",") {
		if item == tagOmitJSON {
			tag.metadata = meta.Must(meta.ExcludeIfFalse(true))
		}
	}

	return tag
}
