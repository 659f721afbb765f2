package primitive

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnsupportedConversion = errors.New("unsupported scalar conversion")
	ErrConversionNotAllowed  = errors.New("scalar conversion is not allowed")
	ErrLossyConversion       = errors.New("scalar conversion loses information")
	ErrInvalidEnum           = errors.New("invalid enum value")
)

// Convert rebuilds a scalar value as a value of type to.
// Values of exactly the target type are returned as they are; everything else goes through
// the conversion pairs enabled by allowed. Nil converts to the zero value of to.
func Convert(value any, to reflect.Type, allowed CategoryEnum) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(to), nil
	}

	src := reflect.ValueOf(value)
	if src.Type() == to {
		return src, nil
	}

	if to.Kind() == reflect.Interface {
		if !src.Type().Implements(to) {
			return reflect.Value{}, fmt.Errorf("%w: %s does not implement %s", ErrUnsupportedConversion, src.Type(), to)
		}

		out := reflect.New(to).Elem()
		out.Set(src)
		return out, nil
	}

	if number, ok := value.(json.Number); ok {
		return convertJSONNumber(number, to, allowed)
	}

	srcKind, dstKind := BaseKind(src.Type()), BaseKind(to)
	if srcKind == 0 || dstKind == 0 {
		return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, src.Type(), to)
	}

	pair := ConversionPair{srcKind, dstKind}

	var out reflect.Value
	switch {
	case srcKind == dstKind && srcKind != KindString:
		// same base kind: a named type over a builtin or the other way around
		out = src.Convert(to)

	case !allowed.Allows(pair):
		return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrConversionNotAllowed, src.Type(), to)

	default:
		var err error
		out, err = convertPair(src, to, pair, allowed)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s to %s: %w", src.Type(), to, err)
		}
	}

	return out, validateEnum(out)
}

func convertJSONNumber(number json.Number, to reflect.Type, allowed CategoryEnum) (reflect.Value, error) {
	if BaseKind(to) == KindString {
		return reflect.ValueOf(number.String()).Convert(to), nil
	}

	if n, err := number.Int64(); err == nil {
		return Convert(n, to, allowed)
	}

	f, err := number.Float64()
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: malformed number %q", ErrUnsupportedConversion, number)
	}

	return Convert(f, to, allowed)
}

func convertPair(src reflect.Value, to reflect.Type, pair ConversionPair, allowed CategoryEnum) (reflect.Value, error) {
	from, dst := pair.From, pair.To

	switch {
	case from.IsNumber() && dst.IsNumber():
		checked := !(allowed & (CategorySafeNumber | CategoryUnsafeNumber)).Allows(pair)
		return convertNumber(src, to, checked)

	case from == KindString && dst == KindString:
		return src.Convert(to), nil

	case from == KindString && dst.IsNumber():
		return parseNumber(src.String(), to)

	case from.IsNumber() && dst == KindString:
		return reflect.ValueOf(formatNumber(src)).Convert(to), nil

	case from.IsInteger() && dst == KindBool:
		n, err := convertNumber(src, reflect.TypeFor[int64](), true)
		if err != nil || (n.Int() != 0 && n.Int() != 1) {
			return reflect.Value{}, fmt.Errorf("only numbers 0 and 1 are allowed for bool, got: %v", src.Interface())
		}
		return reflect.ValueOf(n.Int() == 1).Convert(to), nil

	case from == KindBool && dst.IsInteger():
		var n int64
		if src.Bool() {
			n = 1
		}
		return convertNumber(reflect.ValueOf(n), to, false)

	case from == KindString && dst == KindBool:
		switch strings.ToLower(src.String()) {
		default:
			return reflect.Value{}, fmt.Errorf("only strings true/false, yes/no, on/off are allowed for bool, got: %s", src.String())
		case "true", "yes", "on":
			return reflect.ValueOf(true).Convert(to), nil
		case "false", "no", "off":
			return reflect.ValueOf(false).Convert(to), nil
		}

	case from == KindBool && dst == KindString:
		return reflect.ValueOf(strconv.FormatBool(src.Bool())).Convert(to), nil

	case from == KindString && dst == KindTime:
		t, err := time.Parse(time.RFC3339Nano, src.String())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(t), nil

	case from == KindTime && dst == KindString:
		return reflect.ValueOf(src.Interface().(time.Time).Format(time.RFC3339Nano)).Convert(to), nil

	case from.IsInteger() && dst == KindTime:
		n, err := convertNumber(src, reflect.TypeFor[int64](), true)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(time.Unix(n.Int(), 0)), nil

	case from == KindTime && dst.IsInteger():
		return convertNumber(reflect.ValueOf(src.Interface().(time.Time).Unix()), to, true)

	case from == KindString && dst == KindDuration:
		d, err := time.ParseDuration(src.String())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil

	case from == KindDuration && dst == KindString:
		return reflect.ValueOf(src.Interface().(time.Duration).String()).Convert(to), nil

	case from.IsInteger() && dst == KindDuration:
		n, err := convertNumber(src, reflect.TypeFor[int64](), true)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(time.Duration(n.Int())), nil

	case from == KindDuration && dst.IsInteger():
		return convertNumber(reflect.ValueOf(src.Interface().(time.Duration).Nanoseconds()), to, true)

	case from.IsFloat() && dst == KindDuration:
		return reflect.ValueOf(time.Duration(src.Float() * float64(time.Second))), nil

	case from == KindDuration && dst.IsFloat():
		return convertNumber(reflect.ValueOf(src.Interface().(time.Duration).Seconds()), to, false)
	}

	return reflect.Value{}, ErrUnsupportedConversion
}

// convertNumber converts between any numeric kinds. When checked is set, the conversion
// fails instead of truncating, wrapping or overflowing.
func convertNumber(src reflect.Value, to reflect.Type, checked bool) (reflect.Value, error) {
	out := reflect.New(to).Elem()
	lossy := false

	switch {
	case src.CanInt():
		n := src.Int()
		switch {
		case out.CanInt():
			lossy = out.OverflowInt(n)
			out.SetInt(n)
		case out.CanUint():
			lossy = n < 0 || out.OverflowUint(uint64(n))
			out.SetUint(uint64(n))
		case out.CanFloat():
			out.SetFloat(float64(n))
			lossy = int64(out.Float()) != n
		}

	case src.CanUint():
		n := src.Uint()
		switch {
		case out.CanInt():
			lossy = n > math.MaxInt64 || out.OverflowInt(int64(n))
			out.SetInt(int64(n))
		case out.CanUint():
			lossy = out.OverflowUint(n)
			out.SetUint(n)
		case out.CanFloat():
			out.SetFloat(float64(n))
			lossy = uint64(out.Float()) != n
		}

	case src.CanFloat():
		f := src.Float()
		switch {
		case out.CanInt():
			lossy = f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 || out.OverflowInt(int64(f))
			out.SetInt(int64(f))
		case out.CanUint():
			lossy = f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 || out.OverflowUint(uint64(f))
			out.SetUint(uint64(f))
		case out.CanFloat():
			lossy = out.OverflowFloat(f)
			out.SetFloat(f)
		}

	default:
		return reflect.Value{}, fmt.Errorf("%w: %s is not a number", ErrUnsupportedConversion, src.Type())
	}

	if checked && lossy {
		return reflect.Value{}, fmt.Errorf("%w: %v does not fit into %s", ErrLossyConversion, src.Interface(), to)
	}

	return out, nil
}

func parseNumber(text string, to reflect.Type) (reflect.Value, error) {
	out := reflect.New(to).Elem()

	switch {
	case out.CanInt():
		n, err := strconv.ParseInt(text, 10, to.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(n)
	case out.CanUint():
		n, err := strconv.ParseUint(text, 10, to.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetUint(n)
	case out.CanFloat():
		f, err := strconv.ParseFloat(text, to.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(f)
	default:
		return reflect.Value{}, ErrUnsupportedConversion
	}

	return out, nil
}

func formatNumber(src reflect.Value) string {
	switch {
	case src.CanInt():
		return strconv.FormatInt(src.Int(), 10)
	case src.CanUint():
		return strconv.FormatUint(src.Uint(), 10)
	default:
		return strconv.FormatFloat(src.Float(), 'f', -1, 64)
	}
}

func validateEnum(v reflect.Value) error {
	if FromReflectType(v.Type()) != KindPrimitiveEnum {
		return nil
	}

	validator, ok := v.Interface().(interface{ IsValid() bool })
	if ok && !validator.IsValid() {
		return fmt.Errorf("%w: %v is not a valid value for %s", ErrInvalidEnum, v.Interface(), v.Type())
	}

	return nil
}
