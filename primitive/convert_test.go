package primitive_test

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shaper/primitive"
)

type Color string

const (
	Red   Color = "red"
	Green Color = "green"
)

func (c Color) IsValid() bool { return c == Red || c == Green }

type Level int

func TestConvert(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   any
		to      reflect.Type
		allowed primitive.CategoryEnum
		want    any
	}{
		{"identity", 42, reflect.TypeFor[int](), primitive.CategoryNone, 42},
		{"nil to zero", nil, reflect.TypeFor[int](), primitive.CategoryNone, 0},
		{"safe widening", int8(7), reflect.TypeFor[int64](), primitive.CategorySafeNumber, int64(7)},
		{"exact float to int", 25.0, reflect.TypeFor[int](), primitive.CategoryExactNumber, 25},
		{"unsafe truncation", 2.75, reflect.TypeFor[int](), primitive.CategoryUnsafeNumber, 2},
		{"json number int", json.Number("12"), reflect.TypeFor[uint16](), primitive.CategoryDecode, uint16(12)},
		{"json number float", json.Number("1.5"), reflect.TypeFor[float32](), primitive.CategoryDecode, float32(1.5)},
		{"text number", "-17", reflect.TypeFor[int32](), primitive.CategoryTextNumber, int32(-17)},
		{"number text", 3.5, reflect.TypeFor[string](), primitive.CategoryTextNumber, "3.5"},
		{"numeric bool", 1, reflect.TypeFor[bool](), primitive.CategoryNumericBool, true},
		{"textual bool", "off", reflect.TypeFor[bool](), primitive.CategoryTextualBool, false},
		{"datetime", "2024-05-17T10:30:00Z", reflect.TypeFor[time.Time](), primitive.CategoryDatetime, stamp},
		{"timestamp", stamp.Unix(), reflect.TypeFor[time.Time](), primitive.CategoryTimestamp, time.Unix(stamp.Unix(), 0)},
		{"duration", "2h45m", reflect.TypeFor[time.Duration](), primitive.CategoryDuration, 2*time.Hour + 45*time.Minute},
		{"seconds", 1.5, reflect.TypeFor[time.Duration](), primitive.CategorySeconds, 1500 * time.Millisecond},
		{"string enum", "green", reflect.TypeFor[Color](), primitive.CategoryEnumString, Green},
		{"int enum", 3, reflect.TypeFor[Level](), primitive.CategoryNone, Level(3)},
		{"exact into int enum", 3.0, reflect.TypeFor[Level](), primitive.CategoryExactNumber, Level(3)},
		{"interface target", "x", reflect.TypeFor[any](), primitive.CategoryNone, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := primitive.Convert(tt.value, tt.to, tt.allowed)
			require.NoError(t, err)
			assert.Equal(t, tt.to, got.Type())
			assert.Equal(t, tt.want, got.Interface())
		})
	}
}

func TestConvertErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		to      reflect.Type
		allowed primitive.CategoryEnum
		err     error
	}{
		{"fraction is lossy", 2.5, reflect.TypeFor[int](), primitive.CategoryExactNumber, primitive.ErrLossyConversion},
		{"overflow is lossy", 300, reflect.TypeFor[uint8](), primitive.CategoryExactNumber, primitive.ErrLossyConversion},
		{"negative to unsigned", -1, reflect.TypeFor[uint](), primitive.CategoryExactNumber, primitive.ErrLossyConversion},
		{"narrowing not allowed", int64(1), reflect.TypeFor[int8](), primitive.CategorySafeNumber, primitive.ErrConversionNotAllowed},
		{"text number not allowed", "1", reflect.TypeFor[int](), primitive.CategoryDecode, primitive.ErrConversionNotAllowed},
		{"invalid enum", "blue", reflect.TypeFor[Color](), primitive.CategoryEnumString, primitive.ErrInvalidEnum},
		{"struct is not a scalar", struct{}{}, reflect.TypeFor[int](), primitive.CategoryAll, primitive.ErrUnsupportedConversion},
		{"interface not implemented", 1, reflect.TypeFor[error](), primitive.CategoryAll, primitive.ErrUnsupportedConversion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := primitive.Convert(tt.value, tt.to, tt.allowed)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCategoryAllows(t *testing.T) {
	t.Parallel()

	pair := primitive.ConversionPair{From: primitive.KindFloat64, To: primitive.KindInt}

	assert.False(t, primitive.CategorySafeNumber.Allows(pair))
	assert.True(t, primitive.CategoryUnsafeNumber.Allows(pair))
	assert.True(t, primitive.CategoryDecode.Allows(pair))
	assert.True(t, primitive.CategoryAll.Has(primitive.CategoryDecode))
	assert.False(t, primitive.CategoryNone.Allows(pair))
}

func TestCategorySafeNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to primitive.KindEnum
		safe     bool
	}{
		{primitive.KindInt8, primitive.KindInt, true},
		{primitive.KindInt32, primitive.KindInt, true},
		{primitive.KindInt, primitive.KindInt64, true},
		{primitive.KindInt64, primitive.KindInt, false},
		{primitive.KindInt16, primitive.KindInt8, false},
		{primitive.KindUint8, primitive.KindInt16, true},
		{primitive.KindUint16, primitive.KindInt16, false},
		{primitive.KindUint32, primitive.KindInt64, true},
		{primitive.KindUint, primitive.KindInt64, false},
		{primitive.KindInt8, primitive.KindUint64, false},
		{primitive.KindInt16, primitive.KindFloat32, true},
		{primitive.KindInt32, primitive.KindFloat32, false},
		{primitive.KindUint32, primitive.KindFloat64, true},
		{primitive.KindInt64, primitive.KindFloat64, false},
		{primitive.KindFloat32, primitive.KindFloat64, true},
		{primitive.KindFloat64, primitive.KindFloat32, false},
		{primitive.KindFloat32, primitive.KindInt64, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			t.Parallel()

			pair := primitive.ConversionPair{From: tt.from, To: tt.to}
			assert.Equal(t, tt.safe, primitive.CategorySafeNumber.Allows(pair))
			assert.Equal(t, !tt.safe, primitive.CategoryUnsafeNumber.Allows(pair))
			assert.True(t, primitive.CategoryExactNumber.Allows(pair))
		})
	}
}
