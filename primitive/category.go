package primitive

// CategoryEnum is a bit set of scalar conversion families allowed while decoding.
type CategoryEnum int

type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float with precision loss
	CategoryTextNumber                            // number <-> string
	CategoryNumericBool                           // int 0/1 <-> bool
	CategoryTextualBool                           // yes/no, on/off, true/false <-> bool
	CategoryDatetime                              // RFC3339Nano string <-> time.Time
	CategoryTimestamp                             // Unix seconds <-> time.Time
	CategoryDuration                              // "2h45m" <-> time.Duration
	CategoryNanoseconds                           // integer nanoseconds <-> time.Duration
	CategorySeconds                               // float seconds <-> time.Duration
	CategoryEnumString                            // string <-> named string type checked with IsValid
	CategoryExactNumber                           // any number pair, the value must survive unchanged (float64(25) -> int)

	CategoryAll  CategoryEnum = (1 << iota) - 1
	CategoryNone CategoryEnum = 0

	// CategoryDecode is the default set used when rebuilding typed values from interchange data.
	CategoryDecode = CategorySafeNumber | CategoryExactNumber | CategoryDatetime | CategoryDuration | CategoryEnumString
)

type pairSet map[ConversionPair]struct{}

func (s pairSet) add(from, to KindEnum) { s[ConversionPair{from, to}] = struct{}{} }

// addBoth registers the pair in both directions.
func (s pairSet) addBoth(a, b KindEnum) {
	s.add(a, b)
	s.add(b, a)
}

var conversionPairs = map[CategoryEnum]pairSet{}

// kinds returns every kind accepted by keep.
func kinds(keep func(KindEnum) bool) []KindEnum {
	var out []KindEnum
	for k := KindEnum(1); int(k) < KindTotal; k++ {
		if keep(k) {
			out = append(out, k)
		}
	}

	return out
}

func init() {
	numbers := kinds(KindEnum.IsNumber)
	integers := kinds(KindEnum.IsInteger)

	safe, unsafe, exact, text := pairSet{}, pairSet{}, pairSet{}, pairSet{}
	for _, from := range numbers {
		for _, to := range numbers {
			exact.add(from, to)
			if isSafeNumber(from, to) {
				safe.add(from, to)
			} else {
				unsafe.add(from, to)
			}
		}

		text.addBoth(from, KindString)
	}

	numericBool, timestamp, nanoseconds := pairSet{}, pairSet{}, pairSet{}
	for _, k := range integers {
		numericBool.addBoth(k, KindBool)
		timestamp.addBoth(k, KindTime)
		if k != KindUint64 {
			nanoseconds.addBoth(k, KindDuration)
		}
	}

	seconds := pairSet{}
	seconds.addBoth(KindFloat32, KindDuration)
	seconds.addBoth(KindFloat64, KindDuration)

	single := func(a, b KindEnum) pairSet {
		s := pairSet{}
		s.addBoth(a, b)
		return s
	}

	conversionPairs[CategorySafeNumber] = safe
	conversionPairs[CategoryUnsafeNumber] = unsafe
	conversionPairs[CategoryTextNumber] = text
	conversionPairs[CategoryNumericBool] = numericBool
	conversionPairs[CategoryTextualBool] = single(KindString, KindBool)
	conversionPairs[CategoryDatetime] = single(KindString, KindTime)
	conversionPairs[CategoryTimestamp] = timestamp
	conversionPairs[CategoryDuration] = single(KindString, KindDuration)
	conversionPairs[CategoryNanoseconds] = nanoseconds
	conversionPairs[CategorySeconds] = seconds
	// named string types share KindString with string itself
	conversionPairs[CategoryEnumString] = single(KindString, KindString)
	conversionPairs[CategoryExactNumber] = exact
}

// Allows reports whether at least one of the allowed categories permits the pair.
func (c CategoryEnum) Allows(pair ConversionPair) bool {
	for category := CategoryEnum(1); category&CategoryAll > 0; category <<= 1 {
		if c&category == 0 {
			continue
		}

		if _, ok := conversionPairs[category][pair]; ok {
			return true
		}
	}

	return false
}

// Has reports whether every category of other is also in c.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other
}

// numberWidth is the range of bit sizes a kind may have across platforms.
type numberWidth struct {
	min, max int
}

var numberWidths = map[KindEnum]numberWidth{
	KindInt: {32, 64}, KindInt8: {8, 8}, KindInt16: {16, 16}, KindInt32: {32, 32}, KindInt64: {64, 64},
	KindUint: {32, 64}, KindUint8: {8, 8}, KindUint16: {16, 16}, KindUint32: {32, 32}, KindUint64: {64, 64},
	KindFloat32: {32, 32}, KindFloat64: {64, 64},
}

var mantissaBits = map[KindEnum]int{KindFloat32: 24, KindFloat64: 53}

// isSafeNumber reports whether every value of from fits into to on every platform.
func isSafeNumber(from, to KindEnum) bool {
	if from == to {
		return true
	}

	src, dst := numberWidths[from], numberWidths[to]

	switch {
	case to.IsFloat() && !from.IsFloat():
		return src.max <= mantissaBits[to]
	case to.IsFloat():
		return src.max <= dst.min
	case from.IsFloat():
		return false
	case from.IsSigned() == to.IsSigned():
		return src.max <= dst.min
	case from.IsUnsigned():
		// one bit of the signed target holds the sign
		return src.max < dst.min
	default:
		return false
	}
}
