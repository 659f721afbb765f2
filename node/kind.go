package node

//go:generate go tool stringer -type=VariantEnum -trimprefix=Variant -output=variant_string.go

// VariantEnum is the closed set of value shapes the transform engine switches on.
type VariantEnum int

const (
	VariantOpaque        VariantEnum = iota // anything else, duplicated by copy policy
	VariantAtomic                           // returned unchanged
	VariantRecord                           // struct with field descriptors
	VariantNamedSequence                    // fixed arity, independently typed slots
	VariantSequence                         // slice or array
	VariantMapping                          // map, ordered map or factory mapping

	// VariantTotal is a constant that represents the total number of variants defined
	VariantTotal = int(iota)
)
