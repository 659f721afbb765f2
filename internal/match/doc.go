// Package match ranks known names against an unknown one to build "did you mean" hints
// for unknown keys, conventions, formats and policy file entries.
//
// Names are compared after folding them with NormalizeIdent, so a key written in
// another case convention scores as an exact match.
package match
