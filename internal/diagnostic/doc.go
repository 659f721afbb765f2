// Package diagnostic collects the errors and warnings of a validation pass, each with
// a stable code, the record type and path it concerns, and "did you mean" suggestions.
package diagnostic
