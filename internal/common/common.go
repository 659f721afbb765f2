// Package common holds small helpers shared by the policy file loader.
package common

import "path"

func IsEmpty[S ~[]E, E any](s S) bool    { return len(s) == 0 }
func IsSingle[S ~[]E, E any](s S) bool   { return len(s) == 1 }
func IsMultiple[S ~[]E, E any](s S) bool { return len(s) > 1 }

// First returns the head of s; ok is false when s is empty.
func First[S ~[]E, E any](s S) (head E, ok bool) {
	if len(s) == 0 {
		return head, false
	}

	return s[0], true
}

// PkgAlias is the name a package is usually imported under: the last element of its
// import path. Predeclared and unnamed types have no package and get "".
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}
