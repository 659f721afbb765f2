// Package casing converts identifiers between naming conventions.
//
// Every convention is a Func registered under its conventional spelling
// (snake_case, kebab-case, camelCase, ...). Field and record policies name
// conventions by string and resolve them through a Registry, Default unless
// configured otherwise.
//
//	casing.KebabCase("FirstName")       // "first-name"
//	fn, err := casing.Lookup("CONST_CASE")
//	fn("firstName")                      // "FIRST_NAME"
package casing
