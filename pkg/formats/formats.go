// Package formats provides parsers for text mesh formats.
//
// The OBJ dialect handled here adds an optional per-vertex color directive,
// "c r g b a", referenced by a fourth slot in face fields: "f p/t/n/c".
package formats
