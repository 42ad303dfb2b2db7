// Package dto projects entity graphs into ordered key/value maps that are
// written as API response bodies.
//
// A Builder holds an ordered field specification. Each entry either copies
// a named property verbatim or projects it through a nested Builder (every
// element, when the property is a collection). Properties are read by name
// at build time through a cached reflection accessor:
//   - an exported struct field whose name matches (case-insensitively)
//   - an exported method taking no arguments and returning one value
//   - a key of a map[string]any source
//
// Asking for a property that the source type does not have is a programming
// error and panics. Absent (nil) values never panic, they project to nil.
//
// Sources must be fully loaded before they are projected. The builder only
// reads fields and calls accessor methods; it performs no I/O of its own.
package dto
