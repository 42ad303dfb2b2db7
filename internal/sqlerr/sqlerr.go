// Package sqlerr translates PostgreSQL driver errors into API errors.
//
// Constraint violations become 400 or 409 responses with a readable message,
// missing rows become 404s, and anything else is reported as a bare 500.
package sqlerr
