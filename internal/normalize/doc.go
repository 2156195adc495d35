// Package normalize converts loosely formatted request fields into the shapes
// the board provider expects: due dates become ISO-8601 timestamps and
// checklist item fields become ordered slices of trimmed, non-empty names.
package normalize
