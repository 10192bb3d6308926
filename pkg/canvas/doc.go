// Package canvas holds the editable state of a form layout: the main grid,
// the tables nested inside table widgets, one selection per grid, and the
// editing focus.
//
// All mutators are synchronous and total. Unknown ids, invalid coordinates
// and refused merges leave the state untouched and report false; refusals are
// logged at debug level. Every change builds new table values and installs
// the rebuilt main grid in a single assignment, so a Snapshot taken by
// another goroutine is always a complete layout.
//
// Nested tables are edited through an Editor obtained from Canvas.Nested,
// addressed by a path of (cell id, widget id) steps from the main grid. An
// edit inside a nested table rebuilds each enclosing table widget by value.
package canvas
