// Package export writes dated CSV snapshots of computed price changes.
//
// A snapshot is assembled in memory, written to a temp file next to its
// destination and renamed into place, so a failed export never leaves a
// partial file behind.
package export
