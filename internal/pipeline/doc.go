// Package pipeline orchestrates one ingestion run: fetch listings from a
// source, consult the cadence gate against stored history, then write
// today's observations one at a time.
//
// Individual write failures are collected in the run Summary and never
// abort the run or undo earlier writes. A failed or empty fetch is fatal
// and nothing is written.
package pipeline
