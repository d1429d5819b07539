// Package testutil provides deterministic fixtures for tests: an in-memory
// observation store with failure injection, a canned listing source, a
// sequential run id generator, and observation builders.
package testutil
