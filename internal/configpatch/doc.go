// Package configpatch edits generated configuration files as plain text.
//
// A patch replaces the first occurrence of a literal anchor with a block of
// text. Patches apply in order, each against the output of the previous one,
// so a later patch may target text an earlier patch inserted. An absent anchor
// leaves the text unchanged; the miss is recorded in a Report rather than
// returned as an error unless the caller asks for strict application.
//
// Patch lists are not idempotent. Apply each list exactly once per file.
package configpatch
