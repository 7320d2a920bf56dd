// Package pkgjson reads and rewrites package.json files as structured data.
// Top-level key order survives a load/save round trip, nested values are kept
// verbatim, and the result can be checked against an embedded JSON schema.
package pkgjson
