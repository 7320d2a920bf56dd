// Package platform provides cross-platform filesystem helpers used when the
// generator rewrites files inside a project: atomic replacement and
// permission handling that degrades to a no-op on Windows.
package platform
