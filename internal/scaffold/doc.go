// Package scaffold overlays the static template tree (sample contracts,
// tests, the network helper module and, for npm projects, the ACL task
// module) onto a generated project. The tree is embedded in the binary and
// copied with overwrite priority: a template file always replaces whatever the
// bootstrap tool wrote at the same relative path.
package scaffold
