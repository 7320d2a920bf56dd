// Package pkgmgr wraps the command vocabulary of the npm and yarn ecosystems
// behind one Adapter interface: initialize package metadata, install
// dependencies, run the Hardhat bootstrap non-interactively and register
// package scripts. Every operation blocks until the external process exits.
package pkgmgr
