// Package hardhatcfg describes the network, reporting and account settings
// added to a generated hardhat.config.ts as typed data, and renders them into
// the text patches applied by configpatch.
//
// Two postures exist: Active writes live settings and the full import list;
// Commented writes the same settings commented out with a restricted import
// list, leaving the project on Hardhat's defaults until the user opts in.
package hardhatcfg
