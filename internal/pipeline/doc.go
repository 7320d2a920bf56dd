// Package pipeline turns a project name into a ready-to-use Hardhat project.
//
// A single stage list describes the whole flow. The variant (npm or yarn)
// selects which package-manager hooks are present and how the config patches
// are rendered; every stage runs with the project root as its working
// directory. Stages run in order and the first failure stops the run. Nothing
// already written is rolled back.
package pipeline
