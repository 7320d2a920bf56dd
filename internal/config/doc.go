// Package config manages user-level settings stored at
// ~/.hardhat-create-app/config.yaml. Values can be overridden with HCA_*
// environment variables and, in the CLI, with command-line flags.
package config
