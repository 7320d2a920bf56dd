package pkgmgr

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/chainkit-labs/hardhat-create-app/internal/pkgjson"
	"github.com/chainkit-labs/hardhat-create-app/internal/runner"
)

// Supported ecosystems.
const (
	NPM  = "npm"
	Yarn = "yarn"
)

// BootstrapTool is the project generator installed and run by every flow.
const BootstrapTool = "hardhat"

// DefaultsEnv forces the bootstrap tool into non-interactive, defaults-only mode.
const DefaultsEnv = "HARDHAT_CREATE_TYPESCRIPT_PROJECT_WITH_DEFAULTS=true"

// Adapter is the capability set of one package-manager ecosystem. Dir is the
// project root; every command runs there.
type Adapter interface {
	// Name returns the ecosystem identifier ("npm" or "yarn").
	Name() string
	// Prepare runs ecosystem setup that must precede package initialization.
	Prepare(ctx context.Context, dir string) error
	// InitProject creates the package metadata file.
	InitProject(ctx context.Context, dir string) error
	// AfterInit runs cleanup that must follow package initialization.
	AfterInit(ctx context.Context, dir string) error
	// InstallDependencies adds packages, as devDependencies when dev is set.
	InstallDependencies(ctx context.Context, dir string, names []string, dev bool) error
	// AfterBootstrapInstall adjusts the ecosystem once the bootstrap tool is installed.
	AfterBootstrapInstall(ctx context.Context, dir string) error
	// RunBootstrap runs the bootstrap tool with env overrides added.
	RunBootstrap(ctx context.Context, dir string, env []string) error
	// AddScripts registers package scripts in the metadata file.
	AddScripts(ctx context.Context, dir string, scripts []pkgjson.Script) error
	// DefaultScripts returns the scripts every generated project receives.
	DefaultScripts() []pkgjson.Script
	// Finalize removes generated files the template tree replaces.
	Finalize(ctx context.Context, dir string) error
	// RunScriptCommand returns how a user invokes a package script.
	RunScriptCommand(script string) string
}

// Options tune adapter construction.
type Options struct {
	// YarnVersion is the target of "yarn set version". Defaults to "stable".
	YarnVersion string
}

// New returns the adapter for the named ecosystem.
func New(name string, r runner.Runner, opts Options) (Adapter, error) {
	switch name {
	case NPM:
		return &npmAdapter{runner: r}, nil
	case Yarn:
		version := opts.YarnVersion
		if version == "" {
			version = DefaultYarnVersion
		}
		if err := ValidateYarnVersion(version); err != nil {
			return nil, err
		}
		return &yarnAdapter{runner: r, version: version}, nil
	default:
		return nil, fmt.Errorf("unknown package manager %q: supported values are %q and %q", name, NPM, Yarn)
	}
}

// PluginSet returns the fixed development dependency set installed into every
// generated project.
func PluginSet() []string {
	return []string{
		"solhint",
		"prettier",
		"prettier-plugin-solidity",
		"hardhat-deploy",
		"@types/chai",
		"@types/mocha",
		"@types/node",
		"dotenv",
		"@nomiclabs/hardhat-ethers@npm:hardhat-deploy-ethers",
		"@openzeppelin/contracts",
		"hardhat-contract-sizer",
		"hardhat-gas-reporter",
	}
}

func run(ctx context.Context, r runner.Runner, dir, name string, env []string, args ...string) error {
	_, err := r.Run(ctx, runner.Command{Dir: dir, Name: name, Args: args, Env: env})
	return err
}

func packageJSONPath(dir string) string {
	return filepath.Join(dir, pkgjson.FileName)
}
