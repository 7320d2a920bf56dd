package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/chainkit-labs/hardhat-create-app/internal/pkgjson"
	"github.com/chainkit-labs/hardhat-create-app/internal/platform"
	"github.com/chainkit-labs/hardhat-create-app/internal/runner"
	"go.yaml.in/yaml/v3"
)

const (
	// DefaultYarnVersion is the "yarn set version" target.
	DefaultYarnVersion = "stable"

	// YarnRCFile is yarn's runtime configuration file.
	YarnRCFile = ".yarnrc.yml"

	// nodeLinkerSetting makes yarn lay out node_modules the way the bootstrap
	// tool expects; the default Plug'n'Play linker breaks "yarn hardhat".
	nodeLinkerSetting = "nodeLinker: node-modules"
)

// Files removed by the yarn flow.
var (
	generatedReadme       = "README.md"
	generatedDeployScript = filepath.Join("scripts", "deploy.ts")
)

// yarnChannels are the named release channels accepted by "yarn set version".
var yarnChannels = map[string]bool{
	"stable": true,
	"berry":  true,
	"canary": true,
	"latest": true,
}

// ValidateYarnVersion accepts a release channel or a semver version of
// yarn 2 or newer.
func ValidateYarnVersion(version string) error {
	if yarnChannels[version] {
		return nil
	}
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return fmt.Errorf("invalid yarn version %q: use a channel (stable, berry, canary) or a version number", version)
	}
	if v.Major() < 2 {
		return fmt.Errorf("yarn version %s is too old: the yarn flow requires yarn 2 or newer", v)
	}
	return nil
}

type yarnAdapter struct {
	runner  runner.Runner
	version string
}

func (a *yarnAdapter) Name() string { return Yarn }

// Prepare pins the project to a modern yarn release before anything else runs.
func (a *yarnAdapter) Prepare(ctx context.Context, dir string) error {
	return run(ctx, a.runner, dir, "yarn", nil, "set", "version", a.version)
}

func (a *yarnAdapter) InitProject(ctx context.Context, dir string) error {
	return run(ctx, a.runner, dir, "yarn", nil, "init", "-y")
}

// AfterInit drops the README that "yarn init" writes.
func (a *yarnAdapter) AfterInit(_ context.Context, dir string) error {
	return removeIfExists(filepath.Join(dir, generatedReadme))
}

func (a *yarnAdapter) InstallDependencies(ctx context.Context, dir string, names []string, dev bool) error {
	args := []string{"add"}
	if dev {
		args = append(args, "--dev")
	}
	args = append(args, names...)
	return run(ctx, a.runner, dir, "yarn", nil, args...)
}

// AfterBootstrapInstall appends the node-modules linker setting to .yarnrc.yml
// and checks that the file still resolves to it. A file that already selects
// node-modules is left alone.
func (a *yarnAdapter) AfterBootstrapInstall(_ context.Context, dir string) error {
	path := filepath.Join(dir, YarnRCFile)

	if linker, err := NodeLinker(dir); err == nil && linker == "node-modules" {
		return nil
	}

	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var b strings.Builder
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		b.WriteString("\n")
	}
	b.WriteString(nodeLinkerSetting)
	b.WriteString("\n")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, platform.FilePerm)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	linker, err := NodeLinker(dir)
	if err != nil {
		return err
	}
	if linker != "node-modules" {
		return fmt.Errorf("%s resolves nodeLinker to %q after update", YarnRCFile, linker)
	}
	return nil
}

func (a *yarnAdapter) RunBootstrap(ctx context.Context, dir string, env []string) error {
	return run(ctx, a.runner, dir, "yarn", env, BootstrapTool)
}

// AddScripts replaces the scripts object wholesale. Scripts written by
// "yarn init" or the bootstrap tool do not survive.
func (a *yarnAdapter) AddScripts(_ context.Context, dir string, scripts []pkgjson.Script) error {
	return pkgjson.UpdateScripts(packageJSONPath(dir), scripts, pkgjson.MergeReplace)
}

func (a *yarnAdapter) DefaultScripts() []pkgjson.Script {
	return []pkgjson.Script{
		{Name: "compile", Command: "hardhat compile"},
		{Name: "test", Command: "hardhat test"},
	}
}

// Finalize removes the bootstrap tool's sample deploy script; the template
// tree ships its own deployment layout.
func (a *yarnAdapter) Finalize(_ context.Context, dir string) error {
	return removeIfExists(filepath.Join(dir, generatedDeployScript))
}

func (a *yarnAdapter) RunScriptCommand(script string) string {
	return "yarn " + script
}

// NodeLinker returns the nodeLinker value of dir/.yarnrc.yml, or "" when the
// file or key is absent.
func NodeLinker(dir string) (string, error) {
	path := filepath.Join(dir, YarnRCFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	var rc struct {
		NodeLinker string `yaml:"nodeLinker"`
	}
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	return rc.NodeLinker, nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}
