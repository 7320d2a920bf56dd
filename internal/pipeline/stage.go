package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/chainkit-labs/hardhat-create-app/internal/configpatch"
	"github.com/chainkit-labs/hardhat-create-app/internal/hardhatcfg"
	"github.com/chainkit-labs/hardhat-create-app/internal/pkgjson"
	"github.com/chainkit-labs/hardhat-create-app/internal/pkgmgr"
	"github.com/chainkit-labs/hardhat-create-app/internal/scaffold"
	"github.com/chainkit-labs/hardhat-create-app/internal/ux"
)

// Artifacts passed between stages. Stages declare which ones they need and
// which ones they leave behind.
const (
	ArtifactPackageManager = "package-manager"
	ArtifactPackageJSON    = pkgjson.FileName
	ArtifactBootstrapTool  = pkgmgr.BootstrapTool
	ArtifactYarnRC         = pkgmgr.YarnRCFile
	ArtifactHardhatConfig  = hardhatcfg.FileName
	ArtifactPlugins        = "plugins"
	ArtifactScripts        = "scripts"
	ArtifactCleanup        = "cleanup"
	ArtifactPatchedConfig  = "patched-config"
	ArtifactTemplates      = "templates"
)

// onDisk maps artifacts that are plain files to their path under the root.
// They are checked before a stage that requires them runs.
var onDisk = map[string]string{
	ArtifactPackageJSON:   pkgjson.FileName,
	ArtifactHardhatConfig: hardhatcfg.FileName,
}

// Env is what a running stage sees.
type Env struct {
	Root    string
	Adapter pkgmgr.Adapter
	Out     io.Writer
	Logger  *slog.Logger
	Outcome *Outcome
}

// Stage is one step of the generation flow.
type Stage struct {
	Name     string
	Label    string
	Requires []string
	Produces []string
	// Exec marks stages that only invoke external commands through the
	// adapter. Plan runs them against a recorder.
	Exec bool
	// Action describes the filesystem work of a non-Exec stage.
	Action string
	Run    func(ctx context.Context, env *Env) error
}

// Options tune a run.
type Options struct {
	Variant Variant
	// YarnVersion is the "yarn set version" target.
	YarnVersion string
	// TemplateDir replaces the embedded template tree when set.
	TemplateDir string
	// StrictPatches makes a missed config anchor fatal.
	StrictPatches bool
	// Config overrides the default hardhat settings.
	Config *hardhatcfg.Config
}

// descriptor lists which hooks a variant uses.
type descriptor struct {
	pin          bool
	dropReadme   bool
	devBootstrap bool
	linker       bool
	finalize     bool
	scriptsLabel string
	posture      hardhatcfg.Posture
}

var descriptors = map[Variant]descriptor{
	NPM: {
		scriptsLabel: "Adding the 'compile' script to package.json...",
		posture:      hardhatcfg.Active,
	},
	Yarn: {
		pin:          true,
		dropReadme:   true,
		devBootstrap: true,
		linker:       true,
		finalize:     true,
		scriptsLabel: "Adding the 'compile' and 'test' scripts to package.json...",
		posture:      hardhatcfg.Commented,
	},
}

// Definition returns the ordered stage list for opts.Variant.
func Definition(opts Options) ([]Stage, error) {
	d, ok := descriptors[opts.Variant]
	if !ok {
		return nil, fmt.Errorf("%w: unknown variant %q", ErrInvalidArgument, opts.Variant)
	}

	cfg := hardhatcfg.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	patches, err := hardhatcfg.Patches(cfg, d.posture)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	yarnVersion := opts.YarnVersion
	if yarnVersion == "" {
		yarnVersion = pkgmgr.DefaultYarnVersion
	}

	var stages []Stage

	if d.pin {
		stages = append(stages, Stage{
			Name:     "pin",
			Label:    fmt.Sprintf("Setting the yarn version to %s...", yarnVersion),
			Produces: []string{ArtifactPackageManager},
			Exec:     true,
			Run: func(ctx context.Context, env *Env) error {
				return env.Adapter.Prepare(ctx, env.Root)
			},
		})
	}

	initStage := Stage{
		Name:     "init",
		Label:    fmt.Sprintf("Initializing a new %s project...", opts.Variant),
		Produces: []string{ArtifactPackageJSON},
		Exec:     true,
		Run: func(ctx context.Context, env *Env) error {
			return env.Adapter.InitProject(ctx, env.Root)
		},
	}
	if d.pin {
		initStage.Requires = []string{ArtifactPackageManager}
	}
	stages = append(stages, initStage)

	if d.dropReadme {
		stages = append(stages, Stage{
			Name:     "drop-readme",
			Label:    "Removing the generated README.md...",
			Requires: []string{ArtifactPackageJSON},
			Action:   "remove README.md",
			Run: func(ctx context.Context, env *Env) error {
				return env.Adapter.AfterInit(ctx, env.Root)
			},
		})
	}

	stages = append(stages, Stage{
		Name:     "install-bootstrap",
		Label:    "Installing Hardhat...",
		Requires: []string{ArtifactPackageJSON},
		Produces: []string{ArtifactBootstrapTool},
		Exec:     true,
		Run: func(ctx context.Context, env *Env) error {
			return env.Adapter.InstallDependencies(ctx, env.Root, []string{pkgmgr.BootstrapTool}, d.devBootstrap)
		},
	})

	bootstrapRequires := []string{ArtifactBootstrapTool}
	if d.linker {
		stages = append(stages, Stage{
			Name:     "node-linker",
			Label:    "Configuring yarn to use node_modules...",
			Requires: []string{ArtifactBootstrapTool},
			Produces: []string{ArtifactYarnRC},
			Action:   "append nodeLinker to " + pkgmgr.YarnRCFile,
			Run: func(ctx context.Context, env *Env) error {
				return env.Adapter.AfterBootstrapInstall(ctx, env.Root)
			},
		})
		bootstrapRequires = append(bootstrapRequires, ArtifactYarnRC)
	}

	stages = append(stages,
		Stage{
			Name:     "bootstrap",
			Label:    "Initializing a new Hardhat TypeScript project...",
			Requires: bootstrapRequires,
			Produces: []string{ArtifactHardhatConfig},
			Exec:     true,
			Run: func(ctx context.Context, env *Env) error {
				return env.Adapter.RunBootstrap(ctx, env.Root, []string{pkgmgr.DefaultsEnv})
			},
		},
		Stage{
			Name:     "install-plugins",
			Label:    "Installing Hardhat Plugins...",
			Requires: []string{ArtifactPackageJSON, ArtifactHardhatConfig},
			Produces: []string{ArtifactPlugins},
			Exec:     true,
			Run: func(ctx context.Context, env *Env) error {
				return env.Adapter.InstallDependencies(ctx, env.Root, pkgmgr.PluginSet(), true)
			},
		},
		Stage{
			Name:     "scripts",
			Label:    d.scriptsLabel,
			Requires: []string{ArtifactPackageJSON, ArtifactPlugins},
			Produces: []string{ArtifactScripts},
			Action:   "update package.json scripts",
			Run: func(ctx context.Context, env *Env) error {
				return env.Adapter.AddScripts(ctx, env.Root, env.Adapter.DefaultScripts())
			},
		},
	)

	patchRequires := []string{ArtifactHardhatConfig, ArtifactPlugins}
	if d.finalize {
		stages = append(stages, Stage{
			Name:     "drop-sample-deploy",
			Label:    "Removing the sample deploy script...",
			Requires: []string{ArtifactHardhatConfig},
			Produces: []string{ArtifactCleanup},
			Action:   "remove scripts/deploy.ts",
			Run: func(ctx context.Context, env *Env) error {
				return env.Adapter.Finalize(ctx, env.Root)
			},
		})
		patchRequires = append(patchRequires, ArtifactCleanup)
	}

	stages = append(stages,
		Stage{
			Name:     "patch-config",
			Label:    "Editing the hardhat.config.ts...",
			Requires: patchRequires,
			Produces: []string{ArtifactPatchedConfig},
			Action:   fmt.Sprintf("apply %d %s patches to %s", len(patches), d.posture, hardhatcfg.FileName),
			Run: func(_ context.Context, env *Env) error {
				return patchConfig(env, patches, opts.StrictPatches)
			},
		},
		Stage{
			Name:     "templates",
			Label:    "Copying files to the project directory...",
			Requires: []string{ArtifactPatchedConfig},
			Produces: []string{ArtifactTemplates},
			Action:   templateAction(opts),
			Run: func(_ context.Context, env *Env) error {
				res, err := scaffold.Overlay(opts.Variant.String(), env.Root, opts.TemplateDir)
				if err != nil {
					return err
				}
				env.Outcome.Files = res.Files
				env.Logger.Debug("templates copied", "source", res.Source, "files", len(res.Files))
				return nil
			},
		},
		Stage{
			Name:     "verify",
			Label:    "Checking package.json...",
			Requires: []string{ArtifactPackageJSON, ArtifactScripts, ArtifactTemplates},
			Action:   "validate package.json",
			Run: func(_ context.Context, env *Env) error {
				verifyPackageJSON(env)
				return nil
			},
		},
	)

	return stages, nil
}

func patchConfig(env *Env, patches []configpatch.Patch, strict bool) error {
	path := filepath.Join(env.Root, hardhatcfg.FileName)
	rep, err := configpatch.ApplyFile(path, patches, strict)
	env.Outcome.Missed = append(env.Outcome.Missed, rep.Missed...)
	for _, p := range rep.Missed {
		env.Logger.Warn("config patch anchor not found", "patch", p.Name, "anchor", p.Anchor, "file", path)
		ux.Warn(env.Out, "%s: anchor %q not found, %s patch skipped", hardhatcfg.FileName, p.Anchor, p.Name)
	}
	return err
}

// verifyPackageJSON reports schema issues without failing the run.
func verifyPackageJSON(env *Env) {
	path := filepath.Join(env.Root, pkgjson.FileName)
	if doc, err := pkgjson.Load(path); err == nil {
		if scripts, err := doc.Scripts(); err == nil {
			env.Outcome.Scripts = make([]string, 0, len(scripts))
			for name := range scripts {
				env.Outcome.Scripts = append(env.Outcome.Scripts, name)
			}
			sort.Strings(env.Outcome.Scripts)
		}
	}
	res, err := pkgjson.ValidateFile(path)
	if err != nil {
		env.Logger.Warn("package.json could not be validated", "error", err)
		ux.Warn(env.Out, "%s could not be validated: %v", pkgjson.FileName, err)
		return
	}
	env.Outcome.Issues = res.Issues
	for _, issue := range res.Issues {
		env.Logger.Warn("package.json schema issue", "issue", issue.String())
		ux.Warn(env.Out, "%s: %s", pkgjson.FileName, issue)
	}
}

func templateAction(opts Options) string {
	if opts.TemplateDir != "" {
		return "copy templates from " + opts.TemplateDir
	}
	return "copy embedded " + opts.Variant.String() + " templates"
}
