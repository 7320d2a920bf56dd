package pkgmgr

import (
	"context"

	"github.com/chainkit-labs/hardhat-create-app/internal/pkgjson"
	"github.com/chainkit-labs/hardhat-create-app/internal/runner"
)

type npmAdapter struct {
	runner runner.Runner
}

func (a *npmAdapter) Name() string { return NPM }

func (a *npmAdapter) Prepare(context.Context, string) error { return nil }

func (a *npmAdapter) InitProject(ctx context.Context, dir string) error {
	return run(ctx, a.runner, dir, "npm", nil, "init", "-y")
}

func (a *npmAdapter) AfterInit(context.Context, string) error { return nil }

// InstallDependencies forces dev installs with -f so peer-dependency conflicts
// between the plugins and the bootstrap tool do not abort the install.
func (a *npmAdapter) InstallDependencies(ctx context.Context, dir string, names []string, dev bool) error {
	args := []string{"install"}
	if dev {
		args = append(args, "--save-dev", "-f")
	}
	args = append(args, names...)
	return run(ctx, a.runner, dir, "npm", nil, args...)
}

func (a *npmAdapter) AfterBootstrapInstall(context.Context, string) error { return nil }

func (a *npmAdapter) RunBootstrap(ctx context.Context, dir string, env []string) error {
	return run(ctx, a.runner, dir, "npx", env, BootstrapTool)
}

func (a *npmAdapter) AddScripts(_ context.Context, dir string, scripts []pkgjson.Script) error {
	return pkgjson.UpdateScripts(packageJSONPath(dir), scripts, pkgjson.MergeKeep)
}

func (a *npmAdapter) DefaultScripts() []pkgjson.Script {
	return []pkgjson.Script{{Name: "compile", Command: "hardhat compile"}}
}

func (a *npmAdapter) Finalize(context.Context, string) error { return nil }

func (a *npmAdapter) RunScriptCommand(script string) string {
	return "npm run " + script
}
