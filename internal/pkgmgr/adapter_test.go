package pkgmgr

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/chainkit-labs/hardhat-create-app/internal/pkgjson"
	"github.com/chainkit-labs/hardhat-create-app/internal/platform"
	"github.com/chainkit-labs/hardhat-create-app/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnknown(t *testing.T) {
	_, err := New("pnpm", &runner.Recorder{}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown package manager")
}

func TestNewRejectsOldYarn(t *testing.T) {
	_, err := New(Yarn, &runner.Recorder{}, Options{YarnVersion: "1.22.19"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too old")
}

func TestValidateYarnVersion(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{"stable", false},
		{"berry", false},
		{"canary", false},
		{"4.1.0", false},
		{"v3.6.4", false},
		{"1.22.19", true},
		{"not-a-version", true},
	}
	for _, tt := range tests {
		err := ValidateYarnVersion(tt.version)
		if tt.wantErr {
			assert.Error(t, err, tt.version)
		} else {
			assert.NoError(t, err, tt.version)
		}
	}
}

func TestPluginSetIncludesReporters(t *testing.T) {
	set := PluginSet()
	assert.Contains(t, set, "hardhat-gas-reporter")
	assert.Contains(t, set, "hardhat-contract-sizer")
	assert.Contains(t, set, "@nomiclabs/hardhat-ethers@npm:hardhat-deploy-ethers")
	assert.Len(t, set, 12)
}

func TestNPMCommands(t *testing.T) {
	rec := &runner.Recorder{}
	a, err := New(NPM, rec, Options{})
	require.NoError(t, err)

	ctx := context.Background()
	dir := "/work/demo"
	require.NoError(t, a.Prepare(ctx, dir))
	require.NoError(t, a.InitProject(ctx, dir))
	require.NoError(t, a.InstallDependencies(ctx, dir, []string{BootstrapTool}, false))
	require.NoError(t, a.RunBootstrap(ctx, dir, []string{DefaultsEnv}))
	require.NoError(t, a.InstallDependencies(ctx, dir, []string{"dotenv", "prettier"}, true))

	assert.Equal(t, []string{
		"npm init -y",
		"npm install hardhat",
		"HARDHAT_CREATE_TYPESCRIPT_PROJECT_WITH_DEFAULTS=true npx hardhat",
		"npm install --save-dev -f dotenv prettier",
	}, rec.Lines())

	for _, c := range rec.Commands() {
		assert.Equal(t, dir, c.Dir)
	}
	assert.Equal(t, "npm run compile", a.RunScriptCommand("compile"))
}

func TestYarnCommands(t *testing.T) {
	rec := &runner.Recorder{}
	a, err := New(Yarn, rec, Options{})
	require.NoError(t, err)

	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, a.Prepare(ctx, dir))
	require.NoError(t, a.InitProject(ctx, dir))
	require.NoError(t, a.InstallDependencies(ctx, dir, []string{BootstrapTool}, true))
	require.NoError(t, a.RunBootstrap(ctx, dir, []string{DefaultsEnv}))

	assert.Equal(t, []string{
		"yarn set version stable",
		"yarn init -y",
		"yarn add --dev hardhat",
		"HARDHAT_CREATE_TYPESCRIPT_PROJECT_WITH_DEFAULTS=true yarn hardhat",
	}, rec.Lines())
	assert.Equal(t, "yarn test", a.RunScriptCommand("test"))
}

func TestErrorsPropagate(t *testing.T) {
	rec := &runner.Recorder{Handler: runner.Fail("npm init -y", 1)}
	a, err := New(NPM, rec, Options{})
	require.NoError(t, err)

	err = a.InitProject(context.Background(), "/work")
	var exitErr *runner.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode)
}

func TestNPMAddScriptsKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, pkgjson.FileName), `{"name": "demo", "scripts": {"lint": "solhint contracts/*.sol"}}`)

	a, err := New(NPM, &runner.Recorder{}, Options{})
	require.NoError(t, err)
	require.NoError(t, a.AddScripts(context.Background(), dir, a.DefaultScripts()))

	scripts := readScripts(t, dir)
	assert.Equal(t, "hardhat compile", scripts["compile"])
	assert.Equal(t, "solhint contracts/*.sol", scripts["lint"])
}

func TestYarnAddScriptsDiscardsExisting(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, pkgjson.FileName), `{"name": "demo", "scripts": {"lint": "solhint contracts/*.sol"}}`)

	a, err := New(Yarn, &runner.Recorder{}, Options{})
	require.NoError(t, err)
	require.NoError(t, a.AddScripts(context.Background(), dir, a.DefaultScripts()))

	assert.Equal(t, map[string]string{
		"compile": "hardhat compile",
		"test":    "hardhat test",
	}, readScripts(t, dir))
}

func TestYarnAfterInitRemovesReadme(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "README.md"), "# demo\n")

	a, err := New(Yarn, &runner.Recorder{}, Options{})
	require.NoError(t, err)
	require.NoError(t, a.AfterInit(context.Background(), dir))
	assert.NoFileExists(t, filepath.Join(dir, "README.md"))

	// Second call is a no-op.
	require.NoError(t, a.AfterInit(context.Background(), dir))
}

func TestYarnFinalizeRemovesDeployScript(t *testing.T) {
	dir := t.TempDir()
	deploy := filepath.Join(dir, "scripts", "deploy.ts")
	writeFile(t, deploy, "main();\n")

	a, err := New(Yarn, &runner.Recorder{}, Options{})
	require.NoError(t, err)
	require.NoError(t, a.Finalize(context.Background(), dir))
	assert.NoFileExists(t, deploy)
}

func TestYarnAfterBootstrapInstallAppendsLinker(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, YarnRCFile), "yarnPath: .yarn/releases/yarn-4.1.0.cjs")

	a, err := New(Yarn, &runner.Recorder{}, Options{})
	require.NoError(t, err)
	require.NoError(t, a.AfterBootstrapInstall(context.Background(), dir))

	data, err := os.ReadFile(filepath.Join(dir, YarnRCFile))
	require.NoError(t, err)
	assert.Equal(t, "yarnPath: .yarn/releases/yarn-4.1.0.cjs\nnodeLinker: node-modules\n", string(data))

	// Already configured: file is left untouched.
	require.NoError(t, a.AfterBootstrapInstall(context.Background(), dir))
	again, err := os.ReadFile(filepath.Join(dir, YarnRCFile))
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestYarnAfterBootstrapInstallCreatesFile(t *testing.T) {
	dir := t.TempDir()
	a, err := New(Yarn, &runner.Recorder{}, Options{})
	require.NoError(t, err)
	require.NoError(t, a.AfterBootstrapInstall(context.Background(), dir))

	linker, err := NodeLinker(dir)
	require.NoError(t, err)
	assert.Equal(t, "node-modules", linker)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dir, YarnRCFile))
		require.NoError(t, err)
		assert.Equal(t, platform.FilePerm, info.Mode().Perm())
	}
}

func TestYarnAfterBootstrapInstallConflictingLinker(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, YarnRCFile), "nodeLinker: pnp\n")

	a, err := New(Yarn, &runner.Recorder{}, Options{})
	require.NoError(t, err)
	assert.Error(t, a.AfterBootstrapInstall(context.Background(), dir))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readScripts(t *testing.T, dir string) map[string]string {
	t.Helper()
	doc, err := pkgjson.Load(filepath.Join(dir, pkgjson.FileName))
	require.NoError(t, err)
	scripts, err := doc.Scripts()
	require.NoError(t, err)
	return scripts
}
