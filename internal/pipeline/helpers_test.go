package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chainkit-labs/hardhat-create-app/internal/runner"
	"github.com/stretchr/testify/require"
)

// bootstrapConfig is what the bootstrap tool writes in defaults mode.
const bootstrapConfig = `import { HardhatUserConfig } from "hardhat/config";
import "@nomicfoundation/hardhat-toolbox";

const config: HardhatUserConfig = {
  solidity: "0.8.17",
};

export default config;
`

const bootstrapLine = "HARDHAT_CREATE_TYPESCRIPT_PROJECT_WITH_DEFAULTS=true"

// fakeTools simulates the files npm, yarn and the bootstrap tool leave
// behind. Overrides replace the behavior for a rendered command line.
type fakeTools struct {
	t         *testing.T
	config    string
	overrides map[string]func(runner.Command) (*runner.Result, error)
}

func newFakeTools(t *testing.T) *fakeTools {
	return &fakeTools{t: t, config: bootstrapConfig, overrides: map[string]func(runner.Command) (*runner.Result, error){}}
}

func (f *fakeTools) handle(cmd runner.Command) (*runner.Result, error) {
	line := cmd.String()
	if h, ok := f.overrides[line]; ok {
		return h(cmd)
	}

	switch {
	case line == "npm init -y":
		f.write(cmd.Dir, "package.json", `{
  "name": "demo",
  "version": "1.0.0",
  "scripts": {
    "test": "echo \"Error: no test specified\" && exit 1"
  }
}
`)
	case line == "yarn init -y":
		f.write(cmd.Dir, "package.json", `{
  "name": "demo",
  "packageManager": "yarn@4.0.2",
  "scripts": {
    "lint": "eslint ."
  }
}
`)
		f.write(cmd.Dir, "README.md", "# demo\n")
	case strings.HasPrefix(line, "yarn set version"):
		f.write(cmd.Dir, ".yarnrc.yml", "yarnPath: .yarn/releases/yarn-4.0.2.cjs\n")
	case line == bootstrapLine+" npx hardhat", line == bootstrapLine+" yarn hardhat":
		f.write(cmd.Dir, "hardhat.config.ts", f.config)
		f.write(cmd.Dir, filepath.Join("scripts", "deploy.ts"), "// sample\n")
		f.write(cmd.Dir, filepath.Join("contracts", "Lock.sol"), "// lock\n")
	}
	return &runner.Result{}, nil
}

func (f *fakeTools) write(dir, rel, content string) {
	f.t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0o644))
}

func (f *fakeTools) recorder() *runner.Recorder {
	return &runner.Recorder{Handler: f.handle}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
