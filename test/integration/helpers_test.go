//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeNPM stands in for npm. "init" writes package.json; a failing install can
// be forced with FAKE_FAIL_INSTALL.
const fakeNPM = `#!/bin/sh
echo "$(pwd)|npm $*" >> "$FAKE_LOG"
case "$1" in
  init)
    printf '{\n  "name": "%s",\n  "version": "1.0.0",\n  "scripts": {\n    "test": "echo no tests"\n  }\n}\n' "$(basename "$(pwd)")" > package.json
    ;;
  install)
    if [ "$2" = "--save-dev" ] && [ -n "$FAKE_FAIL_INSTALL" ]; then
      echo "npm ERR! fake failure" >&2
      exit 3
    fi
    ;;
  --version)
    echo "10.2.4"
    ;;
esac
exit 0
`

// fakeNPX stands in for npx running the bootstrap tool.
const fakeNPX = `#!/bin/sh
echo "$(pwd)|npx $*" >> "$FAKE_LOG"
if [ "$1" = "--version" ]; then echo "10.2.4"; exit 0; fi
if [ "$HARDHAT_CREATE_TYPESCRIPT_PROJECT_WITH_DEFAULTS" != "true" ]; then
  echo "interactive prompt reached" >&2
  exit 1
fi
` + writeBootstrapOutput

// fakeYarn stands in for yarn 4.
const fakeYarn = `#!/bin/sh
echo "$(pwd)|yarn $*" >> "$FAKE_LOG"
case "$1" in
  set)
    echo "yarnPath: .yarn/releases/yarn-4.0.2.cjs" > .yarnrc.yml
    ;;
  init)
    printf '{\n  "name": "demo",\n  "packageManager": "yarn@4.0.2"\n}\n' > package.json
    echo "# demo" > README.md
    ;;
  hardhat)
    if [ "$HARDHAT_CREATE_TYPESCRIPT_PROJECT_WITH_DEFAULTS" != "true" ]; then exit 1; fi
` + writeBootstrapOutput + `    ;;
  --version)
    echo "4.0.2"
    ;;
esac
exit 0
`

const writeBootstrapOutput = `mkdir -p scripts contracts
cat > hardhat.config.ts <<'CONFIG'
import { HardhatUserConfig } from "hardhat/config";
import "@nomicfoundation/hardhat-toolbox";

const config: HardhatUserConfig = {
  solidity: "0.8.17",
};

export default config;
CONFIG
echo "// sample" > scripts/deploy.ts
echo "// lock" > contracts/Lock.sol
`

const fakeNode = `#!/bin/sh
echo "v20.11.0"
`

// installFakeTools writes the stand-ins to a bin directory placed first on
// PATH and returns the command log path.
func installFakeTools(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}

	bin := t.TempDir()
	for name, script := range map[string]string{
		"npm":  fakeNPM,
		"npx":  fakeNPX,
		"yarn": fakeYarn,
		"node": fakeNode,
	} {
		if err := os.WriteFile(filepath.Join(bin, name), []byte(script), 0755); err != nil {
			t.Fatalf("writing fake %s: %v", name, err)
		}
	}

	logPath := filepath.Join(t.TempDir(), "commands.log")
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("FAKE_LOG", logPath)
	return logPath
}

// readLog returns the logged "dir|command" lines.
func readLog(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading command log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s not to exist (err: %v)", path, err)
	}
}
