package hardhatcfg

import (
	"strings"
	"testing"

	"github.com/chainkit-labs/hardhat-create-app/internal/configpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bootstrapDefault is the config written by the bootstrap tool in
// non-interactive TypeScript mode.
const bootstrapDefault = `import { HardhatUserConfig } from "hardhat/config";
import "@nomicfoundation/hardhat-toolbox";

const config: HardhatUserConfig = {
  solidity: "0.8.17",
};

export default config;
`

func TestRenderSettingsActive(t *testing.T) {
	out, err := RenderSettings(Default(), Active)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "  networks: {\n    hardhat: {\n      forking: {\n"))
	assert.Contains(t, out, "        url: nodeUrl('matic') ?? '',\n")
	assert.Contains(t, out, "        blockNumber: 37377259, // Latest as of 28.12.2022\n")
	assert.Contains(t, out, "    mumbai: {\n      url: nodeUrl('mumbai'),\n      accounts: accounts('mumbai'),\n    },\n")
	assert.Contains(t, out, "      'https://api.polygonscan.com/api?module=proxy&action=eth_gasPrice',\n")
	assert.Contains(t, out, "      polygonMumbai: process.env.POLYGONSCAN_API_KEY || '',\n")
	assert.Contains(t, out, "    alice: {\n      default: 6,\n    },\n")
	assert.True(t, strings.HasSuffix(out, "  },\n"))
}

func TestRenderSettingsWithoutForking(t *testing.T) {
	cfg := Default()
	cfg.Forking = nil
	out, err := RenderSettings(cfg, Active)
	require.NoError(t, err)
	assert.Contains(t, out, "    hardhat: {\n    },\n")
}

func TestRenderSettingsCommented(t *testing.T) {
	out, err := RenderSettings(Default(), Commented)
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.True(t, strings.HasPrefix(line, "  // "), "line %q is not commented", line)
	}
}

func TestPatchesActiveAgainstBootstrapDefault(t *testing.T) {
	patches, err := Patches(Default(), Active)
	require.NoError(t, err)

	out, rep := configpatch.ApplyWithReport(bootstrapDefault, patches)
	require.True(t, rep.OK(), "missed: %v", rep.Missed)

	assert.Contains(t, out, "  solidity: \"0.8.17\",\n  networks: {\n")
	assert.Contains(t, out, "import 'hardhat-gas-reporter';")
	assert.Contains(t, out, "import './tasks/acl';")
	assert.Contains(t, out, "dotenv.config();")
	assert.NotContains(t, out, ToolboxAnchor)
	assert.True(t, strings.HasSuffix(out, "  },\n};\n\nexport default config;\n"))
}

func TestPatchesCommentedAgainstBootstrapDefault(t *testing.T) {
	patches, err := Patches(Default(), Commented)
	require.NoError(t, err)

	out, rep := configpatch.ApplyWithReport(bootstrapDefault, patches)
	require.True(t, rep.OK())

	assert.Contains(t, out, "  // networks: {\n")
	assert.Contains(t, out, "  // gasReporter: {\n")
	assert.NotContains(t, out, "import './tasks/acl';")
	assert.NotContains(t, out, "import 'hardhat-contract-sizer';")
	assert.Contains(t, out, "// import 'hardhat-gas-reporter';")
}

func TestPatchesRejectInvalidConfig(t *testing.T) {
	cfg := Default()
	cfg.Networks = append(cfg.Networks, Network{Name: "matic", HelperKey: "matic"})
	_, err := Patches(cfg, Active)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `network "matic" defined more than once`)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	cfg := Config{
		Forking:       &Forking{},
		Networks:      []Network{{Name: "hardhat", HelperKey: "x"}, {Name: "", HelperKey: ""}},
		NamedAccounts: []NamedAccount{{Name: "a", Index: 0}, {Name: "a", Index: -1}},
		MochaTimeout:  -1,
	}
	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `network "hardhat" defined more than once`)
	assert.Contains(t, msg, "network with empty name")
	assert.Contains(t, msg, "forking requires a helper key")
	assert.Contains(t, msg, `named account "a" defined more than once`)
	assert.Contains(t, msg, "negative index -1")
	assert.Contains(t, msg, "mocha timeout -1 is negative")
}

func TestPostureString(t *testing.T) {
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "commented", Commented.String())
}
