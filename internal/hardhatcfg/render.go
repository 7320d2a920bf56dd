package hardhatcfg

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/chainkit-labs/hardhat-create-app/internal/configpatch"
)

// Posture selects how settings are written into the config file.
type Posture int

const (
	// Active writes live settings and the full plugin import list.
	Active Posture = iota
	// Commented writes the settings commented out and a restricted import list.
	Commented
)

func (p Posture) String() string {
	if p == Commented {
		return "commented"
	}
	return "active"
}

// Anchors the bootstrap tool's default TypeScript config is known to contain.
const (
	// CloseAnchor ends the exported config object.
	CloseAnchor = "};"
	// ToolboxAnchor is the default plugin import.
	ToolboxAnchor = `import "@nomicfoundation/hardhat-toolbox";`
)

const settingsTemplate = `networks: {
  hardhat: {
{{- with .Forking}}
    forking: {
      url: nodeUrl('{{.HelperKey}}') ?? '',
      blockNumber: {{.BlockNumber}},{{if .Note}} // {{.Note}}{{end}}
    },
{{- end}}
  },
{{- range .Networks}}
  {{.Name}}: {
    url: nodeUrl('{{.HelperKey}}'),
    accounts: accounts('{{.HelperKey}}'),
  },
{{- end}}
},
gasReporter: {
  enabled: process.env.{{.GasReporter.EnableEnv}} !== undefined,
  currency: '{{.GasReporter.Currency}}',
  token: '{{.GasReporter.Token}}',
  gasPriceApi:
    '{{.GasReporter.GasPriceAPI}}',
  coinmarketcap: process.env.{{.GasReporter.CoinmarketcapEnv}},
},
etherscan: {
  apiKey: {
{{- range .Etherscan}}
    {{.Network}}: process.env.{{.Env}} || '',
{{- end}}
  },
},
mocha: {
  timeout: {{.MochaTimeout}},
},
namedAccounts: {
{{- range .NamedAccounts}}
  {{.Name}}: {
    default: {{.Index}},
  },
{{- end}}
},
`

var settingsTmpl = template.Must(template.New("settings").Parse(settingsTemplate))

// RenderSettings returns the settings block, indented as members of the
// exported config object.
func RenderSettings(cfg Config, posture Posture) (string, error) {
	var buf bytes.Buffer
	if err := settingsTmpl.Execute(&buf, cfg); err != nil {
		return "", fmt.Errorf("rendering config settings: %w", err)
	}

	prefix := "  "
	if posture == Commented {
		prefix = "  // "
	}

	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Imports returns the import and setup lines that replace the toolbox import.
func Imports(posture Posture) []string {
	if posture == Commented {
		return []string{
			"import '@nomicfoundation/hardhat-toolbox';",
			"import 'hardhat-deploy';",
			"// import 'hardhat-gas-reporter';",
			"// import { nodeUrl, accounts } from './utils/network';",
			"import * as dotenv from 'dotenv';",
			"",
			"dotenv.config();",
		}
	}
	return []string{
		"import '@nomicfoundation/hardhat-toolbox';",
		"import 'hardhat-deploy';",
		"import 'hardhat-gas-reporter';",
		"import 'hardhat-contract-sizer';",
		"import { nodeUrl, accounts } from './utils/network';",
		"import * as dotenv from 'dotenv';",
		"import './tasks/acl';",
		"",
		"dotenv.config();",
	}
}

// Patches validates cfg and returns the patch list for posture: first the
// settings block before the config's closing brace, then the import list.
func Patches(cfg Config, posture Posture) ([]configpatch.Patch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid hardhat config settings: %w", err)
	}

	settings, err := RenderSettings(cfg, posture)
	if err != nil {
		return nil, err
	}

	return []configpatch.Patch{
		{
			Name:        "settings",
			Anchor:      CloseAnchor,
			Replacement: settings + CloseAnchor,
		},
		{
			Name:        "imports",
			Anchor:      ToolboxAnchor,
			Replacement: strings.Join(Imports(posture), "\n"),
		},
	}, nil
}
