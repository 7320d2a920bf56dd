package hardhatcfg

import (
	"errors"
	"fmt"
)

// FileName is the configuration file generated by the bootstrap tool.
const FileName = "hardhat.config.ts"

// Network is a named remote network whose URL and accounts are resolved at
// runtime by the project's network helper module.
type Network struct {
	Name string
	// HelperKey is the argument passed to nodeUrl() and accounts().
	HelperKey string
}

// Forking configures the in-process hardhat network to fork a remote chain.
type Forking struct {
	HelperKey   string
	BlockNumber uint64
	Note        string
}

// GasReporter configures hardhat-gas-reporter.
type GasReporter struct {
	// EnableEnv turns reporting on when the variable is set.
	EnableEnv        string
	Currency         string
	Token            string
	GasPriceAPI      string
	CoinmarketcapEnv string
}

// ExplorerKey maps an etherscan network name to the env var holding its key.
type ExplorerKey struct {
	Network string
	Env     string
}

// NamedAccount maps a hardhat-deploy account name to a default account index.
type NamedAccount struct {
	Name  string
	Index int
}

// Config is the full set of settings inserted into hardhat.config.ts.
type Config struct {
	Forking       *Forking
	Networks      []Network
	GasReporter   GasReporter
	Etherscan     []ExplorerKey
	MochaTimeout  int
	NamedAccounts []NamedAccount
}

// Default returns the settings shipped with every generated project.
func Default() Config {
	return Config{
		Forking: &Forking{
			HelperKey:   "matic",
			BlockNumber: 37377259,
			Note:        "Latest as of 28.12.2022",
		},
		Networks: []Network{
			{Name: "matic", HelperKey: "matic"},
			{Name: "mumbai", HelperKey: "mumbai"},
			{Name: "rinkeby", HelperKey: "rinkeby"},
		},
		GasReporter: GasReporter{
			EnableEnv:        "REPORT_GAS",
			Currency:         "USD",
			Token:            "MATIC",
			GasPriceAPI:      "https://api.polygonscan.com/api?module=proxy&action=eth_gasPrice",
			CoinmarketcapEnv: "COINMARKETCAP_API_KEY",
		},
		Etherscan: []ExplorerKey{
			{Network: "mainnet", Env: "ETHERSCAN_API_KEY"},
			{Network: "rinkeby", Env: "ETHERSCAN_API_KEY"},
			{Network: "polygon", Env: "POLYGONSCAN_API_KEY"},
			{Network: "polygonMumbai", Env: "POLYGONSCAN_API_KEY"},
		},
		MochaTimeout: 0,
		NamedAccounts: []NamedAccount{
			{Name: "deployer", Index: 0},
			{Name: "proxyAdminOwner", Index: 1},
			{Name: "bob", Index: 5},
			{Name: "alice", Index: 6},
			{Name: "mat", Index: 7},
		},
	}
}

// Validate reports settings that would render a broken config.
func (c Config) Validate() error {
	var errs []error

	seen := map[string]bool{"hardhat": true}
	for _, n := range c.Networks {
		switch {
		case n.Name == "":
			errs = append(errs, errors.New("network with empty name"))
		case seen[n.Name]:
			errs = append(errs, fmt.Errorf("network %q defined more than once", n.Name))
		}
		if n.HelperKey == "" {
			errs = append(errs, fmt.Errorf("network %q has no helper key", n.Name))
		}
		seen[n.Name] = true
	}

	if c.Forking != nil && c.Forking.HelperKey == "" {
		errs = append(errs, errors.New("forking requires a helper key"))
	}

	accounts := map[string]bool{}
	for _, a := range c.NamedAccounts {
		if accounts[a.Name] {
			errs = append(errs, fmt.Errorf("named account %q defined more than once", a.Name))
		}
		if a.Index < 0 {
			errs = append(errs, fmt.Errorf("named account %q has negative index %d", a.Name, a.Index))
		}
		accounts[a.Name] = true
	}

	if c.MochaTimeout < 0 {
		errs = append(errs, fmt.Errorf("mocha timeout %d is negative", c.MochaTimeout))
	}

	return errors.Join(errs...)
}
