package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chainkit-labs/hardhat-create-app/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyVariant       = "variant"
	KeyYarnVersion   = "yarn_version"
	KeyTemplateDir   = "template_dir"
	KeyStrictPatches = "strict_patches"
	KeySkipPreflight = "skip_preflight"
)

// Settings is the resolved view of every key the generator reads.
type Settings struct {
	Variant       string
	YarnVersion   string
	TemplateDir   string
	StrictPatches bool
	SkipPreflight bool
}

// Dir returns the path to the config directory (~/.hardhat-create-app/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyVariant, "npm")
	viper.SetDefault(KeyYarnVersion, "stable")
	viper.SetDefault(KeyStrictPatches, false)
	viper.SetDefault(KeySkipPreflight, false)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the settings as resolved from defaults, file, and env.
func Current() Settings {
	return Settings{
		Variant:       viper.GetString(KeyVariant),
		YarnVersion:   viper.GetString(KeyYarnVersion),
		TemplateDir:   viper.GetString(KeyTemplateDir),
		StrictPatches: viper.GetBool(KeyStrictPatches),
		SkipPreflight: viper.GetBool(KeySkipPreflight),
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
