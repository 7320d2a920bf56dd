package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/chainkit-labs/hardhat-create-app/internal/config"
	"github.com/chainkit-labs/hardhat-create-app/internal/pipeline"
	"github.com/chainkit-labs/hardhat-create-app/internal/pkgmgr"
	"github.com/spf13/cobra"
)

var knownKeys = []string{
	config.KeyVariant,
	config.KeyYarnVersion,
	config.KeyTemplateDir,
	config.KeyStrictPatches,
	config.KeySkipPreflight,
}

func runConfigGet(cmd *cobra.Command, key string) error {
	if !slices.Contains(knownKeys, key) {
		return unknownKey(key)
	}
	config.Load()
	fmt.Fprintln(cmd.OutOrStdout(), config.Get(key))
	return nil
}

// runConfigSet stores a "key=value" pair in the settings file.
func runConfigSet(cmd *cobra.Command, pair string) error {
	key, value, ok := strings.Cut(pair, "=")
	if !ok {
		return fmt.Errorf("--config-set expects key=value, got %q", pair)
	}
	key = strings.TrimSpace(key)

	config.Load()
	if err := validateSetting(key, value); err != nil {
		return err
	}
	if err := config.Set(key, value); err != nil {
		return fmt.Errorf("setting config key %q: %w", key, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s (%s)\n", key, value, config.FilePath())
	return nil
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(knownKeys, ", "))
}

// validateSetting rejects unknown keys and values the generator cannot use.
func validateSetting(key, value string) error {
	if !slices.Contains(knownKeys, key) {
		return unknownKey(key)
	}
	switch key {
	case config.KeyVariant:
		_, err := pipeline.ParseVariant(value)
		return err
	case config.KeyYarnVersion:
		return pkgmgr.ValidateYarnVersion(value)
	case config.KeyStrictPatches, config.KeySkipPreflight:
		if value != "true" && value != "false" {
			return fmt.Errorf("%s must be true or false", key)
		}
	}
	return nil
}
