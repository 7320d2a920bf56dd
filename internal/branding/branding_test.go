package branding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddedIdentity(t *testing.T) {
	assert.Equal(t, "hardhat-create-app", CLIName())
	assert.Equal(t, ".hardhat-create-app", HomeDir())
	assert.Equal(t, "HCA", EnvPrefix())
	assert.NotEmpty(t, DisplayName())
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "HCA_VARIANT", EnvVar("variant"))
	assert.Equal(t, "HCA_TEMPLATE_DIR", EnvVar("template_dir"))
}
