package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigEnvOverridesAndDefaults(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ADMIN_PASSWORD", "hunter2")

	LoadConfig()

	assert.Equal(t, "8080", AppConfig.Port)
	assert.Equal(t, "hunter2", AppConfig.AdminPassword)
	assert.Equal(t, "data", AppConfig.DataDir)
	assert.Equal(t, "uploads", AppConfig.UploadsDir)
}
