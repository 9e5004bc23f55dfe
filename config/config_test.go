package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"researchhub/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "researchhub", cfg.App.Name)
	assert.Equal(t, "researchhub.db", cfg.Store.Path)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
	assert.Equal(t, 1024, cfg.LLM.MaxTokens)
	assert.Equal(t, 6, cfg.LLM.MaxContextMessage)
	assert.Equal(t, 10, cfg.Search.Limit)
	// Redis is off until an address is configured.
	assert.Empty(t, cfg.Redis.Addr)
	// No credential ships by default; it must be supplied.
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[store]
path = "from-file.db"

[llm]
api_key = "file-key"
model = "file-model"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LLM_API_KEY", "env-key")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.Store.Path)
	assert.Equal(t, "file-model", cfg.LLM.Model)
	// Environment wins over the file.
	assert.Equal(t, "env-key", cfg.LLM.APIKey)
}
