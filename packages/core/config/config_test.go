package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.IsDefault())
	assert.Equal(t, 5, cfg.Concurrency)
	assert.Equal(t, "console", cfg.Reporter)
	assert.False(t, cfg.GetNoColor())
}

func TestFindAndLoadConfig_NoFile(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.IsDefault())
}

func TestLoadConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".referee.json")
	content := `{
  "noColor": true,
  "maxLength": 80,
  "messages": {"assert.match.exceptionMessage": "bad matcher: ${exceptionMessage}"}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.True(t, cfg.GetNoColor())
	assert.Equal(t, 80, cfg.MaxLength)
	assert.Equal(t, 5, cfg.Concurrency, "unset values keep defaults")

	assert.Equal(t, "bad matcher: ${exceptionMessage}", cfg.Messages["assert.match.exceptionMessage"])
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := `
bail: true
concurrency: 2
messages:
  refute.match: "${actual} should not look like ${expected}"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.GetBail())
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "${actual} should not look like ${expected}", cfg.Messages["refute.match"])
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".referee.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Messages = map[string]string{"assert.match": "base"}

	merged := base.Merge(&Config{
		NoColor:     BoolPtr(true),
		Concurrency: 10,
		Messages:    map[string]string{"refute.match": "other"},
	})

	assert.True(t, merged.GetNoColor())
	assert.False(t, merged.GetBail())
	assert.Equal(t, 10, merged.Concurrency)
	assert.Equal(t, map[string]string{"assert.match": "base", "refute.match": "other"}, merged.Messages)
	assert.Equal(t, map[string]string{"assert.match": "base"}, base.Messages, "merge does not mutate the receiver")
	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".referee.yaml")
	cfg := DefaultConfig()
	cfg.MaxDepth = 3

	require.NoError(t, cfg.SaveConfig(path))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.MaxDepth)
}
