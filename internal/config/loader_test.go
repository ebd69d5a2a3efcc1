package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1, cfg.ClassParallelism)
	assert.Equal(t, 1, cfg.ArgumentParallelism)
	assert.False(t, cfg.ShuffleClasses)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verifyica.yaml")
	content := `
classParallelism: 4
argumentParallelism: 8
shuffleClasses: true
filterFilename: filters.txt
reportPath: out.json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.ClassParallelism)
	assert.Equal(t, 8, cfg.ArgumentParallelism)
	assert.True(t, cfg.ShuffleClasses)
	assert.Equal(t, "filters.txt", cfg.FilterFilename)
	assert.Equal(t, "out.json", cfg.ReportPath)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verifyica.yaml")
	require.NoError(t, os.WriteFile(path, []byte("classParallelism: [not an int"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verifyica.yaml")
	require.NoError(t, os.WriteFile(path, []byte("classParallelism: 0"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyProperties(t *testing.T) {
	cfg, err := Default().Apply(map[string]string{
		KeyClassParallelism:    "3",
		KeyArgumentParallelism: "5",
		KeyClassShuffle:        "true",
		KeyFilterFilename:      "f.txt",
		"unknown.key":          "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.ClassParallelism)
	assert.Equal(t, 5, cfg.ArgumentParallelism)
	assert.True(t, cfg.ShuffleClasses)
	assert.Equal(t, "f.txt", cfg.FilterFilename)
}

func TestApplyRejectsBadValues(t *testing.T) {
	_, err := Default().Apply(map[string]string{KeyClassParallelism: "many"})
	assert.Error(t, err)

	_, err = Default().Apply(map[string]string{KeyClassParallelism: "0"})
	assert.Error(t, err)

	_, err = Default().Apply(map[string]string{KeyClassShuffle: "maybe"})
	assert.Error(t, err)
}

func TestPropertiesRoundTrip(t *testing.T) {
	cfg := Config{
		ClassParallelism:    2,
		ArgumentParallelism: 3,
		ShuffleClasses:      true,
		FilterFilename:      "f.txt",
		ReportPath:          "r.json",
	}
	props := cfg.Properties()
	assert.Equal(t, "2", props[KeyClassParallelism])
	assert.Equal(t, "3", props[KeyArgumentParallelism])
	assert.Equal(t, "true", props[KeyClassShuffle])
	assert.Equal(t, "f.txt", props[KeyFilterFilename])
	assert.Equal(t, "r.json", props[KeyReportPath])

	applied, err := Default().Apply(props)
	require.NoError(t, err)
	assert.Equal(t, cfg, applied)
}
