package resolver

import (
	"errors"
	"strings"
	"testing"

	"verifyica/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterFile(t *testing.T) {
	input := `
# keep the integration suites
INCLUDE CLASS_NAME .*IntegrationTest

EXCLUDE CLASS_NAME Flaky.*
`
	filters, err := ParseFilterFile(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, filters.ClassName, 2)
	assert.True(t, filters.ClassName[0].Include)
	assert.False(t, filters.ClassName[1].Include)

	assert.True(t, filters.KeepsClass("DatabaseIntegrationTest", nil))
	assert.False(t, filters.KeepsClass("FlakyIntegrationTest", nil))
	assert.False(t, filters.KeepsClass("UnitTest", nil))
}

func TestParseFilterFileErrors(t *testing.T) {
	cases := map[string]string{
		"unknown directive": "KEEP CLASS_NAME .*",
		"wrong subject":     "INCLUDE METHOD_NAME .*",
		"missing pattern":   "INCLUDE CLASS_NAME",
		"bad regex":         "EXCLUDE CLASS_NAME [unclosed",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFilterFile(strings.NewReader(input))
			require.Error(t, err)
			var discovery *api.DiscoveryError
			assert.True(t, errors.As(err, &discovery))
		})
	}
}

func TestKeepsClassNoIncludesKeepsAll(t *testing.T) {
	filters := &Filters{}
	require.NoError(t, filters.ExcludeClassName("Legacy.*"))

	assert.True(t, filters.KeepsClass("ModernTest", nil))
	assert.False(t, filters.KeepsClass("LegacyTest", nil))
}

func TestKeepsClassTagFilters(t *testing.T) {
	filters := &Filters{
		IncludeTags: []string{"smoke"},
		ExcludeTags: []string{"slow"},
	}

	assert.True(t, filters.KeepsClass("A", []string{"smoke"}))
	assert.False(t, filters.KeepsClass("B", []string{"regression"}))
	// Exclude wins over include.
	assert.False(t, filters.KeepsClass("C", []string{"smoke", "slow"}))
	assert.False(t, filters.KeepsClass("D", nil))
}

func TestLoadFilterFileMissing(t *testing.T) {
	_, err := LoadFilterFile("does/not/exist.txt")
	require.Error(t, err)
	var discovery *api.DiscoveryError
	assert.True(t, errors.As(err, &discovery))
}
