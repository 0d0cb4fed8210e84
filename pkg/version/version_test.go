package version

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"macOS Sonoma 14", "14.0.0"},
		{"macOS Ventura 13.6", "13.6.0"},
		{"macOS Ventura 13.6.1", "13.6.1"},
		{"macOS Big Sur 11.7.10", "11.7.10"},
		{"macOS Sonoma 14.1.2 (a)", "14.1.2"},
		{"macOS Catalina 10.15.7 Supplemental Update", "10.15.7"},
		{"macOS High Sierra 10.13.6, Security Update 2020-005", "10.13.6"},
		{"macOS Mojave 10.14.6.1", "10.14.6"},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
		assert.Equal(t, 2, strings.Count(got, "."), tt.name)
	}
}

func TestNormalizeNoDigits(t *testing.T) {
	key, ok := Normalize("macOS Sonoma")
	assert.False(t, ok)
	assert.Empty(t, key)
}

func TestMajor(t *testing.T) {
	assert.Equal(t, "14", Major("14.2.1"))
	assert.Equal(t, "10", Major("10.15.7"))
	assert.Equal(t, "26", Major("26"))
}

func TestParseOrdering(t *testing.T) {
	o, err := ParseOrdering("")
	require.NoError(t, err)
	assert.Equal(t, Semver, o)

	o, err = ParseOrdering(" Lexical ")
	require.NoError(t, err)
	assert.Equal(t, Lexical, o)

	_, err = ParseOrdering("numeric")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 1, Semver.Compare("14.10.0", "14.9.0"))
	assert.Equal(t, -1, Lexical.Compare("14.10.0", "14.9.0"))
	assert.Equal(t, 1, Semver.Compare("10", "9"))
	assert.Equal(t, -1, Lexical.Compare("10", "9"))
	assert.Equal(t, 0, Semver.Compare("13.6.1", "13.6.1"))
	assert.Equal(t, 1, Semver.Compare("26.0.0", "15.7.1"))
}

func TestDescending(t *testing.T) {
	keys := []string{"10.15.7", "14.9.0", "11.0.0", "14.10.0", "9.2.0"}

	bySemver := slices.Clone(keys)
	slices.SortFunc(bySemver, Semver.Descending())
	assert.Equal(t, []string{"14.10.0", "14.9.0", "11.0.0", "10.15.7", "9.2.0"}, bySemver)

	byString := slices.Clone(keys)
	slices.SortFunc(byString, Lexical.Descending())
	assert.Equal(t, []string{"9.2.0", "14.9.0", "14.10.0", "11.0.0", "10.15.7"}, byString)
}
