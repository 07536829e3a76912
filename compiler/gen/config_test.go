package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureEnabled(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		feature string
		want    bool
	}{
		{"default on", nil, FeatureMetaSchedule.Name, true},
		{"disabled", []Option{WithoutFeatures(FeatureMetaSchedule.Name)}, FeatureMetaSchedule.Name, false},
		{"disable wins", []Option{WithFeatures(FeatureMetaFields), WithoutFeatures(FeatureMetaFields.Name)}, FeatureMetaFields.Name, false},
		{"explicitly enabled", []Option{WithFeatures(FeatureAssocForwarding)}, FeatureAssocForwarding.Name, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := MustNewConfig(tt.opts...)
			got, err := c.FeatureEnabled(tt.feature)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := (&Config{}).FeatureEnabled("systems/recursive-associations")
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestFeatureRegistry(t *testing.T) {
	seen := make(map[string]bool)
	for _, f := range AllFeatures {
		assert.False(t, seen[f.Name], "duplicate feature %s", f.Name)
		seen[f.Name] = true
		assert.NotEmpty(t, f.Description)
		assert.NotEqual(t, "unknown", f.Stage.String())
	}
	f, ok := FeatureByName("meta/fields")
	require.True(t, ok)
	assert.Equal(t, Stable, f.Stage)
}

func TestParseFeatures(t *testing.T) {
	opts, err := ParseFeatures("meta/fields", "-meta/schedule", " !systems/assoc-forwarding ")
	require.NoError(t, err)
	c := MustNewConfig(opts...)

	assert.True(t, c.enabled(FeatureMetaFields))
	assert.False(t, c.enabled(FeatureMetaSchedule))
	assert.False(t, c.enabled(FeatureAssocForwarding))

	_, err = ParseFeatures("bogus", "-other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
	assert.Contains(t, err.Error(), "-other")
}

func TestNilConfigDefaults(t *testing.T) {
	var c *Config
	assert.Equal(t, DefaultHeader, c.HeaderLine())
	assert.True(t, c.enabled(FeatureMetaSchedule))
	assert.NotNil(t, c.logger())
}
