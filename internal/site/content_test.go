package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContent(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Legitim", c.Name)
	require.Len(t, c.Nav, 3)
	assert.Equal(t, "/tool", c.Nav[1].Path)
	assert.Len(t, c.Home.Stats, 4)
	assert.Len(t, c.Home.Features, 4)

	require.Len(t, c.Pricing.Tiers, 3)
	assert.True(t, c.Pricing.Tiers[0].Monthly())
	assert.False(t, c.Pricing.Tiers[2].Monthly())
}

func TestLoadRejectsContentWithoutName(t *testing.T) {
	_, err := Load([]byte("nav: []\n"))
	assert.Error(t, err)

	_, err = Load([]byte("name: [unclosed"))
	assert.Error(t, err)
}
