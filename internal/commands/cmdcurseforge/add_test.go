package cmdcurseforge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leocov-dev/addonpack/core"
)

func TestParseProjectRef(t *testing.T) {
	tests := []struct {
		arg  string
		want projectRef
	}{
		{"531761", projectRef{projectID: 531761}},
		{"balm", projectRef{slug: "balm"}},
		{"https://www.curseforge.com/minecraft/mc-mods/jei/files/4712868", projectRef{slug: "jei", category: "mc-mods", fileID: 4712868}},
		{"https://www.curseforge.com/minecraft/shaders/complementary-shaders", projectRef{slug: "complementary-shaders", category: "shaders"}},
		{"just enough items", projectRef{query: "just enough items"}},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			ref, err := parseProjectRef(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref)
		})
	}

	_, err := parseProjectRef("https://www.curseforge.com/wow/addons/deadly-boss-mods")
	assert.Error(t, err)
}

func TestCategoryProjectType(t *testing.T) {
	assert.Equal(t, core.ProjectMod, categoryProjectType(""))
	assert.Equal(t, core.ProjectShader, categoryProjectType("shaders"))
	assert.Equal(t, core.ProjectResourcepack, categoryProjectType("texture-packs"))
	assert.Equal(t, core.ProjectUnknown, categoryProjectType("worlds"))
}
