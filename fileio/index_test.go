package fileio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leocov-dev/addonpack/core"
)

func newTestPack(t *testing.T) *core.Modpack {
	t.Helper()
	dir := t.TempDir()
	pack := core.NewModpack("Test Pack", "1.0.0", []string{"dev"}, "", core.PackVersions{
		Minecraft:     "1.20.1",
		Loader:        core.LoaderFabric,
		LoaderVersion: "0.15.0",
	})
	require.NoError(t, SaveModpack(pack, dir))
	return pack
}

func TestSaveIndexWritesOnlyChanged(t *testing.T) {
	ctx := context.Background()
	pack := newTestPack(t)

	index := core.NewIndex()
	sodium := core.NewAddon("Sodium", core.ProjectMod, core.SideClient, core.ModrinthSource{ProjectID: "AANobbMI", VersionID: "v1"})
	jei := core.NewAddon("JEI", core.ProjectMod, core.SideBoth, core.CurseforgeSource{ProjectID: 238222, FileID: 4712868})
	require.NoError(t, index.Insert(sodium))
	require.NoError(t, index.Insert(jei))
	require.NoError(t, SaveIndex(ctx, pack, index))

	// make the existing descriptors look old so a rewrite is detectable
	old := time.Now().Add(-time.Hour)
	for _, name := range []string{"sodium.toml", "jei.toml"} {
		require.NoError(t, os.Chtimes(filepath.Join(IndexDir(pack), name), old, old))
	}

	loaded, err := LoadIndex(ctx, pack)
	require.NoError(t, err)
	assert.Empty(t, loaded.Changed())

	loadedJEI := loaded.Select("jei")
	require.NotNil(t, loadedJEI)
	updated := loadedJEI.Clone()
	updated.Source = core.CurseforgeSource{ProjectID: 238222, FileID: 5000000}
	loaded.Replace(loadedJEI, updated)
	require.NoError(t, SaveIndex(ctx, pack, loaded))

	sodiumInfo, err := os.Stat(filepath.Join(IndexDir(pack), "sodium.toml"))
	require.NoError(t, err)
	assert.True(t, sodiumInfo.ModTime().Equal(old), "unchanged descriptor was rewritten")

	jeiInfo, err := os.Stat(filepath.Join(IndexDir(pack), "jei.toml"))
	require.NoError(t, err)
	assert.True(t, jeiInfo.ModTime().After(old))

	reloaded, err := LoadIndex(ctx, pack)
	require.NoError(t, err)
	assert.Equal(t, core.CurseforgeSource{ProjectID: 238222, FileID: 5000000}, reloaded.Select("JEI").Source)
}

func TestSaveIndexDeletesRemoved(t *testing.T) {
	ctx := context.Background()
	pack := newTestPack(t)

	index := core.NewIndex()
	require.NoError(t, index.Insert(core.NewAddon("Sodium", core.ProjectMod, core.SideClient, core.ModrinthSource{ProjectID: "AANobbMI", VersionID: "v1"})))
	require.NoError(t, SaveIndex(ctx, pack, index))

	loaded, err := LoadIndex(ctx, pack)
	require.NoError(t, err)
	_, ok := loaded.Remove("sodium")
	require.True(t, ok)
	require.NoError(t, SaveIndex(ctx, pack, loaded))

	_, err = os.Stat(filepath.Join(IndexDir(pack), "sodium.toml"))
	assert.True(t, os.IsNotExist(err))
}

func TestIndexRoundTrip(t *testing.T) {
	ctx := context.Background()
	pack := newTestPack(t)

	addons := []*core.Addon{
		core.NewAddon("Complementary Shaders", core.ProjectShader, core.SideClient, core.ModrinthSource{ProjectID: "HVnmMxH1", VersionID: "abc"}),
		core.NewAddon("JEI", core.ProjectMod, core.SideBoth, core.CurseforgeSource{ProjectID: 238222, FileID: 4712868}),
		core.NewAddon("lithium", core.ProjectMod, core.SideBoth, core.GithubSource{
			Repo:       "CaffeineMC/lithium-fabric",
			Tag:        "mc1.20.1-0.11.2",
			AssetIndex: 1,
			Filter:     core.FilterTag,
			Pattern:    "mc{mc_version}",
		}),
	}
	addons[1].Options = core.AddonOptions{Pinned: true, ReleaseChannel: core.ChannelBeta}

	index := core.NewIndex()
	for _, a := range addons {
		require.NoError(t, index.Insert(a))
	}
	require.NoError(t, SaveIndex(ctx, pack, index))

	loaded, err := LoadIndex(ctx, pack)
	require.NoError(t, err)
	require.Equal(t, 3, loaded.Len())

	type view struct {
		Name    string
		Type    core.ProjectType
		Side    core.Side
		Source  core.AddonSource
		Options core.AddonOptions
	}
	toView := func(in []*core.Addon) []view {
		out := make([]view, len(in))
		for i, a := range in {
			out[i] = view{a.Name, a.ProjectType, a.Side, a.Source, a.Options}
		}
		return out
	}
	if diff := cmp.Diff(toView(index.Addons()), toView(loaded.Addons())); diff != "" {
		t.Errorf("index round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadIndexKeepsFileName(t *testing.T) {
	ctx := context.Background()
	pack := newTestPack(t)

	raw, err := marshalAddon(core.NewAddon("Fabric API", core.ProjectMod, core.SideBoth, core.ModrinthSource{ProjectID: "P7dR8mSH", VersionID: "v"}))
	require.NoError(t, err)
	require.NoError(t, CreateAndWrite(filepath.Join(IndexDir(pack), "fapi.toml"), raw))

	loaded, err := LoadIndex(ctx, pack)
	require.NoError(t, err)
	addon := loaded.Select("Fabric API")
	require.NotNil(t, addon)
	assert.Equal(t, "fapi.toml", addon.FileName())
}

func TestLoadIndexMissingDir(t *testing.T) {
	pack := newTestPack(t)
	index, err := LoadIndex(context.Background(), pack)
	require.NoError(t, err)
	assert.Equal(t, 0, index.Len())
}
