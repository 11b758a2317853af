package mrpack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/core/murmur2"
	"github.com/leocov-dev/addonpack/fileio"
)

type fakeFiles map[core.GenericID]core.AddonFile

func (f fakeFiles) ResolveFiles(_ context.Context, addons []*core.Addon) (map[core.GenericID]core.AddonFile, error) {
	out := make(map[core.GenericID]core.AddonFile, len(addons))
	for _, a := range addons {
		out[a.GenericID()] = f[a.GenericID()]
	}
	return out, nil
}

type fakeLookup struct {
	bySHA1        map[string]*core.Addon
	byFingerprint map[uint32]*core.Addon
	// byAsset is keyed by "repo tag asset"
	byAsset map[string]*core.Addon
}

func (f fakeLookup) GithubAddonFromAsset(_ context.Context, repo, tag, assetName string) (*core.Addon, error) {
	if a, ok := f.byAsset[repo+" "+tag+" "+assetName]; ok {
		return a.Clone(), nil
	}
	return nil, core.ErrNotFound
}

func (f fakeLookup) ModrinthAddonsFromHashes(_ context.Context, sha1s []string) (map[string]*core.Addon, error) {
	out := make(map[string]*core.Addon)
	for _, h := range sha1s {
		if a, ok := f.bySHA1[h]; ok {
			out[h] = a.Clone()
		}
	}
	return out, nil
}

func (f fakeLookup) CurseforgeAddonsFromFingerprints(_ context.Context, fps []uint32) (map[uint32]*core.Addon, error) {
	out := make(map[uint32]*core.Addon)
	for _, fp := range fps {
		if a, ok := f.byFingerprint[fp]; ok {
			out[fp] = a.Clone()
		}
	}
	return out, nil
}

func sha1Of(t *testing.T, s string) string {
	t.Helper()
	sum, err := core.HashBytes(core.HashSHA1, []byte(s))
	require.NoError(t, err)
	return sum
}

func TestEnvForSide(t *testing.T) {
	tests := []struct {
		side core.Side
		want Env
	}{
		{core.SideBoth, Env{Client: "required", Server: "required"}},
		{core.SideClient, Env{Client: "required", Server: "unsupported"}},
		{core.SideServer, Env{Client: "unsupported", Server: "required"}},
		{"", Env{Client: "required", Server: "required"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.side), func(t *testing.T) {
			assert.Equal(t, tt.want, EnvForSide(tt.side))
		})
	}
}

func TestPackVersions(t *testing.T) {
	v, err := packVersions(map[string]string{"minecraft": "1.20.1", "quilt-loader": "0.20.0"})
	require.NoError(t, err)
	assert.Equal(t, core.PackVersions{Minecraft: "1.20.1", Loader: core.LoaderQuilt, LoaderVersion: "0.20.0"}, v)

	_, err = packVersions(map[string]string{"minecraft": "1.20.1", "liteloader": "1"})
	assert.ErrorIs(t, err, core.ErrBadImport)

	_, err = packVersions(map[string]string{"forge": "47.0.0"})
	assert.ErrorIs(t, err, core.ErrBadImport)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/jei.jar":
			_, _ = w.Write([]byte("jei jar"))
		case "/lithium.jar":
			_, _ = w.Write([]byte("lithium jar"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	packDir := t.TempDir()
	pack := core.NewModpack("Round Trip", "1.0.0", []string{"dev"}, "a pack", core.PackVersions{
		Minecraft:     "1.20.1",
		Loader:        core.LoaderFabric,
		LoaderVersion: "0.15.0",
	})
	pack.SetFilePath(filepath.Join(packDir, fileio.PackFileName))
	require.NoError(t, os.MkdirAll(filepath.Join(packDir, "overrides", "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(packDir, "overrides", "config", "a.cfg"), []byte("a=1"), 0o644))

	sodium := core.NewAddon("Sodium", core.ProjectMod, core.SideClient, core.ModrinthSource{ProjectID: "AANobbMI", VersionID: "v1"})
	jei := core.NewAddon("JEI", core.ProjectMod, core.SideBoth, core.CurseforgeSource{ProjectID: 238222, FileID: 4712868})
	lithium := core.NewAddon("Lithium", core.ProjectMod, core.SideBoth, core.GithubSource{Repo: "CaffeineMC/lithium-fabric", Tag: "v1", Filter: core.FilterNone})

	sodiumSHA1 := sha1Of(t, "sodium jar")
	exporter := &Exporter{
		Files: fakeFiles{
			sodium.GenericID(): {
				FileName: "sodium.jar",
				URL:      "https://cdn.modrinth.com/data/AANobbMI/versions/v1/sodium.jar",
				Hashes:   map[string]string{"sha1": sodiumSHA1, "sha512": "abc"},
				Size:     10,
			},
			jei.GenericID():     {FileName: "jei.jar", URL: srv.URL + "/jei.jar"},
			lithium.GenericID(): {FileName: "lithium.jar", URL: srv.URL + "/lithium.jar"},
		},
		Downloader: fileio.NewDownloader(nil),
	}

	outDir := t.TempDir()
	archive, err := exporter.Export(ctx, pack, []*core.Addon{jei, lithium, sodium}, ExportOptions{OutputDir: outDir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "Round Trip-1.0.0.mrpack"), archive)

	rc, err := zip.OpenReader(archive)
	require.NoError(t, err)
	raw, err := fileio.ReadZipFile(&rc.Reader, ManifestName)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	var manifest Manifest
	require.NoError(t, json.Unmarshal(raw, &manifest))
	assert.Equal(t, map[string]string{"minecraft": "1.20.1", "fabric-loader": "0.15.0"}, manifest.Dependencies)
	require.Len(t, manifest.Files, 1)
	assert.Equal(t, "mods/sodium.jar", manifest.Files[0].Path)
	assert.Equal(t, &Env{Client: "required", Server: "unsupported"}, manifest.Files[0].Env)

	lookup := fakeLookup{
		bySHA1:        map[string]*core.Addon{sodiumSHA1: sodium},
		byFingerprint: map[uint32]*core.Addon{murmur2.Fingerprint([]byte("jei jar")): jei},
	}
	importDir := t.TempDir()
	result, err := Import(ctx, lookup, archive, importDir)
	require.NoError(t, err)

	assert.Equal(t, pack.Versions, result.Pack.Versions)
	assert.Equal(t, "Round Trip", result.Pack.Name)
	assert.ElementsMatch(t, []core.GenericID{sodium.GenericID(), jei.GenericID()}, result.Index.KnownIDs())
	assert.Empty(t, result.Skipped)

	overrides := filepath.Join(importDir, "overrides")
	assert.FileExists(t, filepath.Join(overrides, "config", "a.cfg"))
	assert.FileExists(t, filepath.Join(overrides, "mods", "lithium.jar"))
	assert.NoFileExists(t, filepath.Join(overrides, "mods", "jei.jar"))
}

func TestImportRejectsOtherGames(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "x.mrpack")
	zw, err := fileio.NewZipWriter(archive)
	require.NoError(t, err)
	require.NoError(t, zw.AddBytes(ManifestName, []byte(`{"formatVersion":1,"game":"terraria","dependencies":{}}`)))
	require.NoError(t, zw.Close())

	_, err = Import(context.Background(), fakeLookup{}, archive, t.TempDir())
	assert.ErrorIs(t, err, core.ErrBadImport)
}

func TestImportRecoversGithubFiles(t *testing.T) {
	manifest := Manifest{
		FormatVersion: FormatVersion,
		Game:          "minecraft",
		Name:          "Github Pack",
		VersionID:     "1.0.0",
		Dependencies:  map[string]string{"minecraft": "1.20.1", "fabric-loader": "0.15.0"},
		Files: []ManifestFile{
			{
				Path:      "mods/lithium-0.11.2.jar",
				Hashes:    map[string]string{"sha1": "lithium-sha1"},
				Env:       &Env{Client: "required", Server: "required"},
				Downloads: []string{"https://github.com/CaffeineMC/lithium-fabric/releases/download/mc1.20.1-0.11.2/lithium-0.11.2.jar"},
			},
			{
				Path:      "shaderpacks/bsl%2B.zip",
				Hashes:    map[string]string{"sha1": "bsl-sha1"},
				Env:       &Env{Client: "required", Server: "unsupported"},
				Downloads: []string{"https://github.com/someone/bsl/releases/download/v8%2B1/bsl%2B.zip"},
			},
			{
				Path:      "mods/gone.jar",
				Hashes:    map[string]string{"sha1": "gone-sha1"},
				Downloads: []string{"https://github.com/someone/gone/releases/download/v1/gone.jar"},
			},
		},
	}
	raw, err := json.Marshal(manifest)
	require.NoError(t, err)
	archive := filepath.Join(t.TempDir(), "gh.mrpack")
	zw, err := fileio.NewZipWriter(archive)
	require.NoError(t, err)
	require.NoError(t, zw.AddBytes(ManifestName, raw))
	require.NoError(t, zw.Close())

	lithium := core.NewAddon("lithium-fabric", core.ProjectMod, core.SideBoth, core.GithubSource{
		Repo: "CaffeineMC/lithium-fabric", Tag: "mc1.20.1-0.11.2", AssetIndex: 1, Filter: core.FilterNone,
	})
	bsl := core.NewAddon("bsl", core.ProjectMod, core.SideBoth, core.GithubSource{Repo: "someone/bsl", Tag: "v8+1", Filter: core.FilterNone})
	lookup := fakeLookup{byAsset: map[string]*core.Addon{
		"CaffeineMC/lithium-fabric mc1.20.1-0.11.2 lithium-0.11.2.jar": lithium,
		"someone/bsl v8+1 bsl+.zip": bsl,
	}}

	result, err := Import(context.Background(), lookup, archive, t.TempDir())
	require.NoError(t, err)

	assert.ElementsMatch(t, []core.GenericID{lithium.GenericID(), bsl.GenericID()}, result.Index.KnownIDs())
	got := result.Index.Find(bsl.GenericID())
	require.NotNil(t, got)
	assert.Equal(t, core.SideClient, got.Side)
	assert.Equal(t, core.ProjectShader, got.ProjectType)
	assert.Equal(t, core.SideBoth, result.Index.Find(lithium.GenericID()).Side)

	require.Len(t, result.Skipped, 1)
	assert.ErrorIs(t, result.Skipped[0], core.ErrNotFound)
}

func TestSideForEnv(t *testing.T) {
	for _, side := range []core.Side{core.SideClient, core.SideServer, core.SideBoth} {
		env := EnvForSide(side)
		assert.Equal(t, side, SideForEnv(&env))
	}
	assert.Equal(t, core.SideBoth, SideForEnv(nil))
}
