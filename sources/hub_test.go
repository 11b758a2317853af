package sources

import (
	"context"
	"fmt"
	"testing"
	"time"

	modrinthApi "codeberg.org/jmansfield/go-modrinth/modrinth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/leocov-dev/addonpack/core"
)

func ptr[T any](v T) *T {
	return &v
}

// fakeModrinth serves projects and versions from memory.
type fakeModrinth struct {
	projects map[string]*modrinthApi.Project
	versions map[string]*modrinthApi.Version
}

func newFakeModrinth() *fakeModrinth {
	return &fakeModrinth{
		projects: map[string]*modrinthApi.Project{},
		versions: map[string]*modrinthApi.Version{},
	}
}

func (f *fakeModrinth) addProject(id, slug, title, projectType string) {
	p := &modrinthApi.Project{
		ID:          ptr(id),
		Slug:        ptr(slug),
		Title:       ptr(title),
		ProjectType: ptr(projectType),
		ClientSide:  ptr("required"),
		ServerSide:  ptr("required"),
	}
	f.projects[id] = p
	f.projects[slug] = p
}

func (f *fakeModrinth) addVersion(projectID, id string, gameVersions, loaders []string, published time.Time) {
	f.versions[id] = &modrinthApi.Version{
		ID:            ptr(id),
		ProjectID:     ptr(projectID),
		GameVersions:  gameVersions,
		Loaders:       loaders,
		VersionType:   ptr("release"),
		DatePublished: ptr(published),
		Files: []*modrinthApi.File{{
			Filename: ptr(id + ".jar"),
			URL:      ptr("https://cdn.modrinth.com/data/" + projectID + "/" + id + ".jar"),
			Hashes:   map[string]string{"sha1": "sha1-" + id, "sha512": "sha512-" + id},
			Primary:  ptr(true),
			Size:     ptr[uint32](1024),
		}},
	}
}

func (f *fakeModrinth) GetProject(_ context.Context, idOrSlug string) (*modrinthApi.Project, error) {
	if p, ok := f.projects[idOrSlug]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("project %s: %w", idOrSlug, core.ErrNotFound)
}

func (f *fakeModrinth) GetProjects(ctx context.Context, ids []string) ([]*modrinthApi.Project, error) {
	var out []*modrinthApi.Project
	for _, id := range ids {
		if p, ok := f.projects[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeModrinth) ListVersions(_ context.Context, projectID string, _, _ []string) ([]*modrinthApi.Version, error) {
	var out []*modrinthApi.Version
	for _, v := range f.versions {
		if *v.ProjectID == projectID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeModrinth) GetVersion(_ context.Context, id string) (*modrinthApi.Version, error) {
	if v, ok := f.versions[id]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("version %s: %w", id, core.ErrNotFound)
}

func (f *fakeModrinth) GetVersions(_ context.Context, ids []string) ([]*modrinthApi.Version, error) {
	var out []*modrinthApi.Version
	for _, id := range ids {
		if v, ok := f.versions[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeModrinth) VersionsFromHashes(_ context.Context, hashes []string, _ string) (map[string]*modrinthApi.Version, error) {
	out := make(map[string]*modrinthApi.Version)
	for _, h := range hashes {
		for _, v := range f.versions {
			if v.Files[0].Hashes["sha1"] == h {
				out[h] = v
			}
		}
	}
	return out, nil
}

func (f *fakeModrinth) LatestVersionsFromHashes(ctx context.Context, hashes []string, algorithm string, _, _ []string) (map[string]*modrinthApi.Version, error) {
	return f.VersionsFromHashes(ctx, hashes, algorithm)
}

func (f *fakeModrinth) Search(context.Context, string, core.ProjectType, []string, int) ([]SearchHit, error) {
	return nil, nil
}

// fakeCurseforge serves mods and files from memory.
type fakeCurseforge struct {
	mods  map[int]CfModInfo
	files map[int][]CfModFileInfo
}

func (f *fakeCurseforge) GetModInfo(_ context.Context, modID int) (CfModInfo, error) {
	if m, ok := f.mods[modID]; ok {
		return m, nil
	}
	return CfModInfo{}, fmt.Errorf("mod %d: %w", modID, core.ErrNotFound)
}

func (f *fakeCurseforge) GetModInfoMultiple(_ context.Context, modIDs []int) ([]CfModInfo, error) {
	var out []CfModInfo
	for _, id := range modIDs {
		if m, ok := f.mods[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeCurseforge) GetFileInfo(_ context.Context, modID, fileID int) (CfModFileInfo, error) {
	for _, file := range f.files[modID] {
		if file.ID == fileID {
			return file, nil
		}
	}
	return CfModFileInfo{}, fmt.Errorf("file %d: %w", fileID, core.ErrNotFound)
}

func (f *fakeCurseforge) GetModFiles(_ context.Context, modID int, _ string, _ ModloaderType) ([]CfModFileInfo, error) {
	return f.files[modID], nil
}

func (f *fakeCurseforge) GetFileInfoMultiple(_ context.Context, fileIDs []int) ([]CfModFileInfo, error) {
	var out []CfModFileInfo
	for _, files := range f.files {
		for _, file := range files {
			for _, id := range fileIDs {
				if file.ID == id {
					out = append(out, file)
				}
			}
		}
	}
	return out, nil
}

func (f *fakeCurseforge) GetFingerprintMatches(_ context.Context, fingerprints []uint32) ([]CfFingerprintMatch, error) {
	var out []CfFingerprintMatch
	for _, files := range f.files {
		for _, file := range files {
			for _, fp := range fingerprints {
				if file.Fingerprint == fp {
					out = append(out, CfFingerprintMatch{ID: file.ModID, File: file})
				}
			}
		}
	}
	return out, nil
}

func (f *fakeCurseforge) GetSearch(_ context.Context, _, slug string, _ int, _ string, _ ModloaderType) ([]CfModInfo, error) {
	var out []CfModInfo
	for _, m := range f.mods {
		if m.Slug == slug {
			out = append(out, m)
		}
	}
	return out, nil
}

var (
	jun = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	jul = time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	aug = time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC)
)

func fabricTarget() core.Target {
	return core.Target{Minecraft: "1.20.1", Loader: core.LoaderFabric}
}

func lithiumReleases() []GithubRelease {
	return []GithubRelease{
		{TagName: "mc1.20.1-0.11.3", Draft: true, PublishedAt: aug, Assets: []ReleaseAsset{{Name: "lithium-0.11.3.jar"}}},
		{TagName: "mc1.19.4-0.11.1", PublishedAt: aug, Assets: []ReleaseAsset{{Name: "lithium-0.11.1.jar"}}},
		{TagName: "mc1.20.1-0.11.2", PublishedAt: jul, Assets: []ReleaseAsset{
			{Name: "lithium-0.11.2-sources.jar"},
			{Name: "lithium-0.11.2.jar", BrowserDownloadURL: "https://github.com/CaffeineMC/lithium-fabric/releases/download/mc1.20.1-0.11.2/lithium-0.11.2.jar", Size: 700},
		}},
	}
}

func TestHubGithubCandidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	gh := NewMockGithubAPI(ctrl)
	gh.EXPECT().ListReleases(gomock.Any(), "CaffeineMC", "lithium-fabric").Return(lithiumReleases(), nil)

	hub := &Hub{Github: gh}
	addon := core.NewAddon("Lithium", core.ProjectMod, core.SideBoth, core.GithubSource{
		Repo: "CaffeineMC/lithium-fabric", Tag: "mc1.19.4-0.11.1", AssetIndex: 0, Filter: core.FilterTag, Pattern: "mc{mc_version}-",
	})

	candidates, err := hub.Candidates(context.Background(), addon, fabricTarget())
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	assert.False(t, candidates[0].Available, "drafts are never available")
	assert.Empty(t, candidates[1].GameVersions)
	assert.Equal(t, []string{"1.20.1"}, candidates[2].GameVersions)

	best, err := core.SelectVersion(candidates, fabricTarget(), addon.ProjectType)
	require.NoError(t, err)
	assert.Equal(t, "mc1.20.1-0.11.2", best.ID)

	updated, err := hub.Repoint(addon, best)
	require.NoError(t, err)
	assert.Equal(t, "mc1.20.1-0.11.2", updated.Source.(core.GithubSource).Tag)
	assert.Equal(t, "mc1.19.4-0.11.1", addon.Source.(core.GithubSource).Tag, "repoint must not modify the original")
}

func TestHubAddGithub(t *testing.T) {
	ctrl := gomock.NewController(t)
	gh := NewMockGithubAPI(ctrl)
	gh.EXPECT().ListReleases(gomock.Any(), "CaffeineMC", "lithium-fabric").Return(lithiumReleases(), nil)

	hub := &Hub{Github: gh}
	addon, err := hub.AddGithub(context.Background(), "https://github.com/CaffeineMC/lithium-fabric", "", core.FilterTag, "mc{mc_version}-", fabricTarget())
	require.NoError(t, err)
	assert.Equal(t, "lithium-fabric", addon.Name)
	assert.Equal(t, core.GithubSource{
		Repo:       "CaffeineMC/lithium-fabric",
		Tag:        "mc1.20.1-0.11.2",
		AssetIndex: 1,
		Filter:     core.FilterTag,
		Pattern:    "mc{mc_version}-",
	}, addon.Source)
}

func TestHubRepointCurseforgeRejectsBadID(t *testing.T) {
	hub := &Hub{}
	addon := core.NewAddon("JEI", core.ProjectMod, core.SideBoth, core.CurseforgeSource{ProjectID: 238222, FileID: 1})

	_, err := hub.Repoint(addon, core.Candidate{ID: "latest"})
	assert.ErrorIs(t, err, core.ErrInvalidID)

	updated, err := hub.Repoint(addon, core.Candidate{ID: "4712868"})
	require.NoError(t, err)
	assert.Equal(t, core.CurseforgeSource{ProjectID: 238222, FileID: 4712868}, updated.Source)
}

func TestHubAddModrinthSelectsBest(t *testing.T) {
	mr := newFakeModrinth()
	mr.addProject("AANobbMI", "sodium", "Sodium", "mod")
	mr.addVersion("AANobbMI", "old", []string{"1.20.1"}, []string{"fabric"}, jun)
	mr.addVersion("AANobbMI", "new", []string{"1.20.1"}, []string{"fabric"}, jul)
	mr.addVersion("AANobbMI", "forge", []string{"1.20.1"}, []string{"forge"}, aug)
	mr.addVersion("AANobbMI", "next", []string{"1.20.2"}, []string{"fabric"}, aug)

	hub := &Hub{Modrinth: mr}
	addon, err := hub.AddModrinth(context.Background(), "sodium", "", fabricTarget())
	require.NoError(t, err)
	assert.Equal(t, "Sodium", addon.Name)
	assert.Equal(t, core.ProjectMod, addon.ProjectType)
	assert.Equal(t, core.ModrinthSource{ProjectID: "AANobbMI", VersionID: "new"}, addon.Source)

	_, err = hub.AddModrinth(context.Background(), "sodium", "", core.Target{Minecraft: "1.16.5", Loader: core.LoaderFabric})
	assert.ErrorIs(t, err, core.ErrNoCompatibleVersions)
}

func TestHubAddModrinthRejectsForeignVersion(t *testing.T) {
	mr := newFakeModrinth()
	mr.addProject("AANobbMI", "sodium", "Sodium", "mod")
	mr.addProject("gvQqBUqZ", "lithium", "Lithium", "mod")
	mr.addVersion("gvQqBUqZ", "lith", []string{"1.20.1"}, []string{"fabric"}, jul)

	hub := &Hub{Modrinth: mr}
	_, err := hub.AddModrinth(context.Background(), "sodium", "lith", fabricTarget())
	assert.ErrorIs(t, err, core.ErrInvalidID)
}

func TestHubResolveDependencyMapsQuiltLibraries(t *testing.T) {
	mr := newFakeModrinth()
	mr.addProject("qvIfYCYJ", "qsl", "QFAPI/QSL", "mod")
	mr.addVersion("qvIfYCYJ", "q1", []string{"1.20.1"}, []string{"quilt"}, jul)

	hub := &Hub{Modrinth: mr}
	target := core.Target{Minecraft: "1.20.1", Loader: core.LoaderQuilt}
	dep := core.Dependency{Registry: core.RegistryModrinth, ProjectID: "P7dR8mSH", VersionID: "fabric-only", Kind: core.DependencyRequired}

	addon, err := hub.ResolveDependency(context.Background(), dep, target)
	require.NoError(t, err)
	assert.Equal(t, core.ModrinthSource{ProjectID: "qvIfYCYJ", VersionID: "q1"}, addon.Source)
}

func TestHubCurseforgeSnapshotVersions(t *testing.T) {
	cf := &fakeCurseforge{
		mods: map[int]CfModInfo{238222: {ID: 238222, Name: "Just Enough Items", Slug: "jei", ClassID: cfClassMod}},
		files: map[int][]CfModFileInfo{238222: {
			{ID: 100, ModID: 238222, IsAvailable: true, FileDate: jun, ReleaseType: cfReleaseRelease, GameVersions: []string{"1.18.2", "Forge"}},
			{ID: 200, ModID: 238222, IsAvailable: true, FileDate: jul, ReleaseType: cfReleaseBeta, GameVersions: []string{"1.19-Snapshot", "Fabric"}},
		}},
	}
	hub := &Hub{Curseforge: cf}
	target := core.Target{Minecraft: "22w11a", Loader: core.LoaderFabric}

	addon, err := hub.AddCurseforge(context.Background(), 238222, 0, target)
	require.NoError(t, err)
	assert.Equal(t, core.CurseforgeSource{ProjectID: 238222, FileID: 200}, addon.Source)

	target.Channel = core.ChannelRelease
	_, err = hub.AddCurseforge(context.Background(), 238222, 0, target)
	assert.ErrorIs(t, err, core.ErrNoCompatibleVersions)

	id, err := hub.CurseforgeBySlug(context.Background(), "jei", core.ProjectMod)
	require.NoError(t, err)
	assert.Equal(t, 238222, id)
}

func TestHubWithoutCurseforge(t *testing.T) {
	hub := &Hub{}
	_, err := hub.AddCurseforge(context.Background(), 1, 0, fabricTarget())
	assert.ErrorIs(t, err, errNoCurseforge)
}

func TestHubResolveFiles(t *testing.T) {
	mr := newFakeModrinth()
	mr.addProject("AANobbMI", "sodium", "Sodium", "mod")
	mr.addVersion("AANobbMI", "v1", []string{"1.20.1"}, []string{"fabric"}, jul)

	cf := &fakeCurseforge{files: map[int][]CfModFileInfo{238222: {{
		ID:         4712868,
		ModID:      238222,
		FileName:   "jei-1.20.1-fabric.jar",
		FileLength: 2048,
		Hashes: []struct {
			Value string `json:"value"`
			Algo  int    `json:"algo"`
		}{{Value: "cfsha1", Algo: cfHashAlgoSHA1}, {Value: "cfmd5", Algo: cfHashAlgoMD5}},
	}}}}

	ctrl := gomock.NewController(t)
	gh := NewMockGithubAPI(ctrl)
	gh.EXPECT().GetReleaseByTag(gomock.Any(), "CaffeineMC", "lithium-fabric", "mc1.20.1-0.11.2").Return(lithiumReleases()[2], nil)

	hub := &Hub{Modrinth: mr, Curseforge: cf, Github: gh}
	sodium := core.NewAddon("Sodium", core.ProjectMod, core.SideClient, core.ModrinthSource{ProjectID: "AANobbMI", VersionID: "v1"})
	jei := core.NewAddon("JEI", core.ProjectMod, core.SideBoth, core.CurseforgeSource{ProjectID: 238222, FileID: 4712868})
	lithium := core.NewAddon("Lithium", core.ProjectMod, core.SideBoth, core.GithubSource{Repo: "CaffeineMC/lithium-fabric", Tag: "mc1.20.1-0.11.2", AssetIndex: 1})

	files, err := hub.ResolveFiles(context.Background(), []*core.Addon{sodium, jei, lithium})
	require.NoError(t, err)

	assert.Equal(t, core.AddonFile{
		FileName: "v1.jar",
		URL:      "https://cdn.modrinth.com/data/AANobbMI/v1.jar",
		Hashes:   map[string]string{"sha1": "sha1-v1", "sha512": "sha512-v1"},
		Size:     1024,
	}, files[sodium.GenericID()])
	assert.Equal(t, core.AddonFile{
		FileName: "jei-1.20.1-fabric.jar",
		URL:      "https://edge.forgecdn.net/files/4712/868/jei-1.20.1-fabric.jar",
		Hashes:   map[string]string{"sha1": "cfsha1", "md5": "cfmd5"},
		Size:     2048,
	}, files[jei.GenericID()])
	assert.Equal(t, "lithium-0.11.2.jar", files[lithium.GenericID()].FileName)
	assert.Equal(t, int64(700), files[lithium.GenericID()].Size)
}

func TestHubResolveFilesMissing(t *testing.T) {
	hub := &Hub{Modrinth: newFakeModrinth()}
	addon := core.NewAddon("Gone", core.ProjectMod, core.SideBoth, core.ModrinthSource{ProjectID: "AAAAAAAA", VersionID: "nope"})
	_, err := hub.ResolveFiles(context.Background(), []*core.Addon{addon})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestHubReverseLookups(t *testing.T) {
	mr := newFakeModrinth()
	mr.addProject("AANobbMI", "sodium", "Sodium", "mod")
	mr.addVersion("AANobbMI", "v1", []string{"1.20.1"}, []string{"fabric"}, jul)

	cf := &fakeCurseforge{
		mods: map[int]CfModInfo{238222: {ID: 238222, Name: "Just Enough Items", ClassID: cfClassMod}},
		files: map[int][]CfModFileInfo{238222: {
			{ID: 4712868, ModID: 238222, Fingerprint: 3089143260},
		}},
	}
	hub := &Hub{Modrinth: mr, Curseforge: cf}

	byHash, err := hub.ModrinthAddonsFromHashes(context.Background(), []string{"sha1-v1", "unknown"})
	require.NoError(t, err)
	require.Len(t, byHash, 1)
	assert.Equal(t, core.ModrinthSource{ProjectID: "AANobbMI", VersionID: "v1"}, byHash["sha1-v1"].Source)

	byFingerprint, err := hub.CurseforgeAddonsFromFingerprints(context.Background(), []uint32{3089143260, 1})
	require.NoError(t, err)
	require.Len(t, byFingerprint, 1)
	assert.Equal(t, core.CurseforgeSource{ProjectID: 238222, FileID: 4712868}, byFingerprint[3089143260].Source)

	addons, skipped, err := hub.CurseforgeAddons(context.Background(), []CurseforgeRef{
		{ProjectID: 238222, FileID: 4712868},
		{ProjectID: 238222, FileID: 9},
		{ProjectID: 1, FileID: 4712868},
	})
	require.NoError(t, err)
	require.Len(t, addons, 1)
	assert.Equal(t, "Just Enough Items", addons[0].Name)
	require.Len(t, skipped, 2)
	for _, err := range skipped {
		assert.ErrorIs(t, err, core.ErrNotFound)
	}
}

func TestDependencyKinds(t *testing.T) {
	cfTests := map[int]core.DependencyKind{
		cfRelationEmbedded:     core.DependencyEmbedded,
		cfRelationOptional:     core.DependencyOptional,
		cfRelationRequired:     core.DependencyRequired,
		cfRelationTool:         core.DependencyOptional,
		cfRelationIncompatible: core.DependencyIncompatible,
		cfRelationInclude:      core.DependencyEmbedded,
		42:                     core.DependencyUnsupported,
	}
	for relation, want := range cfTests {
		assert.Equal(t, want, cfDependencyKind(relation), "relation %d", relation)
	}

	assert.Equal(t, core.DependencyRequired, modrinthDependencyKind("required"))
	assert.Equal(t, core.DependencyUnsupported, modrinthDependencyKind("recommended"))
}

func TestRankHits(t *testing.T) {
	hits := []SearchHit{
		{ID: "1", Title: "Iris Shaders"},
		{ID: "2", Title: "Sodium Extra"},
		{ID: "3", Title: "Reese's Sodium Options"},
		{ID: "4", Title: "Sodium"},
	}
	ranked := RankHits("Sodium", hits)
	require.Len(t, ranked, 4)
	assert.Equal(t, "1", ranked[3].ID, "non-matching hits go last")
	var ids []string
	for _, h := range ranked[:3] {
		ids = append(ids, h.ID)
	}
	assert.ElementsMatch(t, []string{"2", "3", "4"}, ids)
}

func TestGetCurseforgeVersion(t *testing.T) {
	tests := map[string]string{
		"1.20.1":     "1.20.1",
		"1.20-pre1":  "1.20-Snapshot",
		"1.19.3-rc2": "1.19.3-Snapshot",
		"22w11a":     "1.19-Snapshot",
		"21w37a":     "1.18-Snapshot",
		"20w06a":     "1.16-Snapshot",
	}
	for in, want := range tests {
		assert.Equal(t, want, GetCurseforgeVersion(in), in)
	}
}

func TestModrinthClientValidatesIDsBeforeRequest(t *testing.T) {
	client, err := NewModrinthClient()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.GetProject(ctx, "no spaces allowed")
	assert.ErrorIs(t, err, core.ErrInvalidID)
	_, err = client.ListVersions(ctx, "ab", nil, nil)
	assert.ErrorIs(t, err, core.ErrInvalidID)
	_, err = client.GetProjects(ctx, []string{"AANobbMI", "x"})
	assert.ErrorIs(t, err, core.ErrInvalidID)
}

func TestHubGithubAddonFromAsset(t *testing.T) {
	ctrl := gomock.NewController(t)
	gh := NewMockGithubAPI(ctrl)
	gh.EXPECT().GetReleaseByTag(gomock.Any(), "CaffeineMC", "lithium-fabric", "mc1.20.1-0.11.2").Return(lithiumReleases()[2], nil).Times(2)

	hub := &Hub{Github: gh}
	addon, err := hub.GithubAddonFromAsset(context.Background(), "CaffeineMC/lithium-fabric", "mc1.20.1-0.11.2", "lithium-0.11.2.jar")
	require.NoError(t, err)
	assert.Equal(t, "lithium-fabric", addon.Name)
	assert.Equal(t, core.GithubSource{Repo: "CaffeineMC/lithium-fabric", Tag: "mc1.20.1-0.11.2", AssetIndex: 1, Filter: core.FilterNone}, addon.Source)

	_, err = hub.GithubAddonFromAsset(context.Background(), "CaffeineMC/lithium-fabric", "mc1.20.1-0.11.2", "other.jar")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
