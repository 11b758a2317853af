package migrate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leocov-dev/addonpack/core"
)

type fakeLister struct {
	candidates map[string][]core.Candidate
	errs       map[string]error
}

func (f *fakeLister) Candidates(_ context.Context, addon *core.Addon, _ core.Target) ([]core.Candidate, error) {
	if err := f.errs[addon.Name]; err != nil {
		return nil, err
	}
	return f.candidates[addon.Name], nil
}

func (f *fakeLister) Repoint(addon *core.Addon, candidate core.Candidate) (*core.Addon, error) {
	updated := addon.Clone()
	src := addon.Source.(core.ModrinthSource)
	src.VersionID = candidate.ID
	updated.Source = src
	return updated, nil
}

func candidate(id string, published time.Time, versions ...string) core.Candidate {
	return core.Candidate{
		ID:           id,
		GameVersions: versions,
		Loaders:      []string{"fabric"},
		Available:    true,
		Published:    published,
		Channel:      core.ChannelRelease,
	}
}

func modrinthAddon(name, versionID string) *core.Addon {
	return core.NewAddon(name, core.ProjectMod, core.SideBoth, core.ModrinthSource{ProjectID: name + "ID", VersionID: versionID})
}

var day = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

func testPack() *core.Modpack {
	return core.NewModpack("pack", "1.0.0", nil, "", core.PackVersions{
		Minecraft:     "1.20.1",
		Loader:        core.LoaderFabric,
		LoaderVersion: "0.15.0",
	})
}

func TestClassify(t *testing.T) {
	target := core.Target{Minecraft: "1.20.4", Loader: core.LoaderFabric, AcceptableVersions: []string{"1.20.3"}}
	lister := &fakeLister{
		candidates: map[string][]core.Candidate{
			"exact":   {candidate("a", day, "1.20.4"), candidate("b", day.Add(time.Hour), "1.20.3")},
			"partial": {candidate("c", day, "1.20.3")},
			"none":    {candidate("d", day, "1.20.1")},
		},
		errs: map[string]error{"broken": core.ErrNotFound},
	}

	tests := []struct {
		addon     *core.Addon
		status    Status
		candidate string
	}{
		{modrinthAddon("exact", "old"), StatusCompatible, "a"},
		{modrinthAddon("partial", "old"), StatusPartial, "c"},
		{modrinthAddon("none", "old"), StatusIncompatible, ""},
		{modrinthAddon("broken", "old"), StatusFailed, ""},
		{core.NewAddon("gh", core.ProjectMod, core.SideBoth, core.GithubSource{Repo: "a/b", Tag: "v1"}), StatusUnknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.addon.Name, func(t *testing.T) {
			result := Classify(context.Background(), lister, tt.addon, target)
			assert.Equal(t, tt.status, result.Status)
			if tt.candidate == "" {
				assert.Nil(t, result.Candidate)
			} else {
				require.NotNil(t, result.Candidate)
				assert.Equal(t, tt.candidate, result.Candidate.ID)
			}
		})
	}

	result := Classify(context.Background(), lister, modrinthAddon("broken", "old"), target)
	assert.ErrorIs(t, result.Err, core.ErrNotFound)
}

func TestIncompatibleAddonKeepsVersion(t *testing.T) {
	pack := testPack()
	stuck := modrinthAddon("Stuck", "v-1.20.1")
	index := core.NewIndex(stuck)
	lister := &fakeLister{candidates: map[string][]core.Candidate{
		"Stuck": {candidate("v-1.20.1", day, "1.20.1")},
	}}

	newVersions := core.PackVersions{Minecraft: "1.21", Loader: core.LoaderFabric, LoaderVersion: "0.16.0"}
	m, err := Plan(context.Background(), lister, index.Addons(), TargetFor(pack, newVersions))
	require.NoError(t, err)
	require.Len(t, m.Results, 1)
	assert.Equal(t, StatusIncompatible, m.Results[0].Status)

	summary, err := Apply(m, index, pack, newVersions, false)
	require.NoError(t, err)
	assert.Empty(t, summary.Updated)
	assert.Empty(t, summary.Removed)
	assert.Equal(t, newVersions, pack.Versions)
	assert.Equal(t, core.ModrinthSource{ProjectID: "StuckID", VersionID: "v-1.20.1"}, index.Select("Stuck").Source)
	assert.Empty(t, index.Changed())
}

func TestApply(t *testing.T) {
	pack := testPack()
	pack.Options.AcceptableVersions = []string{"1.20.5"}

	sodium := modrinthAddon("Sodium", "s1")
	lithium := modrinthAddon("Lithium", "l1")
	lithium.Options.Pinned = true
	stuck := modrinthAddon("Stuck", "x1")
	same := modrinthAddon("Same", "m2")
	index := core.NewIndex(sodium, lithium, stuck, same)

	lister := &fakeLister{candidates: map[string][]core.Candidate{
		"Sodium":  {candidate("s1", day, "1.20.1"), candidate("s2", day, "1.20.6")},
		"Lithium": {candidate("l2", day, "1.20.6")},
		"Stuck":   {candidate("x1", day, "1.20.1")},
		"Same":    {candidate("m2", day, "1.20.5", "1.20.6")},
	}}

	newVersions := core.PackVersions{Minecraft: "1.20.6", Loader: core.LoaderFabric, LoaderVersion: "0.15.11"}
	m, err := Plan(context.Background(), lister, index.Addons(), TargetFor(pack, newVersions))
	require.NoError(t, err)
	assert.Equal(t, "1.20.1", pack.Versions.Minecraft, "planning must not touch the pack")

	assert.Len(t, m.Filter(StatusCompatible), 3)
	assert.Len(t, m.Filter(StatusIncompatible), 1)
	assert.Empty(t, m.Failed())

	summary, err := Apply(m, index, pack, newVersions, true)
	require.NoError(t, err)

	require.Len(t, summary.Updated, 1)
	assert.Equal(t, "Sodium", summary.Updated[0].Name)
	require.Len(t, summary.Pinned, 1)
	assert.Equal(t, "Lithium", summary.Pinned[0].Name)
	require.Len(t, summary.Removed, 1)
	assert.Equal(t, "Stuck", summary.Removed[0].Name)

	assert.Equal(t, core.ModrinthSource{ProjectID: "SodiumID", VersionID: "s2"}, index.Select("Sodium").Source)
	assert.Equal(t, core.ModrinthSource{ProjectID: "LithiumID", VersionID: "l1"}, index.Select("Lithium").Source)
	assert.Nil(t, index.Select("Stuck"))
	assert.Equal(t, 3, index.Len())
	assert.Equal(t, newVersions, pack.Versions)
}

func TestApplyKeepsFailedAddon(t *testing.T) {
	pack := testPack()
	sodium := modrinthAddon("Sodium", "s1")
	stuck := modrinthAddon("Stuck", "x1")
	index := core.NewIndex(sodium, stuck)
	lister := &fakeLister{
		candidates: map[string][]core.Candidate{"Stuck": {candidate("x1", day, "1.20.1")}},
		errs:       map[string]error{"Sodium": errors.New("dial tcp: connection reset by peer")},
	}

	newVersions := core.PackVersions{Minecraft: "1.21", Loader: core.LoaderFabric, LoaderVersion: "0.16.0"}
	m, err := Plan(context.Background(), lister, index.Addons(), TargetFor(pack, newVersions))
	require.NoError(t, err)

	failed := m.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "Sodium", failed[0].Addon.Name)
	assert.EqualError(t, failed[0].Err, "dial tcp: connection reset by peer")
	require.Len(t, m.Filter(StatusIncompatible), 1)
	assert.Equal(t, "Stuck", m.Filter(StatusIncompatible)[0].Addon.Name)

	summary, err := Apply(m, index, pack, newVersions, true)
	require.NoError(t, err)
	require.Len(t, summary.Removed, 1)
	assert.Equal(t, "Stuck", summary.Removed[0].Name)
	assert.Empty(t, summary.Updated)

	assert.Equal(t, 1, index.Len())
	assert.Equal(t, core.ModrinthSource{ProjectID: "SodiumID", VersionID: "s1"}, index.Select("Sodium").Source)
}

func TestPlanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Plan(ctx, &fakeLister{}, []*core.Addon{modrinthAddon("a", "1")}, core.Target{Minecraft: "1.20.1"})
	assert.True(t, errors.Is(err, context.Canceled))
}
