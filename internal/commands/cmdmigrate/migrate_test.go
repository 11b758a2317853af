package cmdmigrate

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/migrate"
)

func fakeVersions(versions map[core.ModLoader][]string) versionLister {
	return func(_ context.Context, mcVersion string, loader core.ModLoader) ([]string, string, error) {
		v := versions[loader]
		if len(v) == 0 {
			return nil, "", core.ErrNoLoaderSupport
		}
		return v, v[0], nil
	}
}

func TestResolveLoaderVersion(t *testing.T) {
	list := fakeVersions(map[core.ModLoader][]string{
		core.LoaderFabric: {"0.15.11", "0.15.10"},
		core.LoaderForge:  {"47.2.20", "47.2.0"},
	})
	ctx := context.Background()

	tests := []struct {
		loader core.ModLoader
		wanted string
		want   string
	}{
		{core.LoaderFabric, "latest", "0.15.11"},
		{core.LoaderFabric, "", "0.15.11"},
		{core.LoaderFabric, "0.15.10", "0.15.10"},
		{core.LoaderForge, "1.20.1-47.2.0", "47.2.0"},
		{core.LoaderForge, "47.2.20", "47.2.20"},
	}
	for _, tt := range tests {
		t.Run(string(tt.loader)+"/"+tt.wanted, func(t *testing.T) {
			got, err := resolveLoaderVersion(ctx, list, tt.loader, "1.20.1", tt.wanted)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := resolveLoaderVersion(ctx, list, core.LoaderFabric, "1.20.1", "0.1.0")
	assert.Error(t, err)
	_, err = resolveLoaderVersion(ctx, list, core.LoaderFabric, "1.20.1", "recommended")
	assert.Error(t, err)
	_, err = resolveLoaderVersion(ctx, list, core.LoaderQuilt, "1.20.1", "latest")
	assert.ErrorIs(t, err, core.ErrNoLoaderSupport)
}

func TestKeepsLoaderVersion(t *testing.T) {
	assert.True(t, keepsLoaderVersion(core.LoaderFabric))
	assert.True(t, keepsLoaderVersion(core.LoaderQuilt))
	assert.False(t, keepsLoaderVersion(core.LoaderForge))
	assert.False(t, keepsLoaderVersion(core.LoaderNeoForge))
}

func TestPrintPlan(t *testing.T) {
	sodium := core.NewAddon("Sodium", core.ProjectMod, core.SideBoth, core.ModrinthSource{ProjectID: "AANobbMI", VersionID: "s1"})
	stuck := core.NewAddon("Stuck", core.ProjectMod, core.SideBoth, core.ModrinthSource{ProjectID: "stuck", VersionID: "x1"})
	broken := core.NewAddon("Broken", core.ProjectMod, core.SideBoth, core.ModrinthSource{ProjectID: "broken", VersionID: "b1"})
	m := &migrate.Migration{Results: []migrate.Result{
		{Addon: sodium, Status: migrate.StatusCompatible, Candidate: &core.Candidate{ID: "s2"}},
		{Addon: stuck, Status: migrate.StatusIncompatible},
		{Addon: broken, Status: migrate.StatusFailed, Err: core.ErrNotFound},
	}}

	var buf bytes.Buffer
	printPlan(&buf, m)
	assert.Equal(t, "compatible (1):\n  Sodium s1 -> s2\nincompatible (1):\n  Stuck\nfailed (1):\n  Broken\n", buf.String())
}
