package core

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forgeMetadata = `<?xml version="1.0" encoding="UTF-8"?>
<metadata>
  <groupId>net.minecraftforge</groupId>
  <artifactId>forge</artifactId>
  <versioning>
    <versions>
      <version>1.20.1-47.1.0</version>
      <version>1.20.1-47.2.0</version>
      <version>1.20.1-47.10.0</version>
      <version>1.19.4-45.1.0</version>
    </versions>
  </versioning>
</metadata>`

func fakeMaven(t *testing.T, body string) (func(ctx context.Context, url string) ([]string, error), *int) {
	calls := 0
	return func(ctx context.Context, url string) ([]string, error) {
		calls++
		return parseMavenVersions([]byte(body))
	}, &calls
}

func TestLoaderVersionCache_PerMinecraft(t *testing.T) {
	fetch, calls := fakeMaven(t, forgeMetadata)
	cache := NewLoaderVersionCache(fetch)

	versions, latest, err := cache.GetVersions(context.Background(), "1.20.1", LoaderForge)
	require.NoError(t, err)
	assert.Equal(t, []string{"47.10.0", "47.2.0", "47.1.0"}, versions)
	assert.Equal(t, "47.10.0", latest)

	_, latest, err = cache.GetVersions(context.Background(), "1.19.4", LoaderForge)
	require.NoError(t, err)
	assert.Equal(t, "45.1.0", latest)
	assert.Equal(t, 1, *calls)

	_, _, err = cache.GetVersions(context.Background(), "1.7.10", LoaderForge)
	assert.ErrorIs(t, err, ErrNoLoaderSupport)
}

func TestLoaderVersionCache_Fabric(t *testing.T) {
	body := strings.NewReplacer(
		"1.20.1-47.1.0", "0.14.21",
		"1.20.1-47.2.0", "0.15.0+build.1",
		"1.20.1-47.10.0", "0.15.11",
		"1.19.4-45.1.0", "0.9.3",
	).Replace(forgeMetadata)
	fetch, _ := fakeMaven(t, body)
	cache := NewLoaderVersionCache(fetch)

	versions, latest, err := cache.GetVersions(context.Background(), "1.21", LoaderFabric)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.15.11", "0.14.21", "0.9.3"}, versions)
	assert.Equal(t, "0.15.11", latest)
}

func TestSplitLoaderVersion_NeoForge(t *testing.T) {
	mc, v := splitLoaderVersion(LoaderNeoForge, "20.4.80-beta")
	assert.Equal(t, "1.20.4", mc)
	assert.Equal(t, "20.4.80-beta", v)

	mc, _ = splitLoaderVersion(LoaderNeoForge, "21.0.1")
	assert.Equal(t, "1.21", mc)

	_, v = splitLoaderVersion(LoaderNeoForge, "47")
	assert.Empty(t, v)
}

func TestSortAndDedupeVersions(t *testing.T) {
	got := SortAndDedupeVersions([]string{"1.20.1", "1.9", "1.20", "1.20.1", "1.19.4"})
	assert.Equal(t, []string{"1.9", "1.19.4", "1.20", "1.20.1"}, got)
}

func TestParseMinecraftVersions(t *testing.T) {
	manifest := `{
		"latest": {"release": "1.21", "snapshot": "24w33a"},
		"versions": [
			{"id": "24w33a", "type": "snapshot"},
			{"id": "1.21", "type": "release"},
			{"id": "1.20.6", "type": "release"},
			{"id": "b1.7.3", "type": "old_beta"}
		]
	}`

	info, err := parseMinecraftVersions(json.NewDecoder(strings.NewReader(manifest)))
	require.NoError(t, err)
	assert.Equal(t, "1.21", info.Latest)
	assert.Equal(t, "24w33a", info.LatestSnapshot)
	assert.Equal(t, []string{"1.21", "1.20.6"}, info.Versions)
	assert.True(t, info.CheckValid("24w33a"))
	assert.False(t, info.CheckValid("1.22"))
}
