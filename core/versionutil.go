package core

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/unascribed/FlexVer/go/flexver"
)

type ModLoaderComponent struct {
	Name         ModLoader
	FriendlyName string
	MavenURL     string
	// PerMinecraft is set for loaders whose versions are tied to a minecraft version
	PerMinecraft bool
}

var ModLoaders = map[ModLoader]ModLoaderComponent{
	LoaderFabric: {
		Name:         LoaderFabric,
		FriendlyName: "Fabric loader",
		MavenURL:     "https://maven.fabricmc.net/net/fabricmc/fabric-loader/maven-metadata.xml",
	},
	LoaderForge: {
		Name:         LoaderForge,
		FriendlyName: "Forge",
		MavenURL:     "https://maven.minecraftforge.net/net/minecraftforge/forge/maven-metadata.xml",
		PerMinecraft: true,
	},
	LoaderQuilt: {
		Name:         LoaderQuilt,
		FriendlyName: "Quilt loader",
		MavenURL:     "https://maven.quiltmc.org/repository/release/org/quiltmc/quilt-loader/maven-metadata.xml",
	},
	LoaderNeoForge: {
		Name:         LoaderNeoForge,
		FriendlyName: "NeoForge",
		MavenURL:     "https://maven.neoforged.net/releases/net/neoforged/neoforge/maven-metadata.xml",
		PerMinecraft: true,
	},
}

func ComponentToFriendlyName(component string) string {
	if component == "minecraft" {
		return "Minecraft"
	}
	loader, ok := ModLoaders[ModLoader(component)]
	if ok {
		return loader.FriendlyName
	} else {
		return component
	}
}

// HighestSliceIndex returns the highest index of the given values in the slice (-1 if no value is found in the slice)
func HighestSliceIndex(slice []string, values []string) int {
	highest := -1
	for _, val := range values {
		for i, v := range slice {
			if v == val && i > highest {
				highest = i
			}
		}
	}
	return highest
}

type ForgeRecommended struct {
	Homepage string            `json:"homepage"`
	Versions map[string]string `json:"promos"`
}

// GetForgeRecommended gets the recommended version of Forge for the given Minecraft version
func GetForgeRecommended(ctx context.Context, mcVersion string) string {
	res, err := GetWithUA(ctx, "https://files.minecraftforge.net/net/minecraftforge/forge/promotions_slim.json", "application/json")
	if err != nil {
		return ""
	}
	defer res.Body.Close()
	out := ForgeRecommended{}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return ""
	}
	// Get mcVersion-recommended, if it doesn't exist then get mcVersion-latest
	if v := out.Versions[mcVersion+"-recommended"]; v != "" {
		return v
	}
	return out.Versions[mcVersion+"-latest"]
}

// SortDescending orders versions newest first using FlexVer.
func SortDescending(versions []string) []string {
	flexver.VersionSlice(versions).Sort()
	for i, j := 0, len(versions)-1; i < j; i, j = i+1, j-1 {
		versions[i], versions[j] = versions[j], versions[i]
	}
	return versions
}

// VersionMap keys are minecraft versions and value is list of valid loader
// versions for that minecraft version, newest first
type VersionMap map[string][]string

// LoaderVersionCache fetches each loader's maven metadata at most once per process.
type LoaderVersionCache struct {
	mu       sync.Mutex
	versions map[ModLoader]VersionMap
	fetch    func(ctx context.Context, url string) ([]string, error)
}

const anyMinecraft = "*"

var defaultLoaderCache = NewLoaderVersionCache(fetchMavenVersions)

func GetLoaderCache() *LoaderVersionCache {
	return defaultLoaderCache
}

// NewLoaderVersionCache builds a cache around a maven metadata fetcher.
func NewLoaderVersionCache(fetch func(ctx context.Context, url string) ([]string, error)) *LoaderVersionCache {
	return &LoaderVersionCache{
		versions: make(map[ModLoader]VersionMap),
		fetch:    fetch,
	}
}

// GetVersions lists the loader versions usable with mcVersion, newest first, plus the newest one.
func (l *LoaderVersionCache) GetVersions(ctx context.Context, mcVersion string, loader ModLoader) ([]string, string, error) {
	component, ok := ModLoaders[loader]
	if !ok {
		return nil, "", fmt.Errorf("unknown loader %s", loader)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	versionMap, ok := l.versions[loader]
	if !ok {
		raw, err := l.fetch(ctx, component.MavenURL)
		if err != nil {
			return nil, "", fmt.Errorf("failed to fetch %s versions: %w", component.FriendlyName, err)
		}
		versionMap = groupLoaderVersions(loader, raw)
		l.versions[loader] = versionMap
	}

	key := anyMinecraft
	if component.PerMinecraft {
		key = mcVersion
	}
	versions := versionMap[key]
	if len(versions) == 0 {
		return nil, "", fmt.Errorf("%s %s: %w", component.FriendlyName, mcVersion, ErrNoLoaderSupport)
	}
	return versions, versions[0], nil
}

// LatestLoaderVersion is the newest loader version for the given minecraft version.
func LatestLoaderVersion(ctx context.Context, loader ModLoader, mcVersion string) (string, error) {
	_, latest, err := GetLoaderCache().GetVersions(ctx, mcVersion, loader)
	return latest, err
}

func groupLoaderVersions(loader ModLoader, raw []string) VersionMap {
	versionMap := make(VersionMap)
	for _, version := range raw {
		mc, loaderVersion := splitLoaderVersion(loader, version)
		if loaderVersion == "" {
			continue
		}
		versionMap[mc] = append(versionMap[mc], loaderVersion)
	}
	for mc, versions := range versionMap {
		versionMap[mc] = SortDescending(versions)
	}
	return versionMap
}

// splitLoaderVersion maps a maven version onto (minecraft version, loader version).
// An empty loader version means the entry is skipped.
func splitLoaderVersion(loader ModLoader, version string) (string, string) {
	switch loader {
	case LoaderForge:
		// 1.20.1-47.2.0
		parts := strings.SplitN(version, "-", 2)
		if len(parts) < 2 {
			return "", ""
		}
		return parts[0], parts[1]
	case LoaderNeoForge:
		// 20.4.80-beta belongs to 1.20.4, 21.0.1 to 1.21
		parts := strings.Split(version, ".")
		if len(parts) < 3 {
			return "", ""
		}
		if parts[1] == "0" {
			return "1." + parts[0], version
		}
		return "1." + parts[0] + "." + parts[1], version
	case LoaderFabric:
		// Skip versions containing "+"
		if strings.Contains(version, "+") {
			return "", ""
		}
	}
	return anyMinecraft, version
}

type mavenXmlMetadata struct {
	Versioning struct {
		Versions struct {
			Version []string `xml:"version"`
		} `xml:"versions"`
	} `xml:"versioning"`
}

func fetchMavenVersions(ctx context.Context, url string) ([]string, error) {
	resp, err := GetWithUA(ctx, url, "application/xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseMavenVersions(body)
}

func parseMavenVersions(body []byte) ([]string, error) {
	var metadata mavenXmlMetadata
	if err := xml.Unmarshal(body, &metadata); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(metadata.Versioning.Versions.Version))
	for _, v := range metadata.Versioning.Versions.Version {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}
