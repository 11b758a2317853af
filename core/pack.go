package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/unascribed/FlexVer/go/flexver"
	"golang.org/x/exp/slices"
)

type ModLoader string

const (
	LoaderFabric   ModLoader = "fabric"
	LoaderQuilt    ModLoader = "quilt"
	LoaderForge    ModLoader = "forge"
	LoaderNeoForge ModLoader = "neoforge"
)

var AllLoaders = []ModLoader{LoaderFabric, LoaderQuilt, LoaderForge, LoaderNeoForge}

func ParseModLoader(s string) (ModLoader, error) {
	l := ModLoader(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(AllLoaders, l) {
		return l, nil
	}
	return "", fmt.Errorf("unknown mod loader %q", s)
}

func (l ModLoader) FriendlyName() string {
	return ComponentToFriendlyName(string(l))
}

// Implied returns the loaders whose files also run on l.
func (l ModLoader) Implied() []ModLoader {
	switch l {
	case LoaderQuilt:
		// Backwards-compatible; for now (could be configurable later)
		return []ModLoader{LoaderFabric}
	case LoaderNeoForge:
		return []ModLoader{LoaderForge}
	}
	return nil
}

const (
	DefaultIndexPath     = "index"
	DefaultOverridesPath = "overrides"
)

// Modpack stores the modpack metadata, usually in pack.toml
type Modpack struct {
	Name        string       `toml:"name"`
	Version     string       `toml:"version"`
	Authors     []string     `toml:"authors"`
	Description string       `toml:"description,omitempty"`
	IndexPath   string       `toml:"index_path"`
	Options     PackOptions  `toml:"options"`
	Versions    PackVersions `toml:"versions"`

	filePath string
}

type PackOptions struct {
	AcceptableVersions  []string    `toml:"acceptable_versions,omitempty"`
	AcceptableLoaders   []ModLoader `toml:"acceptable_loaders,omitempty"`
	OverridesPath       string      `toml:"overrides_path,omitempty"`
	ModsOutput          string      `toml:"mods_output,omitempty"`
	ResourcepacksOutput string      `toml:"resourcepacks_output,omitempty"`
	ShadersOutput       string      `toml:"shaders_output,omitempty"`
	DatapacksOutput     string      `toml:"datapacks_output,omitempty"`
}

type PackVersions struct {
	Minecraft     string    `toml:"minecraft"`
	Loader        ModLoader `toml:"loader"`
	LoaderVersion string    `toml:"loader_version"`
}

func NewModpack(name, version string, authors []string, description string, versions PackVersions) *Modpack {
	return &Modpack{
		Name:        name,
		Version:     version,
		Authors:     authors,
		Description: description,
		IndexPath:   DefaultIndexPath,
		Versions:    versions,
	}
}

func (pack *Modpack) GetFilePath() string {
	return pack.filePath
}

func (pack *Modpack) SetFilePath(path string) {
	pack.filePath = path
}

func (pack *Modpack) GetPackDir() string {
	return filepath.Dir(pack.filePath)
}

// GetExportName is the base file name used for exported artifacts
func (pack *Modpack) GetExportName() string {
	if pack.Name == "" {
		return "export"
	} else if pack.Version == "" {
		return pack.Name
	}
	return pack.Name + "-" + pack.Version
}

func (pack *Modpack) GetOverridesPath() string {
	if pack.Options.OverridesPath == "" {
		return DefaultOverridesPath
	}
	return pack.Options.OverridesPath
}

// GetCompatibleLoaders lists the primary loader followed by every other loader the pack accepts.
func (pack *Modpack) GetCompatibleLoaders() []ModLoader {
	loaders := []ModLoader{pack.Versions.Loader}
	for _, l := range append(pack.Versions.Loader.Implied(), pack.Options.AcceptableLoaders...) {
		if !slices.Contains(loaders, l) {
			loaders = append(loaders, l)
		}
	}
	return loaders
}

// GetSupportedMCVersions gets the versions of Minecraft this pack allows in downloaded mods, ordered by preference (highest = most desirable)
func (pack *Modpack) GetSupportedMCVersions() []string {
	allVersions := append(append([]string(nil), pack.Options.AcceptableVersions...), pack.Versions.Minecraft)
	return SortAndDedupeVersions(allVersions)
}

func (pack *Modpack) SetAcceptableGameVersions(versions []string) {
	pack.Options.AcceptableVersions = SortAndDedupeVersions(versions)
}

// OutputFolder is the pack-relative folder files of the given project type are installed into.
func (pack *Modpack) OutputFolder(projectType ProjectType) string {
	var custom string
	switch projectType {
	case ProjectMod:
		custom = pack.Options.ModsOutput
	case ProjectResourcepack:
		custom = pack.Options.ResourcepacksOutput
	case ProjectShader:
		custom = pack.Options.ShadersOutput
	case ProjectDatapack:
		custom = pack.Options.DatapacksOutput
	}
	if custom != "" {
		return filepath.ToSlash(custom)
	}
	return DefaultFolder(projectType)
}

func DefaultFolder(projectType ProjectType) string {
	switch projectType {
	case ProjectMod:
		return "mods"
	case ProjectShader:
		return "shaderpacks"
	case ProjectDatapack:
		return "datapacks"
	case ProjectResourcepack:
		return "resourcepacks"
	case ProjectPlugin:
		return "plugins"
	case ProjectModpack:
		return "modpacks"
	}
	return "unknown"
}

// Target is the platform an addon version must support.
func (pack *Modpack) Target() Target {
	compatible := pack.GetCompatibleLoaders()
	return Target{
		Minecraft:          pack.Versions.Minecraft,
		Loader:             pack.Versions.Loader,
		AcceptableVersions: slices.Clone(pack.Options.AcceptableVersions),
		AcceptableLoaders:  compatible[1:],
	}
}

// Validate checks the fields every command relies on.
func (pack *Modpack) Validate() error {
	if pack.Versions.Minecraft == "" {
		return fmt.Errorf("no minecraft version specified in modpack")
	}
	if _, err := ParseModLoader(string(pack.Versions.Loader)); err != nil {
		return err
	}
	if filepath.IsAbs(pack.IndexPath) || strings.HasPrefix(filepath.Clean(pack.IndexPath), "..") {
		return fmt.Errorf("invalid index path %q, it must be relative and inside the project root, for example: ./index", pack.IndexPath)
	}
	return nil
}

// SortAndDedupeVersions sorts versions with FlexVer and drops duplicates.
func SortAndDedupeVersions(versions []string) []string {
	flexver.VersionSlice(versions).Sort()
	// Deduplicate the sorted array
	if len(versions) > 0 {
		j := 0
		for i := 1; i < len(versions); i++ {
			if versions[i] != versions[j] {
				j++
				versions[j] = versions[i]
			}
		}
		versions = versions[:j+1]
	}
	return versions
}
