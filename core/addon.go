package core

import (
	"fmt"
	"strings"
)

type ProjectType string

const (
	ProjectMod          ProjectType = "mod"
	ProjectShader       ProjectType = "shader"
	ProjectDatapack     ProjectType = "datapack"
	ProjectResourcepack ProjectType = "resourcepack"
	ProjectPlugin       ProjectType = "plugin"
	ProjectModpack      ProjectType = "modpack"
	ProjectUnknown      ProjectType = "unknown"
)

// ParseProjectType maps registry project type names onto ProjectType.
// Modrinth calls shaders "shader" and resource packs "resourcepack"; CurseForge class slugs are handled too.
func ParseProjectType(s string) ProjectType {
	switch strings.ToLower(s) {
	case "mod", "mods", "mc-mods":
		return ProjectMod
	case "shader", "shaders", "shaderpack", "shaderpacks":
		return ProjectShader
	case "datapack", "datapacks", "data-packs":
		return ProjectDatapack
	case "resourcepack", "resourcepacks", "texture-packs":
		return ProjectResourcepack
	case "plugin", "plugins", "bukkit-plugins":
		return ProjectPlugin
	case "modpack", "modpacks":
		return ProjectModpack
	}
	return ProjectUnknown
}

type Side string

const (
	SideBoth   Side = "both"
	SideClient Side = "client"
	SideServer Side = "server"
)

// SideFromSupport derives a Side from registry client/server support strings
// ("required", "optional", "unsupported").
func SideFromSupport(client, server string) Side {
	clientOK := client != "unsupported"
	serverOK := server != "unsupported"
	switch {
	case clientOK && !serverOK:
		return SideClient
	case serverOK && !clientOK:
		return SideServer
	}
	return SideBoth
}

type ReleaseChannel string

const (
	ChannelAny     ReleaseChannel = ""
	ChannelRelease ReleaseChannel = "release"
	ChannelBeta    ReleaseChannel = "beta"
	ChannelAlpha   ReleaseChannel = "alpha"
)

func (c ReleaseChannel) rank() int {
	switch c {
	case ChannelRelease, ChannelAny:
		return 0
	case ChannelBeta:
		return 1
	}
	return 2
}

// Allows reports whether a candidate published on channel other is acceptable for c.
func (c ReleaseChannel) Allows(other ReleaseChannel) bool {
	if c == ChannelAny {
		return true
	}
	return other.rank() <= c.rank()
}

type AddonOptions struct {
	Pinned         bool           `toml:"pinned,omitempty"`
	ModLoader      ModLoader      `toml:"mod_loader,omitempty"`
	GameVersion    string         `toml:"game_version,omitempty"`
	ReleaseChannel ReleaseChannel `toml:"release_channel,omitempty"`
}

type Addon struct {
	Name        string
	ProjectType ProjectType
	Side        Side
	Source      AddonSource
	Options     AddonOptions

	// fileName is the descriptor this addon was loaded from, if any
	fileName string
}

func NewAddon(name string, projectType ProjectType, side Side, source AddonSource) *Addon {
	if side == "" {
		side = SideBoth
	}
	if projectType == "" {
		projectType = ProjectUnknown
	}
	return &Addon{
		Name:        name,
		ProjectType: projectType,
		Side:        side,
		Source:      source,
	}
}

func (a *Addon) GenericID() GenericID {
	if a.Source == nil {
		return GenericID{}
	}
	return a.Source.GenericID()
}

// Matches reports whether s names this addon: its name (ignoring case), its
// registry id, or its "registry:id" form.
func (a *Addon) Matches(s string) bool {
	if strings.EqualFold(s, a.Name) {
		return true
	}
	id := a.GenericID()
	return s == id.ID || s == id.String()
}

// StorageKey is the index file name (without extension) for this addon.
func (a *Addon) StorageKey() string {
	if a.fileName != "" {
		return strings.TrimSuffix(a.fileName, ".toml")
	}
	key := SlugifyName(a.Name)
	if key == "" {
		key = SlugifyName(a.GenericID().ID)
	}
	return key
}

func (a *Addon) FileName() string {
	return a.StorageKey() + ".toml"
}

func (a *Addon) SetFileName(name string) {
	a.fileName = name
}

func (a *Addon) Clone() *Addon {
	c := *a
	return &c
}

func (a *Addon) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.GenericID())
}
