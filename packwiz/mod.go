package packwiz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"

	"github.com/leocov-dev/addonpack/core"
)

const (
	ModeURL = "url"
	ModeCF  = "metadata:curseforge"

	metaFileSuffix = ".pw.toml"
)

type ModUpdate map[string]map[string]interface{}

// ModToml is a packwiz metafile describing a single addon file.
type ModToml struct {
	Name     string      `toml:"name"`
	FileName string      `toml:"filename"`
	Side     core.Side   `toml:"side,omitempty"`
	Pin      bool        `toml:"pin,omitempty"`
	Download ModDownload `toml:"download"`
	// Update holds one table per update source, keyed by source name
	Update ModUpdate  `toml:"update"`
	Option *ModOption `toml:"option,omitempty"`
}

// ModDownload specifies how to download the mod file
type ModDownload struct {
	URL        string `toml:"url,omitempty"`
	HashFormat string `toml:"hash-format"`
	Hash       string `toml:"hash"`
	// Mode defaults to ModeURL when empty
	Mode string `toml:"mode,omitempty"`
}

type ModOption struct {
	Optional    bool   `toml:"optional"`
	Description string `toml:"description,omitempty"`
	Default     bool   `toml:"default,omitempty"`
}

type modrinthUpdate struct {
	ModID   string `mapstructure:"mod-id"`
	Version string `mapstructure:"version"`
}

type curseforgeUpdate struct {
	ProjectID int `mapstructure:"project-id"`
	FileID    int `mapstructure:"file-id"`
}

type githubUpdate struct {
	Slug       string `mapstructure:"slug"`
	Tag        string `mapstructure:"tag"`
	AssetIndex uint   `mapstructure:"asset-index"`
	Filter     string `mapstructure:"filter,omitempty"`
	Regex      string `mapstructure:"regex,omitempty"`
}

func encodeUpdate(source core.AddonSource) (ModUpdate, error) {
	var table interface{}
	switch src := source.(type) {
	case core.ModrinthSource:
		table = modrinthUpdate{ModID: src.ProjectID, Version: src.VersionID}
	case core.CurseforgeSource:
		table = curseforgeUpdate{ProjectID: src.ProjectID, FileID: src.FileID}
	case core.GithubSource:
		filter := string(src.Filter)
		if src.Filter == core.FilterNone {
			filter = ""
		}
		table = githubUpdate{Slug: src.Repo, Tag: src.Tag, AssetIndex: src.AssetIndex, Filter: filter, Regex: src.Pattern}
	default:
		return nil, fmt.Errorf("unknown source %T", source)
	}
	data := make(map[string]interface{})
	if err := mapstructure.Decode(table, &data); err != nil {
		return nil, err
	}
	return ModUpdate{string(source.Registry()): data}, nil
}

// Source decodes the first update table this tool understands.
func (m *ModToml) Source() (core.AddonSource, error) {
	if data, ok := m.Update["modrinth"]; ok {
		var u modrinthUpdate
		if err := mapstructure.Decode(data, &u); err != nil {
			return nil, err
		}
		return core.ModrinthSource{ProjectID: u.ModID, VersionID: u.Version}, nil
	}
	if data, ok := m.Update["curseforge"]; ok {
		var u curseforgeUpdate
		if err := mapstructure.Decode(data, &u); err != nil {
			return nil, err
		}
		return core.CurseforgeSource{ProjectID: u.ProjectID, FileID: u.FileID}, nil
	}
	if data, ok := m.Update["github"]; ok {
		var u githubUpdate
		if err := mapstructure.Decode(data, &u); err != nil {
			return nil, err
		}
		filter := core.ReleaseFilter(u.Filter)
		if filter == "" {
			filter = core.FilterNone
		}
		return core.GithubSource{Repo: u.Slug, Tag: u.Tag, AssetIndex: u.AssetIndex, Filter: filter, Pattern: u.Regex}, nil
	}
	names := make([]string, 0, len(m.Update))
	for k := range m.Update {
		names = append(names, k)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("%s has no recognized update source (found %q)", m.Name, strings.Join(names, ", "))
}

func (m *ModToml) GetHashFormat() string {
	return "sha256"
}

func (m *ModToml) Marshal() (core.MarshalResult, error) {
	return marshalHashed(m, m.GetHashFormat())
}

func marshalHashed(v interface{}, hashFormat string) (core.MarshalResult, error) {
	result := core.MarshalResult{
		HashFormat: hashFormat,
	}

	var err error

	result.Value, err = toml.Marshal(v)
	if err != nil {
		return result, err
	}

	result.Hash, err = core.HashBytes(result.HashFormat, result.Value)
	return result, err
}
