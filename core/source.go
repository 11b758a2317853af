package core

import (
	"fmt"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/exp/maps"
)

type Registry string

const (
	RegistryModrinth   Registry = "modrinth"
	RegistryCurseforge Registry = "curseforge"
	RegistryGithub     Registry = "github"
)

// GenericID identifies an addon independently of its display name.
type GenericID struct {
	Registry Registry
	ID       string
}

func (g GenericID) String() string {
	return string(g.Registry) + ":" + g.ID
}

// AddonSource is implemented only by ModrinthSource, CurseforgeSource and GithubSource.
// Code that needs registry specific behaviour should type switch over all three.
type AddonSource interface {
	Registry() Registry
	GenericID() GenericID
	// Version is the registry's pointer to the installed version, file or release tag.
	Version() string
	isAddonSource()
}

type ModrinthSource struct {
	ProjectID string `mapstructure:"id"`
	VersionID string `mapstructure:"version"`
}

func (s ModrinthSource) Registry() Registry { return RegistryModrinth }
func (s ModrinthSource) GenericID() GenericID {
	return GenericID{RegistryModrinth, s.ProjectID}
}
func (s ModrinthSource) Version() string { return s.VersionID }
func (ModrinthSource) isAddonSource()    {}

type CurseforgeSource struct {
	ProjectID int `mapstructure:"id"`
	FileID    int `mapstructure:"version"`
}

func (s CurseforgeSource) Registry() Registry { return RegistryCurseforge }
func (s CurseforgeSource) GenericID() GenericID {
	return GenericID{RegistryCurseforge, strconv.Itoa(s.ProjectID)}
}
func (s CurseforgeSource) Version() string { return strconv.Itoa(s.FileID) }
func (CurseforgeSource) isAddonSource()    {}

type ReleaseFilter string

const (
	FilterNone  ReleaseFilter = "none"
	FilterTag   ReleaseFilter = "tag"
	FilterTitle ReleaseFilter = "title"
)

type GithubSource struct {
	Repo       string        `mapstructure:"repo"`
	Tag        string        `mapstructure:"tag"`
	AssetIndex uint          `mapstructure:"asset_index"`
	Filter     ReleaseFilter `mapstructure:"filter_by"`
	// Pattern is matched against the release tag or title, depending on Filter.
	// "{mc_version}" is replaced by each accepted minecraft version.
	Pattern string `mapstructure:"pattern,omitempty"`
}

func (s GithubSource) Registry() Registry { return RegistryGithub }
func (s GithubSource) GenericID() GenericID {
	return GenericID{RegistryGithub, s.Repo}
}
func (s GithubSource) Version() string { return s.Tag }
func (GithubSource) isAddonSource()    {}

// SourceTable is the persisted form of an AddonSource: a single table keyed by registry name.
type SourceTable map[string]map[string]interface{}

func EncodeSource(source AddonSource) (SourceTable, error) {
	if source == nil {
		return nil, fmt.Errorf("addon has no source")
	}
	data := make(map[string]interface{})
	if err := mapstructure.Decode(source, &data); err != nil {
		return nil, err
	}
	return SourceTable{string(source.Registry()): data}, nil
}

func DecodeSource(table SourceTable) (AddonSource, error) {
	if len(table) != 1 {
		return nil, fmt.Errorf("expected exactly one source, found %v", maps.Keys(table))
	}
	for name, data := range table {
		switch Registry(name) {
		case RegistryModrinth:
			var s ModrinthSource
			err := mapstructure.Decode(data, &s)
			return s, err
		case RegistryCurseforge:
			var s CurseforgeSource
			err := mapstructure.Decode(data, &s)
			return s, err
		case RegistryGithub:
			var s GithubSource
			err := mapstructure.Decode(data, &s)
			if s.Filter == "" {
				s.Filter = FilterNone
			}
			return s, err
		default:
			return nil, fmt.Errorf("unknown source %q", name)
		}
	}
	return nil, nil
}
