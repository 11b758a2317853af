package packwiz

import (
	"fmt"
	"path"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/exp/slices"

	"github.com/leocov-dev/addonpack/core"
)

const (
	CurrentPackFormat = "packwiz:1.1.0"
	indexFileName     = "index.toml"
	packFileName      = "pack.toml"
)

var PackFormatConstraint = mustConstraint("~1")

func mustConstraint(c string) *semver.Constraints {
	out, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return out
}

type PackToml struct {
	Name        string            `toml:"name"`
	Author      string            `toml:"author,omitempty"`
	Version     string            `toml:"version,omitempty"`
	Description string            `toml:"description,omitempty"`
	PackFormat  string            `toml:"pack-format"`
	Index       PackTomlIndex     `toml:"index"`
	Versions    map[string]string `toml:"versions"`
	Options     *PackTomlOptions  `toml:"options,omitempty"`
}

// PackTomlOptions carries the pack options that decide where files land, so a
// re-import finds metafiles exported under custom folders.
type PackTomlOptions struct {
	AcceptableGameVersions []string `toml:"acceptable-game-versions,omitempty"`
	ModsFolder             string   `toml:"mods-folder,omitempty"`
	ResourcepacksFolder    string   `toml:"resourcepacks-folder,omitempty"`
	ShadersFolder          string   `toml:"shaders-folder,omitempty"`
	DatapacksFolder        string   `toml:"datapacks-folder,omitempty"`
}

func packTomlOptions(opts core.PackOptions) *PackTomlOptions {
	out := &PackTomlOptions{
		AcceptableGameVersions: opts.AcceptableVersions,
		ModsFolder:             opts.ModsOutput,
		ResourcepacksFolder:    opts.ResourcepacksOutput,
		ShadersFolder:          opts.ShadersOutput,
		DatapacksFolder:        opts.DatapacksOutput,
	}
	if len(out.AcceptableGameVersions) == 0 && out.ModsFolder == "" && out.ResourcepacksFolder == "" &&
		out.ShadersFolder == "" && out.DatapacksFolder == "" {
		return nil
	}
	return out
}

func (o *PackTomlOptions) apply(opts *core.PackOptions) {
	if o == nil {
		return
	}
	opts.AcceptableVersions = o.AcceptableGameVersions
	opts.ModsOutput = o.ModsFolder
	opts.ResourcepacksOutput = o.ResourcepacksFolder
	opts.ShadersOutput = o.ShadersFolder
	opts.DatapacksOutput = o.DatapacksFolder
}

type PackTomlIndex struct {
	// File is relative to the pack.toml file
	File       string `toml:"file"`
	HashFormat string `toml:"hash-format"`
	Hash       string `toml:"hash,omitempty"`
}

type IndexToml struct {
	HashFormat string      `toml:"hash-format"`
	Files      []IndexFile `toml:"files"`
}

type IndexFile struct {
	File       string `toml:"file"`
	Hash       string `toml:"hash"`
	HashFormat string `toml:"hash-format,omitempty"`
	Alias      string `toml:"alias,omitempty"`
	MetaFile   bool   `toml:"metafile,omitempty"`
	Preserve   bool   `toml:"preserve,omitempty"`
}

func (i *IndexToml) Marshal() (core.MarshalResult, error) {
	slices.SortFunc(i.Files, func(a, b IndexFile) int {
		return strings.Compare(a.File, b.File)
	})
	return marshalHashed(i, i.HashFormat)
}

func (p *PackToml) Marshal() (core.MarshalResult, error) {
	return marshalHashed(p, "sha256")
}

// CheckPackFormat accepts any packwiz 1.x pack. An empty field is treated as packwiz:1.1.0.
func CheckPackFormat(packFormat string) error {
	if packFormat == "" {
		packFormat = CurrentPackFormat
	}
	if !strings.HasPrefix(packFormat, "packwiz:") {
		return fmt.Errorf("pack-format %q does not indicate a valid packwiz pack: %w", packFormat, core.ErrBadImport)
	}
	ver, err := semver.StrictNewVersion(strings.TrimPrefix(packFormat, "packwiz:"))
	if err != nil {
		return fmt.Errorf("pack-format field is not valid semver: %v: %w", err, core.ErrBadImport)
	}
	if !PackFormatConstraint.Check(ver) {
		return fmt.Errorf("pack-format %s is not supported: %w", packFormat, core.ErrBadImport)
	}
	return nil
}

var loaderVersionKeys = map[core.ModLoader]string{
	core.LoaderFabric:   "fabric",
	core.LoaderQuilt:    "quilt",
	core.LoaderForge:    "forge",
	core.LoaderNeoForge: "neoforge",
}

func versionsMap(v core.PackVersions) map[string]string {
	out := map[string]string{"minecraft": v.Minecraft}
	if key, ok := loaderVersionKeys[v.Loader]; ok {
		out[key] = v.LoaderVersion
	}
	return out
}

func packVersions(versions map[string]string) (core.PackVersions, error) {
	mc := versions["minecraft"]
	if mc == "" {
		return core.PackVersions{}, fmt.Errorf("pack has no minecraft version: %w", core.ErrBadImport)
	}
	for _, loader := range core.AllLoaders {
		if v, ok := versions[loaderVersionKeys[loader]]; ok {
			return core.PackVersions{Minecraft: mc, Loader: loader, LoaderVersion: v}, nil
		}
	}
	return core.PackVersions{}, fmt.Errorf("pack has no supported mod loader: %w", core.ErrBadImport)
}

// metaFolder is the pack folder packwiz keeps metafiles of the given project type in.
func metaFolder(pack *core.Modpack, projectType core.ProjectType) string {
	if projectType == core.ProjectUnknown || projectType == "" {
		return core.DefaultOverridesPath + "/unknown"
	}
	return pack.OutputFolder(projectType)
}

var folderTypes = []core.ProjectType{
	core.ProjectMod, core.ProjectResourcepack, core.ProjectShader, core.ProjectDatapack,
	core.ProjectPlugin, core.ProjectModpack,
}

// folderProjectType maps a metafile path back to a project type through the pack's
// output folders, falling back to the folder name itself.
func folderProjectType(pack *core.Modpack, rel string) core.ProjectType {
	dir := path.Dir(rel)
	for _, t := range folderTypes {
		if path.Clean(pack.OutputFolder(t)) == dir {
			return t
		}
	}
	first, _, _ := strings.Cut(rel, "/")
	return core.ParseProjectType(first)
}
