// Package cfpack reads and writes CurseForge modpack zips.
package cfpack

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/leocov-dev/addonpack/core"
)

const (
	ManifestName  = "manifest.json"
	ModlistName   = "modlist.html"
	manifestType  = "minecraftModpack"
	overridesName = "overrides"
)

type Manifest struct {
	Minecraft       ManifestMinecraft `json:"minecraft"`
	ManifestType    string            `json:"manifestType"`
	ManifestVersion int               `json:"manifestVersion"`
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Author          string            `json:"author"`
	Files           []ManifestFile    `json:"files"`
	Overrides       string            `json:"overrides"`
}

type ManifestMinecraft struct {
	Version    string           `json:"version"`
	ModLoaders []ManifestLoader `json:"modLoaders"`
}

type ManifestLoader struct {
	ID      string `json:"id"`
	Primary bool   `json:"primary"`
}

type ManifestFile struct {
	ProjectID int  `json:"projectID"`
	FileID    int  `json:"fileID"`
	Required  bool `json:"required"`
}

// NewManifest describes pack with the given CurseForge addons.
func NewManifest(pack *core.Modpack, addons []*core.Addon) Manifest {
	files := []ManifestFile{}
	for _, a := range addons {
		if src, ok := a.Source.(core.CurseforgeSource); ok {
			files = append(files, ManifestFile{ProjectID: src.ProjectID, FileID: src.FileID, Required: true})
		}
	}
	return Manifest{
		Minecraft: ManifestMinecraft{
			Version: pack.Versions.Minecraft,
			ModLoaders: []ManifestLoader{{
				ID:      string(pack.Versions.Loader) + "-" + pack.Versions.LoaderVersion,
				Primary: true,
			}},
		},
		ManifestType:    manifestType,
		ManifestVersion: 1,
		Name:            pack.Name,
		Version:         pack.Version,
		Author:          strings.Join(pack.Authors, ", "),
		Files:           files,
		Overrides:       overridesName,
	}
}

// PackVersions reads the target from the primary mod loader entry ("<loader>-<version>").
func (m Manifest) PackVersions() (core.PackVersions, error) {
	if m.Minecraft.Version == "" {
		return core.PackVersions{}, fmt.Errorf("manifest has no minecraft version: %w", core.ErrBadImport)
	}
	var primary *ManifestLoader
	for i, l := range m.Minecraft.ModLoaders {
		if l.Primary || primary == nil {
			primary = &m.Minecraft.ModLoaders[i]
		}
		if l.Primary {
			break
		}
	}
	if primary == nil {
		return core.PackVersions{}, fmt.Errorf("manifest has no mod loader: %w", core.ErrBadImport)
	}

	name, version, _ := strings.Cut(primary.ID, "-")
	loader, err := core.ParseModLoader(name)
	if err != nil {
		return core.PackVersions{}, fmt.Errorf("mod loader %q: %v: %w", primary.ID, err, core.ErrBadImport)
	}
	return core.PackVersions{Minecraft: m.Minecraft.Version, Loader: loader, LoaderVersion: version}, nil
}

// ProjectURL is the registry page of an addon.
func ProjectURL(addon *core.Addon) string {
	switch src := addon.Source.(type) {
	case core.CurseforgeSource:
		return "https://www.curseforge.com/projects/" + strconv.Itoa(src.ProjectID)
	case core.ModrinthSource:
		return "https://modrinth.com/project/" + src.ProjectID
	case core.GithubSource:
		return "https://github.com/" + src.Repo
	}
	return ""
}

// WriteModlist renders the html list of addons shipped alongside the manifest.
func WriteModlist(w io.Writer, addons []*core.Addon) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("<ul>\r\n"); err != nil {
		return err
	}
	for _, a := range addons {
		name := html.EscapeString(a.Name)
		var line string
		if url := ProjectURL(a); url != "" {
			line = "<li><a href=\"" + html.EscapeString(url) + "\">" + name + "</a></li>\r\n"
		} else {
			line = "<li>" + name + "</li>\r\n"
		}
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("</ul>\r\n"); err != nil {
		return err
	}
	return bw.Flush()
}
