package packwiz

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/fileio"
)

type ImportResult struct {
	Pack  *core.Modpack
	Index *core.Index
	// Overrides lists the non-metafile entries copied into the overrides directory
	Overrides []string
	Skipped   []error
}

// fetcher reads files relative to the pack.toml location.
type fetcher interface {
	fetch(ctx context.Context, rel string) ([]byte, error)
}

type localFetcher struct {
	root string
}

func (f localFetcher) fetch(_ context.Context, rel string) ([]byte, error) {
	return os.ReadFile(filepath.Join(f.root, filepath.FromSlash(rel)))
}

type httpFetcher struct {
	base *url.URL
}

func (f httpFetcher) fetch(ctx context.Context, rel string) ([]byte, error) {
	ref, err := url.Parse(rel)
	if err != nil {
		return nil, err
	}
	target := f.base.ResolveReference(ref).String()
	resp, err := core.GetWithUA(ctx, target, "application/toml, */*")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", target, core.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: invalid response status %d", target, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// newFetcher accepts a pack.toml path or url, or a directory containing pack.toml.
// It returns the fetcher and the pack.toml name relative to it.
func newFetcher(location string) (fetcher, string, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		u, err := url.Parse(location)
		if err != nil {
			return nil, "", err
		}
		name := path.Base(u.Path)
		if !strings.HasSuffix(name, ".toml") {
			u.Path = strings.TrimSuffix(u.Path, "/") + "/" + packFileName
			name = packFileName
		}
		return httpFetcher{base: u}, name, nil
	}

	info, err := os.Stat(location)
	if err != nil {
		return nil, "", err
	}
	if info.IsDir() {
		return localFetcher{root: location}, packFileName, nil
	}
	return localFetcher{root: filepath.Dir(location)}, filepath.Base(location), nil
}

// Import reads a packwiz pack into a new modpack rooted at projectDir. Metafiles become
// addons; other index entries are copied into the overrides directory.
func Import(ctx context.Context, location, projectDir string) (*ImportResult, error) {
	src, packName, err := newFetcher(location)
	if err != nil {
		return nil, err
	}

	raw, err := src.fetch(ctx, packName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", packName, err)
	}
	var packToml PackToml
	if err := toml.Unmarshal(raw, &packToml); err != nil {
		return nil, fmt.Errorf("invalid %s: %v: %w", packName, err, core.ErrBadImport)
	}
	if err := CheckPackFormat(packToml.PackFormat); err != nil {
		return nil, err
	}
	versions, err := packVersions(packToml.Versions)
	if err != nil {
		return nil, err
	}

	var authors []string
	for _, a := range strings.Split(packToml.Author, ",") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	pack := core.NewModpack(packToml.Name, packToml.Version, authors, packToml.Description, versions)
	pack.SetFilePath(filepath.Join(projectDir, fileio.PackFileName))
	packToml.Options.apply(&pack.Options)
	result := &ImportResult{Pack: pack, Index: core.NewIndex()}

	indexFile := packToml.Index.File
	if indexFile == "" {
		indexFile = indexFileName
	}
	raw, err = src.fetch(ctx, indexFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	var index IndexToml
	if err := toml.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("invalid index: %v: %w", err, core.ErrBadImport)
	}
	indexDir := path.Dir(filepath.ToSlash(indexFile))

	overrides := filepath.Join(projectDir, pack.GetOverridesPath())
	for _, entry := range index.Files {
		file, err := cleanEntryPath(entry.File)
		if err != nil {
			result.Skipped = append(result.Skipped, err)
			continue
		}
		rel := path.Join(indexDir, file)
		data, err := src.fetch(ctx, rel)
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Errorf("failed to read %s: %w", rel, err))
			continue
		}

		if !entry.MetaFile && !strings.HasSuffix(file, metaFileSuffix) {
			if err := fileio.CreateAndWrite(filepath.Join(overrides, filepath.FromSlash(file)), data); err != nil {
				return nil, err
			}
			result.Overrides = append(result.Overrides, file)
			continue
		}

		addon, err := addonFromMetafile(pack, file, data)
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Errorf("%s: %w", file, err))
			continue
		}
		if err := result.Index.Insert(addon); err != nil {
			result.Skipped = append(result.Skipped, err)
		}
	}
	return result, nil
}

// cleanEntryPath rejects index entries that would resolve outside the pack.
func cleanEntryPath(file string) (string, error) {
	rel := path.Clean(strings.ReplaceAll(file, "\\", "/"))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", fmt.Errorf("illegal path in index: %q: %w", file, core.ErrBadImport)
	}
	return rel, nil
}

func addonFromMetafile(pack *core.Modpack, rel string, data []byte) (*core.Addon, error) {
	var mod ModToml
	if err := toml.Unmarshal(data, &mod); err != nil {
		return nil, err
	}
	source, err := mod.Source()
	if err != nil {
		return nil, err
	}

	addon := core.NewAddon(mod.Name, folderProjectType(pack, rel), mod.Side, source)
	addon.Options.Pinned = mod.Pin

	slug := strings.TrimSuffix(path.Base(rel), metaFileSuffix)
	if slug != core.SlugifyName(mod.Name) {
		addon.SetFileName(slug + ".toml")
	}
	return addon, nil
}
