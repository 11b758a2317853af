package mrpack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/exp/slices"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/fileio"
)

// Exporter writes a modpack and its addons as an .mrpack archive.
type Exporter struct {
	Files      core.FileResolver
	Downloader *fileio.Downloader
	// AllowedHosts defaults to the package AllowedHosts
	AllowedHosts []string
}

type ExportOptions struct {
	// OutputDir defaults to the pack directory
	OutputDir string
	// OverridesDir defaults to the pack's overrides path
	OverridesDir string
}

func (e *Exporter) allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return false
	}
	hosts := e.AllowedHosts
	if hosts == nil {
		hosts = AllowedHosts
	}
	return slices.Contains(hosts, u.Hostname())
}

// Export builds <name>-<version>.mrpack and returns its path.
func (e *Exporter) Export(ctx context.Context, pack *core.Modpack, addons []*core.Addon, opts ExportOptions) (string, error) {
	files, err := e.Files.ResolveFiles(ctx, addons)
	if err != nil {
		return "", err
	}

	cache, err := fileio.NewScratchCache(pack)
	if err != nil {
		return "", err
	}
	defer cache.Remove()

	manifest := Manifest{
		FormatVersion: FormatVersion,
		Game:          "minecraft",
		VersionID:     pack.Version,
		Name:          pack.Name,
		Summary:       pack.Description,
		Files:         []ManifestFile{},
		Dependencies:  dependencies(pack.Versions),
	}

	var downloads []fileio.DownloadRequest
	downloaded := make(map[string]*core.Addon)
	for _, addon := range addons {
		file := files[addon.GenericID()]
		rel := path.Join(pack.OutputFolder(addon.ProjectType), file.FileName)

		if _, ok := addon.Source.(core.ModrinthSource); ok {
			env := EnvForSide(addon.Side)
			manifest.Files = append(manifest.Files, ManifestFile{
				Path:      rel,
				Hashes:    pickHashes(file.Hashes),
				Env:       &env,
				Downloads: []string{file.URL},
				FileSize:  file.Size,
			})
			continue
		}

		expected := make(map[string]string)
		if sha1, ok := file.Hashes["sha1"]; ok {
			expected["sha1"] = sha1
		}
		downloads = append(downloads, fileio.DownloadRequest{
			Name:     addon.Name,
			URL:      file.URL,
			Dest:     cache.Path(rel),
			Expected: expected,
		})
		downloaded[rel] = addon
	}

	fetched, err := e.Downloader.Download(ctx, downloads)
	if err != nil {
		return "", err
	}
	for _, f := range fetched {
		if !e.allowed(f.Request.URL) {
			// stays in the cache and ships under overrides/
			continue
		}
		rel, err := filepath.Rel(cache.Dir, f.Request.Dest)
		if err != nil {
			return "", err
		}
		rel = filepath.ToSlash(rel)
		env := EnvForSide(downloaded[rel].Side)
		manifest.Files = append(manifest.Files, ManifestFile{
			Path:      rel,
			Hashes:    pickHashes(f.Hashes),
			Env:       &env,
			Downloads: []string{f.Request.URL},
			FileSize:  f.Size,
		})
		if err := os.Remove(f.Request.Dest); err != nil {
			return "", err
		}
	}
	slices.SortFunc(manifest.Files, func(a, b ManifestFile) int {
		if a.Path < b.Path {
			return -1
		} else if a.Path > b.Path {
			return 1
		}
		return 0
	})

	raw, err := json.MarshalIndent(manifest, "", "    ")
	if err != nil {
		return "", err
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = pack.GetPackDir()
	}
	target := filepath.Join(outputDir, pack.GetExportName()+".mrpack")

	zw, err := fileio.NewZipWriter(target)
	if err != nil {
		return "", err
	}
	if err := writeArchive(zw, raw, pack, opts, cache); err != nil {
		_ = zw.Close()
		_ = os.Remove(target)
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return target, nil
}

func writeArchive(zw *fileio.ZipWriter, manifest []byte, pack *core.Modpack, opts ExportOptions, cache *fileio.ScratchCache) error {
	if err := zw.AddBytes(ManifestName, manifest); err != nil {
		return err
	}

	overrides := opts.OverridesDir
	if overrides == "" {
		overrides = filepath.Join(pack.GetPackDir(), pack.GetOverridesPath())
	}
	ignore, err := fileio.ReadIgnore(overrides)
	if err != nil {
		return err
	}
	if _, err := zw.AddDir(overrides, overridesDir, ignore); err != nil {
		return fmt.Errorf("failed to add overrides: %w", err)
	}
	_, err = zw.AddDir(cache.Dir, overridesDir, nil)
	return err
}

func pickHashes(in map[string]string) map[string]string {
	out := make(map[string]string, 2)
	for _, format := range []string{"sha1", "sha512"} {
		if v, ok := in[format]; ok {
			out[format] = v
		}
	}
	return out
}
