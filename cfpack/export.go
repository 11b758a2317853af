package cfpack

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path"
	"path/filepath"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/fileio"
)

// Exporter writes a modpack as a CurseForge zip. Addons from other registries are
// downloaded and shipped as overrides.
type Exporter struct {
	Files      core.FileResolver
	Downloader *fileio.Downloader
}

type ExportOptions struct {
	// OutputDir defaults to the pack directory
	OutputDir string
	// OverridesDir defaults to the pack's overrides path
	OverridesDir string
}

// Export builds <name>-<version>.zip and returns its path.
func (e *Exporter) Export(ctx context.Context, pack *core.Modpack, addons []*core.Addon, opts ExportOptions) (string, error) {
	var external []*core.Addon
	for _, a := range addons {
		if _, ok := a.Source.(core.CurseforgeSource); !ok {
			external = append(external, a)
		}
	}

	cache, err := fileio.NewScratchCache(pack)
	if err != nil {
		return "", err
	}
	defer cache.Remove()

	if len(external) > 0 {
		files, err := e.Files.ResolveFiles(ctx, external)
		if err != nil {
			return "", err
		}
		reqs := make([]fileio.DownloadRequest, 0, len(external))
		for _, a := range external {
			file := files[a.GenericID()]
			expected := make(map[string]string)
			for _, format := range []string{"sha1", "sha512"} {
				if v, ok := file.Hashes[format]; ok {
					expected[format] = v
				}
			}
			reqs = append(reqs, fileio.DownloadRequest{
				Name:     a.Name,
				URL:      file.URL,
				Dest:     cache.Path(path.Join(pack.OutputFolder(a.ProjectType), file.FileName)),
				Expected: expected,
			})
		}
		if _, err := e.Downloader.Download(ctx, reqs); err != nil {
			return "", err
		}
	}

	manifest, err := json.MarshalIndent(NewManifest(pack, addons), "", "  ")
	if err != nil {
		return "", err
	}
	var modlist bytes.Buffer
	if err := WriteModlist(&modlist, addons); err != nil {
		return "", err
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = pack.GetPackDir()
	}
	target := filepath.Join(outputDir, pack.GetExportName()+".zip")

	zw, err := fileio.NewZipWriter(target)
	if err != nil {
		return "", err
	}
	overrides := opts.OverridesDir
	if overrides == "" {
		overrides = filepath.Join(pack.GetPackDir(), pack.GetOverridesPath())
	}
	if err := writeArchive(zw, manifest, modlist.Bytes(), overrides, cache); err != nil {
		_ = zw.Close()
		_ = os.Remove(target)
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return target, nil
}

func writeArchive(zw *fileio.ZipWriter, manifest, modlist []byte, overrides string, cache *fileio.ScratchCache) error {
	if err := zw.AddBytes(ManifestName, manifest); err != nil {
		return err
	}
	if err := zw.AddBytes(ModlistName, modlist); err != nil {
		return err
	}
	ignore, err := fileio.ReadIgnore(overrides)
	if err != nil {
		return err
	}
	if _, err := zw.AddDir(overrides, overridesName, ignore); err != nil {
		return err
	}
	_, err = zw.AddDir(cache.Dir, overridesName, nil)
	return err
}
