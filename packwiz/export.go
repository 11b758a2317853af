package packwiz

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/fileio"
)

// Exporter writes a modpack as a packwiz directory.
type Exporter struct {
	Files      core.FileResolver
	Downloader *fileio.Downloader
}

type ExportOptions struct {
	// OverridesDir defaults to the pack's overrides path
	OverridesDir string
}

// Export writes pack.toml, index.toml and one metafile per addon into dir, which must be
// empty or missing. User overrides are copied in as plain index entries.
func (e *Exporter) Export(ctx context.Context, pack *core.Modpack, addons []*core.Addon, dir string, opts ExportOptions) error {
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("export directory %s is not empty", dir)
	}

	files, err := e.Files.ResolveFiles(ctx, addons)
	if err != nil {
		return err
	}
	githubHashes, err := e.hashGithubFiles(ctx, pack, addons, files)
	if err != nil {
		return err
	}

	index := IndexToml{HashFormat: "sha256"}
	for _, addon := range addons {
		mod, err := modToml(addon, files[addon.GenericID()], githubHashes[addon.GenericID()])
		if err != nil {
			return err
		}
		result, err := mod.Marshal()
		if err != nil {
			return err
		}
		rel := path.Join(metaFolder(pack, addon.ProjectType), addon.StorageKey()+metaFileSuffix)
		if err := fileio.CreateAndWrite(filepath.Join(dir, filepath.FromSlash(rel)), result.Value); err != nil {
			return err
		}
		index.Files = append(index.Files, IndexFile{File: rel, Hash: result.Hash, MetaFile: true})
	}

	overrides := opts.OverridesDir
	if overrides == "" {
		overrides = filepath.Join(pack.GetPackDir(), pack.GetOverridesPath())
	}
	copied, err := copyOverrides(overrides, dir)
	if err != nil {
		return err
	}
	index.Files = append(index.Files, copied...)

	indexResult, err := index.Marshal()
	if err != nil {
		return err
	}
	if err := fileio.CreateAndWrite(filepath.Join(dir, indexFileName), indexResult.Value); err != nil {
		return err
	}

	packToml := PackToml{
		Name:        pack.Name,
		Author:      strings.Join(pack.Authors, ", "),
		Version:     pack.Version,
		Description: pack.Description,
		PackFormat:  CurrentPackFormat,
		Index:       PackTomlIndex{File: indexFileName, HashFormat: indexResult.HashFormat, Hash: indexResult.Hash},
		Versions:    versionsMap(pack.Versions),
		Options:     packTomlOptions(pack.Options),
	}
	packResult, err := packToml.Marshal()
	if err != nil {
		return err
	}
	return fileio.CreateAndWrite(filepath.Join(dir, packFileName), packResult.Value)
}

// hashGithubFiles downloads GitHub assets, which carry no registry hashes, and returns their sha256.
func (e *Exporter) hashGithubFiles(ctx context.Context, pack *core.Modpack, addons []*core.Addon, files map[core.GenericID]core.AddonFile) (map[core.GenericID]string, error) {
	var reqs []fileio.DownloadRequest
	var ids []core.GenericID
	for _, a := range addons {
		if _, ok := a.Source.(core.GithubSource); !ok {
			continue
		}
		file := files[a.GenericID()]
		reqs = append(reqs, fileio.DownloadRequest{Name: a.Name, URL: file.URL, Dest: file.FileName})
		ids = append(ids, a.GenericID())
	}
	if len(reqs) == 0 {
		return nil, nil
	}

	cache, err := fileio.NewScratchCache(pack)
	if err != nil {
		return nil, err
	}
	defer cache.Remove()
	for i := range reqs {
		reqs[i].Dest = cache.Path(fmt.Sprintf("%d-%s", i, reqs[i].Dest))
	}

	fetched, err := e.Downloader.Download(ctx, reqs)
	if err != nil {
		return nil, err
	}
	out := make(map[core.GenericID]string, len(fetched))
	for i, f := range fetched {
		out[ids[i]] = f.Hashes["sha256"]
	}
	return out, nil
}

func modToml(addon *core.Addon, file core.AddonFile, githubSHA256 string) (*ModToml, error) {
	update, err := encodeUpdate(addon.Source)
	if err != nil {
		return nil, err
	}
	mod := &ModToml{
		Name:     addon.Name,
		FileName: file.FileName,
		Side:     addon.Side,
		Pin:      addon.Options.Pinned,
		Update:   update,
	}

	switch addon.Source.(type) {
	case core.CurseforgeSource:
		format, hash := bestHash(file.Hashes, "sha1", "md5")
		mod.Download = ModDownload{HashFormat: format, Hash: hash, Mode: ModeCF}
	case core.GithubSource:
		mod.Download = ModDownload{URL: file.URL, HashFormat: "sha256", Hash: githubSHA256}
	default:
		format, hash := bestHash(file.Hashes, "sha512", "sha1")
		mod.Download = ModDownload{URL: file.URL, HashFormat: format, Hash: hash}
	}
	if mod.Download.Hash == "" {
		return nil, fmt.Errorf("no usable hash for %s", addon.Name)
	}
	return mod, nil
}

func bestHash(hashes map[string]string, formats ...string) (string, string) {
	for _, f := range formats {
		if v, ok := hashes[f]; ok && v != "" {
			return f, v
		}
	}
	return "", ""
}

func copyOverrides(overrides, dir string) ([]IndexFile, error) {
	if _, err := os.Stat(overrides); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	ignore, err := fileio.ReadIgnore(overrides)
	if err != nil {
		return nil, err
	}

	var out []IndexFile
	err = filepath.WalkDir(overrides, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(overrides, p)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)
		if ignore.MatchesPath(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if err := fileio.CreateAndWrite(filepath.Join(dir, filepath.FromSlash(rel)), data); err != nil {
			return err
		}
		hashes, err := fileio.HashFile(p, "sha256")
		if err != nil {
			return err
		}
		out = append(out, IndexFile{File: rel, Hash: hashes["sha256"]})
		return nil
	})
	return out, err
}
