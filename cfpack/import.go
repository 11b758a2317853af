package cfpack

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/fileio"
	"github.com/leocov-dev/addonpack/sources"
)

// Lookup recovers addons from manifest references and file contents.
type Lookup interface {
	CurseforgeAddons(ctx context.Context, refs []sources.CurseforgeRef) ([]*core.Addon, []error, error)
	ModrinthAddonsFromHashes(ctx context.Context, sha1s []string) (map[string]*core.Addon, error)
}

type ImportResult struct {
	Pack    *core.Modpack
	Index   *core.Index
	Skipped []error
}

// Import reads a CurseForge modpack zip into a new modpack rooted at projectDir.
func Import(ctx context.Context, lookup Lookup, archivePath, projectDir string) (*ImportResult, error) {
	rc, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err, core.ErrBadImport)
	}
	defer rc.Close()

	raw, err := fileio.ReadZipFile(&rc.Reader, ManifestName)
	if err != nil {
		return nil, fmt.Errorf("no %s in archive: %w", ManifestName, core.ErrBadImport)
	}
	var manifest Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("invalid %s: %v: %w", ManifestName, err, core.ErrBadImport)
	}
	versions, err := manifest.PackVersions()
	if err != nil {
		return nil, err
	}

	var authors []string
	if manifest.Author != "" {
		for _, a := range strings.Split(manifest.Author, ",") {
			authors = append(authors, strings.TrimSpace(a))
		}
	}
	pack := core.NewModpack(manifest.Name, manifest.Version, authors, "", versions)
	pack.SetFilePath(filepath.Join(projectDir, fileio.PackFileName))
	result := &ImportResult{Pack: pack, Index: core.NewIndex()}

	refs := make([]sources.CurseforgeRef, len(manifest.Files))
	for i, f := range manifest.Files {
		refs[i] = sources.CurseforgeRef{ProjectID: f.ProjectID, FileID: f.FileID}
	}
	addons, skipped, err := lookup.CurseforgeAddons(ctx, refs)
	if err != nil {
		return nil, err
	}
	result.Skipped = append(result.Skipped, skipped...)
	for _, a := range addons {
		result.insert(a)
	}

	overridesPath := manifest.Overrides
	if overridesPath == "" {
		overridesPath = overridesName
	}
	overrides := filepath.Join(projectDir, pack.GetOverridesPath())
	extracted, err := fileio.ExtractPrefix(&rc.Reader, overridesPath, overrides)
	if err != nil {
		return nil, err
	}

	if err := result.matchJars(ctx, lookup, overrides, extracted); err != nil {
		return nil, err
	}
	if mods := filepath.Join(overrides, "mods"); fileio.IsEmptyDir(mods) {
		_ = os.Remove(mods)
	}
	return result, nil
}

func (r *ImportResult) insert(addon *core.Addon) bool {
	if err := r.Index.Insert(addon); err != nil {
		r.Skipped = append(r.Skipped, err)
		return false
	}
	return true
}

// matchJars turns the jars in overrides/mods that Modrinth knows into addons.
func (r *ImportResult) matchJars(ctx context.Context, lookup Lookup, overrides string, extracted []string) error {
	bySHA1 := make(map[string]string)
	var sha1s []string
	for _, rel := range extracted {
		if !strings.HasPrefix(rel, "mods/") || path.Ext(rel) != ".jar" {
			continue
		}
		hashes, err := fileio.HashFile(filepath.Join(overrides, filepath.FromSlash(rel)), "sha1")
		if err != nil {
			return err
		}
		bySHA1[hashes["sha1"]] = rel
		sha1s = append(sha1s, hashes["sha1"])
	}
	if len(sha1s) == 0 {
		return nil
	}

	found, err := lookup.ModrinthAddonsFromHashes(ctx, sha1s)
	if err != nil {
		r.Skipped = append(r.Skipped, fmt.Errorf("modrinth hash lookup failed: %w", err))
		return nil
	}
	for _, sha1 := range sha1s {
		addon, ok := found[sha1]
		if !ok || !r.insert(addon) {
			continue
		}
		if err := os.Remove(filepath.Join(overrides, filepath.FromSlash(bySHA1[sha1]))); err != nil {
			return err
		}
	}
	return nil
}
