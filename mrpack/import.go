package mrpack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/core/murmur2"
	"github.com/leocov-dev/addonpack/fileio"
)

// Lookup recovers addons from file contents.
type Lookup interface {
	ModrinthAddonsFromHashes(ctx context.Context, sha1s []string) (map[string]*core.Addon, error)
	CurseforgeAddonsFromFingerprints(ctx context.Context, fingerprints []uint32) (map[uint32]*core.Addon, error)
	GithubAddonFromAsset(ctx context.Context, repo, tag, assetName string) (*core.Addon, error)
}

var githubDownloadRegex = regexp.MustCompile(`^https://github\.com/([\w.-]+/[\w.-]+)/releases/download/([^/]+)/([^/]+)$`)

// githubAsset finds a GitHub release download among urls and returns its parts.
func githubAsset(urls []string) (repo, tag, asset string, ok bool) {
	for _, u := range urls {
		m := githubDownloadRegex.FindStringSubmatch(u)
		if m == nil {
			continue
		}
		t, err := url.PathUnescape(m[2])
		if err != nil {
			continue
		}
		a, err := url.PathUnescape(m[3])
		if err != nil {
			continue
		}
		return m[1], t, a, true
	}
	return "", "", "", false
}

type ImportResult struct {
	Pack  *core.Modpack
	Index *core.Index
	// Skipped holds per-file problems that did not stop the import
	Skipped []error
}

// Import reads an .mrpack archive into a new modpack rooted at projectDir.
// Overrides are extracted into the pack's overrides directory; files recognized
// by a registry become addons instead.
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
	if manifest.Game != "minecraft" {
		return nil, fmt.Errorf("unsupported game %q: %w", manifest.Game, core.ErrBadImport)
	}
	versions, err := packVersions(manifest.Dependencies)
	if err != nil {
		return nil, err
	}

	pack := core.NewModpack(manifest.Name, manifest.VersionID, nil, manifest.Summary, versions)
	pack.SetFilePath(filepath.Join(projectDir, fileio.PackFileName))
	result := &ImportResult{Pack: pack, Index: core.NewIndex()}

	overrides := filepath.Join(projectDir, pack.GetOverridesPath())
	extracted, err := fileio.ExtractPrefix(&rc.Reader, overridesDir, overrides)
	if err != nil {
		return nil, err
	}

	// manifest files and extracted archives share one hash lookup
	var sha1s []string
	for _, f := range manifest.Files {
		if sha1, ok := f.Hashes["sha1"]; ok {
			sha1s = append(sha1s, sha1)
		}
	}
	overrideHashes := make(map[string]string)
	for _, rel := range extracted {
		if !isArchive(rel) {
			continue
		}
		hashes, err := fileio.HashFile(filepath.Join(overrides, filepath.FromSlash(rel)), "sha1")
		if err != nil {
			return nil, err
		}
		overrideHashes[hashes["sha1"]] = rel
		sha1s = append(sha1s, hashes["sha1"])
	}

	found, err := lookup.ModrinthAddonsFromHashes(ctx, sha1s)
	if err != nil {
		return nil, err
	}

	for _, f := range manifest.Files {
		addon, ok := found[f.Hashes["sha1"]]
		if !ok {
			if repo, tag, asset, isGithub := githubAsset(f.Downloads); isGithub {
				result.insertGithub(ctx, lookup, f, repo, tag, asset)
				continue
			}
			result.Skipped = append(result.Skipped, fmt.Errorf("%s is not known to Modrinth: %w", f.Path, core.ErrNotFound))
			continue
		}
		result.insert(addon)
	}
	for sha1, rel := range overrideHashes {
		addon, ok := found[sha1]
		if !ok {
			continue
		}
		if result.insert(addon) {
			if err := os.Remove(filepath.Join(overrides, filepath.FromSlash(rel))); err != nil {
				return nil, err
			}
			delete(overrideHashes, sha1)
		}
	}

	if err := result.matchFingerprints(ctx, lookup, overrides, overrideHashes); err != nil {
		return nil, err
	}
	removeEmptyDir(filepath.Join(overrides, "mods"))
	removeEmptyDir(overrides)
	return result, nil
}

// insert adds addon, recording a duplicate as skipped. It reports whether the addon was added.
func (r *ImportResult) insert(addon *core.Addon) bool {
	if err := r.Index.Insert(addon); err != nil {
		r.Skipped = append(r.Skipped, err)
		return false
	}
	return true
}

func (r *ImportResult) insertGithub(ctx context.Context, lookup Lookup, f ManifestFile, repo, tag, asset string) {
	addon, err := lookup.GithubAddonFromAsset(ctx, repo, tag, asset)
	if err != nil {
		r.Skipped = append(r.Skipped, fmt.Errorf("%s: %w", f.Path, err))
		return
	}
	addon.Side = SideForEnv(f.Env)
	if first, _, _ := strings.Cut(f.Path, "/"); core.ParseProjectType(first) != core.ProjectUnknown {
		addon.ProjectType = core.ParseProjectType(first)
	}
	r.insert(addon)
}

// matchFingerprints offers the loose jars left in overrides/mods to CurseForge. A match is
// only a suggestion: the jar is removed only when its addon makes it into the index.
func (r *ImportResult) matchFingerprints(ctx context.Context, lookup Lookup, overrides string, remaining map[string]string) error {
	byFingerprint := make(map[uint32]string)
	var fingerprints []uint32
	for _, rel := range remaining {
		if !strings.HasPrefix(rel, "mods/") || path.Ext(rel) != ".jar" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(overrides, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		fp := murmur2.Fingerprint(data)
		byFingerprint[fp] = rel
		fingerprints = append(fingerprints, fp)
	}
	if len(fingerprints) == 0 {
		return nil
	}

	found, err := lookup.CurseforgeAddonsFromFingerprints(ctx, fingerprints)
	if err != nil {
		// the jars stay as overrides
		r.Skipped = append(r.Skipped, fmt.Errorf("fingerprint lookup failed: %w", err))
		return nil
	}
	for fp, rel := range byFingerprint {
		addon, ok := found[fp]
		if !ok || !r.insert(addon) {
			continue
		}
		if err := os.Remove(filepath.Join(overrides, filepath.FromSlash(rel))); err != nil {
			return err
		}
	}
	return nil
}

func isArchive(rel string) bool {
	switch path.Ext(rel) {
	case ".jar", ".zip":
		return true
	}
	return false
}

func removeEmptyDir(dir string) {
	if fileio.IsEmptyDir(dir) {
		_ = os.Remove(dir)
	}
}
