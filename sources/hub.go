package sources

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	modrinthApi "codeberg.org/jmansfield/go-modrinth/modrinth"
	"github.com/sahilm/fuzzy"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/leocov-dev/addonpack/core"
)

var errNoCurseforge = errors.New("CurseForge is not configured, set CURSEFORGE_API_KEY")

// Hub turns registry payloads into candidates and addons. It is the registry side of
// dependency resolution, migration and export.
type Hub struct {
	Modrinth   ModrinthAPI
	Curseforge CurseforgeAPI
	Github     GithubAPI
}

var (
	_ core.DependencyGraph = (*Hub)(nil)
	_ core.CandidateLister = (*Hub)(nil)
	_ core.FileResolver    = (*Hub)(nil)
)

// NewHub builds the default clients. CurseForge is left unset without an api key.
func NewHub(curseforgeKey, githubToken string) (*Hub, error) {
	mr, err := NewModrinthClient()
	if err != nil {
		return nil, err
	}
	hub := &Hub{
		Modrinth: mr,
		Github:   NewGithubClient(githubToken),
	}
	if curseforgeKey != "" {
		cf, err := NewCurseforgeClient(curseforgeKey)
		if err != nil {
			return nil, err
		}
		hub.Curseforge = cf
	}
	return hub, nil
}

func (h *Hub) curseforge() (CurseforgeAPI, error) {
	if h.Curseforge == nil {
		return nil, errNoCurseforge
	}
	return h.Curseforge, nil
}

// ---- candidates

func modrinthCandidate(v *modrinthApi.Version) core.Candidate {
	return core.Candidate{
		ID:           deref(v.ID),
		GameVersions: v.GameVersions,
		Loaders:      v.Loaders,
		Available:    len(v.Files) > 0,
		Published:    deref(v.DatePublished),
		Channel:      core.ReleaseChannel(deref(v.VersionType)),
		Payload:      v,
	}
}

// cfCandidate exposes CurseForge snapshot buckets ("1.20-Snapshot") under the
// target's own version ids so they compare like any other version.
func cfCandidate(f CfModFileInfo, gameVersions []string) core.Candidate {
	versions := slices.Clone(f.GameVersions)
	for _, v := range gameVersions {
		if cf := GetCurseforgeVersion(v); cf != v && slices.Contains(f.GameVersions, cf) {
			versions = append(versions, v)
		}
	}
	return core.Candidate{
		ID:           strconv.Itoa(f.ID),
		GameVersions: versions,
		Loaders:      f.GameVersions,
		Available:    f.IsAvailable,
		Published:    f.FileDate,
		Channel:      f.ReleaseType.Channel(),
		Payload:      f,
	}
}

func githubCandidate(r GithubRelease, source core.GithubSource, target core.Target) core.Candidate {
	channel := core.ChannelRelease
	if r.Prerelease {
		channel = core.ChannelBeta
	}
	return core.Candidate{
		ID:           r.TagName,
		GameVersions: ReleaseGameVersions(r, source, target.GameVersions()),
		Loaders:      target.LoaderNames(),
		Available:    !r.Draft && int(source.AssetIndex) < len(r.Assets),
		Published:    r.PublishedAt,
		Channel:      channel,
		Payload:      r,
	}
}

func (h *Hub) Candidates(ctx context.Context, addon *core.Addon, target core.Target) ([]core.Candidate, error) {
	switch src := addon.Source.(type) {
	case core.ModrinthSource:
		var loaders []string
		if addon.ProjectType == core.ProjectMod {
			loaders = target.LoaderNames()
		}
		versions, err := h.Modrinth.ListVersions(ctx, src.ProjectID, target.GameVersions(), loaders)
		if err != nil {
			return nil, err
		}
		out := make([]core.Candidate, len(versions))
		for i, v := range versions {
			out[i] = modrinthCandidate(v)
		}
		return out, nil

	case core.CurseforgeSource:
		cf, err := h.curseforge()
		if err != nil {
			return nil, err
		}
		files, err := cf.GetModFiles(ctx, src.ProjectID, "", ModloaderTypeAny)
		if err != nil {
			return nil, err
		}
		gameVersions := target.GameVersions()
		out := make([]core.Candidate, len(files))
		for i, f := range files {
			out[i] = cfCandidate(f, gameVersions)
		}
		return out, nil

	case core.GithubSource:
		owner, repo, err := ParseGithubRepo(src.Repo)
		if err != nil {
			return nil, err
		}
		releases, err := h.Github.ListReleases(ctx, owner, repo)
		if err != nil {
			return nil, err
		}
		out := make([]core.Candidate, len(releases))
		for i, r := range releases {
			out[i] = githubCandidate(r, src, target)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown source for %s", addon.Name)
}

// Repoint returns a copy of addon installing the given candidate.
func (h *Hub) Repoint(addon *core.Addon, candidate core.Candidate) (*core.Addon, error) {
	updated := addon.Clone()
	switch src := addon.Source.(type) {
	case core.ModrinthSource:
		src.VersionID = candidate.ID
		updated.Source = src
	case core.CurseforgeSource:
		fileID, err := strconv.Atoi(candidate.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid curseforge file id %q: %w", candidate.ID, core.ErrInvalidID)
		}
		src.FileID = fileID
		updated.Source = src
	case core.GithubSource:
		src.Tag = candidate.ID
		updated.Source = src
	default:
		return nil, fmt.Errorf("unknown source for %s", addon.Name)
	}
	return updated, nil
}

// ---- dependency graph

func modrinthDependencyKind(s string) core.DependencyKind {
	switch s {
	case "required":
		return core.DependencyRequired
	case "incompatible":
		return core.DependencyIncompatible
	case "embedded":
		return core.DependencyEmbedded
	case "optional":
		return core.DependencyOptional
	}
	return core.DependencyUnsupported
}

func cfDependencyKind(relation int) core.DependencyKind {
	switch relation {
	case cfRelationRequired:
		return core.DependencyRequired
	case cfRelationOptional, cfRelationTool:
		return core.DependencyOptional
	case cfRelationIncompatible:
		return core.DependencyIncompatible
	case cfRelationEmbedded, cfRelationInclude:
		return core.DependencyEmbedded
	}
	return core.DependencyUnsupported
}

func (h *Hub) Dependencies(ctx context.Context, addon *core.Addon) ([]core.Dependency, error) {
	switch src := addon.Source.(type) {
	case core.ModrinthSource:
		version, err := h.Modrinth.GetVersion(ctx, src.VersionID)
		if err != nil {
			return nil, err
		}
		deps := make([]core.Dependency, 0, len(version.Dependencies))
		for _, d := range version.Dependencies {
			if d.ProjectID == nil && d.VersionID == nil {
				continue
			}
			deps = append(deps, core.Dependency{
				Registry:  core.RegistryModrinth,
				ProjectID: deref(d.ProjectID),
				VersionID: deref(d.VersionID),
				Kind:      modrinthDependencyKind(deref(d.DependencyType)),
			})
		}
		return deps, nil

	case core.CurseforgeSource:
		cf, err := h.curseforge()
		if err != nil {
			return nil, err
		}
		file, err := cf.GetFileInfo(ctx, src.ProjectID, src.FileID)
		if err != nil {
			return nil, err
		}
		deps := make([]core.Dependency, 0, len(file.Dependencies))
		for _, d := range file.Dependencies {
			deps = append(deps, core.Dependency{
				Registry:  core.RegistryCurseforge,
				ProjectID: strconv.Itoa(d.ModID),
				Kind:      cfDependencyKind(d.RelationType),
			})
		}
		return deps, nil
	}
	// github releases carry no dependency metadata
	return nil, nil
}

func (h *Hub) ResolveDependency(ctx context.Context, dep core.Dependency, target core.Target) (*core.Addon, error) {
	isQuilt := target.Loader == core.LoaderQuilt
	switch dep.Registry {
	case core.RegistryModrinth:
		projectID := dep.ProjectID
		if mapped := mrMapDepOverride(projectID, isQuilt); mapped != projectID {
			projectID = mapped
			dep.VersionID = ""
		}
		if dep.VersionID != "" {
			version, err := h.Modrinth.GetVersion(ctx, dep.VersionID)
			if err != nil {
				return nil, err
			}
			project, err := h.Modrinth.GetProject(ctx, deref(version.ProjectID))
			if err != nil {
				return nil, err
			}
			return modrinthAddon(project, version), nil
		}
		return h.AddModrinth(ctx, projectID, "", target)

	case core.RegistryCurseforge:
		modID, err := strconv.Atoi(dep.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("curseforge project %q: %w", dep.ProjectID, core.ErrInvalidID)
		}
		return h.AddCurseforge(ctx, MapDepOverride(modID, isQuilt, target.Minecraft), 0, target)
	}
	return nil, fmt.Errorf("%s does not publish dependencies", dep.Registry)
}

// ---- addon construction

func modrinthAddon(project *modrinthApi.Project, version *modrinthApi.Version) *core.Addon {
	projectType := core.ParseProjectType(deref(project.ProjectType))
	if projectType == core.ProjectMod && version != nil && len(version.Loaders) == 1 && version.Loaders[0] == "datapack" {
		projectType = core.ProjectDatapack
	}
	return core.NewAddon(
		deref(project.Title),
		projectType,
		core.SideFromSupport(deref(project.ClientSide), deref(project.ServerSide)),
		core.ModrinthSource{ProjectID: deref(project.ID), VersionID: deref(version.ID)},
	)
}

func cfAddon(mod CfModInfo, file CfModFileInfo) (*core.Addon, error) {
	projectType, err := CfClassProjectType(mod.ClassID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mod.Name, err)
	}
	return core.NewAddon(mod.Name, projectType, core.SideBoth, core.CurseforgeSource{ProjectID: mod.ID, FileID: file.ID}), nil
}

// AddModrinth resolves a project id or slug to an addon. An empty versionID selects the
// best compatible version for target.
func (h *Hub) AddModrinth(ctx context.Context, idOrSlug, versionID string, target core.Target) (*core.Addon, error) {
	project, err := h.Modrinth.GetProject(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	if versionID != "" {
		version, err := h.Modrinth.GetVersion(ctx, versionID)
		if err != nil {
			return nil, err
		}
		if deref(version.ProjectID) != deref(project.ID) {
			return nil, fmt.Errorf("version %s does not belong to %s: %w", versionID, deref(project.Title), core.ErrInvalidID)
		}
		return modrinthAddon(project, version), nil
	}

	addon := modrinthAddon(project, &modrinthApi.Version{})
	candidates, err := h.Candidates(ctx, addon, target)
	if err != nil {
		return nil, err
	}
	best, err := core.SelectVersion(candidates, target, addon.ProjectType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", deref(project.Title), err)
	}
	return modrinthAddon(project, best.Payload.(*modrinthApi.Version)), nil
}

// AddCurseforge resolves a project id to an addon. A zero fileID selects the best
// compatible file for target.
func (h *Hub) AddCurseforge(ctx context.Context, projectID, fileID int, target core.Target) (*core.Addon, error) {
	cf, err := h.curseforge()
	if err != nil {
		return nil, err
	}
	mod, err := cf.GetModInfo(ctx, projectID)
	if err != nil {
		return nil, err
	}
	projectType, err := CfClassProjectType(mod.ClassID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mod.Name, err)
	}

	if fileID != 0 {
		file, err := cf.GetFileInfo(ctx, projectID, fileID)
		if err != nil {
			return nil, err
		}
		return cfAddon(mod, file)
	}

	placeholder := core.NewAddon(mod.Name, projectType, core.SideBoth, core.CurseforgeSource{ProjectID: mod.ID})
	candidates, err := h.Candidates(ctx, placeholder, target)
	if err != nil {
		return nil, err
	}
	best, err := core.SelectVersion(candidates, target, projectType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mod.Name, err)
	}
	return cfAddon(mod, best.Payload.(CfModFileInfo))
}

// CurseforgeBySlug looks a project up by its url slug.
func (h *Hub) CurseforgeBySlug(ctx context.Context, slug string, projectType core.ProjectType) (int, error) {
	cf, err := h.curseforge()
	if err != nil {
		return 0, err
	}
	results, err := cf.GetSearch(ctx, "", slug, cfProjectTypeClass(projectType), "", ModloaderTypeAny)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("curseforge project %q: %w", slug, core.ErrNotFound)
	}
	return results[0].ID, nil
}

// AddGithub resolves a repository to an addon. An empty tag selects the best release
// according to filter and pattern.
func (h *Hub) AddGithub(ctx context.Context, repoArg, tag string, filter core.ReleaseFilter, pattern string, target core.Target) (*core.Addon, error) {
	owner, repo, err := ParseGithubRepo(repoArg)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		filter = core.FilterNone
	}
	source := core.GithubSource{Repo: owner + "/" + repo, Filter: filter, Pattern: pattern}

	var release GithubRelease
	if tag != "" {
		release, err = h.Github.GetReleaseByTag(ctx, owner, repo, tag)
		if err != nil {
			return nil, err
		}
	} else {
		releases, err := h.Github.ListReleases(ctx, owner, repo)
		if err != nil {
			return nil, err
		}
		candidates := make([]core.Candidate, len(releases))
		for i, r := range releases {
			// the asset index is not known yet, any release with assets qualifies
			candidates[i] = githubCandidate(r, source, target)
			candidates[i].Available = !r.Draft && len(r.Assets) > 0
		}
		best, err := core.SelectVersion(candidates, target, core.ProjectUnknown)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source.Repo, err)
		}
		release = best.Payload.(GithubRelease)
	}

	index, err := AssetIndex(release)
	if err != nil {
		return nil, err
	}
	source.Tag = release.TagName
	source.AssetIndex = index
	return core.NewAddon(repo, core.ProjectMod, core.SideBoth, source), nil
}

// GithubAddonFromAsset rebuilds the addon a release asset was exported from.
func (h *Hub) GithubAddonFromAsset(ctx context.Context, repoSlug, tag, assetName string) (*core.Addon, error) {
	owner, repo, err := ParseGithubRepo(repoSlug)
	if err != nil {
		return nil, err
	}
	release, err := h.Github.GetReleaseByTag(ctx, owner, repo, tag)
	if err != nil {
		return nil, err
	}
	for i, asset := range release.Assets {
		if asset.Name == assetName {
			source := core.GithubSource{Repo: owner + "/" + repo, Tag: release.TagName, AssetIndex: uint(i), Filter: core.FilterNone}
			return core.NewAddon(repo, core.ProjectMod, core.SideBoth, source), nil
		}
	}
	return nil, fmt.Errorf("release %s of %s has no asset %s: %w", tag, repoSlug, assetName, core.ErrNotFound)
}

// ---- search

func (h *Hub) Search(ctx context.Context, registry core.Registry, query string, projectType core.ProjectType, target core.Target) ([]SearchHit, error) {
	switch registry {
	case core.RegistryModrinth:
		hits, err := h.Modrinth.Search(ctx, query, projectType, target.GameVersions(), 10)
		if err != nil {
			return nil, err
		}
		return RankHits(query, hits), nil
	case core.RegistryCurseforge:
		cf, err := h.curseforge()
		if err != nil {
			return nil, err
		}
		loader := ModloaderTypeAny
		if projectType == core.ProjectMod {
			loader = cfModloaderType(target.Loader)
		}
		mods, err := cf.GetSearch(ctx, query, "", cfProjectTypeClass(projectType), GetCurseforgeVersion(target.Minecraft), loader)
		if err != nil {
			return nil, err
		}
		hits := make([]SearchHit, 0, len(mods))
		for _, m := range mods {
			t, _ := CfClassProjectType(m.ClassID)
			hits = append(hits, SearchHit{
				Registry:    core.RegistryCurseforge,
				ID:          strconv.Itoa(m.ID),
				Slug:        m.Slug,
				Title:       m.Name,
				ProjectType: t,
			})
		}
		return RankHits(query, hits), nil
	}
	return nil, fmt.Errorf("%s does not support search", registry)
}

type searchHits []SearchHit

func (s searchHits) String(i int) string { return s[i].Title }
func (s searchHits) Len() int            { return len(s) }

// RankHits moves the titles that fuzzily match the query to the front, best first.
// Hits that do not match keep the registry's order after them.
func RankHits(query string, hits []SearchHit) []SearchHit {
	matches := fuzzy.FindFrom(query, searchHits(hits))
	out := make([]SearchHit, 0, len(hits))
	seen := make(map[int]struct{}, len(matches))
	for _, m := range matches {
		out = append(out, hits[m.Index])
		seen[m.Index] = struct{}{}
	}
	for i, hit := range hits {
		if _, ok := seen[i]; !ok {
			out = append(out, hit)
		}
	}
	return out
}

// ---- reverse lookups

// ModrinthAddonsFromHashes maps each sha1 known to Modrinth onto an addon.
func (h *Hub) ModrinthAddonsFromHashes(ctx context.Context, sha1s []string) (map[string]*core.Addon, error) {
	versions, err := h.Modrinth.VersionsFromHashes(ctx, sha1s, "sha1")
	if err != nil {
		return nil, err
	}
	var projectIDs []string
	for _, v := range versions {
		if id := deref(v.ProjectID); id != "" && !slices.Contains(projectIDs, id) {
			projectIDs = append(projectIDs, id)
		}
	}
	projects, err := h.Modrinth.GetProjects(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*modrinthApi.Project, len(projects))
	for _, p := range projects {
		byID[deref(p.ID)] = p
	}

	out := make(map[string]*core.Addon, len(versions))
	for hash, v := range versions {
		if p, ok := byID[deref(v.ProjectID)]; ok {
			out[hash] = modrinthAddon(p, v)
		}
	}
	return out, nil
}

// CurseforgeRef is a project/file id pair as found in CurseForge manifests.
type CurseforgeRef struct {
	ProjectID int
	FileID    int
}

// CurseforgeAddons turns project/file pairs into addons. Refs that cannot become an
// addon are returned as per-item errors rather than failing the batch.
func (h *Hub) CurseforgeAddons(ctx context.Context, refs []CurseforgeRef) ([]*core.Addon, []error, error) {
	cf, err := h.curseforge()
	if err != nil {
		return nil, nil, err
	}
	if len(refs) == 0 {
		return nil, nil, nil
	}
	modIDs := make([]int, len(refs))
	fileIDs := make([]int, len(refs))
	for i, r := range refs {
		modIDs[i] = r.ProjectID
		fileIDs[i] = r.FileID
	}
	mods, err := cf.GetModInfoMultiple(ctx, modIDs)
	if err != nil {
		return nil, nil, err
	}
	files, err := cf.GetFileInfoMultiple(ctx, fileIDs)
	if err != nil {
		return nil, nil, err
	}

	modsByID := make(map[int]CfModInfo, len(mods))
	for _, m := range mods {
		modsByID[m.ID] = m
	}
	filesByID := make(map[int]CfModFileInfo, len(files))
	for _, f := range files {
		filesByID[f.ID] = f
	}

	var addons []*core.Addon
	var skipped []error
	for _, r := range refs {
		mod, ok := modsByID[r.ProjectID]
		if !ok {
			skipped = append(skipped, fmt.Errorf("curseforge project %d: %w", r.ProjectID, core.ErrNotFound))
			continue
		}
		file, ok := filesByID[r.FileID]
		if !ok {
			skipped = append(skipped, fmt.Errorf("curseforge file %d of %s: %w", r.FileID, mod.Name, core.ErrNotFound))
			continue
		}
		addon, err := cfAddon(mod, file)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		addons = append(addons, addon)
	}
	return addons, skipped, nil
}

// CurseforgeAddonsFromFingerprints maps each fingerprint CurseForge recognizes onto an addon.
func (h *Hub) CurseforgeAddonsFromFingerprints(ctx context.Context, fingerprints []uint32) (map[uint32]*core.Addon, error) {
	cf, err := h.curseforge()
	if err != nil {
		return nil, err
	}
	matches, err := cf.GetFingerprintMatches(ctx, fingerprints)
	if err != nil {
		return nil, err
	}
	refs := make([]CurseforgeRef, len(matches))
	for i, m := range matches {
		refs[i] = CurseforgeRef{ProjectID: m.File.ModID, FileID: m.File.ID}
	}

	mods, err := cf.GetModInfoMultiple(ctx, refModIDs(refs))
	if err != nil {
		return nil, err
	}
	modsByID := make(map[int]CfModInfo, len(mods))
	for _, m := range mods {
		modsByID[m.ID] = m
	}

	out := make(map[uint32]*core.Addon, len(matches))
	for _, m := range matches {
		mod, ok := modsByID[m.File.ModID]
		if !ok {
			continue
		}
		addon, err := cfAddon(mod, m.File)
		if err != nil {
			continue
		}
		out[m.File.Fingerprint] = addon
	}
	return out, nil
}

func refModIDs(refs []CurseforgeRef) []int {
	ids := make([]int, 0, len(refs))
	for _, r := range refs {
		if !slices.Contains(ids, r.ProjectID) {
			ids = append(ids, r.ProjectID)
		}
	}
	return ids
}

// ---- files

func (h *Hub) ResolveFiles(ctx context.Context, addons []*core.Addon) (map[core.GenericID]core.AddonFile, error) {
	var mrVersions []string
	var cfFiles []int
	var ghAddons []*core.Addon
	for _, a := range addons {
		switch src := a.Source.(type) {
		case core.ModrinthSource:
			mrVersions = append(mrVersions, src.VersionID)
		case core.CurseforgeSource:
			cfFiles = append(cfFiles, src.FileID)
		case core.GithubSource:
			ghAddons = append(ghAddons, a)
		}
	}

	var mu sync.Mutex
	out := make(map[core.GenericID]core.AddonFile, len(addons))
	store := func(id core.GenericID, f core.AddonFile) {
		mu.Lock()
		out[id] = f
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	if len(mrVersions) > 0 {
		g.Go(func() error {
			versions, err := h.Modrinth.GetVersions(gctx, mrVersions)
			if err != nil {
				return err
			}
			for _, v := range versions {
				file := PrimaryFile(v)
				if file == nil {
					return fmt.Errorf("modrinth version %s has no files", deref(v.ID))
				}
				store(core.GenericID{Registry: core.RegistryModrinth, ID: deref(v.ProjectID)}, core.AddonFile{
					FileName: deref(file.Filename),
					URL:      deref(file.URL),
					Hashes:   file.Hashes,
					Size:     int64(deref(file.Size)),
				})
			}
			return nil
		})
	}
	if len(cfFiles) > 0 {
		g.Go(func() error {
			cf, err := h.curseforge()
			if err != nil {
				return err
			}
			files, err := cf.GetFileInfoMultiple(gctx, cfFiles)
			if err != nil {
				return err
			}
			for _, f := range files {
				hashes := make(map[string]string)
				for _, format := range []string{"sha1", "md5"} {
					if v := f.Hash(format); v != "" {
						hashes[format] = v
					}
				}
				store(core.GenericID{Registry: core.RegistryCurseforge, ID: strconv.Itoa(f.ModID)}, core.AddonFile{
					FileName: f.FileName,
					URL:      f.DownloadURLOrCDN(),
					Hashes:   hashes,
					Size:     f.FileLength,
				})
			}
			return nil
		})
	}
	for _, a := range ghAddons {
		a := a
		g.Go(func() error {
			src := a.Source.(core.GithubSource)
			owner, repo, err := ParseGithubRepo(src.Repo)
			if err != nil {
				return err
			}
			release, err := h.Github.GetReleaseByTag(gctx, owner, repo, src.Tag)
			if err != nil {
				return err
			}
			asset, err := SelectAsset(release, int(src.AssetIndex))
			if err != nil {
				return err
			}
			store(a.GenericID(), core.AddonFile{
				FileName: asset.Name,
				URL:      asset.BrowserDownloadURL,
				Size:     asset.Size,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, a := range addons {
		if _, ok := out[a.GenericID()]; !ok {
			return nil, fmt.Errorf("no file found for %s: %w", a, core.ErrNotFound)
		}
	}
	return out, nil
}
