package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	modrinthApi "codeberg.org/jmansfield/go-modrinth/modrinth"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/leocov-dev/addonpack/core"
)

const modrinthBaseURL = "https://api.modrinth.com/v2/"

var modrinthIDRegex = regexp.MustCompile("^[\\w!@$()`.+,\"\\-']{3,64}$")

// ValidModrinthID reports whether s is syntactically a Modrinth project id or slug.
func ValidModrinthID(s string) bool {
	return modrinthIDRegex.MatchString(s)
}

// ModrinthAPI is the subset of the Modrinth v2 API the tool uses.
type ModrinthAPI interface {
	GetProject(ctx context.Context, idOrSlug string) (*modrinthApi.Project, error)
	GetProjects(ctx context.Context, ids []string) ([]*modrinthApi.Project, error)
	ListVersions(ctx context.Context, projectID string, gameVersions, loaders []string) ([]*modrinthApi.Version, error)
	GetVersion(ctx context.Context, id string) (*modrinthApi.Version, error)
	GetVersions(ctx context.Context, ids []string) ([]*modrinthApi.Version, error)
	// VersionsFromHashes maps each known file hash to the version that contains it.
	VersionsFromHashes(ctx context.Context, hashes []string, algorithm string) (map[string]*modrinthApi.Version, error)
	// LatestVersionsFromHashes maps each known file hash to the newest version of its project for the target.
	LatestVersionsFromHashes(ctx context.Context, hashes []string, algorithm string, gameVersions, loaders []string) (map[string]*modrinthApi.Version, error)
	Search(ctx context.Context, query string, projectType core.ProjectType, gameVersions []string, limit int) ([]SearchHit, error)
}

// SearchHit is a registry search result, reduced to what menus need.
type SearchHit struct {
	Registry    core.Registry
	ID          string
	Slug        string
	Title       string
	ProjectType core.ProjectType
}

func (h SearchHit) String() string {
	return h.Title
}

type ModrinthClient struct {
	api      *modrinthApi.Client
	http     *http.Client
	projects *lru.Cache[string, *modrinthApi.Project]
}

func NewModrinthClient() (*ModrinthClient, error) {
	httpClient := newRegistryClient(core.RegistryModrinth, 5, nil)
	api := modrinthApi.NewClient(httpClient)
	api.UserAgent = core.UserAgent

	projects, err := lru.New[string, *modrinthApi.Project](512)
	if err != nil {
		return nil, err
	}
	return &ModrinthClient{api: api, http: httpClient, projects: projects}, nil
}

func (c *ModrinthClient) cacheProject(p *modrinthApi.Project) {
	if p == nil || p.ID == nil {
		return
	}
	c.projects.Add(*p.ID, p)
	if p.Slug != nil {
		c.projects.Add(*p.Slug, p)
	}
}

func (c *ModrinthClient) GetProject(ctx context.Context, idOrSlug string) (*modrinthApi.Project, error) {
	if !ValidModrinthID(idOrSlug) {
		return nil, fmt.Errorf("modrinth project %q: %w", idOrSlug, core.ErrInvalidID)
	}
	if p, ok := c.projects.Get(idOrSlug); ok {
		return p, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := c.api.Projects.Get(idOrSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to get modrinth project %s: %w", idOrSlug, err)
	}
	c.cacheProject(p)
	return p, nil
}

func (c *ModrinthClient) GetProjects(ctx context.Context, ids []string) ([]*modrinthApi.Project, error) {
	out := make([]*modrinthApi.Project, 0, len(ids))
	var missing []string
	for _, id := range ids {
		if !ValidModrinthID(id) {
			return nil, fmt.Errorf("modrinth project %q: %w", id, core.ErrInvalidID)
		}
		if p, ok := c.projects.Get(id); ok {
			out = append(out, p)
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fetched, err := c.api.Projects.GetMultiple(missing)
	if err != nil {
		return nil, fmt.Errorf("failed to get modrinth projects: %w", err)
	}
	for _, p := range fetched {
		c.cacheProject(p)
	}
	return append(out, fetched...), nil
}

func (c *ModrinthClient) ListVersions(ctx context.Context, projectID string, gameVersions, loaders []string) ([]*modrinthApi.Version, error) {
	if !ValidModrinthID(projectID) {
		return nil, fmt.Errorf("modrinth project %q: %w", projectID, core.ErrInvalidID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	versions, err := c.api.Versions.ListVersions(projectID, modrinthApi.ListVersionsOptions{
		GameVersions: gameVersions,
		Loaders:      loaders,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list versions of %s: %w", projectID, err)
	}
	return versions, nil
}

func (c *ModrinthClient) GetVersion(ctx context.Context, id string) (*modrinthApi.Version, error) {
	if !ValidModrinthID(id) {
		return nil, fmt.Errorf("modrinth version %q: %w", id, core.ErrInvalidID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, err := c.api.Versions.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get modrinth version %s: %w", id, err)
	}
	return v, nil
}

func (c *ModrinthClient) GetVersions(ctx context.Context, ids []string) ([]*modrinthApi.Version, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	versions, err := c.api.Versions.GetMultiple(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get modrinth versions: %w", err)
	}
	return versions, nil
}

func (c *ModrinthClient) VersionsFromHashes(ctx context.Context, hashes []string, algorithm string) (map[string]*modrinthApi.Version, error) {
	body := map[string]interface{}{
		"hashes":    hashes,
		"algorithm": algorithm,
	}
	out := make(map[string]*modrinthApi.Version)
	if len(hashes) == 0 {
		return out, nil
	}
	err := c.post(ctx, "version_files", body, &out)
	return out, err
}

func (c *ModrinthClient) LatestVersionsFromHashes(ctx context.Context, hashes []string, algorithm string, gameVersions, loaders []string) (map[string]*modrinthApi.Version, error) {
	body := map[string]interface{}{
		"hashes":        hashes,
		"algorithm":     algorithm,
		"game_versions": gameVersions,
		"loaders":       loaders,
	}
	out := make(map[string]*modrinthApi.Version)
	if len(hashes) == 0 {
		return out, nil
	}
	err := c.post(ctx, "version_files/update", body, &out)
	return out, err
}

func (c *ModrinthClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, modrinthBaseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("modrinth %s: %w", path, err)
	}
	defer resp.Body.Close()
	if err := checkOK(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *ModrinthClient) Search(ctx context.Context, query string, projectType core.ProjectType, gameVersions []string, limit int) ([]SearchHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	facets := [][]string{{"project_type:" + modrinthProjectType(projectType)}}
	var versionFacet []string
	for _, v := range gameVersions {
		versionFacet = append(versionFacet, "versions:"+v)
	}
	if len(versionFacet) > 0 {
		facets = append(facets, versionFacet)
	}

	res, err := c.api.Projects.Search(&modrinthApi.SearchOptions{
		Limit:  limit,
		Index:  "relevance",
		Facets: facets,
		Query:  query,
	})
	if err != nil {
		return nil, fmt.Errorf("modrinth search failed: %w", err)
	}

	hits := make([]SearchHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, SearchHit{
			Registry:    core.RegistryModrinth,
			ID:          deref(h.ProjectID),
			Slug:        deref(h.Slug),
			Title:       deref(h.Title),
			ProjectType: core.ParseProjectType(deref(h.ProjectType)),
		})
	}
	return hits, nil
}

func modrinthProjectType(t core.ProjectType) string {
	if t == core.ProjectUnknown || t == "" {
		return string(core.ProjectMod)
	}
	return string(t)
}

// PrimaryFile returns the file flagged primary, falling back to the first one.
func PrimaryFile(version *modrinthApi.Version) *modrinthApi.File {
	if version == nil || len(version.Files) == 0 {
		return nil
	}
	file := version.Files[0]
	for _, f := range version.Files {
		if f.Primary != nil && *f.Primary {
			return f
		}
	}
	return file
}

// mrMapDepOverride swaps fabric-only library dependencies for their quilt counterparts.
func mrMapDepOverride(depID string, isQuilt bool) string {
	if isQuilt && (depID == "P7dR8mSH" || depID == "fabric-api") {
		// Transform FAPI dependencies to QFAPI/QSL dependencies when using Quilt
		return "qvIfYCYJ"
	}
	if isQuilt && (depID == "Ha28R6CL" || depID == "fabric-language-kotlin") {
		// Transform FLK dependencies to QKL dependencies when using Quilt
		return "lwVhp9o5"
	}
	return depID
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
