package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/leocov-dev/addonpack/core"
)

//go:generate mockgen -source=github.go -destination=mock_github_test.go -package=sources GithubAPI

const (
	githubApiServer  = "https://api.github.com"
	githubApiVersion = "2022-11-28"
)

// DefaultAssetPattern matches any asset with a name that does *not* end with
// "-api.jar", "-dev.jar", "-dev-preshadow.jar" or "-sources.jar".
const DefaultAssetPattern = `^.+(?<!-api|-dev|-dev-preshadow|-sources)\.jar$`

var GithubRepoRegex = regexp.MustCompile(`^(?:https?://github\.com/)?([\w.-]+?)/([\w.-]+)(?:/.*)?$`)

// ParseGithubRepo accepts a github url or "owner/repo".
func ParseGithubRepo(s string) (owner string, repo string, err error) {
	matches := GithubRepoRegex.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return "", "", fmt.Errorf("%q is not a github url or owner/repo: %w", s, core.ErrInvalidID)
	}
	return matches[1], strings.TrimSuffix(matches[2], ".git"), nil
}

type GithubRelease struct {
	Name            string         `json:"name"`
	TagName         string         `json:"tag_name"`
	TargetCommitish string         `json:"target_commitish"`
	Prerelease      bool           `json:"prerelease"`
	Draft           bool           `json:"draft"`
	PublishedAt     time.Time      `json:"published_at"`
	Assets          []ReleaseAsset `json:"assets"`
}

type ReleaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// GithubAPI is the subset of the GitHub REST API the tool uses.
type GithubAPI interface {
	ListReleases(ctx context.Context, owner, repo string) ([]GithubRelease, error)
	GetReleaseByTag(ctx context.Context, owner, repo, tag string) (GithubRelease, error)
}

type GithubClient struct {
	client *http.Client
}

func NewGithubClient(token string) *GithubClient {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": githubApiVersion,
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &GithubClient{client: newRegistryClient(core.RegistryGithub, 2, headers)}
}

func (c *GithubClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubApiServer+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("github %s: %w", path, err)
	}
	defer resp.Body.Close()
	if err := checkOK(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *GithubClient) ListReleases(ctx context.Context, owner, repo string) ([]GithubRelease, error) {
	var releases []GithubRelease
	err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/releases", url.PathEscape(owner), url.PathEscape(repo)), &releases)
	return releases, err
}

func (c *GithubClient) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (GithubRelease, error) {
	var release GithubRelease
	err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/releases/tags/%s", url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(tag)), &release)
	return release, err
}

// ReleaseGameVersions returns the target minecraft versions a release claims to support
// according to the source's filter. With FilterNone every release supports every version.
func ReleaseGameVersions(release GithubRelease, source core.GithubSource, gameVersions []string) []string {
	var field string
	switch source.Filter {
	case core.FilterTag:
		field = release.TagName
	case core.FilterTitle:
		field = release.Name
	default:
		return gameVersions
	}

	field = strings.ToLower(field)
	var out []string
	for _, v := range gameVersions {
		pattern := source.Pattern
		if pattern == "" {
			pattern = "{mc_version}"
		}
		needle := strings.ToLower(strings.ReplaceAll(pattern, "{mc_version}", v))
		if strings.Contains(field, needle) {
			out = append(out, v)
		}
	}
	return out
}

// FindFilter turns a release tag or title into a filter pattern by replacing the
// minecraft version with {mc_version}. ok is false when the version does not occur.
func FindFilter(s string, mcVersion string) (pattern string, ok bool) {
	lower := strings.ToLower(s)
	parsed := strings.ReplaceAll(lower, strings.ToLower(mcVersion), "{mc_version}")
	return parsed, parsed != lower
}

// SelectAsset picks the release asset an addon installs: the one at index when the
// source pins an index, otherwise the single asset matching DefaultAssetPattern.
func SelectAsset(release GithubRelease, assetIndex int) (ReleaseAsset, error) {
	if len(release.Assets) == 0 {
		return ReleaseAsset{}, fmt.Errorf("release %s doesn't have any assets attached", release.TagName)
	}
	if assetIndex >= 0 {
		if assetIndex >= len(release.Assets) {
			return ReleaseAsset{}, fmt.Errorf("release %s has no asset %d", release.TagName, assetIndex)
		}
		return release.Assets[assetIndex], nil
	}

	expr := regexp2.MustCompile(DefaultAssetPattern, 0)
	var files []ReleaseAsset
	for _, v := range release.Assets {
		if ok, _ := expr.MatchString(v.Name); ok {
			files = append(files, v)
		}
	}
	if len(files) == 0 {
		return ReleaseAsset{}, fmt.Errorf("release %s doesn't have any assets matching %s", release.TagName, DefaultAssetPattern)
	}
	if len(files) > 1 {
		names := make([]string, len(files))
		for i, f := range files {
			names[i] = f.Name
		}
		return ReleaseAsset{}, fmt.Errorf("release %s has more than one matching asset: %s", release.TagName, strings.Join(names, ", "))
	}
	return files[0], nil
}

// AssetIndex finds the position of the default asset in a release, for recording in a GithubSource.
func AssetIndex(release GithubRelease) (uint, error) {
	asset, err := SelectAsset(release, -1)
	if err != nil {
		return 0, err
	}
	for i, a := range release.Assets {
		if a.Name == asset.Name {
			return uint(i), nil
		}
	}
	return 0, nil
}
