package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/leocov-dev/addonpack/core"
)

const (
	cfApiServer  = "https://api.curseforge.com"
	cfGameID     = 432
	cfPageSize   = 50
	cfMaxResults = 10000
)

// CurseForge class ids for Minecraft
const (
	cfClassMod          = 6
	cfClassResourcepack = 12
	cfClassShader       = 6552
	cfClassDatapack     = 6945
	cfClassModpack      = 4471
	cfClassPlugin       = 5
)

// CfClassProjectType maps a class id onto a project type.
func CfClassProjectType(classID int) (core.ProjectType, error) {
	switch classID {
	case cfClassMod:
		return core.ProjectMod, nil
	case cfClassShader:
		return core.ProjectShader, nil
	case cfClassDatapack:
		return core.ProjectDatapack, nil
	case cfClassResourcepack:
		return core.ProjectResourcepack, nil
	}
	return core.ProjectUnknown, fmt.Errorf("curseforge class %d: %w", classID, core.ErrUnsupportedProjectType)
}

func cfProjectTypeClass(t core.ProjectType) int {
	switch t {
	case core.ProjectShader:
		return cfClassShader
	case core.ProjectDatapack:
		return cfClassDatapack
	case core.ProjectResourcepack:
		return cfClassResourcepack
	case core.ProjectModpack:
		return cfClassModpack
	case core.ProjectPlugin:
		return cfClassPlugin
	}
	return cfClassMod
}

type ModloaderType int

const (
	ModloaderTypeAny ModloaderType = iota
	ModloaderTypeForge
	ModloaderTypeCauldron
	ModloaderTypeLiteloader
	ModloaderTypeFabric
	ModloaderTypeQuilt
	ModloaderTypeNeoForge
)

func cfModloaderType(loader core.ModLoader) ModloaderType {
	switch loader {
	case core.LoaderForge:
		return ModloaderTypeForge
	case core.LoaderFabric:
		return ModloaderTypeFabric
	case core.LoaderQuilt:
		return ModloaderTypeQuilt
	case core.LoaderNeoForge:
		return ModloaderTypeNeoForge
	}
	return ModloaderTypeAny
}

type cfReleaseType int

const (
	cfReleaseRelease cfReleaseType = 1
	cfReleaseBeta    cfReleaseType = 2
	cfReleaseAlpha   cfReleaseType = 3
)

func (r cfReleaseType) Channel() core.ReleaseChannel {
	switch r {
	case cfReleaseBeta:
		return core.ChannelBeta
	case cfReleaseAlpha:
		return core.ChannelAlpha
	}
	return core.ChannelRelease
}

const (
	cfHashAlgoSHA1 = 1
	cfHashAlgoMD5  = 2
)

const (
	cfRelationEmbedded     = 1
	cfRelationOptional     = 2
	cfRelationRequired     = 3
	cfRelationTool         = 4
	cfRelationIncompatible = 5
	cfRelationInclude      = 6
)

type CfModInfo struct {
	ID                   int    `json:"id"`
	GameID               int    `json:"gameId"`
	Name                 string `json:"name"`
	Slug                 string `json:"slug"`
	Summary              string `json:"summary"`
	ClassID              int    `json:"classId"`
	PrimaryCategoryID    int    `json:"primaryCategoryId"`
	AllowModDistribution *bool  `json:"allowModDistribution"`
	Links                struct {
		WebsiteURL string `json:"websiteUrl"`
	} `json:"links"`
	LatestFiles []CfModFileInfo `json:"latestFiles"`
}

type CfModFileInfo struct {
	ID           int           `json:"id"`
	ModID        int           `json:"modId"`
	IsAvailable  bool          `json:"isAvailable"`
	DisplayName  string        `json:"displayName"`
	FileName     string        `json:"fileName"`
	ReleaseType  cfReleaseType `json:"releaseType"`
	FileDate     time.Time     `json:"fileDate"`
	FileLength   int64         `json:"fileLength"`
	DownloadURL  string        `json:"downloadUrl"`
	GameVersions []string      `json:"gameVersions"`
	Fingerprint  uint32        `json:"fileFingerprint"`
	Hashes       []struct {
		Value string `json:"value"`
		Algo  int    `json:"algo"`
	} `json:"hashes"`
	Dependencies []struct {
		ModID        int `json:"modId"`
		RelationType int `json:"relationType"`
	} `json:"dependencies"`
}

// GetBestHash returns the strongest hash CurseForge reported, and its format.
func (i CfModFileInfo) GetBestHash() (hash string, hashFormat string) {
	hash = strconv.FormatUint(uint64(i.Fingerprint), 10)
	hashFormat = "murmur2"
	hashAlgo := 999
	for _, v := range i.Hashes {
		if v.Algo < hashAlgo {
			hashAlgo = v.Algo
			hash = v.Value
			switch v.Algo {
			case cfHashAlgoSHA1:
				hashFormat = "sha1"
			case cfHashAlgoMD5:
				hashFormat = "md5"
			}
		}
	}
	return
}

// Hash looks a reported hash up by format.
func (i CfModFileInfo) Hash(format string) string {
	for _, v := range i.Hashes {
		if (v.Algo == cfHashAlgoSHA1 && format == "sha1") || (v.Algo == cfHashAlgoMD5 && format == "md5") {
			return v.Value
		}
	}
	return ""
}

// DownloadURLOrCDN returns the download url, or the CDN location for projects that opted out
// of third party distribution.
func (i CfModFileInfo) DownloadURLOrCDN() string {
	if i.DownloadURL != "" {
		return i.DownloadURL
	}
	return fmt.Sprintf("https://edge.forgecdn.net/files/%d/%d/%s", i.ID/1000, i.ID%1000, url.PathEscape(i.FileName))
}

type CfFingerprintMatch struct {
	ID   int           `json:"id"`
	File CfModFileInfo `json:"file"`
}

// CurseforgeAPI is the subset of the CurseForge core API the tool uses.
type CurseforgeAPI interface {
	GetModInfo(ctx context.Context, modID int) (CfModInfo, error)
	GetModInfoMultiple(ctx context.Context, modIDs []int) ([]CfModInfo, error)
	GetFileInfo(ctx context.Context, modID, fileID int) (CfModFileInfo, error)
	GetModFiles(ctx context.Context, modID int, gameVersion string, loader ModloaderType) ([]CfModFileInfo, error)
	GetFileInfoMultiple(ctx context.Context, fileIDs []int) ([]CfModFileInfo, error)
	GetFingerprintMatches(ctx context.Context, fingerprints []uint32) ([]CfFingerprintMatch, error)
	GetSearch(ctx context.Context, query, slug string, classID int, gameVersion string, loader ModloaderType) ([]CfModInfo, error)
}

type CurseforgeClient struct {
	client *http.Client
	mods   *lru.Cache[int, CfModInfo]
}

func NewCurseforgeClient(apiKey string) (*CurseforgeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("no CurseForge API key configured, set CURSEFORGE_API_KEY")
	}
	mods, err := lru.New[int, CfModInfo](512)
	if err != nil {
		return nil, err
	}
	return &CurseforgeClient{
		client: newRegistryClient(core.RegistryCurseforge, 5, map[string]string{
			"X-API-Key": apiKey,
			"Accept":    "application/json",
		}),
		mods: mods,
	}, nil
}

type cfResponse[T any] struct {
	Data       T `json:"data"`
	Pagination *struct {
		Index       int `json:"index"`
		PageSize    int `json:"pageSize"`
		ResultCount int `json:"resultCount"`
		TotalCount  int `json:"totalCount"`
	} `json:"pagination"`
}

func cfFetch[T any](ctx context.Context, c *CurseforgeClient, method, path string, body interface{}) (cfResponse[T], error) {
	var out cfResponse[T]

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return out, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, cfApiServer+path, reader)
	if err != nil {
		return out, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return out, fmt.Errorf("curseforge %s: %w", path, err)
	}
	defer resp.Body.Close()
	if err := checkOK(resp); err != nil {
		return out, err
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to parse curseforge response for %s: %w", path, err)
	}
	return out, nil
}

func (c *CurseforgeClient) GetModInfo(ctx context.Context, modID int) (CfModInfo, error) {
	if mod, ok := c.mods.Get(modID); ok {
		return mod, nil
	}
	res, err := cfFetch[CfModInfo](ctx, c, http.MethodGet, "/v1/mods/"+strconv.Itoa(modID), nil)
	if err != nil {
		return CfModInfo{}, fmt.Errorf("failed to request addon data for ID %d: %w", modID, err)
	}
	if res.Data.ID != modID {
		return CfModInfo{}, fmt.Errorf("unexpected addon ID in CurseForge response: %d (expected %d)", res.Data.ID, modID)
	}
	c.mods.Add(modID, res.Data)
	return res.Data, nil
}

func (c *CurseforgeClient) GetModInfoMultiple(ctx context.Context, modIDs []int) ([]CfModInfo, error) {
	out := make([]CfModInfo, 0, len(modIDs))
	var missing []int
	for _, id := range modIDs {
		if mod, ok := c.mods.Get(id); ok {
			out = append(out, mod)
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}
	res, err := cfFetch[[]CfModInfo](ctx, c, http.MethodPost, "/v1/mods", map[string]interface{}{"modIds": missing})
	if err != nil {
		return nil, fmt.Errorf("failed to request addon data: %w", err)
	}
	for _, mod := range res.Data {
		c.mods.Add(mod.ID, mod)
	}
	return append(out, res.Data...), nil
}

func (c *CurseforgeClient) GetFileInfo(ctx context.Context, modID, fileID int) (CfModFileInfo, error) {
	res, err := cfFetch[CfModFileInfo](ctx, c, http.MethodGet, fmt.Sprintf("/v1/mods/%d/files/%d", modID, fileID), nil)
	if err != nil {
		return CfModFileInfo{}, fmt.Errorf("failed to request file data for addon ID %d, file ID %d: %w", modID, fileID, err)
	}
	if res.Data.ID != fileID {
		return CfModFileInfo{}, fmt.Errorf("unexpected file ID for addon %d in CurseForge response: %d (expected %d)", modID, res.Data.ID, fileID)
	}
	return res.Data, nil
}

func (c *CurseforgeClient) GetModFiles(ctx context.Context, modID int, gameVersion string, loader ModloaderType) ([]CfModFileInfo, error) {
	var files []CfModFileInfo
	for index := 0; index < cfMaxResults; index += cfPageSize {
		q := url.Values{}
		q.Set("index", strconv.Itoa(index))
		q.Set("pageSize", strconv.Itoa(cfPageSize))
		if gameVersion != "" {
			q.Set("gameVersion", gameVersion)
		}
		if loader != ModloaderTypeAny {
			q.Set("modLoaderType", strconv.Itoa(int(loader)))
		}

		res, err := cfFetch[[]CfModFileInfo](ctx, c, http.MethodGet, fmt.Sprintf("/v1/mods/%d/files?%s", modID, q.Encode()), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list files of addon %d: %w", modID, err)
		}
		files = append(files, res.Data...)
		if res.Pagination == nil || len(res.Data) < cfPageSize || index+len(res.Data) >= res.Pagination.TotalCount {
			break
		}
	}
	return files, nil
}

func (c *CurseforgeClient) GetFileInfoMultiple(ctx context.Context, fileIDs []int) ([]CfModFileInfo, error) {
	if len(fileIDs) == 0 {
		return nil, nil
	}
	res, err := cfFetch[[]CfModFileInfo](ctx, c, http.MethodPost, "/v1/mods/files", map[string]interface{}{"fileIds": fileIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to request file data: %w", err)
	}
	return res.Data, nil
}

func (c *CurseforgeClient) GetFingerprintMatches(ctx context.Context, fingerprints []uint32) ([]CfFingerprintMatch, error) {
	if len(fingerprints) == 0 {
		return nil, nil
	}
	res, err := cfFetch[struct {
		ExactMatches []CfFingerprintMatch `json:"exactMatches"`
	}](ctx, c, http.MethodPost, "/v1/fingerprints", map[string]interface{}{"fingerprints": fingerprints})
	if err != nil {
		return nil, fmt.Errorf("failed to match fingerprints: %w", err)
	}
	return res.Data.ExactMatches, nil
}

func (c *CurseforgeClient) GetSearch(ctx context.Context, query, slug string, classID int, gameVersion string, loader ModloaderType) ([]CfModInfo, error) {
	q := url.Values{}
	q.Set("gameId", strconv.Itoa(cfGameID))
	q.Set("pageSize", "10")
	if query != "" {
		q.Set("searchFilter", query)
	}
	if slug != "" {
		q.Set("slug", slug)
	}
	if classID != 0 {
		q.Set("classId", strconv.Itoa(classID))
	}
	if gameVersion != "" {
		q.Set("gameVersion", gameVersion)
	}
	if loader != ModloaderTypeAny {
		q.Set("modLoaderType", strconv.Itoa(int(loader)))
	}

	res, err := cfFetch[[]CfModInfo](ctx, c, http.MethodGet, "/v1/mods/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve search results: %w", err)
	}
	return res.Data, nil
}
