package fileio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leocov-dev/addonpack/core"
)

// ScratchCache is a per-process directory that export stages downloaded files in.
type ScratchCache struct {
	Dir string
}

// NewScratchCache creates os.TempDir()/<slug>-export-cache-<pid>, clearing any leftover
// from an earlier run of the same process id.
func NewScratchCache(pack *core.Modpack) (*ScratchCache, error) {
	slug := core.SlugifyName(pack.Name)
	if slug == "" {
		slug = "addonpack"
	}
	dir := filepath.Join(os.TempDir(), fmt.Sprintf("%s-export-cache-%d", slug, os.Getpid()))
	if err := os.RemoveAll(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	return &ScratchCache{Dir: dir}, nil
}

// Path is the location of a cache-relative slash separated path.
func (c *ScratchCache) Path(rel string) string {
	return filepath.Join(c.Dir, filepath.FromSlash(rel))
}

func (c *ScratchCache) Remove() error {
	return os.RemoveAll(c.Dir)
}
