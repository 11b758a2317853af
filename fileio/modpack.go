package fileio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/leocov-dev/addonpack/core"
)

const PackFileName = "pack.toml"

// LoadModpack loads pack.toml from the project directory.
func LoadModpack(projectDir string) (*core.Modpack, error) {
	packPath := filepath.Join(projectDir, PackFileName)
	raw, err := os.ReadFile(packPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.ErrUninitialized
	}
	if err != nil {
		return nil, err
	}

	var modpack core.Modpack
	if err := toml.Unmarshal(raw, &modpack); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", packPath, err)
	}
	modpack.SetFilePath(packPath)

	if modpack.IndexPath == "" {
		modpack.IndexPath = core.DefaultIndexPath
	}
	if err := modpack.Validate(); err != nil {
		return nil, err
	}
	return &modpack, nil
}

// SaveModpack writes the modpack back to the file it was loaded from, or to
// pack.toml in projectDir for a new modpack.
func SaveModpack(pack *core.Modpack, projectDir string) error {
	if pack.GetFilePath() == "" {
		pack.SetFilePath(filepath.Join(projectDir, PackFileName))
	}
	raw, err := toml.Marshal(pack)
	if err != nil {
		return err
	}
	return CreateAndWrite(pack.GetFilePath(), raw)
}

// IndexDir is the absolute location of the pack's index directory.
func IndexDir(pack *core.Modpack) string {
	return filepath.Join(pack.GetPackDir(), filepath.FromSlash(pack.IndexPath))
}
