package shared

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// PackPaths is where the --pack-file flag points: the pack file and the project directory holding it.
type PackPaths struct {
	File string
	Dir  string
}

func GetPackPaths() (PackPaths, error) {
	packFile, err := filepath.Abs(viper.GetString("pack-file"))
	if err != nil {
		return PackPaths{}, fmt.Errorf("invalid pack file path: %w", err)
	}
	return PackPaths{File: packFile, Dir: filepath.Dir(packFile)}, nil
}
