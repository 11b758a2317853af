package fileio

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

const IgnoreFileName = ".addonignore"

var ignoreDefaults = []string{
	// Defaults (can be overridden with a negating pattern preceded with !)

	// Exclude Git metadata
	".git/**",
	".gitattributes",
	".gitignore",

	// Exclude macOS metadata
	".DS_Store",
	"Thumbs.db",

	// Exclude exported CurseForge zip files
	"/*.zip",

	// Exclude exported Modrinth packs
	"*.mrpack",

	IgnoreFileName,
}

// ReadIgnore compiles the default ignore rules plus the ones in dir/.addonignore, if present.
func ReadIgnore(dir string) (*gitignore.GitIgnore, error) {
	data, err := os.ReadFile(filepath.Join(dir, IgnoreFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return gitignore.CompileIgnoreLines(ignoreDefaults...), nil
	}
	if err != nil {
		return nil, err
	}

	lines := append([]string(nil), ignoreDefaults...)
	lines = append(lines, strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")...)
	return gitignore.CompileIgnoreLines(lines...), nil
}
