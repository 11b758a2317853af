package fileio

import (
	"os"
	"path/filepath"
)

func CreateFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		err2 := os.MkdirAll(filepath.Dir(path), os.ModePerm)
		if err2 == nil {
			f, err = os.Create(path)
		}
		if err != nil {
			return nil, err
		}
	}

	return f, nil
}

// CreateAndWrite writes data to targetPath, creating missing parent directories.
func CreateAndWrite(targetPath string, data []byte) error {
	f, err := CreateFile(targetPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

// IsEmptyDir reports whether dir exists and has no entries.
func IsEmptyDir(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) == 0
}
