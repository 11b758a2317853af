package fileio

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	gitignore "github.com/sabhiram/go-gitignore"
)

// ZipWriter builds a pack archive on disk.
type ZipWriter struct {
	file *os.File
	zw   *zip.Writer
}

func NewZipWriter(path string) (*ZipWriter, error) {
	f, err := CreateFile(path)
	if err != nil {
		return nil, err
	}
	return &ZipWriter{file: f, zw: zip.NewWriter(f)}, nil
}

// AddBytes stores data at the slash separated archive path name.
func (w *ZipWriter) AddBytes(name string, data []byte) error {
	entry, err := w.zw.Create(name)
	if err != nil {
		return err
	}
	_, err = entry.Write(data)
	return err
}

// AddFile copies the file at src into the archive at name.
func (w *ZipWriter) AddFile(name, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	entry, err := w.zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, f)
	return err
}

// AddDir copies every file below root into the archive under prefix, skipping
// paths matched by ignore. A missing root adds nothing. It returns the archive
// names it added.
func (w *ZipWriter) AddDir(root, prefix string, ignore *gitignore.GitIgnore) ([]string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}
	var added []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)
		if ignore != nil && ignore.MatchesPath(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := path.Join(prefix, rel)
		if err := w.AddFile(name, p); err != nil {
			return err
		}
		added = append(added, name)
		return nil
	})
	return added, err
}

func (w *ZipWriter) Close() error {
	if err := w.zw.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// ReadZipFile returns the content of a single archive member.
func ReadZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
}

// ExtractPrefix extracts the members below prefix into dest, stripping the prefix.
// It returns the slash separated paths it wrote, relative to dest.
func ExtractPrefix(r *zip.Reader, prefix, dest string) ([]string, error) {
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	var written []string
	for _, f := range r.File {
		if !strings.HasPrefix(f.Name, prefix) || f.FileInfo().IsDir() {
			continue
		}
		rel := path.Clean(strings.TrimPrefix(f.Name, prefix))
		if rel == "." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
			return written, fmt.Errorf("illegal path in archive: %s", f.Name)
		}
		if err := extractFile(f, filepath.Join(dest, filepath.FromSlash(rel))); err != nil {
			return written, err
		}
		written = append(written, rel)
	}
	return written, nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := CreateFile(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
