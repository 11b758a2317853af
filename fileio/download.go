package fileio

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/leocov-dev/addonpack/core"
)

const downloadPermits = 10

// DownloadHashes are computed for every downloaded file.
var DownloadHashes = []string{core.HashSHA1, core.HashSHA256, core.HashSHA512}

type DownloadRequest struct {
	Name string
	URL  string
	Dest string
	// Expected hashes are verified when present, keyed by format
	Expected map[string]string
}

type DownloadedFile struct {
	Request DownloadRequest
	Hashes  map[string]string
	Size    int64
}

// Downloader fetches files with at most 10 transfers in flight.
type Downloader struct {
	sem      *semaphore.Weighted
	progress io.Writer
}

// NewDownloader renders progress bars to output; nil disables them.
func NewDownloader(output io.Writer) *Downloader {
	return &Downloader{
		sem:      semaphore.NewWeighted(downloadPermits),
		progress: output,
	}
}

// Download fetches every request. The results keep the order of reqs.
func (d *Downloader) Download(ctx context.Context, reqs []DownloadRequest) ([]DownloadedFile, error) {
	out := make([]DownloadedFile, len(reqs))
	if len(reqs) == 0 {
		return out, nil
	}

	output := d.progress
	if output == nil {
		output = io.Discard
	}
	progress := mpb.NewWithContext(ctx, mpb.WithOutput(output), mpb.WithWidth(40))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := d.sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer d.sem.Release(1)

			file, err := d.fetch(gctx, progress, req)
			if err != nil {
				return fmt.Errorf("failed to download %s: %w", req.Name, err)
			}
			mu.Lock()
			out[i] = file
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	progress.Wait()
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Downloader) fetch(ctx context.Context, progress *mpb.Progress, req DownloadRequest) (DownloadedFile, error) {
	if req.URL == "" {
		return DownloadedFile{}, fmt.Errorf("no download url")
	}
	resp, err := core.GetWithUA(ctx, req.URL, "application/octet-stream")
	if err != nil {
		return DownloadedFile{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return DownloadedFile{}, fmt.Errorf("invalid response status %d", resp.StatusCode)
	}

	bar := progress.AddBar(resp.ContentLength,
		mpb.BarRemoveOnComplete(),
		mpb.PrependDecorators(decor.Name(req.Name, decor.WC{W: len(req.Name) + 1, C: decor.DidentRight})),
		mpb.AppendDecorators(decor.CountersKibiByte("% .1f / % .1f")),
	)
	body := bar.ProxyReader(resp.Body)
	defer body.Close()

	f, err := CreateFile(req.Dest)
	if err != nil {
		bar.Abort(true)
		return DownloadedFile{}, err
	}
	hashes, size, err := copyHashed(f, body)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		bar.Abort(true)
		_ = os.Remove(req.Dest)
		return DownloadedFile{}, err
	}
	bar.SetTotal(size, true)

	for format, expected := range req.Expected {
		if actual, ok := hashes[format]; ok && !strings.EqualFold(actual, expected) {
			_ = os.Remove(req.Dest)
			return DownloadedFile{}, fmt.Errorf("%s mismatch: expected %s, got %s", format, expected, actual)
		}
	}
	return DownloadedFile{Request: req, Hashes: hashes, Size: size}, nil
}

// copyHashed copies src to dst while computing DownloadHashes and the length.
func copyHashed(dst io.Writer, src io.Reader) (map[string]string, int64, error) {
	m, err := core.NewMultiHasher(DownloadHashes...)
	if err != nil {
		return nil, 0, err
	}
	if _, err := io.Copy(io.MultiWriter(dst, m), src); err != nil {
		return nil, 0, err
	}
	return m.Sums(), m.Size(), nil
}

// HashFile computes the given hash formats of a local file.
func HashFile(path string, formats ...string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := core.NewMultiHasher(formats...)
	if err != nil {
		return nil, err
	}
	if _, err := m.ReadFrom(f); err != nil {
		return nil, err
	}
	return m.Sums(), nil
}
