package fileio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/sync/errgroup"

	"github.com/leocov-dev/addonpack/core"
)

const indexWriteLimit = 50

// addonDescriptor is the on-disk form of a single addon in the index directory.
type addonDescriptor struct {
	Name    string            `toml:"name"`
	Type    core.ProjectType  `toml:"type"`
	Side    core.Side         `toml:"side,omitempty"`
	Source  core.SourceTable  `toml:"source"`
	Options core.AddonOptions `toml:"options,omitempty"`
}

func marshalAddon(addon *core.Addon) ([]byte, error) {
	table, err := core.EncodeSource(addon.Source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", addon.Name, err)
	}
	return toml.Marshal(addonDescriptor{
		Name:    addon.Name,
		Type:    addon.ProjectType,
		Side:    addon.Side,
		Source:  table,
		Options: addon.Options,
	})
}

func unmarshalAddon(raw []byte) (*core.Addon, error) {
	var desc addonDescriptor
	if err := toml.Unmarshal(raw, &desc); err != nil {
		return nil, err
	}
	source, err := core.DecodeSource(desc.Source)
	if err != nil {
		return nil, err
	}
	addon := core.NewAddon(desc.Name, desc.Type, desc.Side, source)
	addon.Options = desc.Options
	return addon, nil
}

// LoadIndex reads every descriptor in the pack's index directory. A missing
// directory is an empty index.
func LoadIndex(ctx context.Context, pack *core.Modpack) (*core.Index, error) {
	dir := IndexDir(pack)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return core.NewIndex(), nil
	}
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var addons []*core.Addon

	g, _ := errgroup.WithContext(ctx)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		name := entry.Name()
		g.Go(func() error {
			raw, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			addon, err := unmarshalAddon(raw)
			if err != nil {
				return fmt.Errorf("failed to read index file %s: %w", name, err)
			}
			addon.SetFileName(name)

			mu.Lock()
			addons = append(addons, addon)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	core.SortAddons(addons)
	return core.NewIndex(addons...), nil
}

// SaveIndex writes the descriptors of changed addons and deletes the ones of
// removed addons. Unchanged descriptors are left alone.
func SaveIndex(ctx context.Context, pack *core.Modpack, index *core.Index) error {
	dir := IndexDir(pack)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	for _, addon := range index.Removed() {
		err := os.Remove(filepath.Join(dir, addon.FileName()))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(indexWriteLimit)
	for _, addon := range index.Changed() {
		addon := addon
		g.Go(func() error {
			raw, err := marshalAddon(addon)
			if err != nil {
				return err
			}
			return CreateAndWrite(filepath.Join(dir, addon.FileName()), raw)
		})
	}
	return g.Wait()
}
