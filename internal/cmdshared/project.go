package cmdshared

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leocov-dev/addonpack/config"
	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/fileio"
	"github.com/leocov-dev/addonpack/internal/shared"
	"github.com/leocov-dev/addonpack/sources"
)

// Project is a loaded modpack together with its index.
type Project struct {
	Dir   string
	Pack  *core.Modpack
	Index *core.Index
}

// LoadProject loads the pack and index named by --pack-file, exiting on failure.
func LoadProject(ctx context.Context) *Project {
	paths, err := shared.GetPackPaths()
	if err != nil {
		shared.Exitln(err)
	}

	pack, err := fileio.LoadModpack(paths.Dir)
	if errors.Is(err, core.ErrUninitialized) {
		shared.Exitln("No pack.toml file found, run 'addonpack init' to create one!")
	}
	if err != nil {
		shared.Exitf("Error loading pack: %s\n", err)
	}

	index, err := fileio.LoadIndex(ctx, pack)
	if err != nil {
		shared.Exitf("Error loading index: %s\n", err)
	}

	return &Project{Dir: paths.Dir, Pack: pack, Index: index}
}

// Save writes the changed index entries and then the pack file.
func (p *Project) Save(ctx context.Context) {
	if err := fileio.SaveIndex(ctx, p.Pack, p.Index); err != nil {
		shared.Exitf("Error writing index: %s\n", err)
	}
	if err := fileio.SaveModpack(p.Pack, p.Dir); err != nil {
		shared.Exitf("Error writing pack: %s\n", err)
	}
}

// NewHub builds the registry clients from the loaded configuration.
func NewHub() *sources.Hub {
	hub, err := sources.NewHub(config.CurseforgeApiKey(), config.GetGhApiKey())
	if err != nil {
		shared.Exitln(err)
	}
	return hub
}

// Policy is the configured dependency resolution policy.
func Policy() core.ResolvePolicy {
	policy, err := config.ResolvePolicy()
	if err != nil {
		shared.Exitln(err)
	}
	return policy
}

// InstallAddons inserts addons and their required dependencies into index. Addons
// that are already present are reported and skipped, and an addon whose name is taken
// is rejected before its dependencies are resolved. With the eager policy a failing
// dependency aborts before anything is inserted.
func InstallAddons(
	ctx context.Context,
	graph core.DependencyGraph,
	index *core.Index,
	target core.Target,
	policy core.ResolvePolicy,
	addons ...*core.Addon,
) ([]*core.Addon, error) {
	var seeds []*core.Addon
	pending := core.NewIndex()
	for _, addon := range addons {
		if existing := index.Find(addon.GenericID()); existing != nil {
			shared.Notice(fmt.Sprintf("%s is already installed", existing.Name))
			continue
		}
		existing := index.Conflict(addon)
		if existing == nil {
			existing = pending.Conflict(addon)
		}
		if existing != nil {
			shared.Warn((&core.DuplicateError{Addon: addon, Existing: existing}).Error())
			continue
		}
		_ = pending.Insert(addon)
		seeds = append(seeds, addon)
	}
	if len(seeds) == 0 {
		return nil, nil
	}

	closure, err := core.ResolveClosure(ctx, graph, seeds, index.KnownIDs(), target, policy)
	if err != nil {
		return nil, err
	}
	for _, skipped := range closure.Skipped {
		shared.Warn("Skipped dependency", "addon", skipped.Parent.Name, "dependency", skipped.Dependency.GenericID().String(), "err", skipped.Err)
	}

	var installed []*core.Addon
	for _, addon := range append(seeds, closure.Added...) {
		if err := index.Insert(addon); err != nil {
			var dup *core.DuplicateError
			if !errors.As(err, &dup) {
				return installed, err
			}
			shared.Warn(err.Error())
			continue
		}
		installed = append(installed, addon)
	}
	return installed, nil
}

// ImportTarget is the project directory an import writes into. It exits when a pack
// already exists there.
func ImportTarget() string {
	paths, err := shared.GetPackPaths()
	if err != nil {
		shared.Exitln(err)
	}
	if _, err := os.Stat(paths.File); err == nil {
		shared.Exitf("%s already exists, import into an empty directory\n", paths.File)
	}
	return paths.Dir
}

// SaveImported reports the skipped files of an import and writes the new pack.
func SaveImported(ctx context.Context, projectDir string, pack *core.Modpack, index *core.Index, skipped []error) {
	for _, err := range skipped {
		shared.Warn(err.Error())
	}
	project := &Project{Dir: projectDir, Pack: pack, Index: index}
	project.Save(ctx)
	fmt.Printf("Imported %s with %d addons\n", pack.Name, index.Len())
}

// AbsPath resolves a path flag against the working directory. Empty stays empty.
func AbsPath(p string) string {
	if p == "" {
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		shared.Exitln(err)
	}
	return abs
}
