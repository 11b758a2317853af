package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

type DependencyKind string

const (
	DependencyRequired     DependencyKind = "required"
	DependencyOptional     DependencyKind = "optional"
	DependencyIncompatible DependencyKind = "incompatible"
	DependencyEmbedded     DependencyKind = "embedded"
	DependencyUnsupported  DependencyKind = "unsupported"
)

// Dependency is an edge from an addon's installed version to another project.
type Dependency struct {
	Registry  Registry
	ProjectID string
	// VersionID is set when the registry pins the dependency to a specific version
	VersionID string
	Kind      DependencyKind
}

func (d Dependency) GenericID() GenericID {
	if d.ProjectID == "" {
		return GenericID{d.Registry, "version:" + d.VersionID}
	}
	return GenericID{d.Registry, d.ProjectID}
}

// DependencyGraph is the registry side of dependency resolution.
type DependencyGraph interface {
	// Dependencies lists the dependency edges of the addon's installed version.
	Dependencies(ctx context.Context, addon *Addon) ([]Dependency, error)
	// ResolveDependency turns an edge into an addon pointing at a concrete version,
	// using dep.VersionID when set and the best compatible version otherwise.
	ResolveDependency(ctx context.Context, dep Dependency, target Target) (*Addon, error)
}

// ResolvePolicy decides what a failing dependency edge does to the rest of the closure.
type ResolvePolicy string

const (
	// ResolveEagerFail aborts the whole closure on the first failing edge.
	ResolveEagerFail ResolvePolicy = "eager"
	// ResolveBestEffort skips failing edges, records them and keeps going.
	ResolveBestEffort ResolvePolicy = "best-effort"
)

func ParseResolvePolicy(s string) (ResolvePolicy, error) {
	switch ResolvePolicy(strings.ToLower(s)) {
	case "", ResolveEagerFail:
		return ResolveEagerFail, nil
	case ResolveBestEffort:
		return ResolveBestEffort, nil
	}
	return "", fmt.Errorf("unknown resolve policy %q", s)
}

type SkippedDependency struct {
	Parent     *Addon
	Dependency Dependency
	Err        error
}

func (s SkippedDependency) Unwrap() error {
	return s.Err
}

func (s SkippedDependency) Error() string {
	return fmt.Sprintf("dependency %s of %s: %v", s.Dependency.GenericID(), s.Parent.Name, s.Err)
}

type Closure struct {
	// Added holds every newly discovered addon, sorted by name
	Added []*Addon
	// Skipped is only populated with ResolveBestEffort
	Skipped []SkippedDependency
}

type closureWalker struct {
	graph  DependencyGraph
	target Target
	policy ResolvePolicy

	mu      sync.Mutex
	checked map[GenericID]struct{}
	added   []*Addon
	skipped []SkippedDependency
}

// ResolveClosure walks the required dependencies of seeds until no new project is found.
// Projects in known or among the seeds are never returned. Every project is claimed
// exactly once, so cycles and diamonds are visited a single time.
func ResolveClosure(
	ctx context.Context,
	graph DependencyGraph,
	seeds []*Addon,
	known []GenericID,
	target Target,
	policy ResolvePolicy,
) (Closure, error) {
	w := &closureWalker{
		graph:   graph,
		target:  target,
		policy:  policy,
		checked: make(map[GenericID]struct{}, len(known)+len(seeds)),
	}
	for _, id := range known {
		w.checked[id] = struct{}{}
	}
	for _, seed := range seeds {
		w.checked[seed.GenericID()] = struct{}{}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, seed := range seeds {
		seed := seed
		g.Go(func() error {
			return w.walk(gctx, seed)
		})
	}
	if err := g.Wait(); err != nil {
		return Closure{}, err
	}

	return Closure{
		Added:   dedupeAdded(w.added, known),
		Skipped: w.skipped,
	}, nil
}

// claim marks id as visited and reports whether the caller is the first to do so.
func (w *closureWalker) claim(id GenericID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.checked[id]; ok {
		return false
	}
	w.checked[id] = struct{}{}
	return true
}

func (w *closureWalker) record(addon *Addon) {
	w.mu.Lock()
	w.added = append(w.added, addon)
	w.mu.Unlock()
}

func (w *closureWalker) fail(parent *Addon, dep Dependency, err error) error {
	skipped := SkippedDependency{Parent: parent, Dependency: dep, Err: err}
	if w.policy != ResolveBestEffort {
		return skipped
	}
	w.mu.Lock()
	w.skipped = append(w.skipped, skipped)
	w.mu.Unlock()
	return nil
}

func (w *closureWalker) walk(ctx context.Context, addon *Addon) error {
	deps, err := w.graph.Dependencies(ctx, addon)
	if err != nil {
		return w.fail(addon, Dependency{Registry: addon.GenericID().Registry, ProjectID: addon.GenericID().ID}, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, dep := range deps {
		if dep.Kind != DependencyRequired || !w.claim(dep.GenericID()) {
			continue
		}
		dep := dep
		g.Go(func() error {
			resolved, err := w.graph.ResolveDependency(gctx, dep, w.target)
			if err != nil {
				return w.fail(addon, dep, err)
			}
			// a version-pinned edge only learns its project id here
			if id := resolved.GenericID(); id != dep.GenericID() && !w.claim(id) {
				return nil
			}
			w.record(resolved)
			return w.walk(gctx, resolved)
		})
	}
	return g.Wait()
}

func dedupeAdded(added []*Addon, known []GenericID) []*Addon {
	SortAddons(added)
	knownSet := make(map[GenericID]struct{}, len(known))
	for _, id := range known {
		knownSet[id] = struct{}{}
	}
	names := make(map[string]struct{}, len(added))
	out := make([]*Addon, 0, len(added))
	for _, a := range added {
		if _, ok := knownSet[a.GenericID()]; ok {
			continue
		}
		name := strings.ToLower(a.Name)
		if _, ok := names[name]; ok {
			continue
		}
		names[name] = struct{}{}
		out = append(out, a)
	}
	return out
}

// SortAddons orders addons by name, ignoring case.
func SortAddons(addons []*Addon) {
	sort.SliceStable(addons, func(i, j int) bool {
		a, b := strings.ToLower(addons[i].Name), strings.ToLower(addons[j].Name)
		if a != b {
			return a < b
		}
		return addons[i].GenericID().String() < addons[j].GenericID().String()
	})
}
