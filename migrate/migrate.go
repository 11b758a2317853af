package migrate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/leocov-dev/addonpack/core"
)

type Status int

const (
	// StatusCompatible means the best candidate supports the new primary minecraft version
	StatusCompatible Status = iota
	// StatusPartial means the best candidate only supports one of the acceptable versions
	StatusPartial
	StatusIncompatible
	// StatusUnknown is used for sources that cannot be queried for compatibility
	StatusUnknown
	// StatusFailed means the registry query errored; the addon is never changed or removed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCompatible:
		return "compatible"
	case StatusPartial:
		return "partial"
	case StatusIncompatible:
		return "incompatible"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Result is the classification of one addon against a new target.
type Result struct {
	Addon  *core.Addon
	Status Status
	// Candidate is the version the addon would move to; nil unless Compatible or Partial
	Candidate *core.Candidate
	// Err is set when the registry could not be queried
	Err error
}

// Classify runs the filter and best-match pipeline for addon against target. An addon
// is only incompatible when no candidate survives; registry errors give StatusFailed
// with the error in Result.Err.
func Classify(ctx context.Context, lister core.CandidateLister, addon *core.Addon, target core.Target) Result {
	result := Result{Addon: addon, Status: StatusIncompatible}
	if _, ok := addon.Source.(core.GithubSource); ok {
		result.Status = StatusUnknown
		return result
	}

	t := target.ForAddon(addon)
	candidates, err := lister.Candidates(ctx, addon, t)
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}
	best, ok := core.BestMatch(core.FilterCompatible(candidates, t, addon.ProjectType), t)
	if !ok {
		return result
	}

	result.Candidate = &best
	if best.SupportsVersion(t.Minecraft) {
		result.Status = StatusCompatible
	} else {
		result.Status = StatusPartial
	}
	return result
}

// Migration is a classified set of addons, ready to be applied.
type Migration struct {
	Target  core.Target
	Results []Result

	lister core.CandidateLister
}

// Plan classifies every addon concurrently. It only fails when ctx is done; per-addon
// problems are carried in the results.
func Plan(ctx context.Context, lister core.CandidateLister, addons []*core.Addon, target core.Target) (*Migration, error) {
	sorted := make([]*core.Addon, len(addons))
	copy(sorted, addons)
	core.SortAddons(sorted)

	results := make([]Result, len(sorted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(10)
	for i, addon := range sorted {
		i, addon := i, addon
		g.Go(func() error {
			results[i] = Classify(gctx, lister, addon, target)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Migration{Target: target, Results: results, lister: lister}, nil
}

// Filter returns the results with the given status, in name order.
func (m *Migration) Filter(status Status) []Result {
	var out []Result
	for _, r := range m.Results {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// Failed returns the results whose registry query failed.
func (m *Migration) Failed() []Result {
	return m.Filter(StatusFailed)
}

type Summary struct {
	Updated []*core.Addon
	Removed []*core.Addon
	// Pinned addons were classified but kept on their current version
	Pinned []*core.Addon
}

// Apply rewrites the pack and index for the migration: incompatible addons are
// dropped when removeIncompatible is set, the pack moves to newVersions, and every
// unpinned compatible or partial addon is pointed at its chosen candidate.
// Incompatible addons that are kept stay on their current version, as do failed ones,
// which are never removed.
func Apply(m *Migration, index *core.Index, pack *core.Modpack, newVersions core.PackVersions, removeIncompatible bool) (Summary, error) {
	var summary Summary

	// repoint first so a failure leaves the index and pack untouched
	type change struct {
		old, updated *core.Addon
	}
	var changes []change
	for _, r := range m.Results {
		if r.Status != StatusCompatible && r.Status != StatusPartial {
			continue
		}
		if r.Addon.Options.Pinned {
			summary.Pinned = append(summary.Pinned, r.Addon)
			continue
		}
		updated, err := m.lister.Repoint(r.Addon, *r.Candidate)
		if err != nil {
			return Summary{}, fmt.Errorf("failed to update %s: %w", r.Addon.Name, err)
		}
		if updated.Source != r.Addon.Source {
			changes = append(changes, change{r.Addon, updated})
		}
	}

	if removeIncompatible {
		for _, r := range m.Filter(StatusIncompatible) {
			index.RemoveAddon(r.Addon)
			summary.Removed = append(summary.Removed, r.Addon)
		}
	}

	pack.Versions = newVersions

	for _, c := range changes {
		index.Replace(c.old, c.updated)
		summary.Updated = append(summary.Updated, c.updated)
	}
	return summary, nil
}

// TargetFor is the target pack would have after moving to versions.
func TargetFor(pack *core.Modpack, versions core.PackVersions) core.Target {
	next := *pack
	next.Versions = versions
	return next.Target()
}
