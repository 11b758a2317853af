package core

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

// Target is the platform an addon version has to run on.
type Target struct {
	Minecraft          string
	Loader             ModLoader
	AcceptableVersions []string
	AcceptableLoaders  []ModLoader
	Channel            ReleaseChannel
}

// ForAddon applies an addon's own loader, game version and release channel overrides.
func (t Target) ForAddon(addon *Addon) Target {
	out := t
	if addon == nil {
		return out
	}
	if addon.Options.ModLoader != "" && addon.Options.ModLoader != t.Loader {
		out.Loader = addon.Options.ModLoader
		out.AcceptableLoaders = addon.Options.ModLoader.Implied()
	}
	if addon.Options.GameVersion != "" {
		out.Minecraft = addon.Options.GameVersion
	}
	if addon.Options.ReleaseChannel != ChannelAny {
		out.Channel = addon.Options.ReleaseChannel
	}
	return out
}

// GameVersions is the primary minecraft version followed by the acceptable ones.
func (t Target) GameVersions() []string {
	out := []string{t.Minecraft}
	for _, v := range t.AcceptableVersions {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func (t Target) Loaders() []ModLoader {
	out := []ModLoader{t.Loader}
	for _, l := range t.AcceptableLoaders {
		if !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	return out
}

func (t Target) LoaderNames() []string {
	loaders := t.Loaders()
	out := make([]string, len(loaders))
	for i, l := range loaders {
		out[i] = string(l)
	}
	return out
}

// Candidate is a version or file record returned by a registry query.
type Candidate struct {
	ID           string
	GameVersions []string
	// Loaders is only meaningful for mods
	Loaders   []string
	Available bool
	Published time.Time
	Channel   ReleaseChannel
	// Payload holds the registry's own record
	Payload interface{}
}

func (c Candidate) SupportsVersion(version string) bool {
	return slices.Contains(c.GameVersions, version)
}

func (c Candidate) SupportsLoader(loader ModLoader) bool {
	for _, l := range c.Loaders {
		if strings.EqualFold(l, string(loader)) {
			return true
		}
	}
	return false
}

// FilterCompatible keeps the candidates that are available, support one of the target's
// game versions and, for mods only, one of its loaders. It never fails: an empty result
// means nothing is compatible.
func FilterCompatible(candidates []Candidate, target Target, projectType ProjectType) []Candidate {
	versions := target.GameVersions()
	loaders := target.Loaders()

	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.Available || !target.Channel.Allows(c.Channel) {
			continue
		}
		if !slices.ContainsFunc(versions, c.SupportsVersion) {
			continue
		}
		if projectType == ProjectMod && !slices.ContainsFunc(loaders, c.SupportsLoader) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// BestMatch picks the preferred candidate: a primary minecraft version match first,
// then the latest publish date, then a primary loader match. Full ties keep the
// registry's order. ok is false only when candidates is empty.
func BestMatch(candidates []Candidate, target Target) (best Candidate, ok bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	sorted := slices.Clone(candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if am, bm := a.SupportsVersion(target.Minecraft), b.SupportsVersion(target.Minecraft); am != bm {
			return am
		}
		if !a.Published.Equal(b.Published) {
			return a.Published.After(b.Published)
		}
		if al, bl := a.SupportsLoader(target.Loader), b.SupportsLoader(target.Loader); al != bl {
			return al
		}
		return false
	})
	return sorted[0], true
}

// SelectVersion runs FilterCompatible and BestMatch, reporting ErrNoCompatibleVersions
// when nothing survives the filter.
func SelectVersion(candidates []Candidate, target Target, projectType ProjectType) (Candidate, error) {
	best, ok := BestMatch(FilterCompatible(candidates, target, projectType), target)
	if !ok {
		return Candidate{}, ErrNoCompatibleVersions
	}
	return best, nil
}
