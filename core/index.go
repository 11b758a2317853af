package core

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/exp/slices"
)

// Index is the set of addons in a modpack. It tracks which addons changed since
// it was loaded so only those are written back.
type Index struct {
	addons  []*Addon
	changed map[*Addon]struct{}
	removed []*Addon
}

// NewIndex wraps addons loaded from disk; none of them count as changed.
func NewIndex(addons ...*Addon) *Index {
	in := &Index{changed: make(map[*Addon]struct{})}
	in.addons = append(in.addons, addons...)
	return in
}

// Insert adds addon unless one with the same generic id or the same name (ignoring case)
// is already present. A collision leaves the index untouched and returns a *DuplicateError.
func (in *Index) Insert(addon *Addon) error {
	if existing := in.Conflict(addon); existing != nil {
		return &DuplicateError{Addon: addon, Existing: existing}
	}
	in.addons = append(in.addons, addon)
	in.changed[addon] = struct{}{}
	return nil
}

// Conflict returns the addon that would make Insert reject addon, or nil.
func (in *Index) Conflict(addon *Addon) *Addon {
	id := addon.GenericID()
	for _, a := range in.addons {
		if a.GenericID() == id || strings.EqualFold(a.Name, addon.Name) {
			return a
		}
	}
	return nil
}

// Find looks an addon up by generic id.
func (in *Index) Find(id GenericID) *Addon {
	for _, a := range in.addons {
		if a.GenericID() == id {
			return a
		}
	}
	return nil
}

// Select returns the first addon matching s by name or id.
func (in *Index) Select(s string) *Addon {
	for _, a := range in.Addons() {
		if a.Matches(s) {
			return a
		}
	}
	return nil
}

// Replace swaps old for updated, keeping the index position, and marks it changed.
func (in *Index) Replace(old, updated *Addon) {
	for i, a := range in.addons {
		if a == old {
			in.addons[i] = updated
			delete(in.changed, old)
			in.changed[updated] = struct{}{}
			return
		}
	}
}

func (in *Index) MarkChanged(addon *Addon) {
	if slices.Contains(in.addons, addon) {
		in.changed[addon] = struct{}{}
	}
}

// Remove drops the addon matching s, returning it.
func (in *Index) Remove(s string) (*Addon, bool) {
	target := in.Select(s)
	if target == nil {
		return nil, false
	}
	in.RemoveAddon(target)
	return target, true
}

func (in *Index) RemoveAddon(addon *Addon) {
	i := slices.Index(in.addons, addon)
	if i < 0 {
		return
	}
	in.addons = slices.Delete(in.addons, i, i+1)
	delete(in.changed, addon)
	in.removed = append(in.removed, addon)
}

// Addons returns every addon sorted by name.
func (in *Index) Addons() []*Addon {
	out := slices.Clone(in.addons)
	SortAddons(out)
	return out
}

func (in *Index) Changed() []*Addon {
	out := make([]*Addon, 0, len(in.changed))
	for _, a := range in.addons {
		if _, ok := in.changed[a]; ok {
			out = append(out, a)
		}
	}
	SortAddons(out)
	return out
}

func (in *Index) Removed() []*Addon {
	return slices.Clone(in.removed)
}

func (in *Index) KnownIDs() []GenericID {
	ids := make([]GenericID, len(in.addons))
	for i, a := range in.addons {
		ids[i] = a.GenericID()
	}
	return ids
}

func (in *Index) Len() int {
	return len(in.addons)
}

type addonNames []*Addon

func (a addonNames) String(i int) string { return a[i].Name }
func (a addonNames) Len() int            { return len(a) }

// Suggest returns up to limit addon names that fuzzily match s, best first.
func (in *Index) Suggest(s string, limit int) []string {
	matches := fuzzy.FindFrom(s, addonNames(in.Addons()))
	var out []string
	for i, m := range matches {
		if i >= limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
