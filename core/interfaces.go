package core

import (
	"context"
)

// CandidateLister lists the registry versions an addon could point at. The target is
// only used to narrow the registry query; callers still run FilterCompatible.
type CandidateLister interface {
	Candidates(ctx context.Context, addon *Addon, target Target) ([]Candidate, error)
	// Repoint returns a copy of addon whose source points at the given candidate.
	Repoint(addon *Addon, candidate Candidate) (*Addon, error)
}

// FileResolver finds the file behind an addon's installed version.
type FileResolver interface {
	ResolveFiles(ctx context.Context, addons []*Addon) (map[GenericID]AddonFile, error)
}

// AddonFile describes the downloadable file of an addon's installed version.
type AddonFile struct {
	FileName string
	// URL is empty when the registry does not allow third party downloads
	URL string
	// Hashes is keyed by algorithm name ("sha1", "sha512", "md5")
	Hashes map[string]string
	Size   int64
}

type MarshalResult struct {
	Value      []byte
	HashFormat string
	Hash       string
}

func (m MarshalResult) String() string {
	return string(m.Value)
}

type HashableObject interface {
	Marshal() (MarshalResult, error)
}
