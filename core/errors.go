package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidID              = errors.New("invalid id")
	ErrRateLimited            = errors.New("rate limit exceeded")
	ErrNoCompatibleVersions   = errors.New("no compatible versions")
	ErrUnsupportedProjectType = errors.New("unsupported project type")
	ErrBadImport              = errors.New("bad import")
	ErrUninitialized          = errors.New("modpack is not initialized, run init first")
	ErrNoLoaderSupport        = errors.New("loader does not support this minecraft version")
	ErrDuplicate              = errors.New("addon already in index")
)

// RateLimitError is returned when a registry refuses a request because of its rate limit.
// RetryAfter is the raw value reported by the registry (seconds or an epoch timestamp).
type RateLimitError struct {
	Registry   Registry
	RetryAfter string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter == "" {
		return fmt.Sprintf("%s: %s", e.Registry, ErrRateLimited)
	}
	return fmt.Sprintf("%s: %s (retry after %s)", e.Registry, ErrRateLimited, e.RetryAfter)
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// DuplicateError reports an Index insert that collided with an existing addon.
type DuplicateError struct {
	Addon    *Addon
	Existing *Addon
}

func (e *DuplicateError) Error() string {
	if e.Existing == nil {
		return fmt.Sprintf("%s: %s", e.Addon.Name, ErrDuplicate)
	}
	return fmt.Sprintf("%s is already in the index as %s (%s)", e.Addon.Name, e.Existing.Name, e.Existing.GenericID())
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicate
}

// IsRecoverable reports whether err only affects a single item of a batch,
// so the caller may warn and carry on with the rest.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrNoCompatibleVersions) ||
		errors.Is(err, ErrUnsupportedProjectType) ||
		errors.Is(err, ErrDuplicate)
}
