package query

import "errors"

var (
	// ErrEmptyTermGroup is returned when a search is attempted with no
	// usable terms. An empty group must never match the whole snapshot.
	ErrEmptyTermGroup = errors.New("empty term group")

	// ErrTooManyTiers is returned when more than three output tiers are
	// requested. There are only three accession levels.
	ErrTooManyTiers = errors.New("too many output tiers")

	// ErrNoTiers is returned when the projection is empty.
	ErrNoTiers = errors.New("no output tier requested")

	// ErrUnknownTier is returned for a tier name outside run/experiment/study.
	ErrUnknownTier = errors.New("unknown tier")
)
