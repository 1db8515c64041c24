// Package intersect finds the molecules of a reference SDF collection that
// are present in every other collection and writes them, together with their
// counterparts, to per-collection output files.
package intersect

import (
	"github.com/turtacn/drugkit/internal/domain/molecule"
	"github.com/turtacn/drugkit/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// MatchSet
// ─────────────────────────────────────────────────────────────────────────────

// MatchSet tracks, for one reference molecule, which non-reference
// collections have contributed a match.  The first match recorded for a
// collection wins.
type MatchSet struct {
	found []*molecule.Molecule
}

// NewMatchSet creates an empty set for n non-reference collections.
func NewMatchSet(n int) *MatchSet {
	return &MatchSet{found: make([]*molecule.Molecule, n)}
}

// Record stores m as the match for collection i unless one is already
// present.  It reports whether m was stored.
func (s *MatchSet) Record(i int, m *molecule.Molecule) bool {
	if i < 0 || i >= len(s.found) || s.found[i] != nil {
		return false
	}
	s.found[i] = m
	return true
}

// Found reports whether collection i has a match.
func (s *MatchSet) Found(i int) bool {
	return i >= 0 && i < len(s.found) && s.found[i] != nil
}

// Complete reports whether every collection has a match.  An empty set is
// complete.
func (s *MatchSet) Complete() bool {
	for _, m := range s.found {
		if m == nil {
			return false
		}
	}
	return true
}

// Matches returns a copy of the recorded matches in collection order.
func (s *MatchSet) Matches() []*molecule.Molecule {
	return append([]*molecule.Molecule(nil), s.found...)
}

// ─────────────────────────────────────────────────────────────────────────────
// Engine
// ─────────────────────────────────────────────────────────────────────────────

// CommonMolecule is a reference molecule together with its match from every
// non-reference collection; Matches[i] belongs to the i-th input collection.
type CommonMolecule struct {
	Reference *molecule.Molecule
	Matches   []*molecule.Molecule
}

// Stats summarises one engine pass.
type Stats struct {
	ReferenceMolecules int
	Comparisons        int64
	Common             int
}

// Engine performs the brute-force pairwise intersection.  It never mutates
// the collections it is given.
type Engine struct {
	matcher molecule.Matcher
}

// NewEngine returns an Engine deciding matches with m.
func NewEngine(m molecule.Matcher) *Engine {
	return &Engine{matcher: m}
}

// Walk visits every common molecule in reference order.  The last collection
// is the reference.  For each reference molecule every other collection is
// scanned in input order and its first matching molecule is recorded; once a
// collection yields no match the reference molecule is discarded without
// scanning the rest.  With a single collection every reference molecule is
// common.  An error from fn stops the walk and is returned unchanged.
func (e *Engine) Walk(collections []*molecule.Collection, fn func(CommonMolecule) error) (Stats, error) {
	var stats Stats
	if len(collections) == 0 {
		return stats, errors.InvalidParam("at least one collection is required")
	}

	ref := collections[len(collections)-1]
	others := collections[:len(collections)-1]

	for _, r := range ref.Molecules {
		stats.ReferenceMolecules++
		set := NewMatchSet(len(others))

		for ci, c := range others {
			for _, m := range c.Molecules {
				stats.Comparisons++
				ok, err := e.matcher.Matches(r, m)
				if err != nil {
					return stats, errors.Wrap(err, errors.CodeUnknown, "comparison failed").
						WithDetail(r.Identity() + " vs " + m.Identity())
				}
				if ok {
					set.Record(ci, m)
					break
				}
			}
			if !set.Found(ci) {
				break
			}
		}

		if !set.Complete() {
			continue
		}
		stats.Common++
		if err := fn(CommonMolecule{Reference: r, Matches: set.Matches()}); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// Collect runs Walk and gathers the common molecules into a slice.
func (e *Engine) Collect(collections []*molecule.Collection) ([]CommonMolecule, Stats, error) {
	var out []CommonMolecule
	stats, err := e.Walk(collections, func(cm CommonMolecule) error {
		out = append(out, cm)
		return nil
	})
	return out, stats, err
}

//Personal.AI order the ending
