// Package molecule defines the molecule-domain enumerations shared by every
// layer of drugkit.  No domain logic lives here, only plain data types that
// are safe to import from config, CLI and domain packages alike.
package molecule

import (
	"fmt"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// FingerprintType
// ─────────────────────────────────────────────────────────────────────────────

// FingerprintType identifies which fingerprint algorithm produced a bit
// vector.
type FingerprintType string

const (
	// FPTopological is the path-based (Daylight-style) fingerprint.  It is the
	// default for cross-file intersection.
	FPTopological FingerprintType = "topological"

	// FPMorgan is the circular Morgan / ECFP fingerprint (radius 2, ECFP4).
	FPMorgan FingerprintType = "morgan"
)

// IsValid reports whether t is a supported fingerprint type.
func (t FingerprintType) IsValid() bool {
	switch t {
	case FPTopological, FPMorgan:
		return true
	default:
		return false
	}
}

func (t FingerprintType) String() string { return string(t) }

// ParseFingerprintType parses a case-insensitive fingerprint name.
func ParseFingerprintType(s string) (FingerprintType, error) {
	t := FingerprintType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unsupported fingerprint type %q (want topological|morgan)", s)
	}
	return t, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// MatchMode
// ─────────────────────────────────────────────────────────────────────────────

// MatchMode selects the criterion used to decide that two molecules from
// different collections are the same molecule.
type MatchMode string

const (
	// MatchFingerprint accepts any pair with equal fingerprints.
	MatchFingerprint MatchMode = "fingerprint"

	// MatchExact additionally requires equal canonical structure keys, which
	// rules out fingerprint collisions between different structures.
	MatchExact MatchMode = "exact"

	// MatchSimilarity accepts pairs whose Tanimoto similarity reaches a
	// configured threshold.
	MatchSimilarity MatchMode = "similarity"
)

// IsValid reports whether m is a supported match mode.
func (m MatchMode) IsValid() bool {
	switch m {
	case MatchFingerprint, MatchExact, MatchSimilarity:
		return true
	default:
		return false
	}
}

func (m MatchMode) String() string { return string(m) }

// ParseMatchMode parses a case-insensitive match mode name.
func ParseMatchMode(s string) (MatchMode, error) {
	m := MatchMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("unsupported match mode %q (want fingerprint|exact|similarity)", s)
	}
	return m, nil
}

//Personal.AI order the ending
