package molecule

import (
	"math/bits"

	"github.com/turtacn/drugkit/pkg/errors"
	mtypes "github.com/turtacn/drugkit/pkg/types/molecule"
)

// SimilarityCalculator defines the interface for calculating similarity
// between fingerprints.
type SimilarityCalculator interface {
	Calculate(fp1, fp2 *Fingerprint) (float64, error)
}

// TanimotoCalculator implements Tanimoto similarity (Jaccard index) over bit
// vectors: |A ∩ B| / |A ∪ B|.
type TanimotoCalculator struct{}

// Calculate computes Tanimoto similarity.  Two empty vectors score 0.
func (c *TanimotoCalculator) Calculate(fp1, fp2 *Fingerprint) (float64, error) {
	if fp1 == nil || fp2 == nil {
		return 0, errors.InvalidParam("fingerprints cannot be nil")
	}
	if fp1.Type != fp2.Type || fp1.Length != fp2.Length || len(fp1.Bits) != len(fp2.Bits) {
		return 0, errors.New(errors.ErrCodeValidation, "fingerprints must have same type and dimension")
	}

	intersection, union := 0, 0
	for i := range fp1.Bits {
		intersection += bits.OnesCount8(fp1.Bits[i] & fp2.Bits[i])
		union += bits.OnesCount8(fp1.Bits[i] | fp2.Bits[i])
	}
	if union == 0 {
		return 0, nil
	}
	return float64(intersection) / float64(union), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Matchers
// ─────────────────────────────────────────────────────────────────────────────

// Matcher decides whether a candidate from another collection is the same
// molecule as a reference molecule.  Both molecules must have been annotated.
type Matcher interface {
	Matches(ref, candidate *Molecule) (bool, error)
}

// FingerprintMatcher accepts pairs with equal fingerprints.
type FingerprintMatcher struct{}

// Matches implements Matcher.
func (FingerprintMatcher) Matches(ref, candidate *Molecule) (bool, error) {
	return ref.Fingerprint.Equal(candidate.Fingerprint), nil
}

// ExactMatcher requires equal fingerprints and equal structure keys.
type ExactMatcher struct{}

// Matches implements Matcher.
func (ExactMatcher) Matches(ref, candidate *Molecule) (bool, error) {
	if !ref.Fingerprint.Equal(candidate.Fingerprint) {
		return false, nil
	}
	return ref.StructureKey != "" && ref.StructureKey == candidate.StructureKey, nil
}

// SimilarityMatcher accepts pairs whose Tanimoto score reaches Threshold.
type SimilarityMatcher struct {
	Threshold  float64
	Calculator SimilarityCalculator
}

// Matches implements Matcher.
func (s SimilarityMatcher) Matches(ref, candidate *Molecule) (bool, error) {
	calc := s.Calculator
	if calc == nil {
		calc = &TanimotoCalculator{}
	}
	score, err := calc.Calculate(ref.Fingerprint, candidate.Fingerprint)
	if err != nil {
		return false, err
	}
	return score >= s.Threshold, nil
}

// NewMatcher builds the Matcher for mode.  threshold is only consulted in
// similarity mode and must lie in (0, 1].
func NewMatcher(mode mtypes.MatchMode, threshold float64) (Matcher, error) {
	switch mode {
	case mtypes.MatchFingerprint:
		return FingerprintMatcher{}, nil
	case mtypes.MatchExact:
		return ExactMatcher{}, nil
	case mtypes.MatchSimilarity:
		if threshold <= 0 || threshold > 1 {
			return nil, errors.Newf(errors.ErrCodeSimilarityThresholdInvalid,
				"similarity threshold %v is out of range (0, 1]", threshold)
		}
		return SimilarityMatcher{Threshold: threshold, Calculator: &TanimotoCalculator{}}, nil
	default:
		return nil, errors.Newf(errors.ErrCodeValidation, "unsupported match mode %q", mode)
	}
}

//Personal.AI order the ending
