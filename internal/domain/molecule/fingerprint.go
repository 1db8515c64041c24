package molecule

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math/bits"
	"sort"
	"strconv"
	"strings"

	"github.com/turtacn/drugkit/pkg/errors"
	mtypes "github.com/turtacn/drugkit/pkg/types/molecule"
)

const (
	// DefaultFingerprintBits is the folded length of every generated fingerprint.
	DefaultFingerprintBits = 2048

	// DefaultMaxPathLength is the longest bond path enumerated by the
	// topological fingerprint.
	DefaultMaxPathLength = 7

	// DefaultMorganRadius is the Morgan neighbourhood radius (ECFP4).
	DefaultMorganRadius = 2
)

// ─────────────────────────────────────────────────────────────────────────────
// Fingerprint Structure
// ─────────────────────────────────────────────────────────────────────────────

// Fingerprint represents a molecular fingerprint as a bit vector.  The Bits
// field stores the packed bit array as bytes, where bit i is stored in byte
// i/8 at bit position i%8.
type Fingerprint struct {
	// Type identifies which fingerprint algorithm was used.
	Type mtypes.FingerprintType `json:"type"`

	// Bits is the packed bit vector representation.
	Bits []byte `json:"bits"`

	// Length is the total number of bits in the fingerprint.
	Length int `json:"length"`

	// NumOnBits is the count of set bits (popcount).
	NumOnBits int `json:"num_on_bits"`
}

// NewFingerprint constructs a Fingerprint from raw bit data.
func NewFingerprint(fpType mtypes.FingerprintType, data []byte, length int) *Fingerprint {
	onBits := 0
	for _, b := range data {
		onBits += bits.OnesCount8(b)
	}
	return &Fingerprint{
		Type:      fpType,
		Bits:      data,
		Length:    length,
		NumOnBits: onBits,
	}
}

func newEmptyFingerprint(fpType mtypes.FingerprintType, length int) *Fingerprint {
	return &Fingerprint{Type: fpType, Bits: make([]byte, (length+7)/8), Length: length}
}

// SetBit sets the bit at the given index to 1.
func (fp *Fingerprint) SetBit(index int) {
	if index < 0 || index >= fp.Length {
		return
	}
	old := fp.Bits[index/8]
	fp.Bits[index/8] |= 1 << uint(index%8)
	if old != fp.Bits[index/8] {
		fp.NumOnBits++
	}
}

// setHash folds a 64-bit feature hash into the vector.
func (fp *Fingerprint) setHash(h uint64) {
	fp.SetBit(int(h % uint64(fp.Length)))
}

// Equal reports whether two fingerprints have the same type, length and bits.
// Two nil fingerprints are not equal: a molecule without a fingerprint never
// matches anything.
func (fp *Fingerprint) Equal(other *Fingerprint) bool {
	if fp == nil || other == nil {
		return false
	}
	return fp.Type == other.Type && fp.Length == other.Length && bytes.Equal(fp.Bits, other.Bits)
}

// Hex renders the packed bits as lowercase hex.
func (fp *Fingerprint) Hex() string {
	return hex.EncodeToString(fp.Bits)
}

// ─────────────────────────────────────────────────────────────────────────────
// Generators
// ─────────────────────────────────────────────────────────────────────────────

// Fingerprinter derives a fingerprint from a parsed molecule.  Implementations
// must be deterministic and independent of atom numbering.
type Fingerprinter interface {
	Type() mtypes.FingerprintType
	Fingerprint(m *Molecule) (*Fingerprint, error)
}

// NewFingerprinter returns the default-parameterised generator for fpType.
func NewFingerprinter(fpType mtypes.FingerprintType) (Fingerprinter, error) {
	switch fpType {
	case mtypes.FPTopological:
		return &TopologicalFingerprinter{MaxPathLength: DefaultMaxPathLength, NumBits: DefaultFingerprintBits}, nil
	case mtypes.FPMorgan:
		return &MorganFingerprinter{Radius: DefaultMorganRadius, NumBits: DefaultFingerprintBits}, nil
	default:
		return nil, errors.Newf(errors.ErrCodeFingerprintTypeUnsupported, "unsupported fingerprint type %q", fpType)
	}
}

// hashFeature hashes a feature descriptor to 64 bits.
func hashFeature(s string) uint64 {
	sum := sha256.Sum256([]byte(s))
	return binary.BigEndian.Uint64(sum[:8])
}

// ─────────────────────────────────────────────────────────────────────────────
// Topological (path) Fingerprint
// ─────────────────────────────────────────────────────────────────────────────

// TopologicalFingerprinter enumerates every simple bond path of length
// 1..MaxPathLength in the heavy-atom graph and folds each path's hash into a
// NumBits vector.  Every atom label is hashed as a length-0 path so that
// single-atom molecules still produce a non-empty fingerprint; a molecule
// without heavy atoms yields the all-zero vector.  Zero values of MaxPathLength
// and NumBits select the defaults.
type TopologicalFingerprinter struct {
	MaxPathLength int
	NumBits       int
}

// Type returns FPTopological.
func (f *TopologicalFingerprinter) Type() mtypes.FingerprintType { return mtypes.FPTopological }

// Fingerprint computes the path fingerprint of m.
func (f *TopologicalFingerprinter) Fingerprint(m *Molecule) (*Fingerprint, error) {
	if m == nil {
		return nil, errors.InvalidParam("molecule cannot be nil")
	}
	nBits, maxLen := f.NumBits, f.MaxPathLength
	if nBits <= 0 {
		nBits = DefaultFingerprintBits
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxPathLength
	}

	g := buildHeavyGraph(m)
	fp := newEmptyFingerprint(mtypes.FPTopological, nBits)
	visited := make([]bool, len(g.atoms))
	path := make([]string, 0, 2*maxLen+1)

	var walk func(atom, depth int)
	walk = func(atom, depth int) {
		fp.setHash(hashFeature(canonicalPath(path)))
		if depth == maxLen {
			return
		}
		for _, nb := range g.adj[atom] {
			if visited[nb.atom] {
				continue
			}
			visited[nb.atom] = true
			path = append(path, strconv.Itoa(nb.order), g.labels[nb.atom])
			walk(nb.atom, depth+1)
			path = path[:len(path)-2]
			visited[nb.atom] = false
		}
	}

	for start := range g.atoms {
		visited[start] = true
		path = append(path[:0], g.labels[start])
		walk(start, 0)
		visited[start] = false
	}
	return fp, nil
}

// canonicalPath renders an alternating atom/bond token sequence in the
// lexicographically smaller of its two directions, so that a path and its
// reverse hash identically.
func canonicalPath(tokens []string) string {
	n := len(tokens)
	for i := 0; i < n/2; i++ {
		a, b := tokens[i], tokens[n-1-i]
		if a == b {
			continue
		}
		if b < a {
			rev := make([]string, n)
			for j := range tokens {
				rev[j] = tokens[n-1-j]
			}
			return "P:" + strings.Join(rev, " ")
		}
		break
	}
	return "P:" + strings.Join(tokens, " ")
}

// ─────────────────────────────────────────────────────────────────────────────
// Morgan (Circular) Fingerprint
// ─────────────────────────────────────────────────────────────────────────────

// MorganFingerprinter computes a circular fingerprint: each heavy atom starts
// from an invariant of (element, heavy degree, charge, isotope) and is refined
// Radius times by hashing its identifier with the sorted (bond order,
// neighbour identifier) pairs.  Identifiers from every iteration are folded
// into the vector.  Zero values of Radius and NumBits select the defaults.
type MorganFingerprinter struct {
	Radius  int
	NumBits int
}

// Type returns FPMorgan.
func (f *MorganFingerprinter) Type() mtypes.FingerprintType { return mtypes.FPMorgan }

// Fingerprint computes the Morgan fingerprint of m.
func (f *MorganFingerprinter) Fingerprint(m *Molecule) (*Fingerprint, error) {
	if m == nil {
		return nil, errors.InvalidParam("molecule cannot be nil")
	}
	nBits, radius := f.NumBits, f.Radius
	if nBits <= 0 {
		nBits = DefaultFingerprintBits
	}
	if radius <= 0 {
		radius = DefaultMorganRadius
	}

	g := buildHeavyGraph(m)
	fp := newEmptyFingerprint(mtypes.FPMorgan, nBits)
	ids := initialInvariants(g)
	for _, id := range ids {
		fp.setHash(id)
	}
	for r := 1; r <= radius; r++ {
		ids = refineInvariants(g, ids, r)
		for _, id := range ids {
			fp.setHash(id)
		}
	}
	return fp, nil
}

func initialInvariants(g *heavyGraph) []uint64 {
	ids := make([]uint64, len(g.atoms))
	for i, a := range g.atoms {
		ids[i] = hashFeature("A:" + a.Element +
			":" + strconv.Itoa(len(g.adj[i])) +
			":" + strconv.Itoa(a.Charge) +
			":" + strconv.Itoa(a.Isotope))
	}
	return ids
}

// refineInvariants performs one Morgan iteration.  Neighbour pairs are sorted
// so the result is independent of atom and bond ordering.
func refineInvariants(g *heavyGraph, ids []uint64, round int) []uint64 {
	next := make([]uint64, len(ids))
	for i := range ids {
		env := make([]string, 0, len(g.adj[i]))
		for _, nb := range g.adj[i] {
			env = append(env, strconv.Itoa(nb.order)+"-"+strconv.FormatUint(ids[nb.atom], 16))
		}
		sort.Strings(env)
		next[i] = hashFeature("R" + strconv.Itoa(round) + ":" +
			strconv.FormatUint(ids[i], 16) + ":" + strings.Join(env, ","))
	}
	return next
}

//Personal.AI order the ending
