package molecule

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// StructureKey returns a numbering-independent key for the heavy-atom graph
// of m.  Atom classes are refined Morgan-style until the partition stops
// growing; the key hashes the formula, the sorted final atom classes and the
// sorted class-labelled bond list.  It is not a canonical labelling: class
// refinement cannot separate some regular graphs sharing a formula, so two
// such molecules get the same key.  It does not collide through bit folding,
// which is why it backs the "exact" match mode on top of fingerprint equality.
func StructureKey(m *Molecule) string {
	g := buildHeavyGraph(m)

	ids := initialInvariants(g)
	classes := countDistinct(ids)
	for round := 1; round <= len(ids); round++ {
		next := refineInvariants(g, ids, round)
		n := countDistinct(next)
		ids = next
		if n <= classes {
			break
		}
		classes = n
	}

	atomClasses := make([]string, len(ids))
	for i, id := range ids {
		atomClasses[i] = strconv.FormatUint(id, 16)
	}
	bondKeys := make([]string, 0)
	for i, nbs := range g.adj {
		for _, nb := range nbs {
			if nb.atom < i {
				continue
			}
			a, b := atomClasses[i], atomClasses[nb.atom]
			if b < a {
				a, b = b, a
			}
			bondKeys = append(bondKeys, a+"-"+strconv.Itoa(nb.order)+"-"+b)
		}
	}
	sorted := append([]string(nil), atomClasses...)
	sort.Strings(sorted)
	sort.Strings(bondKeys)

	heavy := &Molecule{Atoms: g.atoms}
	sum := sha256.Sum256([]byte(heavy.Formula() + "|" +
		strings.Join(sorted, ",") + "|" +
		strings.Join(bondKeys, ",")))
	return hex.EncodeToString(sum[:])
}

func countDistinct(ids []uint64) int {
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

//Personal.AI order the ending
