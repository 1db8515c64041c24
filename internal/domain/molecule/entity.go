// Package molecule provides the core domain model for chemical structures read
// from SDF collections.  A Molecule carries its identity within the source
// file, the verbatim record text for output, the parsed molecular graph, and
// the derived fingerprint used for cross-collection matching.
package molecule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/turtacn/drugkit/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Value Objects
// ─────────────────────────────────────────────────────────────────────────────

// Atom is a single atom of the molecular graph.
type Atom struct {
	Element string  `json:"element"`
	Charge  int     `json:"charge,omitempty"`
	Isotope int     `json:"isotope,omitempty"` // 0 = natural abundance
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

// IsHydrogen reports whether the atom is a plain (non-isotopic) hydrogen.
// Such atoms are suppressed from fingerprints so that explicit and implicit
// hydrogen representations compare equal.
func (a Atom) IsHydrogen() bool {
	return a.Element == "H" && a.Isotope == 0 && a.Charge == 0
}

// Label is the atom invariant used by path fingerprints, e.g. "C", "N+1",
// "13C", "O-1".
func (a Atom) Label() string {
	var sb strings.Builder
	if a.Isotope != 0 {
		sb.WriteString(strconv.Itoa(a.Isotope))
	}
	sb.WriteString(a.Element)
	if a.Charge > 0 {
		sb.WriteString("+")
		sb.WriteString(strconv.Itoa(a.Charge))
	} else if a.Charge < 0 {
		sb.WriteString(strconv.Itoa(a.Charge))
	}
	return sb.String()
}

// Bond connects two atoms by zero-based index.  Order follows the MDL
// convention: 1 single, 2 double, 3 triple, 4 aromatic.
type Bond struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Order int `json:"order"`
}

// DataItem is one "> <NAME>" property of an SDF record.
type DataItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Molecule
// ─────────────────────────────────────────────────────────────────────────────

// Molecule is one structure record drawn from a collection.
type Molecule struct {
	// Identity
	Title  string `json:"title"`
	Source string `json:"source"` // path of the collection file
	Index  int    `json:"index"`  // 1-based position within Source

	// Raw is the verbatim record text including the "$$$$" terminator line.
	Raw string `json:"-"`

	// Graph
	Atoms []Atom     `json:"atoms"`
	Bonds []Bond     `json:"bonds"`
	Data  []DataItem `json:"data,omitempty"`

	// Derived, populated by Annotate.
	Fingerprint  *Fingerprint `json:"fingerprint,omitempty"`
	StructureKey string       `json:"structure_key,omitempty"`
}

// NewMolecule builds a Molecule and validates its graph.
func NewMolecule(title string, atoms []Atom, bonds []Bond) (*Molecule, error) {
	m := &Molecule{Title: title, Atoms: atoms, Bonds: bonds}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks that every bond references existing, distinct atoms and
// that every atom has an element symbol.
func (m *Molecule) Validate() error {
	for i, a := range m.Atoms {
		if strings.TrimSpace(a.Element) == "" {
			return errors.Newf(errors.ErrCodeMoleculeInvalidFormat, "atom %d has no element symbol", i+1)
		}
	}
	for i, b := range m.Bonds {
		if b.From < 0 || b.From >= len(m.Atoms) || b.To < 0 || b.To >= len(m.Atoms) {
			return errors.Newf(errors.ErrCodeMoleculeInvalidFormat,
				"bond %d references atom outside 1..%d", i+1, len(m.Atoms))
		}
		if b.From == b.To {
			return errors.Newf(errors.ErrCodeMoleculeInvalidFormat, "bond %d is a self-loop", i+1)
		}
	}
	return nil
}

// Identity renders the molecule's position for logs, e.g. "ligands.sdf#3 (aspirin)".
func (m *Molecule) Identity() string {
	if m.Title == "" {
		return fmt.Sprintf("%s#%d", m.Source, m.Index)
	}
	return fmt.Sprintf("%s#%d (%s)", m.Source, m.Index, m.Title)
}

// DataValue returns the value of the named data item.
func (m *Molecule) DataValue(name string) (string, bool) {
	for _, d := range m.Data {
		if d.Name == name {
			return d.Value, true
		}
	}
	return "", false
}

// HeavyAtomCount counts atoms that are not plain hydrogens.
func (m *Molecule) HeavyAtomCount() int {
	n := 0
	for _, a := range m.Atoms {
		if !a.IsHydrogen() {
			n++
		}
	}
	return n
}

// Formula returns the molecular formula in Hill order (C, H, then the other
// elements alphabetically).  Hydrogens are counted only when explicit.
func (m *Molecule) Formula() string {
	counts := make(map[string]int)
	for _, a := range m.Atoms {
		counts[a.Element]++
	}
	var elems []string
	for e := range counts {
		if e != "C" && e != "H" {
			elems = append(elems, e)
		}
	}
	sort.Strings(elems)
	if _, ok := counts["C"]; ok {
		elems = append([]string{"C", "H"}, elems...)
	} else {
		elems = append([]string{"H"}, elems...)
		sort.Strings(elems)
	}

	var sb strings.Builder
	for _, e := range elems {
		n, ok := counts[e]
		if !ok {
			continue
		}
		sb.WriteString(e)
		if n > 1 {
			sb.WriteString(strconv.Itoa(n))
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// Heavy-atom graph
// ─────────────────────────────────────────────────────────────────────────────

// neighbor is one adjacency entry of the heavy-atom graph.
type neighbor struct {
	atom  int
	order int
}

// heavyGraph is the hydrogen-suppressed view of a molecule used by the
// fingerprint and structure-key algorithms.  Kekulé rings are relabelled as
// aromatic while it is built.
type heavyGraph struct {
	labels []string
	atoms  []Atom
	adj    [][]neighbor
}

func buildHeavyGraph(m *Molecule) *heavyGraph {
	remap := make([]int, len(m.Atoms))
	g := &heavyGraph{}
	for i, a := range m.Atoms {
		if a.IsHydrogen() {
			remap[i] = -1
			continue
		}
		remap[i] = len(g.atoms)
		g.atoms = append(g.atoms, a)
		g.labels = append(g.labels, a.Label())
	}
	edges := make([]graphEdge, 0, len(m.Bonds))
	for _, b := range m.Bonds {
		if b.From < 0 || b.From >= len(remap) || b.To < 0 || b.To >= len(remap) {
			continue
		}
		from, to := remap[b.From], remap[b.To]
		if from < 0 || to < 0 {
			continue
		}
		edges = append(edges, graphEdge{from: from, to: to, order: b.Order})
	}
	aromatize(g.atoms, edges)

	g.adj = make([][]neighbor, len(g.atoms))
	for _, e := range edges {
		g.adj[e.from] = append(g.adj[e.from], neighbor{atom: e.to, order: e.order})
		g.adj[e.to] = append(g.adj[e.to], neighbor{atom: e.from, order: e.order})
	}
	return g
}

//Personal.AI order the ending
