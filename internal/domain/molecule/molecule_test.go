package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/drugkit/pkg/errors"
	mtypes "github.com/turtacn/drugkit/pkg/types/molecule"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

func ethanol() *Molecule {
	return &Molecule{
		Title: "ethanol",
		Atoms: []Atom{{Element: "C"}, {Element: "C"}, {Element: "O"}},
		Bonds: []Bond{{From: 0, To: 1, Order: 1}, {From: 1, To: 2, Order: 1}},
	}
}

// ethanolRenumbered is ethanol with atoms listed O, C, C and bonds reversed.
func ethanolRenumbered() *Molecule {
	return &Molecule{
		Title: "ethanol-renumbered",
		Atoms: []Atom{{Element: "O"}, {Element: "C"}, {Element: "C"}},
		Bonds: []Bond{{From: 2, To: 1, Order: 1}, {From: 1, To: 0, Order: 1}},
	}
}

// ethanolExplicitH carries the six hydrogens explicitly.
func ethanolExplicitH() *Molecule {
	m := ethanol()
	for _, heavy := range []int{0, 0, 0, 1, 1, 2} {
		m.Atoms = append(m.Atoms, Atom{Element: "H"})
		m.Bonds = append(m.Bonds, Bond{From: heavy, To: len(m.Atoms) - 1, Order: 1})
	}
	return m
}

func dimethylEther() *Molecule {
	return &Molecule{
		Title: "dimethyl ether",
		Atoms: []Atom{{Element: "C"}, {Element: "O"}, {Element: "C"}},
		Bonds: []Bond{{From: 0, To: 1, Order: 1}, {From: 1, To: 2, Order: 1}},
	}
}

func benzene(offset int) *Molecule {
	m := &Molecule{Title: "benzene"}
	for i := 0; i < 6; i++ {
		m.Atoms = append(m.Atoms, Atom{Element: "C"})
	}
	for i := 0; i < 6; i++ {
		a := (i + offset) % 6
		b := (i + offset + 1) % 6
		m.Bonds = append(m.Bonds, Bond{From: a, To: b, Order: 4})
	}
	return m
}

// oCresol builds 2-methylphenol.  kekule selects which ring bonds are double:
// 0 for C1=C2, 1 for C2=C3; any other value draws the ring aromatic.
func oCresol(kekule int) *Molecule {
	m := &Molecule{Title: "o-cresol"}
	for i := 0; i < 6; i++ {
		m.Atoms = append(m.Atoms, Atom{Element: "C"})
	}
	m.Atoms = append(m.Atoms, Atom{Element: "C"}, Atom{Element: "O"})
	for i := 0; i < 6; i++ {
		order := 4
		switch kekule {
		case 0, 1:
			order = 1
			if i%2 == kekule {
				order = 2
			}
		}
		m.Bonds = append(m.Bonds, Bond{From: i, To: (i + 1) % 6, Order: order})
	}
	m.Bonds = append(m.Bonds, Bond{From: 0, To: 6, Order: 1}, Bond{From: 1, To: 7, Order: 1})
	return m
}

// naphthalene draws the ten-atom periphery as a cycle with a 4-9 bridge.
// bridgeDouble picks the Kekulé form with the fusion bond double.
func naphthalene(bridgeDouble bool) *Molecule {
	m := &Molecule{Title: "naphthalene"}
	for i := 0; i < 10; i++ {
		m.Atoms = append(m.Atoms, Atom{Element: "C"})
	}
	double := map[[2]int]bool{{0, 1}: true, {2, 3}: true, {4, 5}: true, {6, 7}: true, {8, 9}: true}
	if bridgeDouble {
		double = map[[2]int]bool{{0, 1}: true, {2, 3}: true, {4, 9}: true, {5, 6}: true, {7, 8}: true}
	}
	addBond := func(a, b int) {
		order := 1
		if double[[2]int{a, b}] {
			order = 2
		}
		m.Bonds = append(m.Bonds, Bond{From: a, To: b, Order: order})
	}
	for i := 0; i < 9; i++ {
		addBond(i, i+1)
	}
	addBond(0, 9)
	addBond(4, 9)
	return m
}

// fiveRing builds a five-membered ring of the given atom elements with
// explicit bond orders, bonds[i] joining atoms i and i+1.
func fiveRing(elems []string, orders []int) *Molecule {
	m := &Molecule{}
	for _, e := range elems {
		m.Atoms = append(m.Atoms, Atom{Element: e})
	}
	for i, o := range orders {
		m.Bonds = append(m.Bonds, Bond{From: i, To: (i + 1) % len(elems), Order: o})
	}
	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// Entity
// ─────────────────────────────────────────────────────────────────────────────

func TestAtom_Label(t *testing.T) {
	assert.Equal(t, "C", Atom{Element: "C"}.Label())
	assert.Equal(t, "N+1", Atom{Element: "N", Charge: 1}.Label())
	assert.Equal(t, "O-1", Atom{Element: "O", Charge: -1}.Label())
	assert.Equal(t, "13C", Atom{Element: "C", Isotope: 13}.Label())
}

func TestAtom_IsHydrogen(t *testing.T) {
	assert.True(t, Atom{Element: "H"}.IsHydrogen())
	assert.False(t, Atom{Element: "H", Isotope: 2}.IsHydrogen())
	assert.False(t, Atom{Element: "C"}.IsHydrogen())
}

func TestNewMolecule_Validation(t *testing.T) {
	_, err := NewMolecule("bad", []Atom{{Element: "C"}}, []Bond{{From: 0, To: 3, Order: 1}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMoleculeInvalidFormat))

	_, err = NewMolecule("loop", []Atom{{Element: "C"}}, []Bond{{From: 0, To: 0, Order: 1}})
	assert.Error(t, err)

	_, err = NewMolecule("blank", []Atom{{Element: " "}}, nil)
	assert.Error(t, err)

	m, err := NewMolecule("ok", ethanol().Atoms, ethanol().Bonds)
	require.NoError(t, err)
	assert.Equal(t, 3, m.HeavyAtomCount())
}

func TestMolecule_Formula(t *testing.T) {
	assert.Equal(t, "C2O", ethanol().Formula())
	assert.Equal(t, "C2H6O", ethanolExplicitH().Formula())
	water := &Molecule{Atoms: []Atom{{Element: "O"}, {Element: "H"}, {Element: "H"}}}
	assert.Equal(t, "H2O", water.Formula())
}

func TestMolecule_IdentityAndData(t *testing.T) {
	m := ethanol()
	m.Source = "a.sdf"
	m.Index = 2
	m.Data = []DataItem{{Name: "ID", Value: "CHEMBL545"}}

	assert.Equal(t, "a.sdf#2 (ethanol)", m.Identity())
	v, ok := m.DataValue("ID")
	assert.True(t, ok)
	assert.Equal(t, "CHEMBL545", v)
	_, ok = m.DataValue("MISSING")
	assert.False(t, ok)

	m.Title = ""
	assert.Equal(t, "a.sdf#2", m.Identity())
}

// ─────────────────────────────────────────────────────────────────────────────
// Fingerprints
// ─────────────────────────────────────────────────────────────────────────────

func fingerprintOf(t *testing.T, fpType mtypes.FingerprintType, m *Molecule) *Fingerprint {
	t.Helper()
	fper, err := NewFingerprinter(fpType)
	require.NoError(t, err)
	fp, err := fper.Fingerprint(m)
	require.NoError(t, err)
	return fp
}

func TestFingerprints_InvariantUnderRenumbering(t *testing.T) {
	for _, fpType := range []mtypes.FingerprintType{mtypes.FPTopological, mtypes.FPMorgan} {
		t.Run(fpType.String(), func(t *testing.T) {
			a := fingerprintOf(t, fpType, ethanol())
			b := fingerprintOf(t, fpType, ethanolRenumbered())
			assert.True(t, a.Equal(b))
			assert.Equal(t, a.Hex(), b.Hex())

			r0 := fingerprintOf(t, fpType, benzene(0))
			r3 := fingerprintOf(t, fpType, benzene(3))
			assert.True(t, r0.Equal(r3))
		})
	}
}

func TestFingerprints_ExplicitHydrogensIgnored(t *testing.T) {
	for _, fpType := range []mtypes.FingerprintType{mtypes.FPTopological, mtypes.FPMorgan} {
		a := fingerprintOf(t, fpType, ethanol())
		b := fingerprintOf(t, fpType, ethanolExplicitH())
		assert.True(t, a.Equal(b), fpType.String())
	}
}

func TestFingerprints_DistinguishIsomers(t *testing.T) {
	for _, fpType := range []mtypes.FingerprintType{mtypes.FPTopological, mtypes.FPMorgan} {
		a := fingerprintOf(t, fpType, ethanol())
		b := fingerprintOf(t, fpType, dimethylEther())
		assert.False(t, a.Equal(b), fpType.String())
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := fingerprintOf(t, mtypes.FPTopological, benzene(0))
	b := fingerprintOf(t, mtypes.FPTopological, benzene(0))
	assert.Equal(t, a, b)
	assert.Equal(t, DefaultFingerprintBits, a.Length)
	assert.Greater(t, a.NumOnBits, 0)
}

func TestFingerprint_SingleAtomAndEmpty(t *testing.T) {
	methane := &Molecule{Atoms: []Atom{{Element: "C"}}}
	fp := fingerprintOf(t, mtypes.FPTopological, methane)
	assert.Equal(t, 1, fp.NumOnBits)

	empty := fingerprintOf(t, mtypes.FPTopological, &Molecule{})
	assert.Equal(t, 0, empty.NumOnBits)
}

func TestFingerprint_EqualRequiresSameType(t *testing.T) {
	topo := fingerprintOf(t, mtypes.FPTopological, ethanol())
	morgan := fingerprintOf(t, mtypes.FPMorgan, ethanol())
	assert.False(t, topo.Equal(morgan))

	var nilFP *Fingerprint
	assert.False(t, nilFP.Equal(topo))
	assert.False(t, topo.Equal(nil))
}

func TestFingerprint_BitOperations(t *testing.T) {
	fp := NewFingerprint(mtypes.FPTopological, make([]byte, 2), 16)
	fp.SetBit(3)
	fp.SetBit(3)
	fp.SetBit(99)
	assert.Equal(t, 1, fp.NumOnBits)
	assert.Equal(t, "0800", fp.Hex())
}

func TestNewFingerprinter_Unsupported(t *testing.T) {
	_, err := NewFingerprinter(mtypes.FingerprintType("maccs"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFingerprintTypeUnsupported))
}

func TestCanonicalPath_DirectionIndependent(t *testing.T) {
	fwd := []string{"C", "1", "C", "1", "O"}
	rev := []string{"O", "1", "C", "1", "C"}
	assert.Equal(t, canonicalPath(fwd), canonicalPath(rev))
}

// ─────────────────────────────────────────────────────────────────────────────
// Aromaticity
// ─────────────────────────────────────────────────────────────────────────────

func TestBuildHeavyGraph_KekuleRingBecomesAromatic(t *testing.T) {
	g := buildHeavyGraph(oCresol(0))
	for i := 0; i < 6; i++ {
		for _, nb := range g.adj[i] {
			if nb.atom < 6 {
				assert.Equal(t, AromaticBondOrder, nb.order, "ring bond %d-%d", i, nb.atom)
			} else {
				assert.Equal(t, 1, nb.order, "substituent bond %d-%d", i, nb.atom)
			}
		}
	}
}

func TestFingerprints_KekuleFormsMatchAromatic(t *testing.T) {
	for _, fpType := range []mtypes.FingerprintType{mtypes.FPTopological, mtypes.FPMorgan} {
		t.Run(fpType.String(), func(t *testing.T) {
			a := fingerprintOf(t, fpType, oCresol(0))
			b := fingerprintOf(t, fpType, oCresol(1))
			arom := fingerprintOf(t, fpType, oCresol(-1))
			assert.True(t, a.Equal(b), "kekule forms")
			assert.True(t, a.Equal(arom), "kekule vs aromatic")

			n1 := fingerprintOf(t, fpType, naphthalene(false))
			n2 := fingerprintOf(t, fpType, naphthalene(true))
			assert.True(t, n1.Equal(n2), "fused kekule forms")
		})
	}
	assert.Equal(t, StructureKey(oCresol(0)), StructureKey(oCresol(1)))
	assert.Equal(t, StructureKey(oCresol(0)), StructureKey(oCresol(-1)))
	assert.Equal(t, StructureKey(naphthalene(false)), StructureKey(naphthalene(true)))
}

func TestAromatize_FiveMemberedRings(t *testing.T) {
	pyrrole := []string{"N", "C", "C", "C", "C"}
	kekule := fiveRing(pyrrole, []int{1, 2, 1, 2, 1})
	arom := fiveRing(pyrrole, []int{4, 4, 4, 4, 4})
	assert.Equal(t, StructureKey(kekule), StructureKey(arom))

	// Cyclopentadiene has no lone-pair donor and stays non-aromatic.
	carbons := []string{"C", "C", "C", "C", "C"}
	assert.NotEqual(t,
		StructureKey(fiveRing(carbons, []int{1, 2, 1, 2, 1})),
		StructureKey(fiveRing(carbons, []int{4, 4, 4, 4, 4})))
}

func TestAromatize_NonAlternatingRingsUntouched(t *testing.T) {
	// 1,3-cyclohexadiene and cyclohexane differ from benzene.
	diene := &Molecule{Atoms: benzene(0).Atoms}
	cyclohexane := &Molecule{Atoms: benzene(0).Atoms}
	for i, o := range []int{2, 1, 2, 1, 1, 1} {
		diene.Bonds = append(diene.Bonds, Bond{From: i, To: (i + 1) % 6, Order: o})
		cyclohexane.Bonds = append(cyclohexane.Bonds, Bond{From: i, To: (i + 1) % 6, Order: 1})
	}
	arom := fingerprintOf(t, mtypes.FPTopological, benzene(0))
	assert.False(t, fingerprintOf(t, mtypes.FPTopological, diene).Equal(arom))
	assert.False(t, fingerprintOf(t, mtypes.FPTopological, cyclohexane).Equal(arom))

	g := buildHeavyGraph(diene)
	assert.Equal(t, 2, g.adj[0][0].order)
}

func TestSmallRings_CountsEachRingOnce(t *testing.T) {
	g := buildHeavyGraph(naphthalene(false))
	adj := make([][]int, len(g.adj))
	for i, nbs := range g.adj {
		for _, nb := range nbs {
			adj[i] = append(adj[i], nb.atom)
		}
	}
	assert.Len(t, smallRings(adj), 2)
}

func TestMorganFingerprinter_ZeroValueUsesDefaults(t *testing.T) {
	zero, err := (&MorganFingerprinter{}).Fingerprint(oCresol(0))
	require.NoError(t, err)
	assert.True(t, zero.Equal(fingerprintOf(t, mtypes.FPMorgan, oCresol(0))))
}

// ─────────────────────────────────────────────────────────────────────────────
// Structure key
// ─────────────────────────────────────────────────────────────────────────────

func TestStructureKey(t *testing.T) {
	assert.Equal(t, StructureKey(ethanol()), StructureKey(ethanolRenumbered()))
	assert.Equal(t, StructureKey(ethanol()), StructureKey(ethanolExplicitH()))
	assert.Equal(t, StructureKey(benzene(0)), StructureKey(benzene(2)))
	assert.NotEqual(t, StructureKey(ethanol()), StructureKey(dimethylEther()))
	assert.Len(t, StructureKey(ethanol()), 64)
}

// ─────────────────────────────────────────────────────────────────────────────
// Similarity and matchers
// ─────────────────────────────────────────────────────────────────────────────

func TestTanimotoCalculator(t *testing.T) {
	calc := &TanimotoCalculator{}

	a := NewFingerprint(mtypes.FPTopological, []byte{0b0000_1111}, 8)
	b := NewFingerprint(mtypes.FPTopological, []byte{0b0011_0011}, 8)
	score, err := calc.Calculate(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/6.0, score, 1e-9)

	score, err = calc.Calculate(a, a)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	zero := NewFingerprint(mtypes.FPTopological, []byte{0}, 8)
	score, err = calc.Calculate(zero, zero)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	other := NewFingerprint(mtypes.FPMorgan, []byte{0}, 8)
	_, err = calc.Calculate(a, other)
	assert.Error(t, err)

	_, err = calc.Calculate(nil, a)
	assert.Error(t, err)
}

func annotated(t *testing.T, fpType mtypes.FingerprintType, mols ...*Molecule) *Collection {
	t.Helper()
	fper, err := NewFingerprinter(fpType)
	require.NoError(t, err)
	c := NewCollection("x.sdf", mols)
	require.NoError(t, c.Annotate(fper, true))
	return c
}

func TestMatchers(t *testing.T) {
	c := annotated(t, mtypes.FPTopological, ethanol(), ethanolRenumbered(), dimethylEther())
	eth, ethR, ether := c.Molecules[0], c.Molecules[1], c.Molecules[2]

	tests := []struct {
		name      string
		mode      mtypes.MatchMode
		threshold float64
		a, b      *Molecule
		want      bool
	}{
		{"fingerprint same", mtypes.MatchFingerprint, 0, eth, ethR, true},
		{"fingerprint different", mtypes.MatchFingerprint, 0, eth, ether, false},
		{"exact same", mtypes.MatchExact, 0, eth, ethR, true},
		{"exact different", mtypes.MatchExact, 0, eth, ether, false},
		{"similarity identical", mtypes.MatchSimilarity, 1.0, eth, ethR, true},
		{"similarity low threshold", mtypes.MatchSimilarity, 0.01, eth, ether, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatcher(tt.mode, tt.threshold)
			require.NoError(t, err)
			got, err := m.Matches(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewMatcher_Errors(t *testing.T) {
	_, err := NewMatcher(mtypes.MatchSimilarity, 0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSimilarityThresholdInvalid))

	_, err = NewMatcher(mtypes.MatchSimilarity, 1.2)
	assert.Error(t, err)

	_, err = NewMatcher(mtypes.MatchMode("fuzzy"), 0)
	assert.Error(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Collection
// ─────────────────────────────────────────────────────────────────────────────

func TestCollection_BaseName(t *testing.T) {
	assert.Equal(t, "ligands", NewCollection("/data/ligands.sdf", nil).BaseName())
	assert.Equal(t, "set.v2", NewCollection("set.v2.sdf", nil).BaseName())
	assert.Equal(t, "noext", NewCollection("dir/noext", nil).BaseName())
}

func TestCollection_Annotate(t *testing.T) {
	c := annotated(t, mtypes.FPMorgan, ethanol(), benzene(0))
	assert.Equal(t, 2, c.Len())
	for _, m := range c.Molecules {
		require.NotNil(t, m.Fingerprint)
		assert.Equal(t, mtypes.FPMorgan, m.Fingerprint.Type)
		assert.NotEmpty(t, m.StructureKey)
	}
}

//Personal.AI order the ending
