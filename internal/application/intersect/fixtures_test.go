package intersect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/drugkit/internal/domain/molecule"
	"github.com/turtacn/drugkit/internal/infrastructure/sdf"
	mtypes "github.com/turtacn/drugkit/pkg/types/molecule"
)

// chain builds an unbranched single-bonded molecule from element symbols.
func chain(title string, elems ...string) *molecule.Molecule {
	m := &molecule.Molecule{Title: title}
	for i, e := range elems {
		m.Atoms = append(m.Atoms, molecule.Atom{Element: e, X: float64(i)})
		if i > 0 {
			m.Bonds = append(m.Bonds, molecule.Bond{From: i - 1, To: i, Order: 1})
		}
	}
	return m
}

func ring(title string, n int) *molecule.Molecule {
	m := &molecule.Molecule{Title: title}
	for i := 0; i < n; i++ {
		m.Atoms = append(m.Atoms, molecule.Atom{Element: "C"})
		m.Bonds = append(m.Bonds, molecule.Bond{From: i, To: (i + 1) % n, Order: 4})
	}
	return m
}

func ethanol(title string) *molecule.Molecule        { return chain(title, "C", "C", "O") }
func ethanolReversed(title string) *molecule.Molecule { return chain(title, "O", "C", "C") }
func methanol(title string) *molecule.Molecule       { return chain(title, "C", "O") }
func ether(title string) *molecule.Molecule          { return chain(title, "C", "O", "C") }
func propane(title string) *molecule.Molecule        { return chain(title, "C", "C", "C") }
func benzene(title string) *molecule.Molecule        { return ring(title, 6) }

// collection annotates mols with the topological fingerprint.
func collection(t *testing.T, path string, mols ...*molecule.Molecule) *molecule.Collection {
	t.Helper()
	for i, m := range mols {
		m.Source = path
		m.Index = i + 1
	}
	c := molecule.NewCollection(path, mols)
	fper, err := molecule.NewFingerprinter(mtypes.FPTopological)
	require.NoError(t, err)
	require.NoError(t, c.Annotate(fper, true))
	return c
}

// writeSDF writes mols to dir/name and returns the path.
func writeSDF(t *testing.T, dir, name string, mols ...*molecule.Molecule) string {
	t.Helper()
	var sb strings.Builder
	w := sdf.NewWriter(&sb)
	for _, m := range mols {
		require.NoError(t, w.Write(m))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

// titles reads the record titles of an SDF file.
func titles(t *testing.T, path string) []string {
	t.Helper()
	c, err := sdf.ReadFile(path)
	require.NoError(t, err)
	out := make([]string, 0, c.Len())
	for _, m := range c.Molecules {
		out = append(out, m.Title)
	}
	return out
}

//Personal.AI order the ending
