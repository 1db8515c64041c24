package molecule

import (
	"path/filepath"
	"strings"

	"github.com/turtacn/drugkit/pkg/errors"
)

// Collection is the ordered sequence of molecules read from one input file.
type Collection struct {
	Path      string
	Molecules []*Molecule
}

// NewCollection wraps the molecules read from path.
func NewCollection(path string, mols []*Molecule) *Collection {
	return &Collection{Path: path, Molecules: mols}
}

// Len returns the number of molecules in the collection.
func (c *Collection) Len() int { return len(c.Molecules) }

// BaseName is the file name without directory and without its last
// extension: "data/ligands.v2.sdf" → "ligands.v2".
func (c *Collection) BaseName() string {
	base := filepath.Base(c.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Annotate computes the fingerprint of every molecule, plus its structure
// key when withKeys is set.  It runs once at load time so matching never
// recomputes derived values.
func (c *Collection) Annotate(fp Fingerprinter, withKeys bool) error {
	for _, m := range c.Molecules {
		f, err := fp.Fingerprint(m)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeFingerprintGenerationFailed, "fingerprint failed").
				WithDetail(m.Identity())
		}
		m.Fingerprint = f
		if withKeys {
			m.StructureKey = StructureKey(m)
		}
	}
	return nil
}

//Personal.AI order the ending
