package intersect

import (
	"path/filepath"

	"github.com/turtacn/drugkit/internal/domain/molecule"
	"github.com/turtacn/drugkit/internal/infrastructure/sdf"
)

// DefaultSuffix replaces the last extension of an input file name to form its
// output file name.
const DefaultSuffix = "_output.sdf"

// OutputPath returns "<outDir>/<base of c><suffix>".
func OutputPath(outDir, suffix string, c *molecule.Collection) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return filepath.Join(outDir, c.BaseName()+suffix)
}

// Emitter appends every common molecule to the reference output file and its
// matches to the output file of the collection each came from.  Output files
// are never truncated: running twice without clearing them duplicates
// entries.
type Emitter struct {
	refOut    string
	otherOuts []string

	count   int
	records map[string]int
	files   []string
}

// NewEmitter prepares output names for collections, whose last element is
// the reference.
func NewEmitter(outDir, suffix string, collections []*molecule.Collection) *Emitter {
	e := &Emitter{records: make(map[string]int)}
	if len(collections) == 0 {
		return e
	}
	e.refOut = OutputPath(outDir, suffix, collections[len(collections)-1])
	for _, c := range collections[:len(collections)-1] {
		e.otherOuts = append(e.otherOuts, OutputPath(outDir, suffix, c))
	}
	return e
}

// Emit writes one common molecule.  It matches the Engine.Walk visitor
// signature.
func (e *Emitter) Emit(cm CommonMolecule) error {
	if err := e.append(e.refOut, cm.Reference); err != nil {
		return err
	}
	for i, m := range cm.Matches {
		if i >= len(e.otherOuts) {
			break
		}
		if err := e.append(e.otherOuts[i], m); err != nil {
			return err
		}
	}
	e.count++
	return nil
}

func (e *Emitter) append(path string, m *molecule.Molecule) error {
	if err := sdf.AppendFile(path, m); err != nil {
		return err
	}
	if _, seen := e.records[path]; !seen {
		e.files = append(e.files, path)
	}
	e.records[path]++
	return nil
}

// Count returns the number of common molecules emitted.
func (e *Emitter) Count() int { return e.count }

// Files returns the output files written so far, in first-write order.
func (e *Emitter) Files() []string { return append([]string(nil), e.files...) }

// Records returns how many records were appended to path during this run.
func (e *Emitter) Records(path string) int { return e.records[path] }

//Personal.AI order the ending
