// Package sdf reads and writes MDL structure-data files.  Both V2000 and
// V3000 connection tables are understood; every record keeps its verbatim
// text so that writers can reproduce it byte for byte.
package sdf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/turtacn/drugkit/internal/domain/molecule"
	"github.com/turtacn/drugkit/pkg/errors"
)

// RecordTerminator ends every SDF record.
const RecordTerminator = "$$$$"

// ─────────────────────────────────────────────────────────────────────────────
// Reader
// ─────────────────────────────────────────────────────────────────────────────

// Reader yields molecules from an SDF stream one record at a time.
type Reader struct {
	br     *bufio.Reader
	source string
	index  int
	line   int
}

// NewReader wraps r.  source names the stream in molecule identities and
// error details.
func NewReader(r io.Reader, source string) *Reader {
	return &Reader{br: bufio.NewReader(r), source: source}
}

// Next returns the next record, or io.EOF once the stream is exhausted.  A
// final record without a "$$$$" line is accepted and its Raw text is given
// one.
func (r *Reader) Next() (*molecule.Molecule, error) {
	var (
		raw        strings.Builder
		lines      []string
		terminated bool
		startLine  = r.line + 1
	)

	for !terminated {
		chunk, err := r.br.ReadString('\n')
		if len(chunk) > 0 {
			r.line++
			raw.WriteString(chunk)
			text := strings.TrimRight(chunk, "\r\n")
			if strings.HasPrefix(text, RecordTerminator) {
				terminated = true
			} else {
				lines = append(lines, text)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeFileRead, "read failed").WithDetail(r.source)
		}
	}

	if !terminated && blank(lines) {
		return nil, io.EOF
	}

	r.index++
	m, err := parseRecord(lines)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMoleculeParsingFailed, "malformed record").
			WithDetail(fmt.Sprintf("%s record %d (line %d)", r.source, r.index, startLine))
	}

	text := raw.String()
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if !terminated {
		text += RecordTerminator + "\n"
	}

	m.Source = r.source
	m.Index = r.index
	m.Raw = text
	return m, nil
}

// ReadAll drains r into a slice.
func ReadAll(r io.Reader, source string) ([]*molecule.Molecule, error) {
	rd := NewReader(r, source)
	var mols []*molecule.Molecule
	for {
		m, err := rd.Next()
		if err == io.EOF {
			return mols, nil
		}
		if err != nil {
			return nil, err
		}
		mols = append(mols, m)
	}
}

// ReadFile loads the whole file at path as a Collection.
func ReadFile(path string) (*molecule.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFileRead, "cannot open collection").WithDetail(path)
	}
	defer f.Close()

	mols, err := ReadAll(f, path)
	if err != nil {
		return nil, err
	}
	return molecule.NewCollection(path, mols), nil
}

func blank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Record parsing
// ─────────────────────────────────────────────────────────────────────────────

// parseRecord decodes the header, connection table and data items of one
// record (terminator excluded).
func parseRecord(lines []string) (*molecule.Molecule, error) {
	if len(lines) < 4 {
		return nil, fmt.Errorf("record has %d lines, need at least 4 for the header", len(lines))
	}

	m := &molecule.Molecule{Title: strings.TrimSpace(lines[0])}

	var (
		next int
		err  error
	)
	if strings.Contains(lines[3], "V3000") {
		next, err = parseV3000(m, lines)
	} else {
		next, err = parseV2000(m, lines)
	}
	if err != nil {
		return nil, err
	}

	m.Data = parseDataItems(lines[next:])

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// col returns line[from:to] clamped to the line length.
func col(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	if to > len(line) {
		to = len(line)
	}
	return line[from:to]
}

func atoiCol(line string, from, to int) (int, error) {
	s := strings.TrimSpace(col(line, from, to))
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// chargeFromCode maps the V2000 atom-block charge field to a formal charge.
func chargeFromCode(code int) int {
	switch code {
	case 1:
		return 3
	case 2:
		return 2
	case 3:
		return 1
	case 5:
		return -1
	case 6:
		return -2
	case 7:
		return -3
	default:
		return 0
	}
}

// ── V2000 ────────────────────────────────────────────────────────────────────

func parseV2000(m *molecule.Molecule, lines []string) (int, error) {
	counts := lines[3]
	nAtoms, err := atoiCol(counts, 0, 3)
	if err != nil {
		return 0, fmt.Errorf("counts line: bad atom count: %w", err)
	}
	nBonds, err := atoiCol(counts, 3, 6)
	if err != nil {
		return 0, fmt.Errorf("counts line: bad bond count: %w", err)
	}
	if 4+nAtoms+nBonds > len(lines) {
		return 0, fmt.Errorf("connection table truncated: %d atoms and %d bonds declared", nAtoms, nBonds)
	}

	m.Atoms = make([]molecule.Atom, 0, nAtoms)
	for i := 0; i < nAtoms; i++ {
		a, err := parseV2000Atom(lines[4+i])
		if err != nil {
			return 0, fmt.Errorf("atom %d: %w", i+1, err)
		}
		m.Atoms = append(m.Atoms, a)
	}

	m.Bonds = make([]molecule.Bond, 0, nBonds)
	for i := 0; i < nBonds; i++ {
		line := lines[4+nAtoms+i]
		from, err1 := atoiCol(line, 0, 3)
		to, err2 := atoiCol(line, 3, 6)
		order, err3 := atoiCol(line, 6, 9)
		if err1 != nil || err2 != nil || err3 != nil {
			return 0, fmt.Errorf("bond %d: malformed line %q", i+1, line)
		}
		m.Bonds = append(m.Bonds, molecule.Bond{From: from - 1, To: to - 1, Order: order})
	}

	i := 4 + nAtoms + nBonds
	var chgSeen, isoSeen bool
	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "M  END") {
			return i + 1, nil
		}
		switch {
		case strings.HasPrefix(line, "M  CHG"):
			if !chgSeen {
				for j := range m.Atoms {
					m.Atoms[j].Charge = 0
				}
				chgSeen = true
			}
			if err := applyPropertyPairs(line, m.Atoms, func(a *molecule.Atom, v int) { a.Charge = v }); err != nil {
				return 0, err
			}
		case strings.HasPrefix(line, "M  ISO"):
			if !isoSeen {
				for j := range m.Atoms {
					m.Atoms[j].Isotope = 0
				}
				isoSeen = true
			}
			if err := applyPropertyPairs(line, m.Atoms, func(a *molecule.Atom, v int) { a.Isotope = v }); err != nil {
				return 0, err
			}
		case strings.HasPrefix(line, ">"):
			// Data items without a preceding "M  END".
			return i, nil
		}
	}
	return i, nil
}

func parseV2000Atom(line string) (molecule.Atom, error) {
	if len(line) < 34 {
		f := strings.Fields(line)
		if len(f) < 4 {
			return molecule.Atom{}, fmt.Errorf("malformed line %q", line)
		}
		var a molecule.Atom
		var err error
		if a.X, err = strconv.ParseFloat(f[0], 64); err != nil {
			return a, fmt.Errorf("bad x coordinate %q", f[0])
		}
		if a.Y, err = strconv.ParseFloat(f[1], 64); err != nil {
			return a, fmt.Errorf("bad y coordinate %q", f[1])
		}
		if a.Z, err = strconv.ParseFloat(f[2], 64); err != nil {
			return a, fmt.Errorf("bad z coordinate %q", f[2])
		}
		a.Element = f[3]
		return a, nil
	}

	var a molecule.Atom
	var err error
	if a.X, err = strconv.ParseFloat(strings.TrimSpace(col(line, 0, 10)), 64); err != nil {
		return a, fmt.Errorf("bad x coordinate in %q", line)
	}
	if a.Y, err = strconv.ParseFloat(strings.TrimSpace(col(line, 10, 20)), 64); err != nil {
		return a, fmt.Errorf("bad y coordinate in %q", line)
	}
	if a.Z, err = strconv.ParseFloat(strings.TrimSpace(col(line, 20, 30)), 64); err != nil {
		return a, fmt.Errorf("bad z coordinate in %q", line)
	}
	a.Element = strings.TrimSpace(col(line, 31, 34))
	code, err := atoiCol(line, 36, 39)
	if err != nil {
		return a, fmt.Errorf("bad charge field in %q", line)
	}
	a.Charge = chargeFromCode(code)
	return a, nil
}

// applyPropertyPairs decodes "M  XXX  n aaa vvv aaa vvv ..." lines.
func applyPropertyPairs(line string, atoms []molecule.Atom, set func(*molecule.Atom, int)) error {
	f := strings.Fields(line)
	if len(f) < 3 {
		return fmt.Errorf("malformed property line %q", line)
	}
	n, err := strconv.Atoi(f[2])
	if err != nil || len(f) < 3+2*n {
		return fmt.Errorf("malformed property line %q", line)
	}
	for k := 0; k < n; k++ {
		idx, err1 := strconv.Atoi(f[3+2*k])
		val, err2 := strconv.Atoi(f[4+2*k])
		if err1 != nil || err2 != nil {
			return fmt.Errorf("malformed property line %q", line)
		}
		if idx < 1 || idx > len(atoms) {
			return fmt.Errorf("property line %q references atom %d of %d", line, idx, len(atoms))
		}
		set(&atoms[idx-1], val)
	}
	return nil
}

// ── V3000 ────────────────────────────────────────────────────────────────────

const v30Prefix = "M  V30 "

func parseV3000(m *molecule.Molecule, lines []string) (int, error) {
	var body []string
	i := 4
	ended := false
	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "M  END") {
			i++
			ended = true
			break
		}
		if !strings.HasPrefix(line, v30Prefix) {
			continue
		}
		text := strings.TrimPrefix(line, v30Prefix)
		for strings.HasSuffix(text, "-") && i+1 < len(lines) {
			i++
			text = strings.TrimSuffix(text, "-") + strings.TrimPrefix(lines[i], v30Prefix)
		}
		body = append(body, strings.TrimSpace(text))
	}
	if !ended {
		return 0, fmt.Errorf("V3000 connection table has no M  END line")
	}

	index := make(map[string]int)
	section := ""
	for _, text := range body {
		switch text {
		case "BEGIN ATOM":
			section = "atom"
			continue
		case "BEGIN BOND":
			section = "bond"
			continue
		case "END ATOM", "END BOND":
			section = ""
			continue
		}

		f := strings.Fields(text)
		switch section {
		case "atom":
			if len(f) < 5 {
				return 0, fmt.Errorf("malformed V3000 atom line %q", text)
			}
			a := molecule.Atom{Element: f[1]}
			var err error
			if a.X, err = strconv.ParseFloat(f[2], 64); err != nil {
				return 0, fmt.Errorf("bad x coordinate in %q", text)
			}
			if a.Y, err = strconv.ParseFloat(f[3], 64); err != nil {
				return 0, fmt.Errorf("bad y coordinate in %q", text)
			}
			if a.Z, err = strconv.ParseFloat(f[4], 64); err != nil {
				return 0, fmt.Errorf("bad z coordinate in %q", text)
			}
			for _, kv := range f[5:] {
				key, val, ok := strings.Cut(kv, "=")
				if !ok {
					continue
				}
				n, err := strconv.Atoi(val)
				if err != nil {
					continue
				}
				switch key {
				case "CHG":
					a.Charge = n
				case "MASS":
					a.Isotope = n
				}
			}
			index[f[0]] = len(m.Atoms)
			m.Atoms = append(m.Atoms, a)
		case "bond":
			if len(f) < 4 {
				return 0, fmt.Errorf("malformed V3000 bond line %q", text)
			}
			order, err := strconv.Atoi(f[1])
			if err != nil {
				return 0, fmt.Errorf("bad bond type in %q", text)
			}
			from, ok1 := index[f[2]]
			to, ok2 := index[f[3]]
			if !ok1 || !ok2 {
				return 0, fmt.Errorf("V3000 bond %q references an unknown atom", text)
			}
			m.Bonds = append(m.Bonds, molecule.Bond{From: from, To: to, Order: order})
		}
	}
	return i, nil
}

// ── Data items ───────────────────────────────────────────────────────────────

// parseDataItems reads "> <NAME>" headers and their value lines, which run up
// to the next blank line.
func parseDataItems(lines []string) []molecule.DataItem {
	var items []molecule.DataItem
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !strings.HasPrefix(line, ">") {
			continue
		}
		name := ""
		if open := strings.Index(line, "<"); open >= 0 {
			if end := strings.Index(line[open+1:], ">"); end >= 0 {
				name = line[open+1 : open+1+end]
			}
		}
		var values []string
		for i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
			i++
			values = append(values, lines[i])
		}
		items = append(items, molecule.DataItem{Name: name, Value: strings.Join(values, "\n")})
	}
	return items
}

//Personal.AI order the ending
