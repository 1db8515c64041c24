package sdf

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/turtacn/drugkit/internal/domain/molecule"
	"github.com/turtacn/drugkit/pkg/errors"
)

// Writer writes SDF records to an io.Writer.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write emits m.  Records read from a file are written verbatim from Raw;
// molecules built in memory are encoded as V2000.
func (w *Writer) Write(m *molecule.Molecule) error {
	text := m.Raw
	if text == "" {
		text = Encode(m)
	}
	if _, err := io.WriteString(w.w, text); err != nil {
		return errors.Wrap(err, errors.ErrCodeFileWrite, "write failed").WithDetail(m.Identity())
	}
	return nil
}

// AppendFile appends mols to path, creating the file when it does not exist.
// The file is opened and closed within the call so that a crash never leaves
// a handle open across records.
func AppendFile(path string, mols ...*molecule.Molecule) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeFileWrite, "cannot open output").WithDetail(path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, errors.ErrCodeFileWrite, "cannot close output").WithDetail(path)
		}
	}()

	w := NewWriter(f)
	for _, m := range mols {
		if err := w.Write(m); err != nil {
			return err
		}
	}
	return nil
}

// chargeCode maps a formal charge to the V2000 atom-block charge field.
func chargeCode(charge int) int {
	switch charge {
	case 3:
		return 1
	case 2:
		return 2
	case 1:
		return 3
	case -1:
		return 5
	case -2:
		return 6
	case -3:
		return 7
	default:
		return 0
	}
}

// Encode renders m as a V2000 record including its terminator.  Charges and
// isotopes are also written as M  CHG / M  ISO properties.
func Encode(m *molecule.Molecule) string {
	var sb strings.Builder
	sb.WriteString(m.Title + "\n")
	sb.WriteString("  drugkit\n")
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(m.Atoms), len(m.Bonds))

	var charged, labelled []int
	for i, a := range m.Atoms {
		fmt.Fprintf(&sb, "%10.4f%10.4f%10.4f %-3s 0%3d  0  0  0  0  0  0  0  0  0  0\n",
			a.X, a.Y, a.Z, a.Element, chargeCode(a.Charge))
		if a.Charge != 0 {
			charged = append(charged, i)
		}
		if a.Isotope != 0 {
			labelled = append(labelled, i)
		}
	}
	for _, b := range m.Bonds {
		fmt.Fprintf(&sb, "%3d%3d%3d  0\n", b.From+1, b.To+1, b.Order)
	}

	writeProperty(&sb, "CHG", charged, func(i int) int { return m.Atoms[i].Charge })
	writeProperty(&sb, "ISO", labelled, func(i int) int { return m.Atoms[i].Isotope })
	sb.WriteString("M  END\n")

	for _, d := range m.Data {
		fmt.Fprintf(&sb, "> <%s>\n%s\n\n", d.Name, d.Value)
	}
	sb.WriteString(RecordTerminator + "\n")
	return sb.String()
}

// writeProperty emits "M  XXX" lines with at most eight entries each.
func writeProperty(sb *strings.Builder, tag string, atoms []int, value func(int) int) {
	for start := 0; start < len(atoms); start += 8 {
		end := start + 8
		if end > len(atoms) {
			end = len(atoms)
		}
		fmt.Fprintf(sb, "M  %s%3d", tag, end-start)
		for _, i := range atoms[start:end] {
			fmt.Fprintf(sb, " %3d %3d", i+1, value(i))
		}
		sb.WriteString("\n")
	}
}

//Personal.AI order the ending
