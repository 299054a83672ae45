package table

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/irreptables/internal/numeric"
)

// loadState is a step of the table readers.
type loadState int

const (
	stateReadHeader loadState = iota
	stateReadSymmetries
	stateReadSeparator
	stateScanRecords
	stateDone
)

// LegacyFileName is the file name of the legacy table of a space group.
func LegacyFileName(number int) string {
	return "TabIrrepLittle_" + strconv.Itoa(number) + ".txt"
}

// ReadLegacy reads a table in the legacy machine-generated encoding:
//
//	<nsym_group> <name>
//	<nsym_group symmetry lines>
//	#
//	<NK>
//	<irrep records until the end of input>
//
// Irreps are filtered on the spinor marker according to spinor. The legacy
// operation list pairs every operation with its time-reversal partner, so
// only the first half of the operations is kept and Nsym is nsym_group/2.
//
// Running out of records, or a trailing record that is incomplete, ends the
// scan normally.
func ReadLegacy(r io.Reader, number int, spinor bool, opts ...Option) (*Table, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return readLegacy(NewLineCursor(lines), number, spinor, buildOptions(opts))
}

func readLegacy(c *LineCursor, number int, spinor bool, o options) (*Table, error) {
	t := &Table{Number: number, Spinor: spinor}
	var nsymGroup int
	var all []Irrep

	for state := stateReadHeader; state != stateDone; {
		switch state {
		case stateReadHeader:
			line, ok := c.Next()
			if !ok {
				return nil, newError(ErrCodeInconsistentHeader, "empty legacy table")
			}
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return nil, &TableError{
					Code:    ErrCodeInconsistentHeader,
					Message: "legacy header must be \"<nsym> <name>\"",
					Line:    c.Line(),
				}
			}
			n, err := numeric.ParseInt(fields[0], "nsym")
			if err != nil {
				return nil, &TableError{Code: ErrCodeInconsistentHeader, Message: "legacy header", Line: c.Line(), Err: err}
			}
			if n < 1 {
				return nil, &TableError{Code: ErrCodeInconsistentHeader, Message: "legacy header: nsym must be positive", Line: c.Line()}
			}
			nsymGroup = n
			t.Name = fields[1]
			state = stateReadSymmetries

		case stateReadSymmetries:
			t.symmetries = make([]SymmetryOperation, 0, nsymGroup)
			for i := 0; i < nsymGroup; i++ {
				line, ok := c.Next()
				if !ok {
					return nil, newError(ErrCodeTruncatedSymmetries, "input ended after %d of %d operations", i, nsymGroup)
				}
				op, err := ParseMachineSymmetry(line)
				if err != nil {
					return nil, atLine(err, c.Line())
				}
				t.symmetries = append(t.symmetries, op)
			}
			state = stateReadSeparator

		case stateReadSeparator:
			line, ok := c.Next()
			if !ok || strings.TrimSpace(line) != "#" {
				return nil, &TableError{
					Code:    ErrCodeUnexpectedSeparator,
					Message: "expected \"#\" after the symmetry block",
					Line:    c.Line(),
				}
			}
			line, ok = c.Next()
			if !ok {
				return nil, newError(ErrCodeInconsistentHeader, "missing k-point count after \"#\"")
			}
			nk, err := parseKPointCount(line)
			if err != nil {
				return nil, &TableError{Code: ErrCodeInconsistentHeader, Message: "k-point count", Line: c.Line(), Err: err}
			}
			t.NK = nk
			state = stateScanRecords

		case stateScanRecords:
			irr, err := ReadMachineIrrep(c, nsymGroup)
			if errors.Is(err, ErrEndOfRecords) {
				o.logger.Debug("legacy scan finished", "irreps", len(all), "reason", err.Error())
				state = stateDone
				continue
			}
			if err != nil {
				return nil, err
			}
			o.logger.Debug("irrep read", "label", irr.Label, "kpoint", irr.KPointName, "dim", irr.Dim)
			all = append(all, irr)
		}
	}

	for _, irr := range all {
		if irr.IsSpinor() == spinor {
			t.irreps = append(t.irreps, irr)
		}
	}
	t.Nsym = nsymGroup / 2
	t.symmetries = t.symmetries[:t.Nsym]
	return t, nil
}

// parseKPointCount accepts "<n>" and "NK=<n>".
func parseKPointCount(line string) (int, error) {
	s := strings.TrimSpace(line)
	if key, value, ok := strings.Cut(s, "="); ok && strings.EqualFold(strings.TrimSpace(key), "NK") {
		s = strings.TrimSpace(value)
	}
	return numeric.ParseInt(s, "NK")
}
