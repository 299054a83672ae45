package table

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/irreptables/internal/numeric"
)

// FileName is the file name of the user table of a space group.
func FileName(number int, spinor bool) string {
	return fmt.Sprintf("irreps-SG=%d-%s.dat", number, SpinLabel(spinor))
}

// ReadUser reads a table in the user encoding produced by WriteTo:
//
//	SG=<number>
//	name=<symbol>
//	nsym=<n>
//	spinor=<bool>
//	symmetries=
//	<n symmetry lines>
//	kpoint <name> : <k> : <isym>
//	<irrep lines>
//	...
//
// SG and spinor must agree with the requested number and spinor flag.
// Inside the symmetry block, lines that are not operations are skipped.
// While scanning records, lines that are neither a k-point nor an irrep of
// the current k-point are skipped. A line carrying the "kpoint" marker
// that does not parse is an error.
func ReadUser(r io.Reader, number int, spinor bool, opts ...Option) (*Table, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return readUser(NewLineCursor(lines), number, spinor, buildOptions(opts))
}

func readUser(c *LineCursor, number int, spinor bool, o options) (*Table, error) {
	t := &Table{Number: number, Spinor: spinor}
	nsymSeen := false
	var current *KPoint

	for state := stateReadHeader; state != stateDone; {
		switch state {
		case stateReadHeader:
			line, ok := c.Next()
			if !ok {
				return nil, newError(ErrCodeInconsistentHeader, "missing \"symmetries=\" marker")
			}
			next, err := t.applyHeaderField(line, c.Line(), &nsymSeen)
			if err != nil {
				return nil, err
			}
			state = next

		case stateReadSymmetries:
			t.symmetries = make([]SymmetryOperation, 0, t.Nsym)
			for len(t.symmetries) < t.Nsym {
				line, ok := c.Next()
				if !ok {
					return nil, newError(ErrCodeTruncatedSymmetries,
						"input ended after %d of %d operations", len(t.symmetries), t.Nsym)
				}
				op, err := ParseUserSymmetry(line)
				if err != nil {
					if strings.TrimSpace(line) != "" {
						o.logger.Debug("skipping line in symmetry block", "line", c.Line(), "error", err)
					}
					continue
				}
				t.symmetries = append(t.symmetries, op)
			}
			state = stateScanRecords

		case stateScanRecords:
			line, ok := c.Next()
			if !ok {
				state = stateDone
				continue
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			kp, err := ParseKPoint(text)
			if err == nil {
				if err := kp.checkRange(t.Nsym); err != nil {
					return nil, atLine(err, c.Line())
				}
				o.logger.Debug("k-point read", "name", kp.Name, "line", c.Line())
				current = &kp
				continue
			}
			if hasKPointMarker(text) {
				return nil, atLine(err, c.Line())
			}
			if current == nil {
				o.logger.Debug("skipping line before first k-point", "line", c.Line())
				continue
			}
			irr, err := ParseUserIrrep(text, *current)
			if err != nil {
				o.logger.Debug("skipping unreadable irrep line", "line", c.Line(), "kpoint", current.Name, "error", err)
				continue
			}
			t.irreps = append(t.irreps, irr)
		}
	}
	return t, nil
}

// applyHeaderField applies one "key=value" header line and returns the
// next reader state.
func (t *Table) applyHeaderField(line string, lineNo int, nsymSeen *bool) (loadState, error) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return stateReadHeader, nil
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	headerErr := func(format string, args ...any) error {
		return &TableError{Code: ErrCodeInconsistentHeader, Message: fmt.Sprintf(format, args...), Line: lineNo}
	}

	switch key {
	case "sg":
		n, err := numeric.ParseInt(value, "SG")
		if err != nil {
			return 0, &TableError{Code: ErrCodeInconsistentHeader, Message: "SG", Line: lineNo, Err: err}
		}
		if n != t.Number {
			return 0, headerErr("table is for space group %d, requested %d", n, t.Number)
		}
	case "name":
		t.Name = value
	case "nsym":
		n, err := numeric.ParseInt(value, "nsym")
		if err != nil {
			return 0, &TableError{Code: ErrCodeInconsistentHeader, Message: "nsym", Line: lineNo, Err: err}
		}
		if n < 1 {
			return 0, headerErr("nsym must be positive, got %d", n)
		}
		t.Nsym = n
		*nsymSeen = true
	case "spinor":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return 0, headerErr("spinor must be a boolean, got %q", value)
		}
		if b != t.Spinor {
			return 0, headerErr("table has spinor=%t, requested spinor=%t", b, t.Spinor)
		}
	case "symmetries":
		if !*nsymSeen {
			return 0, headerErr("nsym must precede the symmetry block")
		}
		return stateReadSymmetries, nil
	}
	return stateReadHeader, nil
}
