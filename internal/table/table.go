package table

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
)

// Table holds the symmetry operations of a space group and the irreps of
// the little groups of its maximal k-points.
//
// A Table is read-only once constructed by ReadUser or ReadLegacy.
type Table struct {
	Number int    // space-group number, 1..230
	Spinor bool   // double-group irreps instead of scalar ones
	Name   string // Hermann-Mauguin symbol
	Nsym   int    // number of operations in Symmetries
	NK     int    // k-point count declared by a legacy table, 0 otherwise

	symmetries []SymmetryOperation
	irreps     []Irrep
}

// Option configures table reading.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger routes diagnostics about skipped lines and scan termination to
// logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Symmetries returns a copy of the symmetry operations in table order.
func (t *Table) Symmetries() []SymmetryOperation {
	return slices.Clone(t.symmetries)
}

// Irreps returns a copy of the irreps in table order.
func (t *Table) Irreps() []Irrep {
	return slices.Clone(t.irreps)
}

// IrrepsAt returns the irreps attached to the named k-point, in table order.
func (t *Table) IrrepsAt(kpname string) []Irrep {
	var out []Irrep
	for _, irr := range t.irreps {
		if irr.KPointName == kpname {
			out = append(out, irr)
		}
	}
	return out
}

// KPoints returns one k-point per distinct name, in order of first
// appearance. The first irrep seen for a name defines its coordinates and
// little group.
func (t *Table) KPoints() []KPoint {
	seen := make(map[string]bool)
	var out []KPoint
	for _, irr := range t.irreps {
		if seen[irr.KPointName] {
			continue
		}
		seen[irr.KPointName] = true
		out = append(out, irr.KPoint())
	}
	return out
}

// Labels returns the irrep labels in table order.
func (t *Table) Labels() []string {
	out := make([]string, len(t.irreps))
	for i, irr := range t.irreps {
		out[i] = irr.Label
	}
	return out
}

// SpinLabel is "spin" for double-group tables and "scal" otherwise.
func (t *Table) SpinLabel() string {
	return SpinLabel(t.Spinor)
}

// SpinLabel returns the file-name tag for a spinor flag.
func SpinLabel(spinor bool) string {
	if spinor {
		return "spin"
	}
	return "scal"
}

// SavedKPoints returns the k-points that WriteTo emits: one per name, taken
// from irreps that do not depend on u, v, w, skipping names that have any
// parameterized irrep and points with a reserved coordinate. Two irreps
// that disagree on the k-point behind a shared name are reported as
// ErrCodeInconsistentKPoint.
func (t *Table) SavedKPoints() ([]KPoint, error) {
	parameterized := make(map[string]bool)
	for _, irr := range t.irreps {
		if irr.HasUVW {
			parameterized[irr.KPointName] = true
		}
	}

	index := make(map[string]int)
	var out []KPoint
	for _, irr := range t.irreps {
		if parameterized[irr.KPointName] {
			continue
		}
		kp := irr.KPoint()
		if kp.HasReservedCoordinate() {
			continue
		}
		if i, ok := index[kp.Name]; ok {
			if !out[i].Equal(kp) {
				return nil, newError(ErrCodeInconsistentKPoint,
					"k-point %s: irrep %s disagrees with %s", kp.Name, irr.Label, out[i].Format())
			}
			continue
		}
		index[kp.Name] = len(out)
		out = append(out, kp)
	}
	return out, nil
}

// WriteTo serializes the table in the user encoding. Irreps that depend on
// u, v, w and k-points with reserved coordinates are not written; see
// SavedKPoints.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	kpoints, err := t.SavedKPoints()
	if err != nil {
		return 0, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SG=%d\n name=%s \n nsym= %d\n spinor=%s\n", t.Number, t.Name, t.Nsym, formatBool(t.Spinor))
	sb.WriteString("symmetries=\n")
	for _, op := range t.symmetries {
		sb.WriteString(op.Format(t.Spinor))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	for _, kp := range kpoints {
		sb.WriteString("\n kpoint  ")
		sb.WriteString(kp.Format())
		sb.WriteString("\n")
		for _, irr := range t.irreps {
			if irr.KPointName == kp.Name && !irr.HasUVW {
				sb.WriteString(irr.Format())
				sb.WriteString("\n")
			}
		}
	}

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// String returns the serialized table, or an empty string if it cannot be
// serialized. Callers that must tell the two apart use WriteTo.
func (t *Table) String() string {
	var sb strings.Builder
	if _, err := t.WriteTo(&sb); err != nil {
		return ""
	}
	return sb.String()
}

// Summary describes every operation and, per irrep, its k-point, label,
// dimension and reality, one per line. Unlike WriteTo nothing is filtered.
func (t *Table) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SG %d %s (%s), %d operations, %d irreps\n", t.Number, t.Name, t.SpinLabel(), t.Nsym, len(t.irreps))
	for i, op := range t.symmetries {
		fmt.Fprintf(&sb, "%3d  %s\n", i+1, op.Format(true))
	}
	for _, irr := range t.irreps {
		fmt.Fprintf(&sb, "%s %s %d %t\n", irr.KPointName, irr.Label, irr.Dim, irr.Reality)
	}
	return sb.String()
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
