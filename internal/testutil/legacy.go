package testutil

import (
	"fmt"
	"strconv"
	"strings"
)

// LegacyTable builds the text of a table in the legacy machine encoding.
type LegacyTable struct {
	Name    string
	Ops     []string // machine-encoded operation lines, see MachineOp
	NK      int
	Records []LegacyIrrep
	Trailer string // appended verbatim after the last record

	// Separator is the line written after every record, blank by default.
	Separator string
}

// LegacyIrrep is one irrep record. Slots must have one entry per operation
// of the table.
type LegacyIrrep struct {
	K      [3]float64
	Label  string
	Dim    int
	KPoint string
	Real   bool
	Slots  []LegacySlot

	// NsymField overrides the nsym header field, which defaults to the
	// number of present slots.
	NsymField int
}

// LegacySlot is the data of one operation slot: absent, or dim×dim
// matrix entries in row-major order.
type LegacySlot struct {
	Present bool
	Entries []LegacyEntry
}

// LegacyEntry is one matrix element: its kind flag and coefficients.
type LegacyEntry struct {
	Parameterized bool
	Coefficients  []float64
}

// Absent is a slot for an operation outside the little group.
func Absent() LegacySlot {
	return LegacySlot{}
}

// Constant is a u, v, w independent entry mag·exp(iπ·phase).
func Constant(mag, phase float64) LegacyEntry {
	return LegacyEntry{Coefficients: []float64{mag, phase, 0, 0, 0}}
}

// Param is an entry flagged as depending on u, v, w with the given
// coefficient and exponents (constant, u, v, w).
func Param(coef float64, exponents ...float64) LegacyEntry {
	return LegacyEntry{Parameterized: true, Coefficients: append([]float64{coef}, exponents...)}
}

// Diagonal is a present slot whose diagonal holds entries and whose
// off-diagonal elements are zero constants.
func Diagonal(entries ...LegacyEntry) LegacySlot {
	dim := len(entries)
	slot := LegacySlot{Present: true}
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if i == j {
				slot.Entries = append(slot.Entries, entries[i])
			} else {
				slot.Entries = append(slot.Entries, Constant(0, 0))
			}
		}
	}
	return slot
}

// Reals is a present 1×1 slot list with real characters, one per value.
func Reals(values ...float64) []LegacySlot {
	slots := make([]LegacySlot, len(values))
	for i, v := range values {
		phase := 0.0
		mag := v
		if v < 0 {
			mag, phase = -v, 1
		}
		slots[i] = Diagonal(Constant(mag, phase))
	}
	return slots
}

// MachineOp renders an operation line with interleaved spinor
// magnitude/phase pairs.
func MachineOp(rotation [9]int, translation [3]float64, spinor [4][2]float64) string {
	parts := make([]string, 0, 20)
	for _, r := range rotation {
		parts = append(parts, strconv.Itoa(r))
	}
	for _, t := range translation {
		parts = append(parts, formatFloat(t))
	}
	for _, mp := range spinor {
		parts = append(parts, formatFloat(mp[0]), formatFloat(mp[1]))
	}
	return strings.Join(parts, " ")
}

// String renders the legacy table.
func (t LegacyTable) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %s\n", len(t.Ops), t.Name)
	for _, op := range t.Ops {
		sb.WriteString(op)
		sb.WriteString("\n")
	}
	sb.WriteString("#\n")
	fmt.Fprintf(&sb, "%d\n", t.NK)
	for _, rec := range t.Records {
		sb.WriteString(rec.String())
		sb.WriteString(t.Separator)
		sb.WriteString("\n")
	}
	sb.WriteString(t.Trailer)
	return sb.String()
}

// String renders the irrep record, without the separating blank line.
func (r LegacyIrrep) String() string {
	nsym := r.NsymField
	if nsym == 0 {
		for _, s := range r.Slots {
			if s.Present {
				nsym++
			}
		}
	}
	reality := 0
	if r.Real {
		reality = 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s 0 %s %d %d %s %d\n",
		formatFloat(r.K[0]), formatFloat(r.K[1]), formatFloat(r.K[2]),
		r.Label, r.Dim, nsym, r.KPoint, reality)
	for i, s := range r.Slots {
		present := 0
		if s.Present {
			present = 1
		}
		fmt.Fprintf(&sb, "%d %d\n", i+1, present)
		for _, e := range s.Entries {
			if e.Parameterized {
				sb.WriteString("2\n")
			} else {
				sb.WriteString("1\n")
			}
			coeffs := make([]string, len(e.Coefficients))
			for k, c := range e.Coefficients {
				coeffs[k] = formatFloat(c)
			}
			sb.WriteString(strings.Join(coeffs, " "))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
