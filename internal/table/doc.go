// Package table reads and writes tables of irreducible representations of
// the little groups of maximal k-points of a space group.
//
// Two encodings are supported. The legacy encoding is the machine-generated
// one (TabIrrepLittle_<N>.txt): it lists every operation together with its
// time-reversal partner, stores complex numbers as interleaved magnitude and
// phase tokens and may express characters as functions of the free
// parameters u, v, w. The user encoding (irreps-SG=<N>-<spin|scal>.dat) is
// the reduced form written by Table.WriteTo and read by ReadUser.
//
// A Table is built once by one of the two readers and is read-only after
// that. Both readers are small state machines over a LineCursor:
//
//	ReadHeader → ReadSymmetries → [ReadSeparator] → ScanRecords → Done
//
// Structural problems are reported as *TableError values with an ErrorCode;
// numeric failures are wrapped *numeric.ParseError values.
package table
