// Package numeric implements the number conventions of the irrep table
// formats.
//
// Real numbers are written in plain decimal notation with a fixed number
// of fractional digits. Complex numbers never appear as a single token:
// they are split into a magnitude and a phase expressed in units of π, so
// that 1 is written as "1 0", -1 as "1 1" and i as "1 0.5".
package numeric
