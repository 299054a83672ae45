// Package harness provides a conformance testing framework for irrep tables.
//
// A scenario is a YAML file that names a table, the space group and spinor
// flag it is read as, its encoding, and a list of assertions:
//
//	name: sg77_legacy_scalar
//	description: "Legacy table for P4_2 read as scalar irreps"
//	table: tables/TabIrrepLittle_77.txt
//	number: 77
//	legacy: true
//	assertions:
//	  - type: labels
//	    labels: [GM1, GM2, Z1, DT1, LD1, X1]
//	  - type: character
//	    irrep: Z1
//	    isym: 2
//	    value: [0, 1]
//	  - type: roundtrip
//
// Scenario files are decoded strictly: unknown fields are errors. Table
// paths are relative to the scenario file.
//
// Run loads the table, evaluates each assertion and reports failures in a
// Result. A scenario with an "error" assertion passes only if loading fails
// with the named code. RunWithGolden additionally compares the serialized
// table against testdata/golden/<name>.golden.
//
// Each run gets a fresh in-memory catalog, used by the "catalog" assertion
// to store and fetch the table back.
package harness
