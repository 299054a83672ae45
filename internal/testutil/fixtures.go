package testutil

// Spinor matrices as [4]{mag, phase} in row-major order.
var (
	spinorIdentity = [4][2]float64{{1, 0}, {0, 0}, {0, 0}, {1, 0}}
	spinorMinusOne = [4][2]float64{{1, 1}, {0, 0}, {0, 0}, {1, 1}}
	spinorC2z      = [4][2]float64{{1, -0.5}, {0, 0}, {0, 0}, {1, 0.5}}
	spinorC2zBar   = [4][2]float64{{1, 0.5}, {0, 0}, {0, 0}, {1, -0.5}}
)

var (
	rotIdentity = [9]int{1, 0, 0, 0, 1, 0, 0, 0, 1}
	rotC2z      = [9]int{-1, 0, 0, 0, -1, 0, 0, 0, 1}
)

// IdentityOp is the machine line of the identity operation.
func IdentityOp() string {
	return MachineOp(rotIdentity, [3]float64{}, spinorIdentity)
}

// SampleLegacy is a small legacy table with four operations: E, a screw
// C2z with translation (0, 0, 1/2), and their time-reversal partners. After
// loading it has Nsym == 2.
//
// Scalar irreps: GM1, GM2 at Γ, the complex Z1 at Z, DT1 at a reserved
// coordinate, the w-dependent LD1 and X1 whose little group is {1}.
// Spinor irreps: -GM5 (dimension 2) and -Z3.
func SampleLegacy() LegacyTable {
	return LegacyTable{
		Name: "P4_2",
		Ops: []string{
			IdentityOp(),
			MachineOp(rotC2z, [3]float64{0, 0, 0.5}, spinorC2z),
			MachineOp(rotIdentity, [3]float64{}, spinorMinusOne),
			MachineOp(rotC2z, [3]float64{0, 0, 0.5}, spinorC2zBar),
		},
		NK: 5,
		Records: []LegacyIrrep{
			{K: [3]float64{0, 0, 0}, Label: "GM1", Dim: 1, KPoint: "GM", Real: true, Slots: Reals(1, 1, 1, 1)},
			{K: [3]float64{0, 0, 0}, Label: "GM2", Dim: 1, KPoint: "GM", Real: true, Slots: Reals(1, -1, 1, -1)},
			{
				K: [3]float64{0, 0, 0}, Label: "-GM5", Dim: 2, KPoint: "GM",
				Slots: []LegacySlot{
					Diagonal(Constant(1, 0), Constant(1, 0)),
					Diagonal(Constant(1, -0.5), Constant(1, 0.5)),
					Diagonal(Constant(1, 1), Constant(1, 1)),
					Diagonal(Constant(1, 0.5), Constant(1, -0.5)),
				},
			},
			{
				K: [3]float64{0, 0, 0.5}, Label: "Z1", Dim: 1, KPoint: "Z",
				Slots: []LegacySlot{
					Diagonal(Constant(1, 0)),
					Diagonal(Constant(1, 0.5)),
					Diagonal(Constant(1, 0)),
					Diagonal(Constant(1, 0.5)),
				},
			},
			{
				K: [3]float64{0, 0, 0.5}, Label: "-Z3", Dim: 1, KPoint: "Z",
				Slots: []LegacySlot{
					Diagonal(Constant(1, 0)),
					Diagonal(Constant(1, -0.5)),
					Diagonal(Constant(1, 1)),
					Diagonal(Constant(1, 0.5)),
				},
			},
			{K: [3]float64{0, 0, 0.123}, Label: "DT1", Dim: 1, KPoint: "DT", Real: true, Slots: Reals(1, 1, 1, 1)},
			{
				K: [3]float64{0, 0, 0.25}, Label: "LD1", Dim: 1, KPoint: "LD", Real: true,
				Slots: []LegacySlot{
					Diagonal(Constant(1, 0)),
					Diagonal(Param(1, 0, 0, 0, 1)),
					Diagonal(Constant(1, 0)),
					Diagonal(Param(1, 0, 0, 0, 1)),
				},
			},
			{
				K: [3]float64{0.5, 0, 0}, Label: "X1", Dim: 1, KPoint: "X", Real: true,
				Slots: []LegacySlot{Diagonal(Constant(1, 0)), Absent(), Diagonal(Constant(1, 0)), Absent()},
			},
		},
	}
}

// MinimalLegacy is the smallest readable legacy table: a header "4 Fm-3m",
// four identity operations, one Γ irrep with characters 1 on every slot.
func MinimalLegacy() LegacyTable {
	return LegacyTable{
		Name: "Fm-3m",
		Ops:  []string{IdentityOp(), IdentityOp(), IdentityOp(), IdentityOp()},
		NK:   1,
		Records: []LegacyIrrep{
			{Label: "GM1", Dim: 1, KPoint: "GM", Real: true, Slots: Reals(1, 1, 1, 1)},
		},
	}
}

// SampleUserScalar is the user serialization of the scalar half of
// SampleLegacy, as written for space group 77.
const SampleUserScalar = "SG=77\n" +
	" name=P4_2 \n" +
	" nsym= 2\n" +
	" spinor=False\n" +
	"symmetries=\n" +
	"1 0 0   0 1 0   0 0 1     0 0 0\n" +
	"-1 0 0   0 -1 0   0 0 1     0 0 0.5\n" +
	"\n" +
	"\n kpoint  GM : 0 0 0  : 1 2\n" +
	"GM1 1    1  1\n" +
	"GM2 1    1  -1\n" +
	"\n kpoint  Z : 0 0 0.5  : 1 2\n" +
	"Z1 1    1  1   0  0.5\n" +
	"\n kpoint  X : 0.5 0 0  : 1\n" +
	"X1 1    1\n"

// SampleUserSpinor is a hand-written spinor table with spinor matrices in
// the operation lines, a comment line inside the symmetry block and a
// stray line between records.
const SampleUserSpinor = `SG=77
name=P4_2
nsym=2
spinor=True
symmetries=
1 0 0   0 1 0   0 0 1     0 0 0      1  0  0  1    0  0  0  0
# screw axis
-1 0 0   0 -1 0   0 0 1     0 0 0.5      1  0  0  1    -0.5  0  0  0.5

 kpoint  GM : 0 0 0  : 1 2
-GM5 2    2  0
this line is not an irrep

 kpoint  Z : 0 0 0.5  : 1 2
-Z3 1    1  1   0  -0.5
`
