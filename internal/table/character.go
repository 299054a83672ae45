package table

import (
	"math"
	"math/cmplx"
	"slices"
)

// Term is one summand of a character function:
//
//	Coefficient · exp(iπ·(E0 + E1·u + E2·v + E3·w))
type Term struct {
	Coefficient float64
	Exponents   [4]float64
}

// CharacterFunction is a character that may depend on the free parameters
// u, v and w of a k-point lying on a line or plane of the Brillouin zone.
type CharacterFunction struct {
	terms []Term
}

// NewCharacterFunction copies terms into a new function.
func NewCharacterFunction(terms []Term) CharacterFunction {
	return CharacterFunction{terms: slices.Clone(terms)}
}

// Terms returns a copy of the function's terms.
func (f CharacterFunction) Terms() []Term {
	return slices.Clone(f.terms)
}

// Evaluate sums every term at the given parameter values.
func (f CharacterFunction) Evaluate(u, v, w float64) complex128 {
	var sum complex128
	for _, t := range f.terms {
		arg := t.Exponents[0] + t.Exponents[1]*u + t.Exponents[2]*v + t.Exponents[3]*w
		sum += complex(t.Coefficient, 0) * cmplx.Exp(complex(0, math.Pi*arg))
	}
	return sum
}

// DependsOnParameters reports whether any term has a non-zero u, v or w
// exponent.
func (f CharacterFunction) DependsOnParameters() bool {
	for _, t := range f.terms {
		if t.Exponents[1] != 0 || t.Exponents[2] != 0 || t.Exponents[3] != 0 {
			return true
		}
	}
	return false
}

// Character is the trace of an irrep matrix for one operation. It is either
// a constant or a CharacterFunction of u, v, w.
type Character struct {
	value complex128
	fn    *CharacterFunction
}

// ConstantCharacter wraps a fixed value.
func ConstantCharacter(c complex128) Character {
	return Character{value: c}
}

// ParameterizedCharacter wraps a character function.
func ParameterizedCharacter(f CharacterFunction) Character {
	return Character{fn: &f}
}

// IsParameterized reports whether the character is kept as a function.
func (c Character) IsParameterized() bool {
	return c.fn != nil
}

// Function returns the underlying function of a parameterized character.
func (c Character) Function() (CharacterFunction, bool) {
	if c.fn == nil {
		return CharacterFunction{}, false
	}
	return *c.fn, true
}

// Evaluate returns the character at (u, v, w). Constants ignore the
// parameters.
func (c Character) Evaluate(u, v, w float64) complex128 {
	if c.fn == nil {
		return c.value
	}
	return c.fn.Evaluate(u, v, w)
}

// Value returns the constant value, or a parameterized character evaluated
// at u = v = w = 0.
func (c Character) Value() complex128 {
	return c.Evaluate(0, 0, 0)
}

// reduce collapses a parameterized character to its value at the origin.
func (c Character) reduce() Character {
	if c.fn == nil {
		return c
	}
	return ConstantCharacter(c.fn.Evaluate(0, 0, 0))
}
