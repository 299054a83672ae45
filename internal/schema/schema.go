// Package schema checks loaded tables against a declarative CUE contract.
//
// The contract lives in table.cue. A table is encoded into a plain document
// (counts, labels, index bounds), unified with #Table and validated for
// concreteness; every violation is reported, not just the first.
package schema

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/irreptables/internal/table"
)

//go:embed table.cue
var schemaSource string

// ErrorCode categorizes schema failures.
type ErrorCode string

const (
	// ErrCodeViolation indicates a table that does not satisfy #Table.
	ErrCodeViolation ErrorCode = "SCHEMA_VIOLATION"

	// ErrCodeInvalidSchema indicates the embedded contract itself does not
	// compile.
	ErrCodeInvalidSchema ErrorCode = "INVALID_SCHEMA"
)

// Violation is one failed constraint.
type Violation struct {
	Path    string `json:"path,omitempty"` // e.g. "irreps.2.label"
	Message string `json:"message"`
}

// SchemaError lists the constraints a table failed.
type SchemaError struct {
	Code       ErrorCode
	Table      string // "SG=<n> <spin|scal>"
	Violations []Violation
}

func (e *SchemaError) Error() string {
	if len(e.Violations) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Table)
	}
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		if v.Path != "" {
			msgs[i] = v.Path + ": " + v.Message
		} else {
			msgs[i] = v.Message
		}
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Table, strings.Join(msgs, "; "))
}

// Checker validates tables against the compiled contract.
//
// A Checker is not safe for concurrent use; cue contexts are not.
type Checker struct {
	ctx *cue.Context
	def cue.Value
}

// NewChecker compiles the embedded contract.
func NewChecker() (*Checker, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaSource, cue.Filename("table.cue"))
	if err := v.Err(); err != nil {
		return nil, &SchemaError{Code: ErrCodeInvalidSchema, Table: "table.cue", Violations: violations(err)}
	}
	def := v.LookupPath(cue.ParsePath("#Table"))
	if !def.Exists() {
		return nil, &SchemaError{Code: ErrCodeInvalidSchema, Table: "table.cue",
			Violations: []Violation{{Message: "#Table is not defined"}}}
	}
	return &Checker{ctx: ctx, def: def}, nil
}

// Check returns nil if t satisfies the contract and a *SchemaError
// otherwise.
func (c *Checker) Check(t *table.Table) error {
	doc := encode(t)
	v := c.ctx.Encode(doc)
	if err := v.Err(); err != nil {
		return err
	}
	unified := c.def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{Code: ErrCodeViolation, Table: describe(t), Violations: violations(err)}
	}
	return nil
}

var (
	defaultMu      sync.Mutex
	defaultChecker *Checker
)

// Check validates t with a shared Checker.
func Check(t *table.Table) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultChecker == nil {
		c, err := NewChecker()
		if err != nil {
			return err
		}
		defaultChecker = c
	}
	return defaultChecker.Check(t)
}

// document is the shape unified with #Table.
type document struct {
	Number     int             `json:"number"`
	Name       string          `json:"name"`
	Spinor     bool            `json:"spinor"`
	Nsym       int             `json:"nsym"`
	Symmetries int             `json:"symmetries"`
	Irreps     []irrepDocument `json:"irreps"`
}

type irrepDocument struct {
	Label      string `json:"label"`
	KPoint     string `json:"kpoint"`
	Dim        int    `json:"dim"`
	Nsym       int    `json:"nsym"`
	Characters int    `json:"characters"`
	MaxIndex   int    `json:"max_index"`
}

func encode(t *table.Table) document {
	doc := document{
		Number:     t.Number,
		Name:       t.Name,
		Spinor:     t.Spinor,
		Nsym:       t.Nsym,
		Symmetries: len(t.Symmetries()),
		Irreps:     []irrepDocument{},
	}
	for _, irr := range t.Irreps() {
		idx := irr.Indices()
		maxIndex := 0
		if len(idx) > 0 {
			maxIndex = slices.Max(idx)
		}
		doc.Irreps = append(doc.Irreps, irrepDocument{
			Label:      irr.Label,
			KPoint:     irr.KPointName,
			Dim:        irr.Dim,
			Nsym:       irr.Nsym,
			Characters: len(idx),
			MaxIndex:   maxIndex,
		})
	}
	return doc
}

func describe(t *table.Table) string {
	return fmt.Sprintf("SG=%d %s", t.Number, t.SpinLabel())
}

// violations flattens a CUE error list, dropping duplicates reported for
// the same path.
func violations(err error) []Violation {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return []Violation{{Message: err.Error()}}
	}
	seen := make(map[string]bool)
	var out []Violation
	for _, e := range errs {
		format, args := e.Msg()
		v := Violation{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		}
		key := v.Path + "\x00" + v.Message
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
