package harness

import "github.com/roach88/irreptables/internal/table"

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Text is the user-format serialization of the loaded table.
	// Empty when loading failed or the table cannot be saved.
	Text string `json:"text,omitempty"`

	// LoadError is the error code loading produced, if any.
	LoadError string `json:"load_error,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Table is the loaded table, nil when loading failed.
	Table *table.Table `json:"-"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Snapshot is the text compared against a scenario's golden file: the
// serialized table, or the load error code when loading failed.
func (r *Result) Snapshot() []byte {
	if r.LoadError != "" {
		return []byte("error: " + r.LoadError + "\n")
	}
	return []byte(r.Text)
}
