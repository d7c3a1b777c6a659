package harness

// InferredType is the outcome of one scenario query.
type InferredType struct {
	Query string `json:"query"`
	Type  string `json:"type"`
	Hash  string `json:"hash"`

	// Seq is the cache row that holds the result.
	Seq int64 `json:"seq"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every assertion holds.
	Pass bool `json:"pass"`

	// Types holds one entry per query, in scenario order.
	Types []InferredType `json:"types"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Warnings holds schema diagnostics that do not fail the scenario.
	Warnings []string `json:"warnings,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Types:  []InferredType{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Type returns the inferred type recorded for a query.
func (r *Result) Type(query string) (InferredType, bool) {
	for _, it := range r.Types {
		if it.Query == query {
			return it, true
		}
	}
	return InferredType{}, false
}
