package harness

// NavResult is the recorded outcome of one scenario navigation.
type NavResult struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Outcome   string `json:"outcome"`
	Redirects int    `json:"redirects"`

	// Error classifies the returned error: "" for none, "hook_fault",
	// "redirect_loop" or "other".
	Error string `json:"error,omitempty"`

	// Fault is the error message when Error is non-empty.
	Fault string `json:"fault,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success: every expect clause and
	// assertion held.
	Pass bool `json:"pass"`

	// Navigations holds one entry per scenario navigation, in order.
	Navigations []NavResult `json:"navigations"`

	// Calls is the flat hook call log in invocation order, in the
	// "hook@Component(from,to)" spelling.
	Calls []string `json:"calls"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Navigations: []NavResult{},
		Calls:       []string{},
		Errors:      []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
