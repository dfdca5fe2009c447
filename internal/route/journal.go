package route

// Hook names as recorded in the journal.
const (
	HookCanNavigate   = "can_navigate"
	HookCanDeactivate = "can_deactivate"
	HookCanReuse      = "can_reuse"
	HookOnActivate    = "on_activate"
	HookOnDeactivate  = "on_deactivate"
)

// Sequencer phases as recorded in the journal.
const (
	PhaseDeactivationPermission = "deactivation_permission"
	PhaseReuse                  = "reuse"
	PhaseDeactivation           = "deactivation"
	PhaseActivation             = "activation"
)

// Hook decisions as recorded in the journal.
const (
	DecisionAllow    = "allow"
	DecisionDeny     = "deny"
	DecisionRedirect = "redirect"
	DecisionReuse    = "reuse"
	DecisionNoReuse  = "no_reuse"
	DecisionOK       = "ok"
	DecisionFault    = "fault"
)

// Attempt is the journal record for one navigation attempt. Each hop of a
// redirect chain is its own attempt; hops correlate via NavToken.
type Attempt struct {
	ID         string `json:"id"` // Content-addressed (CP-1)
	NavToken   string `json:"nav_token"`
	From       State  `json:"from"`
	To         State  `json:"to"`
	Outcome    string `json:"outcome"`               // "proceed", "cancelled", "redirect", "error"
	RedirectTo string `json:"redirect_to,omitempty"` // target path when Outcome == "redirect"
	Fault      string `json:"fault,omitempty"`       // hook fault text when one surfaced
	Seq        int64  `json:"seq"`                   // Logical clock
}

// HookCall is the journal record for one hook invocation within an attempt.
type HookCall struct {
	ID        string `json:"id"` // Content-addressed (CP-1)
	AttemptID string `json:"attempt_id"`
	NodePath  string `json:"node_path"` // label path, e.g. "/crises/:id"
	Component string `json:"component"`
	Hook      string `json:"hook"`
	Phase     string `json:"phase"`
	Decision  string `json:"decision"`
	Detail    string `json:"detail,omitempty"` // redirect target or fault message
	Seq       int64  `json:"seq"`
}
