package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/waygate/waygate/internal/route"
)

// Scenario defines a conformance test scenario: a route tree, scripted
// component behavior, and a sequence of navigations with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario. Also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Routes declares the navigation tree.
	Routes []RouteNode `yaml:"routes"`

	// MaxRedirects overrides the sequencer's redirect chain limit.
	// Zero means the default.
	MaxRedirects int `yaml:"max_redirects,omitempty"`

	// Occupied seeds nodes with live instances before the first
	// navigation. Node is a label path like "/crises/:id".
	Occupied []NodeBehavior `yaml:"occupied,omitempty"`

	// Components scripts the behavior of factory-created instances, by
	// node label path. Nodes without an entry get an instance with no
	// capabilities.
	Components []NodeBehavior `yaml:"components,omitempty"`

	// Navigations is the sequence of attempts to run, in order.
	Navigations []NavStep `yaml:"navigations"`

	// Assertions validate hook calls and final tree state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// RouteNode is one node of the YAML route tree.
type RouteNode struct {
	Path      string      `yaml:"path"`
	Component string      `yaml:"component"`
	Children  []RouteNode `yaml:"children,omitempty"`
}

// NodeBehavior binds a scripted behavior to a node label path.
type NodeBehavior struct {
	Node     string   `yaml:"node"`
	Behavior Behavior `yaml:",inline"`
}

// Behavior scripts the capability subset of a component instance. An empty
// field means the capability is absent.
//
// Guard values: "allow", "deny", "redirect:<path>", "fault:<message>".
// Lifecycle values: "ok", "fault:<message>".
type Behavior struct {
	CanNavigate   string `yaml:"can_navigate,omitempty"`
	CanDeactivate string `yaml:"can_deactivate,omitempty"`
	CanReuse      *bool  `yaml:"can_reuse,omitempty"`
	OnActivate    string `yaml:"on_activate,omitempty"`
	OnDeactivate  string `yaml:"on_deactivate,omitempty"`
}

// NavStep is one navigation attempt.
type NavStep struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`

	// Affected lists node label paths root-first. Empty means the chain
	// of nodes along To.
	Affected []string `yaml:"affected,omitempty"`

	// Expect validates the outcome. Nil means no validation.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected navigation result.
type ExpectClause struct {
	// Outcome is "proceed", "cancelled" or "redirect".
	Outcome string `yaml:"outcome"`

	// Error classifies the expected error: "none", "hook_fault" or
	// "redirect_loop". Empty means the error is not checked.
	Error string `yaml:"error,omitempty"`

	// Target is the expected redirect target (outcome "redirect" only).
	Target string `yaml:"target,omitempty"`
}

// Assertion validates hook calls or final tree state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Calls is the expected hook call order (call_order). Entries use the
	// "hook@Component" spelling, e.g. "on_activate@CrisisDetail".
	Calls []string `yaml:"calls,omitempty"`

	// Hook is the hook name (call_count).
	Hook string `yaml:"hook,omitempty"`

	// Count is the expected number of calls (call_count).
	Count int `yaml:"count,omitempty"`

	// Node is a node label path (occupied).
	Node string `yaml:"node,omitempty"`

	// Occupied is the expected occupancy (occupied).
	Occupied bool `yaml:"occupied,omitempty"`
}

// Assertion type constants.
const (
	AssertCallOrder = "call_order"
	AssertCallCount = "call_count"
	AssertOccupied  = "occupied"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Routes) == 0 {
		return fmt.Errorf("routes list is required and must be non-empty")
	}

	if len(s.Navigations) == 0 {
		return fmt.Errorf("navigations list is required and must be non-empty")
	}

	for i, nav := range s.Navigations {
		if nav.From == "" || nav.To == "" {
			return fmt.Errorf("navigation %d: from and to are required", i)
		}
		if nav.Expect != nil {
			switch nav.Expect.Outcome {
			case "proceed", "cancelled", "redirect":
			default:
				return fmt.Errorf("navigation %d: unknown expected outcome %q", i, nav.Expect.Outcome)
			}
			switch nav.Expect.Error {
			case "", "none", "hook_fault", "redirect_loop":
			default:
				return fmt.Errorf("navigation %d: unknown expected error %q", i, nav.Expect.Error)
			}
		}
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertCallOrder:
			if len(a.Calls) == 0 {
				return fmt.Errorf("assertion %d: call_order requires calls", i)
			}
		case AssertCallCount:
			if a.Hook == "" {
				return fmt.Errorf("assertion %d: call_count requires hook", i)
			}
		case AssertOccupied:
			if a.Node == "" {
				return fmt.Errorf("assertion %d: occupied requires node", i)
			}
		default:
			return fmt.Errorf("assertion %d: unknown type %q", i, a.Type)
		}
	}

	return nil
}

// buildSpec converts the YAML route tree to a route.Spec and validates it.
func buildSpec(routes []RouteNode) (*route.Spec, error) {
	spec := &route.Spec{Roots: convertRouteNodes(routes)}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid routes: %w", err)
	}
	return spec, nil
}

func convertRouteNodes(nodes []RouteNode) []*route.NodeSpec {
	out := make([]*route.NodeSpec, len(nodes))
	for i, n := range nodes {
		out[i] = &route.NodeSpec{
			Path:      n.Path,
			Component: n.Component,
			Children:  convertRouteNodes(n.Children),
		}
	}
	return out
}
