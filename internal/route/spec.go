package route

import (
	"fmt"
	"strings"
)

// Spec is the static route configuration tree: which positions exist and
// which component type attaches to each. It is resolved before navigation
// begins and treated as read-only input by the sequencer.
//
// Specs come from the routecfg compiler (CUE files) or are built directly
// in tests.
type Spec struct {
	Roots []*NodeSpec `json:"roots"`
}

// NodeSpec is one position in the configuration tree.
type NodeSpec struct {
	// Path is the segment label for this position: a static segment
	// ("crises") or a parameter (":id").
	Path string `json:"path"`

	// Component names the component type constructed at this position.
	// The name is opaque to the sequencer; the component factory resolves it.
	Component string `json:"component"`

	// Children in declaration order. Declaration order is preserved
	// through Build and never re-sorted.
	Children []*NodeSpec `json:"children,omitempty"`
}

// IsParam reports whether the spec's path label is a parameter (":id").
func (ns *NodeSpec) IsParam() bool {
	return strings.HasPrefix(ns.Path, ":")
}

// ParamName returns the parameter name without the leading colon,
// or "" if the label is static.
func (ns *NodeSpec) ParamName() string {
	if !ns.IsParam() {
		return ""
	}
	return ns.Path[1:]
}

// Validate checks structural rules:
//   - every node has a non-empty path label
//   - every node has a non-empty component name
//   - sibling path labels are unique
//
// The first violation found is returned with its tree position.
func (s *Spec) Validate() error {
	return validateSiblings("", s.Roots)
}

func validateSiblings(at string, nodes []*NodeSpec) error {
	seen := make(map[string]bool, len(nodes))
	for _, ns := range nodes {
		pos := at + "/" + ns.Path
		if ns.Path == "" {
			return fmt.Errorf("route spec: empty path label under %q", at+"/")
		}
		if strings.Contains(ns.Path, "/") {
			return fmt.Errorf("route spec: path label %q must be a single segment", ns.Path)
		}
		if ns.Component == "" {
			return fmt.Errorf("route spec: node %q has no component", pos)
		}
		if seen[ns.Path] {
			return fmt.Errorf("route spec: duplicate sibling label %q under %q", ns.Path, at+"/")
		}
		seen[ns.Path] = true

		if err := validateSiblings(pos, ns.Children); err != nil {
			return err
		}
	}
	return nil
}

// Build instantiates the runtime node tree for this spec. Every call
// returns a fresh tree with no live instances.
func (s *Spec) Build() []*Node {
	return buildNodes(nil, s.Roots)
}

func buildNodes(parent *Node, specs []*NodeSpec) []*Node {
	nodes := make([]*Node, 0, len(specs))
	for _, ns := range specs {
		n := &Node{
			Label:     ns.Path,
			Component: ns.Component,
			parent:    parent,
		}
		n.Children = buildNodes(n, ns.Children)
		nodes = append(nodes, n)
	}
	return nodes
}

// FindSpec walks the configuration tree by segment labels and returns the
// spec at the given position, or nil. Parameter labels (":id") match any
// segment value.
func (s *Spec) FindSpec(segments []string) *NodeSpec {
	nodes := s.Roots
	var found *NodeSpec
	for _, seg := range segments {
		found = nil
		for _, ns := range nodes {
			if ns.Path == seg || ns.IsParam() {
				found = ns
				break
			}
		}
		if found == nil {
			return nil
		}
		nodes = found.Children
	}
	return found
}
