package route

import "strings"

// Node is a position in the currently-active component tree. It owns zero
// or one live component instance and an ordered list of children
// (declaration order from the configuration).
//
// OWNERSHIP: the node tree is exclusively owned by the sequencer. Attach
// and Detach are called only from the sequencer's phases; there is no
// locking here on purpose.
type Node struct {
	// Label is the segment label from the configuration ("crises", ":id").
	Label string

	// Component names the component type constructed at this position.
	Component string

	// Children in declaration order.
	Children []*Node

	parent *Node

	// Instance is the live component instance, or nil when the node is
	// unoccupied. InstanceID identifies the instance in the journal.
	Instance   any
	InstanceID string
}

// Parent returns the node's parent, or nil for a root node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Path returns the slash-joined label path from the root, e.g. "/crises/:id".
func (n *Node) Path() string {
	if n == nil {
		return ""
	}
	var labels []string
	for at := n; at != nil; at = at.parent {
		labels = append(labels, at.Label)
	}
	// Reverse in place; labels were collected leaf-first.
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return "/" + strings.Join(labels, "/")
}

// Occupied reports whether a live instance is attached.
func (n *Node) Occupied() bool {
	return n.Instance != nil
}

// Attach sets the live instance for this node.
func (n *Node) Attach(instance any, instanceID string) {
	n.Instance = instance
	n.InstanceID = instanceID
}

// Detach clears the live instance. The instance is gone after this; the
// sequencer runs OnDeactivate before detaching.
func (n *Node) Detach() {
	n.Instance = nil
	n.InstanceID = ""
}

// NodesAlong walks a runtime tree by segment values and returns the
// root→leaf chain of nodes covering the segments. Parameter labels (":id")
// match any segment value. Returns nil if the segments do not correspond
// to a configured chain.
//
// This is construction glue for scenarios and the CLI: deciding WHICH nodes
// a navigation affects is the caller's job, the sequencer only consumes the
// ordered result.
func NodesAlong(roots []*Node, segments []string) []*Node {
	var chain []*Node
	nodes := roots
	for _, seg := range segments {
		var match *Node
		for _, n := range nodes {
			if n.Label == seg || strings.HasPrefix(n.Label, ":") {
				match = n
				break
			}
		}
		if match == nil {
			return nil
		}
		chain = append(chain, match)
		nodes = match.Children
	}
	return chain
}
