// Package harness provides scenario-based conformance testing for the
// navigation sequencer.
//
// A scenario declares a route tree, the components occupying it, their
// scripted guard and lifecycle behavior, and a sequence of navigations.
// The harness builds the tree, drives the real sequencer over it, and
// validates outcomes, hook call order and the resulting journal. Nothing
// is simulated: every assertion runs against what the sequencer actually
// did.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	routes:
//	  - path: crises
//	    component: CrisisList
//	    children:
//	      - path: ":id"
//	        component: CrisisDetail
//	occupied:
//	  - node: /crises/:id
//	    can_navigate: deny
//	components:
//	  - node: /crises/:id
//	    on_activate: ok
//	navigations:
//	  - from: /crises/1
//	    to: /crises/2
//	    expect:
//	      outcome: cancelled
//	assertions:
//	  - type: call_order
//	    calls: ["can_navigate@CrisisDetail"]
//
// Behavior values: guards take "allow", "deny", "redirect:<path>" or
// "fault:<message>"; lifecycle hooks take "ok" or "fault:<message>";
// can_reuse takes true or false. An omitted behavior means the capability
// is absent.
//
// # Assertion Types
//
//   - call_order: Verifies hook calls appear in the given order
//     (intervening calls are allowed)
//   - call_count: Verifies a hook fires exactly N times
//   - occupied: Verifies a node's final occupancy
//
// # Deterministic Testing
//
// Scenarios run with a counting token generator and the sequencer's
// logical clock, so the same scenario always produces a byte-identical
// journal. RunWithGolden snapshots the journal against a golden file.
package harness
