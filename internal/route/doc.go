// Package route defines the data model shared by the sequencer, the journal
// and the harness: navigation states, the static route configuration tree,
// the runtime node tree, and the canonical serialization used for
// content-addressed identity.
//
// A State is an immutable snapshot of a matched location: path segments,
// named parameters and optional query values. Two states are compared on
// path+params only; query differences do not change identity.
//
// A Node is a position in the currently-active component tree. Each node
// owns zero or one live component instance. The node tree is exclusively
// owned and mutated by the sequencer; nothing else attaches or detaches
// instances.
//
// Identity rules:
//
// CP-1: Content-addressed IDs
// Attempt and hook-call records are identified by domain-prefixed SHA-256
// over canonical JSON. The same navigation with the same seq values always
// produces the same IDs, which makes journals directly comparable.
//
// CP-2: Canonical JSON
// The only serialization used for identity is MarshalCanonical: sorted keys,
// NFC-normalized strings, no HTML escaping, no floats, no null. State
// comparison normalizes segments and params the same way, so two spellings
// of the same Unicode path are one state.
package route
