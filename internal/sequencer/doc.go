// Package sequencer implements the navigation guard sequencer.
//
// The sequencer decides, for a single navigation request, which lifecycle
// hooks run on which component instances, in what order, and how their
// results combine into one outcome: proceed, cancel, or redirect.
//
// ARCHITECTURE:
//
// Phased execution:
// An attempt runs four strictly ordered phases over the affected nodes.
//  1. Deactivation permission, deepest node first. CanNavigate (preferred)
//     or CanDeactivate may deny or redirect; a denial cancels the attempt
//     before any side effect.
//  2. Reuse determination, root first, carrying an ancestor-reusable
//     accumulator. A child is never reused under a non-reused parent.
//  3. Deactivation execution, deepest first. OnDeactivate is best-effort:
//     a fault is logged and journaled but never aborts the phase, and the
//     instance is destroyed either way.
//  4. Activation execution, root first. Reused instances keep identity;
//     the rest are constructed by the component factory. A node's subtree
//     never activates before the node's own OnActivate returns.
//
// Redirects:
// A guard may answer with a redirect target instead of a boolean. When a
// resolver is configured the sequencer restarts the attempt at the new
// target; the chain is bounded (DefaultMaxRedirects) and exceeding the
// bound fails with RedirectLoopError. Without a resolver the redirect is
// returned to the caller as an outcome.
//
// Single navigation at a time:
// The sequencer itself is not reentrant. The Dispatcher serializes
// navigation requests in a single-writer loop; under the default
// supersede policy a new request cancels the in-flight one through its
// context, since the most recent request is the most recent user intent.
//
// CRITICAL PATTERNS:
//
// CP-3: Logical Clock
// Every attempt and hook call is stamped with a monotonic seq from
// Clock.Next(). Wall-clock time is never used for ordering; two runs of the
// same scenario produce byte-identical journals.
//
// CP-4: No partial ordering surprises
// Permission checks run strictly before any side effect. Deactivation
// already performed when a later activation faults is NOT rolled back;
// this is a documented caveat, not a transactional guarantee.
package sequencer
