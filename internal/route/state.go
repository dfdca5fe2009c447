package route

import (
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// State is an immutable snapshot of a matched location in the navigation
// tree: path segments, named parameters, and optional query values.
//
// States are value types. Callers must not mutate a State after handing it
// to the sequencer; copy with WithQuery/clone helpers instead.
type State struct {
	// Segments holds the path split on "/", root first.
	// "/crises/1" -> ["crises", "1"].
	Segments []string `json:"segments"`

	// Params holds named parameters extracted by whatever matched the
	// route, e.g. {"id": "1"}. Matching itself happens outside this module.
	Params map[string]string `json:"params,omitempty"`

	// Query holds optional query values. Query is NOT part of state
	// identity: two states differing only in query compare equal.
	Query url.Values `json:"query,omitempty"`
}

// ParseState builds a State from a path string with an optional query part,
// e.g. "/crises/1?edit=1". This is a construction convenience for scenarios
// and the CLI; it performs no route matching and extracts no params.
func ParseState(s string) (State, error) {
	pathPart := s
	var query url.Values
	if i := strings.IndexByte(s, '?'); i >= 0 {
		pathPart = s[:i]
		q, err := url.ParseQuery(s[i+1:])
		if err != nil {
			return State{}, err
		}
		query = q
	}

	var segs []string
	for _, seg := range strings.Split(pathPart, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}

	return State{Segments: segs, Query: query}, nil
}

// MustParseState is like ParseState but panics on error.
// Intended for tests and literals.
func MustParseState(s string) State {
	st, err := ParseState(s)
	if err != nil {
		panic(err)
	}
	return st
}

// Path returns the slash-joined path, always with a leading "/".
func (s State) Path() string {
	if len(s.Segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(s.Segments, "/")
}

// String returns the path plus encoded query, e.g. "/crises/1?edit=1".
func (s State) String() string {
	q := s.Query.Encode()
	if q == "" {
		return s.Path()
	}
	return s.Path() + "?" + q
}

// WithParams returns a copy of the state with the given named parameters.
func (s State) WithParams(params map[string]string) State {
	cp := s
	cp.Params = make(map[string]string, len(params))
	for k, v := range params {
		cp.Params[k] = v
	}
	return cp
}

// Equal reports whether two states represent the same location:
// identical segments and identical params. Query is ignored.
//
// Comparison is NFC-normalized so differently composed Unicode spellings
// of the same path are one state (CP-2).
func (s State) Equal(o State) bool {
	if len(s.Segments) != len(o.Segments) {
		return false
	}
	for i := range s.Segments {
		if norm.NFC.String(s.Segments[i]) != norm.NFC.String(o.Segments[i]) {
			return false
		}
	}
	if len(s.Params) != len(o.Params) {
		return false
	}
	for k, v := range s.Params {
		ov, ok := o.Params[norm.NFC.String(k)]
		if !ok {
			// Params maps are small; retry un-normalized key lookup to
			// avoid requiring pre-normalized keys from callers.
			ov, ok = o.Params[k]
		}
		if !ok || norm.NFC.String(v) != norm.NFC.String(ov) {
			return false
		}
	}
	return true
}

// IsZero reports whether the state is the zero value (no segments, no
// params, no query). The zero state is used as "no previous location" on
// the first navigation.
func (s State) IsZero() bool {
	return len(s.Segments) == 0 && len(s.Params) == 0 && len(s.Query) == 0
}
