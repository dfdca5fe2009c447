package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/waygate/waygate/internal/route"
)

// storedState is the JSON shape of a route.State column. Unlike the
// canonical identity form, the stored form keeps the query so a journal
// row round-trips the full state.
type storedState struct {
	Path   string              `json:"path"`
	Params map[string]string   `json:"params,omitempty"`
	Query  map[string][]string `json:"query,omitempty"`
}

// marshalState converts a route.State to JSON TEXT for storage.
// Uses json.Encoder with HTML escaping disabled and struct field order for
// consistent output across runs.
func marshalState(st route.State) (string, error) {
	ss := storedState{
		Path:   st.Path(),
		Params: st.Params,
		Query:  map[string][]string(st.Query),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ss); err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return string(bytes.TrimSpace(buf.Bytes())), nil
}

// unmarshalState parses a stored state column back into a route.State.
func unmarshalState(data string) (route.State, error) {
	var ss storedState
	if err := json.Unmarshal([]byte(data), &ss); err != nil {
		return route.State{}, fmt.Errorf("unmarshal state: %w", err)
	}

	st, err := route.ParseState(ss.Path)
	if err != nil {
		return route.State{}, fmt.Errorf("unmarshal state: %w", err)
	}
	if len(ss.Params) > 0 {
		st = st.WithParams(ss.Params)
	}
	if len(ss.Query) > 0 {
		st.Query = url.Values(ss.Query)
	}
	return st, nil
}
