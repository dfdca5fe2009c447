// Package routecfg compiles CUE route configuration into a route.Spec.
//
// A configuration declares the navigation tree and sequencer settings:
//
//	routes: [
//		{
//			path:      "crises"
//			component: "CrisisList"
//			children: [
//				{path: ":id", component: "CrisisDetail"},
//			]
//		},
//		{path: "heroes", component: "HeroList"},
//	]
//	max_redirects: 10
//
// Compilation uses the CUE SDK's Go API directly (not CLI subprocess), so
// errors carry file positions.
package routecfg

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/waygate/waygate/internal/route"
	"github.com/waygate/waygate/internal/sequencer"
)

// Config is a compiled route configuration.
type Config struct {
	Spec         *route.Spec
	MaxRedirects int
}

// CompileError is a configuration error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadFile reads and compiles a route configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileString(string(data), cue.Filename(path))
	return Compile(v)
}

// Compile parses a CUE value into a Config. The value is the configuration
// root, holding "routes" and optional settings.
func Compile(v cue.Value) (*Config, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	cfg := &Config{MaxRedirects: sequencer.DefaultMaxRedirects}

	routesVal := v.LookupPath(cue.ParsePath("routes"))
	if !routesVal.Exists() {
		return nil, &CompileError{
			Field:   "routes",
			Message: "routes is required",
			Pos:     v.Pos(),
		}
	}

	roots, err := parseNodeList(routesVal)
	if err != nil {
		return nil, err
	}
	cfg.Spec = &route.Spec{Roots: roots}

	maxVal := v.LookupPath(cue.ParsePath("max_redirects"))
	if maxVal.Exists() {
		n, err := maxVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if n < 1 {
			return nil, &CompileError{
				Field:   "max_redirects",
				Message: "must be at least 1",
				Pos:     maxVal.Pos(),
			}
		}
		cfg.MaxRedirects = int(n)
	}

	if err := cfg.Spec.Validate(); err != nil {
		return nil, &CompileError{
			Field:   "routes",
			Message: err.Error(),
			Pos:     routesVal.Pos(),
		}
	}

	return cfg, nil
}

func parseNodeList(v cue.Value) ([]*route.NodeSpec, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var nodes []*route.NodeSpec
	for iter.Next() {
		node, err := parseNode(iter.Value())
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func parseNode(v cue.Value) (*route.NodeSpec, error) {
	node := &route.NodeSpec{}

	pathVal := v.LookupPath(cue.ParsePath("path"))
	if !pathVal.Exists() {
		return nil, &CompileError{
			Field:   "path",
			Message: "path is required",
			Pos:     v.Pos(),
		}
	}
	path, err := pathVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	node.Path = path

	componentVal := v.LookupPath(cue.ParsePath("component"))
	if !componentVal.Exists() {
		return nil, &CompileError{
			Field:   "component",
			Message: fmt.Sprintf("component is required for route %q", path),
			Pos:     v.Pos(),
		}
	}
	component, err := componentVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	node.Component = component

	childrenVal := v.LookupPath(cue.ParsePath("children"))
	if childrenVal.Exists() {
		children, err := parseNodeList(childrenVal)
		if err != nil {
			return nil, err
		}
		node.Children = children
	}

	return node, nil
}

// formatCUEError converts a CUE error into a CompileError with position
// info when available.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
