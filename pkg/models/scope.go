package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownScope is returned when a scope name cannot be parsed
var ErrUnknownScope = errors.New("unknown scope")

// Scope is the category of model element an annotation is attached to
type Scope int

const (
	ScopeVariable Scope = iota
	ScopeLinearConstraint
	ScopeIndicatorConstraint
	ScopeQuadraticConstraint
	ScopePiecewiseConstraint
	ScopeSOS
)

type scopeInfo struct {
	name   string
	prefix string
}

var scopes = map[Scope]scopeInfo{
	ScopeVariable:            {"variables", "x"},
	ScopeLinearConstraint:    {"linear", "c"},
	ScopeIndicatorConstraint: {"indicator", "ic"},
	ScopeQuadraticConstraint: {"quadratic", "qc"},
	ScopePiecewiseConstraint: {"piecewise", "pwl"},
	ScopeSOS:                 {"sos", "sos"},
}

var scopeAliases = map[string]Scope{
	"variables":             ScopeVariable,
	"variable":              ScopeVariable,
	"var":                   ScopeVariable,
	"linear":                ScopeLinearConstraint,
	"linear_constraints":    ScopeLinearConstraint,
	"indicator":             ScopeIndicatorConstraint,
	"indicator_constraints": ScopeIndicatorConstraint,
	"quadratic":             ScopeQuadraticConstraint,
	"quadratic_constraints": ScopeQuadraticConstraint,
	"piecewise":             ScopePiecewiseConstraint,
	"pwl":                   ScopePiecewiseConstraint,
	"sos":                   ScopeSOS,
}

// AllScopes lists the known scopes in declaration order
func AllScopes() []Scope {
	return []Scope{
		ScopeVariable,
		ScopeLinearConstraint,
		ScopeIndicatorConstraint,
		ScopeQuadraticConstraint,
		ScopePiecewiseConstraint,
		ScopeSOS,
	}
}

// String returns the scope name used in model documents
func (s Scope) String() string {
	if info, ok := scopes[s]; ok {
		return info.name
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// Prefix returns the prefix used to build a default name for unnamed elements
func (s Scope) Prefix() string {
	return scopes[s].prefix
}

// Valid reports whether s is one of the declared scopes
func (s Scope) Valid() bool {
	_, ok := scopes[s]
	return ok
}

// ParseScope parses a scope name, case-insensitively
func ParseScope(name string) (Scope, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	if s, ok := scopeAliases[key]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScope, name)
}
