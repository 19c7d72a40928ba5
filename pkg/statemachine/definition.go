package statemachine

import (
	"reflect"
	"slices"
)

// StateDefinition is the static description of one state, registered once per
// registry. Name is the stable identity used for persistence and comparisons;
// everything else is presentation metadata or authorization input.
type StateDefinition struct {
	// Name uniquely identifies the state within its registry. Immutable once
	// registered.
	Name string `yaml:"name" json:"name"`

	// Presentation metadata. All optional; empty values fall back through the
	// resolution chain documented on State.
	Title       string `yaml:"title" json:"title,omitempty"`
	Color       string `yaml:"color" json:"color,omitempty"`
	Icon        string `yaml:"icon" json:"icon,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`

	// IsDefault marks the registry's initial state. When several definitions
	// claim the flag, the first registered wins.
	IsDefault bool `yaml:"default" json:"is_default,omitempty"`

	// PermittedRoles restricts who may transition an entity INTO this state.
	// Empty means no role restriction.
	PermittedRoles []string `yaml:"permitted_roles" json:"permitted_roles,omitempty"`

	// Meta carries arbitrary extra metadata exposed through the full
	// serialization form and the metadata resolution chain.
	Meta map[string]any `yaml:"meta" json:"meta,omitempty"`
}

// equal reports whether two definitions are materially identical, which makes
// re-registration idempotent.
func (d StateDefinition) equal(other StateDefinition) bool {
	return d.Name == other.Name &&
		d.Title == other.Title &&
		d.Color == other.Color &&
		d.Icon == other.Icon &&
		d.Description == other.Description &&
		d.IsDefault == other.IsDefault &&
		slices.Equal(d.PermittedRoles, other.PermittedRoles) &&
		reflect.DeepEqual(d.Meta, other.Meta)
}

// merge overlays src onto d: non-empty singleton fields from src win,
// permitted roles are unioned, meta entries are overlaid key by key.
// IsDefault is sticky once set so that later sources cannot silently clear
// the default chosen by an earlier one.
func (d StateDefinition) merge(src StateDefinition) StateDefinition {
	if src.Title != "" {
		d.Title = src.Title
	}
	if src.Color != "" {
		d.Color = src.Color
	}
	if src.Icon != "" {
		d.Icon = src.Icon
	}
	if src.Description != "" {
		d.Description = src.Description
	}
	if src.IsDefault {
		d.IsDefault = true
	}
	for _, role := range src.PermittedRoles {
		if !slices.Contains(d.PermittedRoles, role) {
			d.PermittedRoles = append(d.PermittedRoles, role)
		}
	}
	if len(src.Meta) > 0 {
		if d.Meta == nil {
			d.Meta = make(map[string]any, len(src.Meta))
		}
		for k, v := range src.Meta {
			d.Meta[k] = v
		}
	}
	return d
}

// Edge declares that From may transition to To, optionally bound to a named
// custom handler. Edges are directed; a self-loop is legal only when
// explicitly registered.
type Edge struct {
	From    string `yaml:"from" json:"from"`
	To      string `yaml:"to" json:"to"`
	Handler string `yaml:"handler" json:"handler,omitempty"`
}

// Pair is the bulk-registration form of an edge.
type Pair struct {
	From    string
	To      string
	Handler string
}
