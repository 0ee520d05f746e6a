package filter

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// StringList is a list of strings that also decodes from a single
// scalar, so configuration may write `not: "not"` or `not: ["not", "!"]`
// interchangeably.
type StringList []string

// UnmarshalYAML accepts either a scalar or a sequence.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := node.Decode(&ss); err != nil {
			return err
		}
		*l = StringList(ss)
		return nil
	default:
		return fmt.Errorf("expected string or sequence of strings")
	}
}

// UnmarshalJSON accepts either a scalar or an array.
func (l *StringList) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var ss []string
	if err := json.Unmarshal(data, &ss); err != nil {
		return err
	}
	*l = StringList(ss)
	return nil
}

// AliasConfig maps each logical role to its accepted literal operator
// strings. Matching is exact and case-sensitive.
type AliasConfig struct {
	And StringList `yaml:"and" json:"and"`
	Or  StringList `yaml:"or" json:"or"`
	Not StringList `yaml:"not" json:"not"`
}

// DefaultAliases returns the conventional lowercase alias table.
func DefaultAliases() AliasConfig {
	return AliasConfig{
		And: StringList{"and"},
		Or:  StringList{"or"},
		Not: StringList{"not"},
	}
}

// ColumnConfig declares per-column type and nullability constraints.
// Column names are exact-match, case-sensitive. A name may appear in
// String or Numeric, never both; names absent from both are
// unresolvable at compile time.
type ColumnConfig struct {
	String   StringList `yaml:"string" json:"string"`
	Numeric  StringList `yaml:"numeric" json:"numeric"`
	Nullable StringList `yaml:"nullable" json:"nullable"`
}

// Config carries the three independent resolver inputs.
type Config struct {
	Aliases AliasConfig  `yaml:"aliases" json:"aliases"`
	Columns ColumnConfig `yaml:"columns" json:"columns"`
	Limits  Limits       `yaml:"limits" json:"limits"`
}

// ColumnSpec is one resolved column: name, semantic type, nullability
// and the backend handle, fixed at resolver construction. The two-variant
// type (string vs numeric) is decided here, once, never re-derived per
// comparison node.
type ColumnSpec struct {
	Name     string
	Type     ColumnType
	Nullable bool
	Handle   ColumnHandle
}

// Resolver holds the normalized configuration tables and the backend
// schema handle. Immutable after construction; safe to share across
// concurrent compiles.
type Resolver struct {
	backend Backend
	roles   map[string]LogicalRole
	columns map[string]ColumnSpec
	limits  Limits
}

// NewResolver validates cfg against the backend schema and builds the
// normalized lookup tables. It fails fast with a ConstraintError on any
// configuration defect; nothing is deferred to compile time.
func NewResolver(backend Backend, cfg Config) (*Resolver, error) {
	if backend == nil {
		return nil, newConstraintError(ErrCodeMissingBackend, "", "backend schema handle is required")
	}

	roles, err := buildRoleTable(cfg.Aliases)
	if err != nil {
		return nil, err
	}

	columns, err := buildColumnTable(backend, cfg.Columns)
	if err != nil {
		return nil, err
	}

	limits := cfg.Limits
	if limits == (Limits{}) {
		limits = DefaultLimits()
	}

	return &Resolver{
		backend: backend,
		roles:   roles,
		columns: columns,
		limits:  limits,
	}, nil
}

// buildRoleTable flattens the alias lists into one alias -> role map.
// Every role needs at least one alias, and an alias may serve only one
// role: resolving overlap by check order is exactly the ambiguity this
// table exists to rule out.
func buildRoleTable(aliases AliasConfig) (map[string]LogicalRole, error) {
	table := make(map[string]LogicalRole)

	add := func(role LogicalRole, list StringList) error {
		seen := 0
		for _, alias := range list {
			if alias == "" {
				continue
			}
			if prev, ok := table[alias]; ok && prev != role {
				return newConstraintError(ErrCodeAliasOverlap, "",
					"alias %q configured for both %s and %s", alias, prev, role)
			}
			table[alias] = role
			seen++
		}
		if seen == 0 {
			return newConstraintError(ErrCodeMissingAlias, "",
				"logical role %s has no alias", role)
		}
		return nil
	}

	if err := add(RoleAnd, aliases.And); err != nil {
		return nil, err
	}
	if err := add(RoleOr, aliases.Or); err != nil {
		return nil, err
	}
	if err := add(RoleNot, aliases.Not); err != nil {
		return nil, err
	}
	return table, nil
}

// buildColumnTable resolves every configured column against the backend
// schema and fixes its ColumnSpec. Backend introspection, when available,
// must agree with the declared type.
func buildColumnTable(backend Backend, cfg ColumnConfig) (map[string]ColumnSpec, error) {
	nullable := make(map[string]bool, len(cfg.Nullable))
	for _, name := range cfg.Nullable {
		nullable[name] = true
	}

	columns := make(map[string]ColumnSpec, len(cfg.String)+len(cfg.Numeric))

	declare := func(name string, typ ColumnType) error {
		if prev, ok := columns[name]; ok {
			if prev.Type != typ {
				return newConstraintError(ErrCodeColumnConflict, name,
					"column declared both string and numeric")
			}
			return nil
		}
		handle, ok := backend.ResolveColumn(name)
		if !ok {
			return newConstraintError(ErrCodeColumnUnresolved, name,
				"column not found in backend schema")
		}
		if introspected := backend.ColumnType(handle); introspected != ColumnOther && introspected != typ {
			return newConstraintError(ErrCodeColumnTypeMismatch, name,
				"declared %s but backend reports %s", typ, introspected)
		}
		columns[name] = ColumnSpec{
			Name:     name,
			Type:     typ,
			Nullable: nullable[name],
			Handle:   handle,
		}
		delete(nullable, name)
		return nil
	}

	for _, name := range cfg.String {
		if err := declare(name, ColumnString); err != nil {
			return nil, err
		}
	}
	for _, name := range cfg.Numeric {
		if err := declare(name, ColumnNumeric); err != nil {
			return nil, err
		}
	}

	// Whatever is left in the nullable set names no declared column.
	for name := range nullable {
		return nil, newConstraintError(ErrCodeColumnUnresolved, name,
			"nullable column is not declared string or numeric")
	}

	return columns, nil
}

// Role resolves an operator alias to its logical role.
func (r *Resolver) Role(alias string) (LogicalRole, bool) {
	role, ok := r.roles[alias]
	return role, ok
}

// Column returns the resolved spec for a column name.
func (r *Resolver) Column(name string) (ColumnSpec, bool) {
	spec, ok := r.columns[name]
	return spec, ok
}

// Limits returns the structural limits in effect.
func (r *Resolver) Limits() Limits {
	return r.limits
}

// Backend returns the schema backend the resolver was built against.
func (r *Resolver) Backend() Backend {
	return r.backend
}
