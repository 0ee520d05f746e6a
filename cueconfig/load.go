package cueconfig

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/sift/filter"
)

// LoadError is a configuration-loading failure with a stable code and,
// when available, the CUE source position.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants.
const (
	ErrCodeNotFound    = "E001" // Path not found or not a directory
	ErrCodeLoadFailed  = "E002" // CUE load failed
	ErrCodeBuildFailed = "E003" // CUE build failed
	ErrCodeNoColumns   = "E004" // Missing or empty columns section
	ErrCodeBadColumn   = "E005" // Malformed column declaration
	ErrCodeBadAlias    = "E006" // Malformed alias declaration
	ErrCodeBadLimit    = "E007" // Malformed limit declaration
)

// Load reads every CUE file in dir and converts the unified value into
// a filter.Config. The result still goes through filter.NewResolver for
// constraint validation; Load only checks that the CUE is well-formed.
func Load(dir string) (filter.Config, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return filter.Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config directory not found: %s", dir)}
	}
	if err != nil {
		return filter.Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing config directory: %v", err)}
	}
	if !info.IsDir() {
		return filter.Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return filter.Config{}, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return filter.Config{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return filter.Config{}, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	return FromValue(value)
}

// FromValue converts a CUE value with columns/aliases/limits fields
// into a filter.Config.
func FromValue(v cue.Value) (filter.Config, error) {
	if err := v.Err(); err != nil {
		return filter.Config{}, &LoadError{Code: ErrCodeBuildFailed, Message: err.Error(), Pos: v.Pos()}
	}

	cfg := filter.Config{Aliases: filter.DefaultAliases()}

	columns, err := parseColumns(v.LookupPath(cue.ParsePath("columns")))
	if err != nil {
		return filter.Config{}, err
	}
	cfg.Columns = columns

	aliasesVal := v.LookupPath(cue.ParsePath("aliases"))
	if aliasesVal.Exists() {
		aliases, err := parseAliases(aliasesVal)
		if err != nil {
			return filter.Config{}, err
		}
		cfg.Aliases = aliases
	}

	limitsVal := v.LookupPath(cue.ParsePath("limits"))
	if limitsVal.Exists() {
		limits, err := parseLimits(limitsVal)
		if err != nil {
			return filter.Config{}, err
		}
		cfg.Limits = limits
	}

	return cfg, nil
}

// parseColumns converts the columns struct into the per-type name lists.
func parseColumns(v cue.Value) (filter.ColumnConfig, error) {
	var cfg filter.ColumnConfig

	if !v.Exists() {
		return cfg, &LoadError{Code: ErrCodeNoColumns, Message: "columns section is required"}
	}
	iter, err := v.Fields()
	if err != nil {
		return cfg, &LoadError{Code: ErrCodeBadColumn, Message: fmt.Sprintf("iterating columns: %v", err), Pos: v.Pos()}
	}

	for iter.Next() {
		name := iter.Selector().Unquoted()
		col := iter.Value()

		typVal := col.LookupPath(cue.ParsePath("type"))
		if !typVal.Exists() {
			return cfg, &LoadError{Code: ErrCodeBadColumn, Message: fmt.Sprintf("column %s: type is required", name), Pos: col.Pos()}
		}
		typ, err := typVal.String()
		if err != nil {
			return cfg, &LoadError{Code: ErrCodeBadColumn, Message: fmt.Sprintf("column %s: %v", name, err), Pos: typVal.Pos()}
		}
		switch typ {
		case "string":
			cfg.String = append(cfg.String, name)
		case "numeric":
			cfg.Numeric = append(cfg.Numeric, name)
		default:
			return cfg, &LoadError{Code: ErrCodeBadColumn, Message: fmt.Sprintf("column %s: type must be \"string\" or \"numeric\", got %q", name, typ), Pos: typVal.Pos()}
		}

		nullVal := col.LookupPath(cue.ParsePath("nullable"))
		if nullVal.Exists() {
			nullable, err := nullVal.Bool()
			if err != nil {
				return cfg, &LoadError{Code: ErrCodeBadColumn, Message: fmt.Sprintf("column %s: nullable: %v", name, err), Pos: nullVal.Pos()}
			}
			if nullable {
				cfg.Nullable = append(cfg.Nullable, name)
			}
		}
	}

	if len(cfg.String) == 0 && len(cfg.Numeric) == 0 {
		return cfg, &LoadError{Code: ErrCodeNoColumns, Message: "columns section is empty", Pos: v.Pos()}
	}
	return cfg, nil
}

// parseAliases converts the aliases struct. Each role accepts a single
// string or a list of strings.
func parseAliases(v cue.Value) (filter.AliasConfig, error) {
	cfg := filter.DefaultAliases()

	roles := []struct {
		path string
		dest *filter.StringList
	}{
		{"and", &cfg.And},
		{"or", &cfg.Or},
		{"not", &cfg.Not},
	}
	for _, role := range roles {
		roleVal := v.LookupPath(cue.ParsePath(role.path))
		if !roleVal.Exists() {
			continue
		}
		list, err := parseStringOrList(roleVal)
		if err != nil {
			return cfg, &LoadError{Code: ErrCodeBadAlias, Message: fmt.Sprintf("aliases.%s: %v", role.path, err), Pos: roleVal.Pos()}
		}
		*role.dest = list
	}
	return cfg, nil
}

// parseStringOrList accepts a scalar string or a list of strings.
func parseStringOrList(v cue.Value) (filter.StringList, error) {
	if s, err := v.String(); err == nil {
		return filter.StringList{s}, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, fmt.Errorf("expected string or list of strings")
	}
	var list filter.StringList
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, fmt.Errorf("list element: %v", err)
		}
		list = append(list, s)
	}
	return list, nil
}

// parseLimits converts the limits struct.
func parseLimits(v cue.Value) (filter.Limits, error) {
	limits := filter.DefaultLimits()

	fields := []struct {
		path string
		dest *int
	}{
		{"breadth", &limits.MaxBreadth},
		{"depth", &limits.MaxDepth},
		{"elements", &limits.MaxElements},
	}
	for _, field := range fields {
		fieldVal := v.LookupPath(cue.ParsePath(field.path))
		if !fieldVal.Exists() {
			continue
		}
		n, err := fieldVal.Int64()
		if err != nil {
			return limits, &LoadError{Code: ErrCodeBadLimit, Message: fmt.Sprintf("limits.%s: %v", field.path, err), Pos: fieldVal.Pos()}
		}
		if n < 0 {
			return limits, &LoadError{Code: ErrCodeBadLimit, Message: fmt.Sprintf("limits.%s: must not be negative", field.path), Pos: fieldVal.Pos()}
		}
		*field.dest = int(n)
	}
	return limits, nil
}
