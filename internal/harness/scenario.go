package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sift/filter"
)

// Scenario defines one conformance scenario: a schema, a row fixture,
// and a list of filter cases to run over it.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Table is the sqlite table name. Defaults to "records".
	Table string `yaml:"table,omitempty"`

	// Schema carries the resolver configuration: column declarations,
	// operator aliases, and structural limits.
	Schema filter.Config `yaml:"schema"`

	// Rows is the fixture data. Row ids are the 1-based positions in
	// this list. Keys missing from a row read as null.
	Rows []map[string]any `yaml:"rows,omitempty"`

	// Cases are the filters to compile and run, in order.
	Cases []Case `yaml:"cases"`

	// RunToken is an optional fixed token for deterministic runs.
	RunToken string `yaml:"run_token,omitempty"`
}

// Case is one filter tree plus its expected outcome.
type Case struct {
	Name string `yaml:"name"`

	// Filter is the decoded filter tree, exactly as a JSON request body
	// would decode.
	Filter any `yaml:"filter"`

	Expect Expectation `yaml:"expect"`
}

// Expectation is the expected outcome of one case: either the ids of
// the matching rows, or a compile error code. Exactly one applies.
type Expectation struct {
	// MatchIDs are the 1-based row ids the filter must select, in order.
	MatchIDs []int64 `yaml:"match_ids,omitempty"`

	// Error is the expected CompileError code, e.g. "MAX_DEPTH".
	Error string `yaml:"error,omitempty"`
}

// columnNames returns every declared column, sorted, so DDL and insert
// statements are deterministic.
func (s *Scenario) columnNames() []string {
	names := make([]string, 0, len(s.Schema.Columns.String)+len(s.Schema.Columns.Numeric))
	names = append(names, s.Schema.Columns.String...)
	names = append(names, s.Schema.Columns.Numeric...)
	sort.Strings(names)
	return names
}

// config returns the schema with default aliases filled in when the
// scenario declares none, so scenario files may omit the aliases block.
func (s *Scenario) config() filter.Config {
	cfg := s.Schema
	if len(cfg.Aliases.And) == 0 && len(cfg.Aliases.Or) == 0 && len(cfg.Aliases.Not) == 0 {
		cfg.Aliases = filter.DefaultAliases()
	}
	return cfg
}

func (s *Scenario) tableName() string {
	if s.Table == "" {
		return "records"
	}
	return s.Table
}

// LoadScenario reads and parses one scenario YAML file. Unknown fields
// are rejected so typos fail loudly instead of silently skipping a
// case.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks required fields and that each case expects
// exactly one outcome.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("case %d: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("case %q: duplicate name", c.Name)
		}
		seen[c.Name] = true
		if c.Filter == nil {
			return fmt.Errorf("case %q: filter is required", c.Name)
		}
		if c.Expect.Error != "" && len(c.Expect.MatchIDs) > 0 {
			return fmt.Errorf("case %q: expect either match_ids or error, not both", c.Name)
		}
	}
	return nil
}
