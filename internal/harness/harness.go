package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/sift/filter"
	"github.com/roach88/sift/filtermem"
	"github.com/roach88/sift/filtersql"
)

// Harness executes scenarios. Each scenario runs against a fresh
// in-memory sqlite store and, in parallel, the in-memory row backend;
// the two must select the same rows.
type Harness struct {
	tokens TokenGenerator
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithTokenGenerator overrides the run token source. Golden runs pass a
// FixedGenerator here.
func WithTokenGenerator(gen TokenGenerator) Option {
	return func(h *Harness) { h.tokens = gen }
}

// WithLogger sets the harness logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) { h.logger = logger }
}

// New creates a harness. By default tokens are uuid-based and logging
// is discarded, which is what tests want.
func New(opts ...Option) *Harness {
	h := &Harness{
		tokens: UUIDGenerator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Result is the outcome of running one scenario.
type Result struct {
	Pass     bool
	RunToken string
	Cases    []CaseResult
	Errors   []string
}

// CaseResult records what one case compiled to and what it matched.
type CaseResult struct {
	Name string

	// SQL and Params are the sqlite rendering. Empty when the case
	// failed to compile.
	SQL    string
	Params []any

	// MatchIDs are the selected 1-based row ids.
	MatchIDs []int64

	// ErrorCode is the CompileError code, when compilation failed.
	ErrorCode string
}

// addError records a scenario-level failure.
func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Run executes a scenario. A scenario-level error (bad schema, sqlite
// failure) aborts the run; case-level mismatches accumulate in
// Result.Errors so one report covers the whole scenario.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := &Result{Pass: true, RunToken: h.tokens.Generate()}
	logger := h.logger.With("scenario", scenario.Name, "run_token", result.RunToken)

	store, err := filtersql.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	columns := h.schemaColumns(scenario)
	if err := h.seed(ctx, store, scenario, columns); err != nil {
		return nil, fmt.Errorf("seed scenario %s: %w", scenario.Name, err)
	}

	sqlCompiler, err := h.sqlCompiler(scenario, columns)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: sql resolver: %w", scenario.Name, err)
	}
	memCompiler, err := h.memCompiler(scenario, columns)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: mem resolver: %w", scenario.Name, err)
	}
	memRows := make([]filtermem.Row, len(scenario.Rows))
	for i, row := range scenario.Rows {
		memRows[i] = filtermem.Row(row)
	}

	for _, c := range scenario.Cases {
		cr := h.runCase(ctx, c, store, sqlCompiler, memCompiler, memRows, result)
		result.Cases = append(result.Cases, cr)
		logger.Debug("case finished", "case", c.Name, "matched", len(cr.MatchIDs), "error_code", cr.ErrorCode)
	}
	return result, nil
}

// runCase compiles one filter against both backends and checks the
// outcome against the case expectation.
func (h *Harness) runCase(ctx context.Context, c Case, store *filtersql.Store,
	sqlCompiler, memCompiler *filter.Compiler, memRows []filtermem.Row, result *Result) CaseResult {

	cr := CaseResult{Name: c.Name}

	handle, err := sqlCompiler.Apply(c.Filter)
	if err != nil {
		cr.ErrorCode = string(compileCode(err))
		if cr.ErrorCode == "" {
			result.addError("case %s: non-compile error: %v", c.Name, err)
			return cr
		}
		if c.Expect.Error != cr.ErrorCode {
			result.addError("case %s: expected error %q, got %q (%v)", c.Name, c.Expect.Error, cr.ErrorCode, err)
		}
		// The row backend must reject the same tree with the same code.
		if _, memErr := memCompiler.Compile(c.Filter); string(compileCode(memErr)) != cr.ErrorCode {
			result.addError("case %s: backends disagree on rejection: sql=%q mem=%v", c.Name, cr.ErrorCode, memErr)
		}
		return cr
	}
	if c.Expect.Error != "" {
		result.addError("case %s: expected error %q, compiled successfully", c.Name, c.Expect.Error)
		return cr
	}

	query := handle.(*filtersql.Query)
	cr.SQL = query.SQL()
	cr.Params = query.Params

	cr.MatchIDs, err = query.MatchIDs(ctx, store)
	if err != nil {
		result.addError("case %s: execute: %v", c.Name, err)
		return cr
	}
	if !equalIDs(cr.MatchIDs, c.Expect.MatchIDs) {
		result.addError("case %s: expected rows %v, got %v", c.Name, c.Expect.MatchIDs, cr.MatchIDs)
	}

	memIDs, err := h.memMatchIDs(memCompiler, c.Filter, memRows)
	if err != nil {
		result.addError("case %s: row backend: %v", c.Name, err)
		return cr
	}
	if !equalIDs(cr.MatchIDs, memIDs) {
		result.addError("case %s: backends disagree: sql=%v mem=%v", c.Name, cr.MatchIDs, memIDs)
	}
	return cr
}

// memMatchIDs evaluates the filter over the fixture rows and returns
// 1-based positions, mirroring sqlite rowids.
func (h *Harness) memMatchIDs(compiler *filter.Compiler, tree any, rows []filtermem.Row) ([]int64, error) {
	handle, err := compiler.Apply(tree)
	if err != nil {
		return nil, err
	}
	q := handle.(*filtermem.Query)

	var ids []int64
	for i, row := range rows {
		if q.Matches(row) {
			ids = append(ids, int64(i+1))
		}
	}
	return ids, nil
}

// schemaColumns builds the sqlite column declarations from the scenario
// schema, in the scenario's deterministic column order.
func (h *Harness) schemaColumns(scenario *Scenario) []filtersql.Column {
	stringCols := make(map[string]bool, len(scenario.Schema.Columns.String))
	for _, name := range scenario.Schema.Columns.String {
		stringCols[name] = true
	}

	names := scenario.columnNames()
	columns := make([]filtersql.Column, 0, len(names))
	for _, name := range names {
		typ := filter.ColumnNumeric
		if stringCols[name] {
			typ = filter.ColumnString
		}
		columns = append(columns, filtersql.Column{Name: name, Type: typ})
	}
	return columns
}

// seed creates the scenario table and inserts the fixture rows in
// order, so rowids match 1-based fixture positions.
func (h *Harness) seed(ctx context.Context, store *filtersql.Store, scenario *Scenario, columns []filtersql.Column) error {
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		affinity := "NUMERIC"
		if col.Type == filter.ColumnString {
			affinity = "TEXT"
		}
		defs = append(defs, col.Name+" "+affinity)
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", scenario.tableName(), strings.Join(defs, ", "))
	if _, err := store.Exec(ctx, ddl); err != nil {
		return err
	}

	if len(scenario.Rows) == 0 {
		return nil
	}
	names := scenario.columnNames()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		scenario.tableName(), strings.Join(names, ", "), placeholders)
	for _, row := range scenario.Rows {
		args := make([]any, len(names))
		for i, name := range names {
			args[i] = row[name] // missing keys insert NULL
		}
		if _, err := store.Exec(ctx, stmt, args...); err != nil {
			return err
		}
	}
	return nil
}

func (h *Harness) sqlCompiler(scenario *Scenario, columns []filtersql.Column) (*filter.Compiler, error) {
	backend := filtersql.New(scenario.tableName(), columns...)
	res, err := filter.NewResolver(backend, scenario.config())
	if err != nil {
		return nil, err
	}
	return filter.NewCompiler(res), nil
}

func (h *Harness) memCompiler(scenario *Scenario, columns []filtersql.Column) (*filter.Compiler, error) {
	schema := make(map[string]filter.ColumnType, len(columns))
	for _, col := range columns {
		schema[col.Name] = col.Type
	}
	res, err := filter.NewResolver(filtermem.New(schema), scenario.config())
	if err != nil {
		return nil, err
	}
	return filter.NewCompiler(res), nil
}

// compileCode extracts the CompileError code from err, or "".
func compileCode(err error) filter.CompileErrorCode {
	var ce *filter.CompileError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
