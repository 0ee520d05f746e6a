package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the golden-file form of one scenario run. Field order is
// fixed by the struct, so serialization is deterministic.
type Snapshot struct {
	Scenario string         `json:"scenario"`
	RunToken string         `json:"run_token"`
	Cases    []CaseSnapshot `json:"cases"`
}

// CaseSnapshot captures one case: the rendered SQL with its parameters
// and either the matched row ids or the rejection code.
type CaseSnapshot struct {
	Name     string  `json:"name"`
	SQL      string  `json:"sql,omitempty"`
	Params   []any   `json:"params,omitempty"`
	MatchIDs []int64 `json:"match_ids,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// snapshot converts a result into its golden form.
func snapshot(scenario *Scenario, result *Result) Snapshot {
	snap := Snapshot{
		Scenario: scenario.Name,
		RunToken: result.RunToken,
		Cases:    make([]CaseSnapshot, 0, len(result.Cases)),
	}
	for _, cr := range result.Cases {
		snap.Cases = append(snap.Cases, CaseSnapshot{
			Name:     cr.Name,
			SQL:      cr.SQL,
			Params:   cr.Params,
			MatchIDs: cr.MatchIDs,
			Error:    cr.ErrorCode,
		})
	}
	return snap
}

// marshalSnapshot renders a snapshot as indented JSON without HTML
// escaping, so SQL operators like < stay readable in golden files.
func marshalSnapshot(snap Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario with a fixed run token and compares
// the snapshot against testdata/golden/{scenario.Name}.golden.
//
// Regenerate golden files with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	h := New(WithTokenGenerator(NewFixedGenerator(scenario.RunToken)))
	result, err := h.Run(context.Background(), scenario)
	if err != nil {
		return err
	}
	if !result.Pass {
		return fmt.Errorf("scenario %s failed: %v", scenario.Name, result.Errors)
	}

	data, err := marshalSnapshot(snapshot(scenario, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
