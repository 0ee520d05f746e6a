package harness

import "github.com/google/uuid"

// TokenGenerator produces the run token attached to a scenario result.
type TokenGenerator interface {
	Generate() string
}

// UUIDGenerator mints a fresh token per run. This is the default for
// interactive runs, where tokens exist to correlate log lines.
type UUIDGenerator struct{}

// Generate implements TokenGenerator.
func (UUIDGenerator) Generate() string {
	return "run-" + uuid.NewString()
}

// FixedGenerator always returns the same token. Golden runs use it so
// repeated executions produce byte-identical snapshots.
type FixedGenerator struct {
	token string
}

// NewFixedGenerator creates a fixed token generator. An empty token
// defaults to "run-fixed" so golden snapshots stay deterministic even
// when the scenario omits one.
func NewFixedGenerator(token string) *FixedGenerator {
	if token == "" {
		token = "run-fixed"
	}
	return &FixedGenerator{token: token}
}

// Generate implements TokenGenerator.
func (g *FixedGenerator) Generate() string {
	return g.token
}
