package filter

// Limits bounds the structural shape of a filter tree. A zero or
// negative field means unbounded. Limits are enforced, not advisory:
// violation aborts the compile with the corresponding limit error.
//
// An entirely zero Limits reads as "not configured" and gets
// DefaultLimits; set MaxElements to -1 to run genuinely unbounded.
type Limits struct {
	// MaxBreadth caps the number of direct children of one logical node.
	MaxBreadth int `yaml:"breadth" json:"breadth"`

	// MaxDepth caps nesting depth; the root node is depth 1.
	MaxDepth int `yaml:"depth" json:"depth"`

	// MaxElements caps the total node count of the tree.
	MaxElements int `yaml:"elements" json:"elements"`
}

// DefaultLimits returns the limits applied when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxElements: 64}
}

// hardDepthCeiling bounds recursion regardless of configuration, so
// adversarial input cannot exhaust the goroutine stack when MaxDepth is
// left unbounded.
const hardDepthCeiling = 4096

// tracker accumulates the element count for one in-flight compile call.
// It is created per call and never shared; depth is threaded through
// the recursion separately because siblings share it.
type tracker struct {
	limits Limits
	count  int
}

// enter accounts for one node and checks all structural limits against
// its value payload before the compiler descends into it.
//
// Counting convention: every node, logical or comparison, contributes
// exactly 1 to the element count, added on entry. Breadth is the length
// of a genuine sequence payload, else 1. Checks run in a fixed order -
// depth, breadth, elements - and the first violation aborts.
func (t *tracker) enter(depth int, payload any) error {
	t.count++

	if depth > hardDepthCeiling {
		return newLimitError(ErrCodeMaxDepth, hardDepthCeiling,
			"recursion ceiling (%d) exceeded", hardDepthCeiling)
	}
	if t.limits.MaxDepth > 0 && depth > t.limits.MaxDepth {
		return newLimitError(ErrCodeMaxDepth, t.limits.MaxDepth,
			"depth limit (%d) exceeded", t.limits.MaxDepth)
	}

	breadth := 1
	if seq, ok := asSequence(payload); ok {
		breadth = len(seq)
	}
	if t.limits.MaxBreadth > 0 && breadth > t.limits.MaxBreadth {
		return newLimitError(ErrCodeMaxBreadth, t.limits.MaxBreadth,
			"breadth limit (%d) exceeded: node has %d children", t.limits.MaxBreadth, breadth)
	}

	if t.limits.MaxElements > 0 && t.count > t.limits.MaxElements {
		return newLimitError(ErrCodeMaxElements, t.limits.MaxElements,
			"element limit (%d) exceeded", t.limits.MaxElements)
	}

	return nil
}
