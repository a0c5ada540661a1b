package cache

import (
	"errors"
	"fmt"
	"math"
)

// ErrModelInit is returned when no ONNX execution backend could be
// initialized for the DQN policy.
var ErrModelInit = errors.New("no execution backend could be initialized")

// ErrModelRun is returned when the ONNX session fails during inference.
var ErrModelRun = errors.New("model inference failed")

// Scorer runs the precompiled model over a row-major [n, 4] feature matrix
// and returns the n-vector of float32 scores (lower is more evictable). It
// abstracts the concrete ONNX Runtime session so SelectVictim's selection
// logic is unit-testable without a native ONNX Runtime shared library
// present.
type Scorer interface {
	Run(features []float32, n int) ([]float32, error)
}

// DQN scores eviction candidates with a precompiled, read-only neural model.
// Feature column 3 (the table-capacity hint) uses the configured cache
// capacity rather than the backing map's allocated bucket count — see
// DESIGN.md for why the latter, named in the original source, is not
// observable through Go's map implementation.
type DQN struct {
	scorer Scorer
}

// NewDQN constructs a DQN policy around an already-initialized Scorer. Use
// NewDQNRuntime to build one backed by a real ONNX Runtime session.
func NewDQN(scorer Scorer) *DQN {
	return &DQN{scorer: scorer}
}

// SelectVictim implements Policy.
func (p *DQN) SelectVictim(entries map[string]Entry, capacityHint int, now uint64) (string, error) {
	n := len(entries)
	if n == 0 {
		return "", ErrEmptyCache
	}

	keys := make([]string, 0, n)
	features := make([]float32, 0, n*4)
	capacityFeature := log1p(float64(capacityHint))

	for key, entry := range entries {
		keys = append(keys, key)
		features = append(features,
			log1p(float64(now-entry.AccessedAt)),
			log1p(float64(entry.AccessCount)),
			log1p(float64(len(entry.Value))),
			capacityFeature,
		)
	}

	scores, err := p.scorer.Run(features, n)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrModelRun, err)
	}
	if len(scores) != n {
		return "", fmt.Errorf("%w: expected %d scores, got %d", ErrModelRun, n, len(scores))
	}

	minimumIndex := 0
	for i := 1; i < n; i++ {
		if scores[i] < scores[minimumIndex] {
			minimumIndex = i
		}
	}

	return keys[minimumIndex], nil
}

// log1p computes ln(1+x) in IEEE 754 single precision.
func log1p(x float64) float32 {
	return float32(math.Log1p(x))
}
