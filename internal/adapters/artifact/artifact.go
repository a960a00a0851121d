// Package artifact loads the persisted price model and exposes it as a
// prediction.Predictor.
//
// An artifact is a JSON document exported from the training environment:
//
//	{
//	  "format": "fareprice.model/v1",
//	  "kind": "linear" | "tree_ensemble",
//	  "name": "...",
//	  "features": ["total_stops", ..., "destination_New Delhi"],
//	  "linear": {"intercept": 0, "coefficients": [...]},
//	  "ensemble": {"aggregation": "mean" | "sum", "base_score": 0,
//	               "learning_rate": 1, "trees": [{"nodes": [...]}]}
//	}
//
// The feature list must equal the encoder layout, in order.
package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/okian/fareprice/internal/domain/prediction"
)

// FormatV1 is the only artifact format understood by Load.
const FormatV1 = "fareprice.model/v1"

// Model kinds.
const (
	KindLinear       = "linear"
	KindTreeEnsemble = "tree_ensemble"
)

// Artifact is the on-disk model document.
type Artifact struct {
	Format   string    `json:"format"`
	Kind     string    `json:"kind"`
	Name     string    `json:"name,omitempty"`
	Target   string    `json:"target,omitempty"`
	Features []string  `json:"features"`
	Linear   *Linear   `json:"linear,omitempty"`
	Ensemble *Ensemble `json:"ensemble,omitempty"`
}

// Info describes a loaded model.
type Info struct {
	Path     string    `json:"path"`
	Kind     string    `json:"kind"`
	Name     string    `json:"name,omitempty"`
	Target   string    `json:"target,omitempty"`
	Features int       `json:"features"`
	Trees    int       `json:"trees,omitempty"`
	Digest   string    `json:"sha256"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Model is a loaded, immutable predictor.
type Model struct {
	predictor prediction.Predictor
	info      Info
}

var _ prediction.Predictor = (*Model)(nil)

// Predict evaluates every row.
func (m *Model) Predict(ctx context.Context, rows [][]float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.predictor.Predict(ctx, rows)
}

// Info returns metadata about the loaded artifact.
func (m *Model) Info() Info { return m.info }

// Load reads and validates the artifact at path against layout. A missing
// file yields ErrModelArtifactMissing; anything else that prevents a usable
// model yields ErrModelArtifactUnreadable. Both come wrapped in *StartupError.
func Load(ctx context.Context, path string, layout []string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StartupError{Path: path, Err: err}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &StartupError{Path: path, Err: fmt.Errorf("%w: %w", ErrModelArtifactMissing, err)}
		}
		return nil, &StartupError{Path: path, Err: fmt.Errorf("%w: %w", ErrModelArtifactUnreadable, err)}
	}

	m, err := Decode(raw, layout)
	if err != nil {
		return nil, &StartupError{Path: path, Err: err}
	}
	m.info.Path = path
	return m, nil
}

// Decode builds a Model from artifact bytes.
func Decode(raw []byte, layout []string) (*Model, error) {
	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelArtifactUnreadable, err)
	}
	if err := checkLayout(a.Features, layout); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelArtifactUnreadable, err)
	}

	sum := sha256.Sum256(raw)
	info := Info{
		Kind:     a.Kind,
		Name:     a.Name,
		Target:   a.Target,
		Features: len(a.Features),
		Digest:   hex.EncodeToString(sum[:]),
		LoadedAt: time.Now().UTC(),
	}

	var (
		p   prediction.Predictor
		err error
	)
	switch {
	case a.Format != FormatV1:
		err = fmt.Errorf("%w: format %q", ErrUnsupportedKind, a.Format)
	case a.Kind == KindLinear:
		p, err = newLinear(a.Linear, len(a.Features))
	case a.Kind == KindTreeEnsemble:
		p, err = newEnsemble(a.Ensemble, len(a.Features))
		if a.Ensemble != nil {
			info.Trees = len(a.Ensemble.Trees)
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedKind, a.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelArtifactUnreadable, err)
	}
	return &Model{predictor: p, info: info}, nil
}

func checkLayout(features, layout []string) error {
	if len(features) != len(layout) {
		return fmt.Errorf("%w: artifact has %d features, encoder has %d", ErrIncompatibleLayout, len(features), len(layout))
	}
	for i := range layout {
		if features[i] != layout[i] {
			return fmt.Errorf("%w: column %d is %q, encoder expects %q", ErrIncompatibleLayout, i, features[i], layout[i])
		}
	}
	return nil
}
