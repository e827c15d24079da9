package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// artifactSchemaVersion is the only on-disk schema this build understands.
const artifactSchemaVersion = 1

// Artifact is the on-disk model format: a weighted lexicon plus a bias term.
// Produced by the external fine-tuning pipeline; this package only loads it.
type Artifact struct {
	// SchemaVersion guards against incompatible artifact layouts.
	SchemaVersion int `json:"schema_version"`
	// Version is a human-meaningful artifact identity (training run, date).
	Version string `json:"version,omitempty"`
	// Bias shifts the decision boundary; positive favors the positive label.
	Bias float64 `json:"bias"`
	// Weights maps lowercase terms to signed sentiment weights.
	Weights map[string]float64 `json:"weights"`
}

// validate rejects artifacts that would produce undefined predictions.
func (a *Artifact) validate() error {
	if a.SchemaVersion != artifactSchemaVersion {
		return badArtifactError{fmt.Sprintf("unsupported schema_version %d (want %d)", a.SchemaVersion, artifactSchemaVersion)}
	}
	if len(a.Weights) == 0 {
		return badArtifactError{"empty weight table"}
	}
	if math.IsNaN(a.Bias) || math.IsInf(a.Bias, 0) {
		return badArtifactError{"bias is not finite"}
	}
	for term, w := range a.Weights {
		if term == "" {
			return badArtifactError{"empty term in weight table"}
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return badArtifactError{fmt.Sprintf("weight for %q is not finite", term)}
		}
	}
	return nil
}

// Load reads, parses and validates the artifact at path and returns a ready
// Engine. It never mutates any previously loaded engine; a failed load leaves
// the caller free to keep serving whatever it already holds.
func Load(path string) (*Engine, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var art Artifact
	if err := json.Unmarshal(b, &art); err != nil {
		return nil, badArtifactError{fmt.Sprintf("parse artifact: %v", err)}
	}
	if err := art.validate(); err != nil {
		return nil, err
	}
	sum := sha256.Sum256(b)
	fp := hex.EncodeToString(sum[:6])
	version := art.Version
	if version == "" {
		version = fp
	}
	return newEngine(art, abs, version, fp), nil
}
