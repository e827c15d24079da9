package engine

import (
	"math"
	"strings"
	"time"
	"unicode"

	"sentimentd/pkg/types"
)

// negators flip the sign of the term that follows them ("not good" scores as
// the opposite of "good"). Tokenization strips apostrophes, so contractions
// appear here in their stripped form.
var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "cannot": {},
	"dont": {}, "doesnt": {}, "didnt": {}, "isnt": {}, "wasnt": {},
	"arent": {}, "werent": {}, "wont": {}, "wouldnt": {}, "couldnt": {},
	"shouldnt": {}, "cant": {},
}

// negationWindow is how many tokens a negator reaches forward.
const negationWindow = 2

// Engine scores text against one immutable loaded artifact.
type Engine struct {
	weights     map[string]float64
	bias        float64
	version     string
	fingerprint string
	path        string
	loadedAt    time.Time
}

func newEngine(art Artifact, path, version, fingerprint string) *Engine {
	w := make(map[string]float64, len(art.Weights))
	for term, v := range art.Weights {
		w[strings.ToLower(term)] = v
	}
	return &Engine{
		weights:     w,
		bias:        art.Bias,
		version:     version,
		fingerprint: fingerprint,
		path:        path,
		loadedAt:    time.Now(),
	}
}

// Version returns the artifact's identity string.
func (e *Engine) Version() string { return e.version }

// Fingerprint returns a short content hash of the artifact bytes.
func (e *Engine) Fingerprint() string { return e.fingerprint }

// Path returns the absolute artifact path this engine was loaded from.
func (e *Engine) Path() string { return e.path }

// LoadedAt returns when this engine was loaded.
func (e *Engine) LoadedAt() time.Time { return e.loadedAt }

// Predict scores text and returns a label with the model's confidence in that
// label. Deterministic for a fixed artifact and fixed text; read-only, so
// concurrent calls against the same Engine are safe.
func (e *Engine) Predict(text string) (types.PredictionResult, error) {
	if strings.TrimSpace(text) == "" {
		return types.PredictionResult{}, ErrEmptyText
	}
	tokens := tokenize(text)
	raw := e.bias
	negateLeft := 0
	for _, tok := range tokens {
		if _, ok := negators[tok]; ok {
			negateLeft = negationWindow
			continue
		}
		if w, ok := e.weights[tok]; ok {
			if negateLeft > 0 {
				w = -w
			}
			raw += w
		}
		if negateLeft > 0 {
			negateLeft--
		}
	}
	// Logistic squash: probability of the positive label.
	pPos := 1.0 / (1.0 + math.Exp(-raw))
	res := types.PredictionResult{Label: types.LabelPositive, Score: pPos, ModelVersion: e.version}
	if pPos < 0.5 {
		res.Label = types.LabelNegative
		res.Score = 1.0 - pPos
	}
	return res, nil
}

// tokenize lowercases and splits on anything that is not a letter or digit.
// Apostrophes are dropped in place so "don't" becomes "dont".
func tokenize(text string) []string {
	var toks []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			toks = append(toks, b.String())
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'' || r == '’':
			// drop, keep the token running
		default:
			flush()
		}
	}
	flush()
	return toks
}
