package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"sentimentd/internal/engine"
	"sentimentd/internal/httpapi"
	"sentimentd/internal/manager"
	"sentimentd/internal/registry"
	"sentimentd/pkg/types"
)

// writeArtifact creates a small lexicon artifact and returns its path.
func writeArtifact(t *testing.T, dir, version string) string {
	t.Helper()
	art := engine.Artifact{
		SchemaVersion: 1,
		Version:       version,
		Weights: map[string]float64{
			"amazing":   2.0,
			"great":     1.5,
			"recommend": 1.2,
			"terrible":  -2.2,
			"awful":     -2.0,
		},
	}
	b, err := json.Marshal(art)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	p := filepath.Join(dir, "weights.json")
	if err := os.WriteFile(p, b, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

// newServer wires registry, manager and mux the way cmd/sentimentd does.
func newServer(t *testing.T) (*httptest.Server, *registry.Registry, string) {
	t.Helper()
	p := writeArtifact(t, t.TempDir(), "v1")
	reg := registry.New()
	if _, err := reg.LoadAndPromote(p); err != nil {
		t.Fatalf("initial load: %v", err)
	}
	mgr := manager.New(reg, p, time.Second, zerolog.Nop())
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(srv.Close)
	return srv, reg, p
}

func predict(t *testing.T, srv *httptest.Server, text string) (*http.Response, types.PredictionResult) {
	t.Helper()
	body, _ := json.Marshal(types.PredictionRequest{Text: text})
	resp, err := http.Post(srv.URL+"/predict", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	var res types.PredictionResult
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp, res
}

func TestE2E_PositivePrediction(t *testing.T) {
	srv, _, _ := newServer(t)
	resp, res := predict(t, srv, "This product is absolutely amazing!")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if res.Label != types.LabelPositive || res.Score <= 0.5 {
		t.Fatalf("result=%+v", res)
	}
	if res.ModelVersion != "v1" {
		t.Fatalf("model version=%q", res.ModelVersion)
	}
}

func TestE2E_NegativePrediction(t *testing.T) {
	srv, _, _ := newServer(t)
	resp, res := predict(t, srv, "Terrible experience, would not recommend.")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if res.Label != types.LabelNegative || res.Score <= 0.5 {
		t.Fatalf("result=%+v", res)
	}
}

func TestE2E_EmptyTextRejected(t *testing.T) {
	srv, _, _ := newServer(t)
	for _, text := range []string{"", "   "} {
		resp, _ := predict(t, srv, text)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("text %q: status=%d", text, resp.StatusCode)
		}
	}
}

// TestE2E_CorruptReloadKeepsServing overwrites the artifact with garbage,
// triggers a manual reload, and verifies the old engine still serves.
func TestE2E_CorruptReloadKeepsServing(t *testing.T) {
	srv, reg, p := newServer(t)

	if err := os.WriteFile(p, []byte("{corrupt weights"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	resp, err := http.Post(srv.URL+"/reload", "application/json", nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("reload status=%d", resp.StatusCode)
	}
	if reg.Generation() != 1 {
		t.Fatalf("generation=%d", reg.Generation())
	}

	// Predictions still succeed against the old artifact.
	presp, res := predict(t, srv, "Still works, absolutely amazing!")
	if presp.StatusCode != http.StatusOK || res.Label != types.LabelPositive {
		t.Fatalf("status=%d result=%+v", presp.StatusCode, res)
	}
}

// TestE2E_ReloadPromotesNewVersion rewrites the artifact and reloads; the
// next prediction reports the new model version.
func TestE2E_ReloadPromotesNewVersion(t *testing.T) {
	srv, reg, p := newServer(t)
	writeNew := writeArtifact(t, filepath.Dir(p), "v2")
	if writeNew != p {
		t.Fatalf("artifact path changed: %s", writeNew)
	}
	resp, err := http.Post(srv.URL+"/reload", "application/json", nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reload status=%d", resp.StatusCode)
	}
	if reg.Generation() != 2 {
		t.Fatalf("generation=%d", reg.Generation())
	}
	presp, res := predict(t, srv, "This product is absolutely amazing!")
	if presp.StatusCode != http.StatusOK || res.ModelVersion != "v2" {
		t.Fatalf("status=%d result=%+v", presp.StatusCode, res)
	}
}

func TestE2E_NotReadyBeforeFirstLoad(t *testing.T) {
	reg := registry.New()
	mgr := manager.New(reg, filepath.Join(t.TempDir(), "missing.json"), time.Second, zerolog.Nop())
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("readyz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("readyz status=%d", resp.StatusCode)
	}

	body, _ := json.Marshal(types.PredictionRequest{Text: "plenty of text here"})
	presp, err := http.Post(srv.URL+"/predict", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	defer presp.Body.Close()
	if presp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("predict status=%d", presp.StatusCode)
	}
	var er types.ErrorResponse
	if err := json.NewDecoder(presp.Body).Decode(&er); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if er.Kind != types.KindModelUnavailable {
		t.Fatalf("kind=%s", er.Kind)
	}
}

func TestE2E_StatusDocument(t *testing.T) {
	srv, _, _ := newServer(t)
	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	defer resp.Body.Close()
	var st types.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !st.Ready || st.ModelVersion != "v1" || st.Generation != 1 {
		t.Fatalf("status=%+v", st)
	}
}
