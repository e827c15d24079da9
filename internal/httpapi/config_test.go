package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sentimentd/pkg/types"
)

func TestSetMaxBodyBytes_DefaultWhenNonPositive(t *testing.T) {
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 64<<10 {
		t.Fatalf("expected default 64KiB, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(0)
	if maxBodyBytes != 64<<10 {
		t.Fatalf("expected default 64KiB on zero, got %d", maxBodyBytes)
	}
}

func TestSetMaxBodyBytes_PositiveSetsValue(t *testing.T) {
	defer SetMaxBodyBytes(0)
	SetMaxBodyBytes(1234)
	if maxBodyBytes != 1234 {
		t.Fatalf("expected 1234, got %d", maxBodyBytes)
	}
}

func getClientConfig(t *testing.T, h http.Handler) types.ClientConfig {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/config/client", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var cc types.ClientConfig
	if err := json.Unmarshal(w.Body.Bytes(), &cc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return cc
}

func TestClientConfigEndpoint(t *testing.T) {
	defer SetClientDefaults(800, 5)
	h := NewMux(&mockService{})

	cc := getClientConfig(t, h)
	if cc.DebounceMs != 800 || cc.MinChars != 5 {
		t.Fatalf("defaults: %+v", cc)
	}

	SetClientDefaults(300, 2)
	cc = getClientConfig(t, h)
	if cc.DebounceMs != 300 || cc.MinChars != 2 {
		t.Fatalf("configured: %+v", cc)
	}
}

func TestSetClientDefaults_NonPositiveIgnored(t *testing.T) {
	defer SetClientDefaults(800, 5)
	SetClientDefaults(0, -1)
	if clientDefaults.debounceMs != 800 || clientDefaults.minChars != 5 {
		t.Fatalf("defaults changed: %+v", clientDefaults)
	}
}
