package manager

import (
	"time"

	"sentimentd/pkg/types"
)

// Ready reports whether a model is promoted and serving.
func (m *Manager) Ready() bool { return m.reg.Ready() }

// Status builds the /status projection from the registry and uptime.
func (m *Manager) Status() types.StatusResponse {
	resp := types.StatusResponse{
		Ready:               m.reg.Ready(),
		Generation:          m.reg.Generation(),
		ReloadsTotal:        m.reg.Generation(),
		ReloadFailuresTotal: m.reg.Failures(),
		UptimeSeconds:       int64(time.Since(m.start).Seconds()),
	}
	if eng, err := m.reg.Active(); err == nil {
		resp.ModelID = eng.Fingerprint()
		resp.ModelPath = eng.Path()
		resp.ModelVersion = eng.Version()
		resp.LoadedAtUnix = eng.LoadedAt().Unix()
	}
	return resp
}
