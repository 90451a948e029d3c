package server

import (
	"encoding/json"
	"net/http"
)

// handleMetrics 输出中继运行指标
// GET /metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	payload := map[string]any{
		"live":    s.hub.Len(),
		"metrics": s.hub.Metrics().Snapshot(),
	}
	writeJSON(w, payload)
}

// handlePeers 列出在线连接句柄
// GET /admin/peers
func (s *Server) handlePeers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{"peers": s.hub.Handles()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
