package server

import (
	"encoding/json"
	"net/http"
)

// matchFromQuery 解析 ?match=，缺省为默认对局；对局不存在时返回 404
func (s *Server) matchFromQuery(w http.ResponseWriter, r *http.Request) (*Match, bool) {
	matchID := r.URL.Query().Get("match")
	if matchID == "" {
		matchID = s.cfg.Server.DefaultMatch
	}
	m, ok := s.manager.Get(matchID)
	if !ok {
		http.Error(w, "unknown match", http.StatusNotFound)
		return nil, false
	}
	return m, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// HandleAdminConfig 提供对局参数的读取与热更新
// GET /admin/config?match=match-1  返回当前配置
// POST /admin/config?match=match-1 以 JSON 载荷更新部分字段
func (s *Server) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	m, ok := s.matchFromQuery(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, m.Tunables())
	case http.MethodPost:
		var body Tunables
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := m.ApplyTunables(body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cur := m.Tunables()
		Log.Infof("config updated: match=%s planningMs=%d spawnIntervalMs=%d autoStart=%t maxCommandsPerTick=%d",
			m.ID, *cur.PlanningMs, *cur.SpawnIntervalMs, *cur.AutoStartBattle, *cur.MaxCommandsPerTick)
		writeJSON(w, map[string]any{"ok": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleAdminReset 重新开局
// POST /admin/reset?match=match-1
func (s *Server) HandleAdminReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	m, ok := s.matchFromQuery(w, r)
	if !ok {
		return
	}
	m.Reset()
	writeJSON(w, map[string]any{"ok": true})
}

// HandleMetrics 输出指定对局的运行指标
// GET /metrics?match=match-1
func (s *Server) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	m, ok := s.matchFromQuery(w, r)
	if !ok {
		return
	}
	snap := m.Snapshot()
	writeJSON(w, map[string]any{
		"match":   m.ID,
		"tick":    m.TickSeq(),
		"phase":   snap.Phase,
		"wave":    snap.Wave,
		"metrics": m.Metrics().Snapshot(),
	})
}
