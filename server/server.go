package server

import (
	"net/http"

	"silkroad/config"
	"silkroad/game"
)

// Server HTTP 入口：WebSocket 接入与管理接口
type Server struct {
	cfg     *config.Config
	manager *MatchManager
}

func New(cfg *config.Config, balance *game.Balance) *Server {
	return &Server{
		cfg:     cfg,
		manager: NewMatchManager(cfg, balance),
	}
}

// Manager 对局管理器
func (s *Server) Manager() *MatchManager { return s.manager }

// Routes 注册全部 HTTP 路由
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)
	// 管理与监控接口
	mux.HandleFunc("/admin/config", s.HandleAdminConfig)
	mux.HandleFunc("/admin/reset", s.HandleAdminReset)
	mux.HandleFunc("/metrics", s.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Close 停止所有对局的 Tick 并断开连接
func (s *Server) Close() {
	s.manager.Close()
}
