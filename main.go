package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"silkroad/config"
	"silkroad/game"
	"silkroad/server"
)

// 入口：加载配置与数值表，启动 HTTP + WebSocket 服务
func main() {
	var (
		configPath string
		addr       string
	)
	flag.StringVar(&configPath, "config", "config.toml", "path to TOML config; empty uses built-in defaults")
	flag.StringVar(&addr, "addr", "", "override server listen address, e.g. :3000")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if err := server.InitLogger(cfg.Logging); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	balance := game.DefaultBalance()
	if cfg.Game.BalanceFile != "" {
		balance, err = game.LoadBalance(cfg.Game.BalanceFile)
		if err != nil {
			server.Log.Fatalf("load balance: %v", err)
		}
	}

	srv := server.New(cfg, balance)
	// 先预创建默认对局，便于快速试跑
	_ = srv.Manager().GetOrCreateMatch(cfg.Server.DefaultMatch)

	httpSrv := &http.Server{Addr: cfg.Server.Addr, Handler: srv.Routes()}
	go func() {
		server.Log.Infof("listening on %s; ws endpoint ws://localhost%s/ws", cfg.Server.Addr, cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		server.Log.Warnf("http shutdown: %v", err)
	}
	srv.Close()
}
