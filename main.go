package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airship/config"
	"airship/logging"
	"airship/server"
)

// 中继入口：启动 HTTP + WebSocket 服务，转发 move 事件
func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "optional JSON config file")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logging.New(logging.Options{
		FilePath: cfg.Log.File,
		Level:    cfg.Log.Level,
		Console:  cfg.Log.Console,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logging.Sync(log)

	relay := server.NewServer(cfg.Relay, log)
	srv := &http.Server{Addr: cfg.Relay.Addr, Handler: relay.Handler()}

	go func() {
		log.Infof("WebSocket server running on %s%s", cfg.Relay.Addr, cfg.Relay.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	relay.Hub().Close()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("shutdown: %v", err)
	}
}
