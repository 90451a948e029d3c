package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airship/config"
	"airship/logging"
	"airship/netsync"
	"airship/sim"
)

// 客户端入口：本地模拟 + 终端键盘 + 与中继同步
func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "optional JSON config file")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// raw 模式下不向控制台输出日志
	log, err := logging.New(logging.Options{FilePath: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logging.Sync(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	conn, err := netsync.Dial(dialCtx, cfg.Client.Server, log)
	cancel()
	if err != nil {
		log.Errorf("connect relay: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer conn.Close()
	log.Infof("connected to %s", cfg.Client.Server)

	loop := sim.New(cfg.Client, newLogRenderer(log, time.Second), log)
	bridge := netsync.NewBridge(conn, loop.Scene(), cfg.Client, log)
	loop.Attach(bridge)

	go func() {
		for env := range conn.Incoming() {
			loop.Deliver(env.From, env.P)
		}
		// 不重连：远端实体停留在最后位姿
		log.Warn("relay connection lost")
	}()

	kb, err := openKeyboard()
	if err != nil {
		log.Warnf("keyboard unavailable, running without input: %v", err)
	} else {
		defer kb.Close()
		go kb.pump(loop, stop)
	}

	if err := loop.Run(ctx); err != nil {
		log.Errorf("simulation: %v", err)
	}
	st := bridge.Stats()
	log.Infof("sync stats: sent=%d failed=%d applied=%d stale=%d undecoded=%d",
		st.Sent, st.SendFailed, st.Applied, st.Stale, st.Undecoded)
}
