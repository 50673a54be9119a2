package main

import (
	"context"
	"flag"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"github.com/yi-nology/upload_bridge/biz/router"
	"github.com/yi-nology/upload_bridge/pkg/config"
	"github.com/yi-nology/upload_bridge/pkg/storage/selector"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		hlog.Fatalf("load config: %v", err)
	}
	hlog.SetLevel(cfg.Log.LogLevel())

	backend, err := selector.New(context.Background(), cfg.Storage)
	if err != nil {
		hlog.Fatalf("init storage: %v", err)
	}
	hlog.Infof("environment=%q storage=%s", cfg.Storage.Environment, backend.Type())

	h := router.NewServer(cfg, backend)
	h.Spin()
}
