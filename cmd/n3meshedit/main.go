// Package main is the entry point for the N3 mesh viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/n3mesh-editor/internal/config"
	"github.com/Faultbox/n3mesh-editor/internal/logger"
)

const appName = "N3 Mesh Editor"

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	opts := logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Console: true}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.Setup(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== " + appName + " ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	a, err := newApp(cfg)
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	path := config.MeshPath()
	if path == "" {
		path = cfg.Viewer.LastFile
	}
	if path != "" {
		a.load(path)
	}

	a.Run()

	if err := cfg.SaveLastFile(a.editor.Path()); err != nil {
		logger.Warn("failed to save config", zap.Error(err))
	}
	logger.Info("viewer closed normally")
}
