// Package main is the entry point for the Voxelgard renderer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelgard/internal/config"
	"github.com/Faultbox/voxelgard/internal/game"
	"github.com/Faultbox/voxelgard/internal/logger"
)

func main() {
	config.ParseFlags()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "voxelgard:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	defer logger.Sync()

	logger.Info("voxelgard starting",
		zap.String("scene", cfg.Scene.Path),
		zap.String("variant", cfg.Renderer.Variant),
		zap.Int("depth", cfg.Scene.Depth),
	)
	logger.Debug("effective configuration", zap.Any("config", cfg))

	g, err := game.New(cfg)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		return err
	}
	defer g.Close()

	if err := g.Run(); err != nil {
		logger.Error("render loop failed", zap.Error(err))
		return err
	}

	logger.Info("closed normally")
	return nil
}
