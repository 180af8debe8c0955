package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/tinyland-inc/predictree/pkg/config"
	"github.com/tinyland-inc/predictree/pkg/logger"
	"github.com/tinyland-inc/predictree/pkg/metrics"
	"github.com/tinyland-inc/predictree/pkg/predict"
	"github.com/tinyland-inc/predictree/pkg/providers"
	"github.com/tinyland-inc/predictree/pkg/transport"
	"github.com/tinyland-inc/predictree/pkg/tree"
)

const Logo = "🌳"

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

// ConfigPath is set by the --config flag; empty means the default location.
var ConfigPath string

func GetConfigPath() string {
	if ConfigPath != "" {
		return config.ExpandHome(ConfigPath)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".predictree", "config.json")
}

func LoadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(GetConfigPath())
	if err != nil {
		return nil, err
	}
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	return cfg, nil
}

// NewController wires provider, generator and transport from cfg. m may be nil.
func NewController(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*tree.Controller, error) {
	provider, err := providers.CreateProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating provider: %w", err)
	}

	gen := &predict.Generator{
		Provider: provider,
		Model:    cfg.Generator.Model,
		Angles:   predict.Angles(cfg.Generator.Angles),
		Options: providers.Options{
			MaxTokens:   cfg.Generator.MaxTokens,
			Temperature: cfg.Generator.Temperature,
		},
		Limiter: predict.NewLimiter(cfg.Generator.RPM, cfg.Walk.MaxBreadth),
	}

	c := &tree.Controller{
		Generator: gen,
		Limits: tree.Limits{
			MaxBreadth: cfg.Walk.MaxBreadth,
			MaxDepth:   cfg.Walk.MaxDepth,
		},
		Concurrency: cfg.Walk.GenerateConcurrency,
		Metrics:     m,
	}

	switch cfg.Walk.Transport {
	case config.TransportHTTP:
		c.Transport = transport.NewHTTP(cfg.Walk.SelfURL, cfg.Walk.ChildTimeout())
	default:
		c.Transport = &transport.Local{Walker: c}
	}

	logger.InfoCF("walk", "Controller ready", map[string]any{
		"provider":    cfg.Generator.Provider,
		"model":       gen.Model,
		"transport":   cfg.Walk.Transport,
		"max_breadth": cfg.Walk.MaxBreadth,
		"max_depth":   cfg.Walk.MaxDepth,
	})
	return c, nil
}

// FormatVersion returns the version string with optional git commit
func FormatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

// FormatBuildInfo returns build time and go version info
func FormatBuildInfo() (string, string) {
	build := buildTime
	goVer := goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return build, goVer
}

// GetVersion returns the version string
func GetVersion() string {
	return version
}
