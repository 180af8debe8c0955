package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tinyland-inc/predictree/cmd/predictree/internal"
	"github.com/tinyland-inc/predictree/pkg/logger"
	"github.com/tinyland-inc/predictree/pkg/metrics"
	"github.com/tinyland-inc/predictree/pkg/server"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(debug bool, addr string) error {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if debug {
		logger.SetLevel(logger.DEBUG)
		fmt.Println("🔍 Debug mode enabled")
	}

	if addr == "" {
		addr = cfg.Server.Addr()
	}

	var (
		m        *metrics.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
		gatherer = reg
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	controller, err := internal.NewController(ctx, cfg, m)
	if err != nil {
		return err
	}

	srv := server.NewServer(server.Options{
		Addr:         addr,
		WalkPath:     cfg.Server.Path,
		Walker:       controller,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Gatherer:     gatherer,
		MetricsPath:  cfg.Metrics.Path,
		Version:      internal.FormatVersion(),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	fmt.Printf("✓ Serving tree walks at http://%s%s\n", addr, cfg.Server.Path)
	fmt.Printf("✓ Health endpoints available at http://%s/health and /ready\n", addr)
	if cfg.Metrics.Enabled {
		fmt.Printf("✓ Metrics available at http://%s%s\n", addr, cfg.Metrics.Path)
	}
	fmt.Println("Press Ctrl+C to stop")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Println("\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.ErrorCF("server", "Shutdown did not complete", map[string]any{"error": err.Error()})
	}
	fmt.Println("✓ Server stopped")
	return nil
}
