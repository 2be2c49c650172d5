package cli

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/muse/internal/adapters/grpcapi"
	"github.com/example/muse/internal/metrics"
	"github.com/example/muse/internal/wire"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the thought engine over gRPC",
		Long: `Start the muse.v1.ThoughtService gRPC server together with an HTTP
server exposing /metrics and /health. Stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()
			grpcAddr, _ := cmd.Flags().GetString("grpc-addr")
			if grpcAddr == "" {
				grpcAddr = cfg.Server.GRPCAddr
			}
			metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
			if metricsAddr == "" {
				metricsAddr = cfg.Server.MetricsAddr
			}

			ctx, stop := NewSignalContext()
			defer stop()
			return serve(ctx, grpcAddr, metricsAddr)
		},
	}
	cmd.Flags().String("grpc-addr", "", "gRPC listen address (default from config)")
	cmd.Flags().String("metrics-addr", "", "metrics listen address (default from config)")
	return cmd
}

func serve(ctx context.Context, grpcAddr, metricsAddr string) error {
	logger := wire.Logger()
	m := wire.Metrics()

	grpcLis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", grpcAddr, err)
	}
	metricsLis, err := net.Listen("tcp", metricsAddr)
	if err != nil {
		grpcLis.Close()
		return fmt.Errorf("failed to listen on %s: %w", metricsAddr, err)
	}

	gs := grpcapi.NewGRPCServer(wire.ThoughtService(), m, logger)
	ms := metrics.NewServer(metricsAddr, m, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("grpc server listening", zap.String("addr", grpcLis.Addr().String()))
		if err := gs.Serve(grpcLis); err != nil {
			return fmt.Errorf("grpc server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return ms.Serve(metricsLis)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down grpc server")
		gs.GracefulStop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return ms.Shutdown(shutdownCtx)
	})

	fmt.Printf("✓ Serving %s on %s (metrics on %s)\n", grpcapi.ServiceName, grpcLis.Addr(), metricsLis.Addr())
	return g.Wait()
}
