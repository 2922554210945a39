package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/s3proxy"
	"github.com/sagarc03/s3proxy/config"
	"github.com/sagarc03/s3proxy/filesystem"
	s3proxyhttp "github.com/sagarc03/s3proxy/http"
	"github.com/sagarc03/s3proxy/s3store"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the s3proxy HTTP server.

Every request path is resolved to an object key in the configured bucket
and the object is returned with a content type inferred from its key.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	gateway, err := s3proxy.NewGateway(store, s3proxy.Config{Bucket: cfg.S3.Bucket})
	if err != nil {
		return fmt.Errorf("create gateway: %w", err)
	}

	handler := s3proxyhttp.NewHandler(&s3proxyhttp.HandlerConfig{CORS: cfg.CORS}, gateway)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case <-sigCh:
		case <-ctx.Done():
			return
		}

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server",
		"addr", ln.Addr().String(),
		"backend", cfg.Storage.Backend,
		"bucket", cfg.S3.Bucket,
	)
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// openStore builds the configured storage backend. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (s3proxy.ObjectStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendFilesystem:
		info, err := os.Stat(cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("storage directory: %w", err)
		}
		if !info.IsDir() {
			return nil, nil, fmt.Errorf("storage path is not a directory: %s", cfg.Storage.Path)
		}

		root, err := os.OpenRoot(cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open storage root: %w", err)
		}
		slog.Info("using filesystem storage", "path", cfg.Storage.Path)
		return filesystem.NewStore(root), func() { _ = root.Close() }, nil

	case config.BackendS3:
		client, err := s3store.NewClient(ctx, s3store.Options{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.PathStyle,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			MaxAttempts:  cfg.S3.MaxAttempts,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create s3 client: %w", err)
		}
		slog.Info("using s3 storage", "region", cfg.S3.Region, "endpoint", cfg.S3.Endpoint)
		return s3store.NewStore(client), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
