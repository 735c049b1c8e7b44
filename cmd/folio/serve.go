package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/folio/internal/config"
	folioerrors "github.com/vango-dev/folio/internal/errors"
	"github.com/vango-dev/folio/pkg/contact"
	"github.com/vango-dev/folio/pkg/fieldstore"
	"github.com/vango-dev/folio/pkg/middleware"
	"github.com/vango-dev/folio/pkg/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio page",
		Long: `Serve the portfolio page and its live sessions.

Examples:
  folio serve
  folio serve --addr=:3000
  FOLIO_STORE__DRIVER=sqlite FOLIO_STORE__DSN=file:folio.db folio serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(os.Stderr, cfg.Log).With("service", cfg.Tracing.ServiceName)
	slog.SetDefault(logger)

	shutdownTracing, err := middleware.SetupTracing(ctx, middleware.TracingOptions{
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: cfg.Tracing.ServiceName,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return folioerrors.New(folioerrors.CodeInvalidConfig).
			WithDetail("tracing").
			Wrap(err)
	}
	defer shutdownTracing(context.Background())

	store, err := fieldstore.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return folioerrors.New(folioerrors.CodeStoreOpen).
			WithDetail(cfg.Store.Driver).
			Wrap(err)
	}
	defer store.Close()

	profile := cfg.Profile
	srv := server.New(server.Options{
		Store:   store,
		Profile: &profile,
		Contact: contact.Options{
			SubmitDelay:    cfg.Contact.SubmitDelay.Std(),
			BannerDuration: cfg.Contact.BannerDuration.Std(),
			StoreTimeout:   cfg.Store.Timeout.Std(),
			SubmitLabel:    cfg.Contact.SubmitLabel,
			BusyLabel:      cfg.Contact.BusyLabel,
		},
		Metrics:           middleware.NewMetrics(),
		Tracing:           cfg.Tracing.Endpoint != "",
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		SecureCookie:      cfg.Server.SecureCookie,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout.Std(),
		ShutdownTimeout:   cfg.Server.ShutdownTimeout.Std(),
		MaxSessions:       cfg.Server.MaxSessions,
		Session: server.SessionConfig{
			WriteTimeout: cfg.Server.WriteTimeout.Std(),
			PingInterval: cfg.Server.PingInterval.Std(),
		},
	})

	logger.Info("folio starting",
		"version", version,
		"store", cfg.Store.Driver,
		"tracing", cfg.Tracing.Endpoint != "")
	return srv.Run(ctx, cfg.Server.Addr)
}
