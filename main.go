package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go-rbac-api/common"
	"go-rbac-api/config"
	"go-rbac-api/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
)

const shutdownTimeout = 5 * time.Second

func main() {
	yamlPath := pflag.String("config", "./config/config.yml", "YAML config file path")
	envPath := pflag.String("env-file", "", "optional .env file loaded after the YAML config")
	pflag.Parse()

	paths := []string{*yamlPath}
	if *envPath != "" {
		paths = append(paths, *envPath)
	}
	fmt.Printf("Loading config from %v\n", paths)

	cfg, err := config.Load(paths...)
	if err != nil {
		panic(fmt.Errorf("failed to load config: %w", err))
	}
	if err = config.Validate(cfg); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(fmt.Errorf("failed to create logger: %w", err))
	}
	defer func() { _ = logger.Sync() }()

	common.SetLogger(common.NewLoggerAdapter(logger))
	common.SetDebugMode(!cfg.App().IsProduction())
	gin.SetMode(gin.ReleaseMode)

	logger.Info("Application starting",
		log.String("version", cfg.App().Version()),
		log.String("database", cfg.Database().Provider()),
		log.String("config_path", *yamlPath),
	)
	// Token operations fail with a configuration error until these are set
	if missing := config.MissingSecrets(cfg.App()); len(missing) > 0 {
		logger.Warn("Token secrets are not configured", log.Any("missing", missing))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error", log.Error(err))
		os.Exit(1)
	}
	logger.Info("Server exited gracefully")
}

// serve runs the API until ctx is cancelled, then drains in-flight requests
// and closes the store.
func serve(ctx context.Context, cfg config.Config, logger log.Logger) error {
	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	server := cfg.Server()
	srv := &http.Server{
		Addr:           net.JoinHostPort(server.Host(), strconv.Itoa(server.Port())),
		Handler:        app.router,
		ReadTimeout:    server.ReadTimeout(),
		WriteTimeout:   server.WriteTimeout(),
		IdleTimeout:    server.IdleTimeout(),
		MaxHeaderBytes: server.MaxHeaderBytes(),
	}

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", log.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	select {
	case err := <-listenErr:
		_ = app.Close(context.Background())
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown: %w", err))
	}
	if err := app.Close(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}

func newLogger(cfg config.Config) (log.Logger, error) {
	app := cfg.App()
	return log.NewZapLogger(log.NewConfig(app.Name(), app.Version(), app.Environment(), cfg.Logger()))
}
