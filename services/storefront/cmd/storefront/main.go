package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"

	"github.com/Skotchmaster/storefront/pkg/authclient"
	pkgcfg "github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"

	storefrontcfg "github.com/Skotchmaster/storefront/services/storefront/internal/config"
	"github.com/Skotchmaster/storefront/services/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/services/storefront/internal/productclient"
	"github.com/Skotchmaster/storefront/services/storefront/internal/render"
)

func main() {
	envFile := pflag.String("env-file", "services/storefront/.env", "dotenv file to load before reading the environment")
	pflag.Parse()

	pkgcfg.LoadEnvFile(*envFile)
	cfg := storefrontcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	publisher, err := events.FromBrokers(cfg.KafkaBrokers)
	if err != nil {
		log.Fatalf("kafka producer: %v", err)
	}
	defer publisher.Close()

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	handler := &httpserver.StorefrontHTTP{
		Catalog:       productclient.NewClient(cfg.CatalogHTTPURL, cfg.CatalogTimeout),
		Auth:          authclient.NewClient(cfg.AuthHTTPURL),
		Events:        publisher,
		LoadWait:      cfg.LoadWait,
		SecureCookies: cfg.SecureCookies,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.SecureCookies
	csrfCfg.SkipPaths = []string{"/health/live", "/health/ready"}

	if err := httpserver.Register(e, &httpserver.Deps{
		Handler:    handler,
		Renderer:   renderer,
		CatalogURL: cfg.CatalogHTTPURL,
		JWTSecret:  cfg.JWTAccessSecret,
		CSRFConfig: csrfCfg,
	}); err != nil {
		log.Fatalf("register routes: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("storefront_listening", "addr", srv.Addr, "catalog", cfg.CatalogHTTPURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", "error", err)
	}
	logger.Info("storefront_stopped")
}
