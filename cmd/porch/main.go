package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/eagraf/porch/core/rules"
	"github.com/eagraf/porch/internal/api"
	"github.com/eagraf/porch/internal/config"
	"github.com/eagraf/porch/internal/logging"
	"github.com/eagraf/porch/internal/reverse_proxy"
	"github.com/eagraf/porch/internal/server"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var log = logging.NewLogger()

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel())

	errorPageFiles, err := cfg.ErrorPageFiles()
	if err != nil {
		log.Fatal().Err(err).Msg("error reading error page config")
	}
	errorPages, err := reverse_proxy.LoadErrorPages(cfg.ErrorPagesRoot(), errorPageFiles)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading error pages")
	}

	configuredRoutes, err := cfg.Routes()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading routes")
	}

	// The admin API is reachable through the proxy as well, so a single
	// public listener is enough to operate the server.
	routeTable := append([]rules.Rule{
		{
			ID:      "porch-admin-api",
			Type:    rules.TypeProxy,
			Matcher: "/porch/api",
			Target:  fmt.Sprintf("http://localhost:%s", cfg.AdminPort()),
		},
	}, configuredRoutes...)

	ruleSet, err := reverse_proxy.NewRuleSet(routeTable, cfg.SitesPath(), errorPages)
	if err != nil {
		log.Fatal().Err(err).Msg("error building rule set")
	}

	// ctx.Done() returns when SIGINT/SIGTERM is received or cancel() is called.
	// calling cancel() unregisters the signal trapping.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// egCtx is cancelled if any function called with eg.Go() returns an error.
	eg, egCtx := errgroup.WithContext(ctx)

	tlsConfig, err := cfg.TLSConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error building TLS config")
	}
	accessLog := api.RequestLogger(log)

	proxy := reverse_proxy.NewProxyServer(log, cfg, ruleSet)
	proxyServer := &http.Server{
		Addr:      fmt.Sprintf(":%s", cfg.ReverseProxyPort()),
		TLSConfig: tlsConfig,
		Handler:   accessLog(proxy),
	}
	ln, err := proxy.Listener(proxyServer.Addr)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating reverse proxy listener")
	}
	eg.Go(server.ServeFn(
		proxyServer,
		"proxy-server",
		server.WithListener(ln),
		server.WithTLSFiles(cfg.CertPath(), cfg.KeyPath()),
	))

	apiRoutes := []api.Route{
		api.NewVersionHandler(),
		api.NewHealthHandler(),
		api.NewRoutesHandler(ruleSet),
	}
	router := api.NewRouter(apiRoutes, log, accessLog)
	apiServer := &http.Server{
		Addr:      fmt.Sprintf(":%s", cfg.AdminPort()),
		TLSConfig: tlsConfig,
		Handler:   router,
	}
	eg.Go(server.ServeFn(
		apiServer,
		"admin-api-server",
		server.WithTLSFiles(cfg.CertPath(), cfg.KeyPath()),
	))

	// Wait for a signal, which triggers ctx.Done(), or for one of the servers
	// to error, which triggers egCtx.Done().
	select {
	case <-egCtx.Done():
		log.Err(fmt.Errorf("sub-service errored: shutting down: %v", egCtx.Err()))
		cancel()
	case <-ctx.Done():
		log.Info().Msg("Interrupt signal received; gracefully shutting down")
	}

	err = apiServer.Shutdown(context.Background())
	if err != nil {
		log.Err(fmt.Errorf("error on admin-api-server shutdown: %v", err))
	}

	err = proxyServer.Shutdown(context.Background())
	if err != nil {
		log.Err(fmt.Errorf("error on proxy-server shutdown: %v", err))
	}

	err = eg.Wait()
	if err != nil {
		log.Err(fmt.Errorf("received error on eg.Wait(): %v", err))
	}
}
