package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nerzal/gocloak/v13"
	"github.com/jmoiron/sqlx"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/proxy"

	"github.com/propertylabs/rental-radar-alerts-sub000/config"
	"github.com/propertylabs/rental-radar-alerts-sub000/data"
	"github.com/propertylabs/rental-radar-alerts-sub000/data/repos"
	"github.com/propertylabs/rental-radar-alerts-sub000/handlers"
	"github.com/propertylabs/rental-radar-alerts-sub000/identity"
	"github.com/propertylabs/rental-radar-alerts-sub000/metrics"
	"github.com/propertylabs/rental-radar-alerts-sub000/notifiers"
	"github.com/propertylabs/rental-radar-alerts-sub000/services"
)

func main() {
	config.LoadConfig()
	cfg := config.Config

	opts := slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &opts))
	slog.SetDefault(logger)

	db, err := sqlx.Connect("postgres", cfg.PostgresURL)
	if err != nil {
		slog.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}

	db.SetMaxOpenConns(90)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if err := data.RunMigrations(db.DB, "postgres"); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	client, err := httpClient(cfg.OutboundProxyURL)
	if err != nil {
		slog.Error("failed to create http client", "error", err)
		os.Exit(1)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(redisOpts)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	usersRepo := repos.NewUserRepo(db)
	searchRepo := repos.NewSearchRepo(db, cfg.StorageTimeout)

	dispatcher := notifiers.NewDispatcher(messenger(cfg, client), usersRepo, cfg.AlertFlushInterval, cfg.AppBaseURL)
	dispatcher.Start(ctx)

	searches := services.NewSearchService(searchRepo, dispatcher)

	var provider identity.Provider
	switch cfg.IdentityProvider {
	case config.IdentityKeycloak:
		provider = identity.NewKeycloakProvider(gocloak.NewClient(cfg.KeycloakURL), cfg.KeycloakRealm, cfg.KeycloakSubscriberRole)
	default:
		provider = identity.NewWhopClient(cfg.WhopAPIURL, cfg.WhopProductID, client)
	}
	if rdb != nil {
		provider = identity.NewCachedProvider(provider, rdb, cfg.IdentityCacheTTL)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(registry)

	routes := handlers.Routes{
		Auth:                handlers.NewAuthHandler(provider),
		Users:               handlers.NewUserHandler(usersRepo),
		Searches:            handlers.NewSearchHandler(searches),
		Limiter:             handlers.NewRateLimiter(cfg.RateLimitPerMinute),
		Ping:                db.PingContext,
		Metrics:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		RequireSubscription: cfg.RequireSubscription,
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		defer close(stopped)
		<-sigCh
		slog.Info("Shutting down...")

		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}

		cancel()
		if err := dispatcher.Flush(shutdownCtx); err != nil {
			slog.Error("failed to flush alerts", "error", err)
		}
		if rdb != nil {
			_ = rdb.Close()
		}
	}()

	slog.Info("Starting server", "port", cfg.Port)
	err = server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-stopped
	} else if err != nil {
		slog.Error("failed to start server", "error", err)
	}

	if err := db.Close(); err != nil {
		slog.Error("failed to close database connection", "error", err)
	}
}

func messenger(cfg config.AppConfig, client *http.Client) notifiers.Messenger {
	if cfg.MessageProvider == config.MessageSMTP {
		return notifiers.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPPassword, cfg.AppBaseURL)
	}
	return notifiers.NewAPIMessenger(cfg.MessageAPIURL, cfg.MessageAPIKey, client)
}

func httpClient(proxyURL string) (*http.Client, error) {
	client := &http.Client{Timeout: 10 * time.Second}

	if proxyURL == "" {
		return client, nil
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, err
	}
	if parsedURL.Scheme != "socks5" {
		return client, nil
	}

	// SOCKS5 proxy with authentication
	var auth *proxy.Auth
	if parsedURL.User != nil {
		password, _ := parsedURL.User.Password()
		auth = &proxy.Auth{
			User:     parsedURL.User.Username(),
			Password: password,
		}
	}

	dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, auth, proxy.Direct)
	if err != nil {
		return nil, err
	}

	client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		},
	}
	slog.Info("using SOCKS5 proxy", "proxy", parsedURL.Host)

	return client, nil
}
