package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"BuildSupply/internal/cart"
	"BuildSupply/internal/catalog"
	"BuildSupply/internal/config"
	"BuildSupply/internal/search"
	"BuildSupply/internal/shop"
	"BuildSupply/pkg/kit"
)

const startupTimeout = 15 * time.Second

func main() {
	service := "buildsupply"

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := kit.NewLogger(service, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	var db *sql.DB
	if cfg.Cart.Backend == config.BackendPostgres || cfg.Catalog.FromDB {
		db, err = sql.Open("pgx", cfg.Cart.DatabaseURL)
		if err != nil {
			log.Fatal("open database", zap.Error(err))
		}
		defer db.Close()
	}

	products, err := loadCatalog(ctx, cfg, db)
	if err != nil {
		log.Fatal("load catalog", zap.Error(err))
	}

	carts, closeCarts, err := openCartStore(ctx, cfg, db, log)
	if err != nil {
		log.Fatal("open cart store", zap.Error(err))
	}
	defer closeCarts()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := &shop.Service{
		Catalog: products,
		Carts:   carts,
		Matcher: search.NewMatcher(cfg.MatcherConfig()),
		Log:     log,
		Metrics: shop.NewMetrics(reg),
	}

	h := shop.NewHandler(&shop.Server{Service: svc, Log: log}, shop.HTTPDeps{
		Log:             log,
		Service:         service,
		Registry:        reg,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsToken:    cfg.Metrics.Token,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, kit.DefaultServerTimeouts(), log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func loadCatalog(ctx context.Context, cfg config.Config, db *sql.DB) (*catalog.MemStore, error) {
	switch {
	case cfg.Catalog.File != "":
		products, err := catalog.LoadFile(cfg.Catalog.File)
		if err != nil {
			return nil, err
		}
		return catalog.NewMemStore(products)
	case cfg.Catalog.FromDB:
		return catalog.LoadAll(ctx, catalog.NewPostgresStore(db))
	default:
		return catalog.NewStore(), nil
	}
}

func openCartStore(ctx context.Context, cfg config.Config, db *sql.DB, log *zap.Logger) (cart.Store, func(), error) {
	switch cfg.Cart.Backend {
	case config.BackendPostgres:
		s := cart.NewPostgresStore(db)
		if err := s.Migrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("cart store ready", zap.String("backend", cfg.Cart.Backend))
		return s, func() {}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cart.RedisAddr,
			Password: cfg.Cart.RedisPassword,
			DB:       cfg.Cart.RedisDB,
		})
		s := cart.NewRedisStore(client, cfg.Cart.RedisPrefix)
		if err := s.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info("cart store ready", zap.String("backend", cfg.Cart.Backend), zap.String("addr", cfg.Cart.RedisAddr))
		return s, func() { _ = client.Close() }, nil

	default:
		log.Info("cart store ready", zap.String("backend", config.BackendMemory))
		return cart.NewStore(), func() {}, nil
	}
}
