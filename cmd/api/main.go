package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "essex_travel/internal/adapters/http_server"
	"essex_travel/internal/adapters/memory"
	"essex_travel/internal/adapters/observability"
	redisad "essex_travel/internal/adapters/redis"
	"essex_travel/internal/adapters/webhook"
	"essex_travel/internal/app"
	"essex_travel/internal/catalog"
	"essex_travel/internal/domain"
	"essex_travel/internal/render"
	"essex_travel/internal/shared"
	mysqlrepo "essex_travel/internal/storage/mysql"
	"essex_travel/internal/storage/sqlite"
)

const webhookRPS = 5

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	site, err := shared.LoadSite(cfg.SiteConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("site config invalid")
	}
	cat, err := catalog.Default()
	if cfg.CatalogDir != "" {
		cat, err = catalog.Load(os.DirFS(cfg.CatalogDir))
	}
	if err != nil {
		log.Fatal().Err(err).Msg("catalog load failed")
	}
	if errs := catalog.Lint(cat).Errors(); len(errs) > 0 {
		for _, i := range errs {
			log.Error().Str("entity", i.Entity).Str("code", i.Code).Msg(i.Message)
		}
		log.Fatal().Int("errors", len(errs)).Msg("catalog lint failed")
	}

	// sqlite backs either store when selected; open it once
	var lite *sqlite.Client
	if cfg.KVBackend == "sqlite" || cfg.LeadStore == "sqlite" {
		lite, err = sqlite.Open(ctx, cfg.SQLiteDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sqlite open failed")
		}
		defer lite.Close()
		log.Info().Str("dsn", cfg.SQLiteDSN).Msg("sqlite ready")
	}

	var (
		kv    domain.KVStore
		cache domain.PageCache
	)
	switch cfg.KVBackend {
	case "redis":
		rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable; tool state and page cache degrade per request")
		}
		kv = redisad.NewKV(rc, "essex:kv:", cfg.ToolTTL)
		cache = redisad.NewCache(rc, "essex:cache:")
	case "sqlite":
		kv = lite.KV(cfg.ToolTTL)
		cache = memory.NewCache()
		go sweep(ctx, lite.KV(cfg.ToolTTL))
	case "memory":
		kv = memory.NewKV()
		cache = memory.NewCache()
	default:
		log.Fatal().Str("backend", cfg.KVBackend).Msg("unknown KV_BACKEND (redis|sqlite|memory)")
	}

	var leads domain.LeadRepository
	switch cfg.LeadStore {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		leads = mysqlrepo.New(db)
	case "sqlite":
		leads = lite.Leads()
	default:
		log.Fatal().Str("store", cfg.LeadStore).Msg("unknown LEAD_STORE (mysql|sqlite)")
	}

	var forward domain.LeadForwarder
	if cfg.CRMURL == "" {
		log.Warn().Msg("CRM_WEBHOOK_URL is empty; leads are stored but not forwarded")
	} else {
		crm, err := webhook.NewCRM(cfg.CRMURL, cfg.CRMKey, webhookRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("crm webhook config invalid")
		}
		forward = crm
	}
	analytics := webhook.NewAnalytics(cfg.AnalyticsURL, webhookRPS)
	defer analytics.Close()

	r, err := render.New()
	if err != nil {
		log.Fatal().Err(err).Msg("templates failed to parse")
	}

	// deps
	pages := app.NewPageService(site, cat, r, cache, cfg.CacheTTL)
	leadSvc := app.NewLeadService(leads, forward, analytics)
	defer leadSvc.Close()
	toolSvc := app.NewToolService(kv, cat)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Pages: pages, Leads: leadSvc, Tools: toolSvc})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// sweep drops expired tool state; sqlite has no native expiry.
func sweep(ctx context.Context, kv *sqlite.KV) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := kv.Sweep(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("tool state sweep failed")
				continue
			}
			log.Debug().Int64("removed", n).Msg("tool state swept")
		}
	}
}
