package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"storefront/autocom"
	"storefront/blog"
	"storefront/cart"
	"storefront/checkout"
	"storefront/config"
	"storefront/db"
	"storefront/i18n"
	"storefront/media"
	"storefront/middleware"
	"storefront/mq"
	"storefront/newsletter"
	"storefront/products"
	"storefront/ratelim"
	"storefront/rdx"
	"storefront/receipt"
	"storefront/routes"
	"storefront/session"
	"storefront/shopapi"
	"storefront/tracking"
	"storefront/wishlist"
)

// backends is the state layer chosen by STATE_DRIVER.
type backends struct {
	store  session.Store
	locker session.Locker
	redis  *redis.Client
	mongo  *mongo.Client
}

func openBackends(ctx context.Context, cfg config.Config, logger *zap.Logger) (*backends, error) {
	b := &backends{}
	switch cfg.StateDriver {
	case config.DriverRedis:
		conn, err := rdx.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		b.redis = conn
		b.store = rdx.NewStore(conn, cfg.SessionTTL)
		b.locker = &rdx.Locker{Conn: conn}
	case config.DriverMongo:
		client, err := db.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		store, err := db.NewStore(ctx, client.Database(cfg.MongoDB), cfg.SessionTTL)
		if err != nil {
			return nil, err
		}
		b.mongo, b.store = client, store
		b.locker = session.NewMemoryLocker()
	default:
		logger.Warn("using in-memory session state; data is lost on restart")
		b.store = session.NewMemoryStore(cfg.SessionTTL)
		b.locker = session.NewMemoryLocker()
	}
	return b, nil
}

func (b *backends) Close(ctx context.Context) {
	if b.redis != nil {
		b.redis.Close()
	}
	if b.mongo != nil {
		b.mongo.Disconnect(ctx)
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Development() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func checkOrigin(allowed []string) func(*http.Request) bool {
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}
	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	decimal.MarshalJSONWithoutQuotes = true

	policy, ok := cart.ParsePolicy(cfg.CartMergePolicy)
	if !ok {
		logger.Fatal("cart merge policy", zap.String("policy", cfg.CartMergePolicy))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api, err := shopapi.New(cfg.ShopAPIURL, cfg.ShopAPITimeout, nil)
	if err != nil {
		logger.Fatal("shop api client", zap.Error(err))
	}

	bootCtx, cancelBoot := context.WithTimeout(ctx, 10*time.Second)
	b, err := openBackends(bootCtx, cfg, logger)
	cancelBoot()
	if err != nil {
		logger.Fatal("open state backend", zap.String("driver", cfg.StateDriver), zap.Error(err))
	}

	hub := tracking.NewHub()
	go hub.Run()
	forward := tracking.ForwardSubmissions(hub, logger)

	var events mq.Emitter
	if b.redis != nil {
		events = &mq.RedisEmitter{Conn: b.redis}
		go func() {
			if err := mq.RunSubmissionWorker(ctx, b.redis, logger, forward); err != nil {
				logger.Error("submission worker stopped", zap.Error(err))
			}
		}()
	} else {
		local := mq.NewLocalEmitter(64, logger)
		events = local
		go local.Run(ctx, forward)
	}

	watcher := &tracking.Watcher{Tracker: api, Hub: hub, Interval: cfg.TrackPollInterval, Logger: logger}
	go watcher.Run(ctx)

	var names autocom.Index = &autocom.MemoryIndex{}
	if b.redis != nil {
		names = &autocom.RedisIndex{Conn: b.redis}
	}

	limiter := ratelim.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	limiter.TrustProxy = cfg.TrustProxy
	go limiter.RunJanitor(ctx, 10*time.Minute)

	tokens := session.NewTokens(cfg.SessionSecret, cfg.SessionTTL)
	carts := &cart.Service{Store: b.store, Policy: policy}
	i18nHandlers := &i18n.Handlers{Provider: i18n.NewProvider(), Store: b.store, Logger: logger}

	deps := &routes.Deps{
		Sessions:    &middleware.Sessions{Tokens: tokens, Logger: logger},
		RateLimiter: limiter,
		Session:     &session.Handlers{Tokens: tokens, Logger: logger, Secure: !cfg.Development()},
		I18n:        i18nHandlers,
		Cart:        &cart.Handlers{Service: carts, Logger: logger},
		Wishlist:    &wishlist.Handlers{Service: &wishlist.Service{Store: b.store}, Logger: logger},
		Checkout: &checkout.Handlers{Service: &checkout.Service{
			Store:   b.store,
			Cart:    carts,
			Remote:  api,
			Locker:  b.locker,
			Events:  events,
			Brand:   cfg.BrandName,
			Logger:  logger,
			LockTTL: 30 * time.Second,
		}, Logger: logger},
		Products: &products.Handlers{Catalog: api, Store: b.store, Suggestions: names, Logger: logger},
		Tracking: &tracking.Handlers{
			Tracker:  api,
			Hub:      hub,
			Watcher:  watcher,
			Receipts: receipt.Renderer{Brand: cfg.BrandName, BaseURL: cfg.PublicBaseURL, SupportEmail: cfg.SupportEmail, WhatsApp: cfg.WhatsAppNumber},
			Logger:   logger,
			Upgrader: websocket.Upgrader{CheckOrigin: checkOrigin(cfg.AllowedOrigins)},
		},
		Blog:       &blog.Handlers{Source: api, Logger: logger},
		Newsletter: &newsletter.Handlers{Subscriber: api, Logger: logger},
		Media:      &media.Handlers{Images: api, Logger: logger},
		Suggest:    &autocom.Handlers{Index: names, Logger: logger},
	}

	router := httprouter.New()
	routes.RoutesWrapper(router, deps)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           middleware.RequestLogger(logger)(middleware.SecurityHeaders(corsHandler)),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}
	server.RegisterOnShutdown(hub.Stop)

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Port), zap.String("state", cfg.StateDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	b.Close(shutdownCtx)
	logger.Info("server stopped")
}
