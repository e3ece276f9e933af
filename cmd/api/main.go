package main

import (
	"context"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/db"
	"storefront/internal/infra/logger"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now().UTC()
}

func main() {
	// .env は無くてもよい（環境変数だけで動かす場合）
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	defer db.Close(gormDB, log)

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("db migrate failed", zap.Error(err))
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("db handle unavailable", zap.Error(err))
	}

	//Redis（任意）
	var redisClient *redis.Client
	var catalogCache repo.CatalogCache = cache.NopCatalogCache{}
	if cfg.RedisAddr != "" {
		redisClient = cache.NewRedisClient(cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis connection failed", zap.Error(err))
		} else {
			log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
		}
		if cfg.CatalogCacheTTL > 0 {
			catalogCache = cache.NewRedisCatalogCache(redisClient, cfg.CatalogCacheTTL)
		}
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	blogRepo := infraRepo.NewBlogPostGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	var orderNumbers repo.OrderNumberGenerator = infraRepo.NewOrderNumberGormGenerator(gormDB)
	if cfg.OrderNumberSource == config.OrderNumberSourceRedis {
		orderNumbers = cache.NewRedisOrderNumberGenerator(redisClient, nil)
	}

	//メトリクス
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	cartDeps := usecase.CartDeps{
		Items:   cartItemRepo,
		IDs:     idGen,
		Clock:   clock,
		Log:     log,
		Metrics: m,
	}
	checkoutDeps := usecase.CheckoutDeps{
		Tx:           txm,
		OrderNumbers: orderNumbers,
		IDs:          idGen,
		Clock:        clock,
		Log:          log,
		Metrics:      m,
	}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)

	//Usecase生成
	catalogUC := usecase.NewCatalogUsecase(productRepo, categoryRepo, catalogCache, log)
	orderUC := usecase.NewOrderUsecase(orderRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(orderRepo, auditRepo, txm, clock, log)
	blogUC := usecase.NewBlogUsecase(blogRepo)
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, idGen, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)
	logoutUC := auth.NewLogoutUsecase(userRepo)

	//Handler生成
	handlers := server.Handlers{
		Health:     handler.NewHealthHandler(sqlDB),
		Product:    handler.NewProductHandler(catalogUC),
		Cart:       handler.NewCartHandler(cartDeps),
		Checkout:   handler.NewCheckoutHandler(cartDeps, checkoutDeps),
		Order:      handler.NewOrderHandler(orderUC),
		AdminOrder: handler.NewAdminOrderHandler(adminOrderUC),
		Blog:       handler.NewBlogHandler(blogUC),
		Auth:       handler.NewAuthHandler(registerUC, loginUC, logoutUC),
	}

	e := server.New(cfg, log, reg, userRepo, handlers)

	//Server起動
	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}
	if err := server.Start(e, addr, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
