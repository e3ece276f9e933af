package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 注文番号の採番元
const (
	OrderNumberSourcePostgres = "postgres"
	OrderNumberSourceRedis    = "redis"
)

// カタログキャッシュTTLの上限
const MaxCatalogCacheTTL = 5 * time.Minute

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あれば POSTGRES_* より優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト
	PostgresPort     int    // DBポート
	PostgresSSLMode  string

	JWTSecret      string        // JWT署名シークレット
	AccessTokenTTL time.Duration // アクセストークンの有効期限

	GoEnv string // dev/prod

	RedisAddr       string // 空ならキャッシュ無し
	RedisPassword   string
	RedisDB         int
	CatalogCacheTTL time.Duration

	OrderNumberSource string // postgres/redis
}

// Loadは既定値 → 設定ファイル（CONFIG_FILE）→ 環境変数 の順で上書きする。
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "storefront")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("GO_ENV", "dev")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CATALOG_CACHE_TTL", "30s")
	v.SetDefault("ORDER_NUMBER_SOURCE", OrderNumberSourcePostgres)

	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := Config{
		Port: v.GetString("PORT"),

		DatabaseURL:      v.GetString("DATABASE_URL"),
		PostgresUser:     v.GetString("POSTGRES_USER"),
		PostgresPassword: v.GetString("POSTGRES_PASSWORD"),
		PostgresDB:       v.GetString("POSTGRES_DB"),
		PostgresHost:     v.GetString("POSTGRES_HOST"),
		PostgresPort:     v.GetInt("POSTGRES_PORT"),
		PostgresSSLMode:  v.GetString("POSTGRES_SSLMODE"),

		JWTSecret:      v.GetString("JWT_SECRET"),
		AccessTokenTTL: v.GetDuration("ACCESS_TOKEN_TTL"),

		GoEnv: v.GetString("GO_ENV"),

		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		CatalogCacheTTL: v.GetDuration("CATALOG_CACHE_TTL"),

		OrderNumberSource: strings.ToLower(v.GetString("ORDER_NUMBER_SOURCE")),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DatabaseURL == "" && cfg.PostgresHost == "" {
		return Config{}, fmt.Errorf("DATABASE_URL or POSTGRES_HOST is required")
	}
	if cfg.AccessTokenTTL <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}

	// 非公開にした商品がキャッシュから返り続ける時間の上限。0はキャッシュ無効
	if cfg.CatalogCacheTTL < 0 || cfg.CatalogCacheTTL > MaxCatalogCacheTTL {
		return Config{}, fmt.Errorf("CATALOG_CACHE_TTL must be between 0 and %s", MaxCatalogCacheTTL)
	}

	switch cfg.OrderNumberSource {
	case OrderNumberSourcePostgres:
	case OrderNumberSourceRedis:
		if cfg.RedisAddr == "" {
			return Config{}, fmt.Errorf("REDIS_ADDR is required when ORDER_NUMBER_SOURCE=redis")
		}
	default:
		return Config{}, fmt.Errorf("ORDER_NUMBER_SOURCE must be postgres or redis: %q", cfg.OrderNumberSource)
	}

	return cfg, nil
}

// DSN は DATABASE_URL があればそれを、無ければ POSTGRES_* から組み立てる。
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}
