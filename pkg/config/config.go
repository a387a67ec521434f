package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Engine   EngineConfig
	Models   ModelsConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
	AllowOrigins   []string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	AutoMigrate  bool
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type JWTConfig struct {
	SecretKey string
}

// EngineConfig tunes the recommendation engine.
type EngineConfig struct {
	TopK              int
	ResultOrder       string
	StrictFeatures    bool
	FeatureSchemaPath string
}

// ModelsConfig says where scoring models are loaded from.
type ModelsConfig struct {
	Source       string // "dir" or "postgres"
	Dir          string
	DefaultModel string
}

const (
	ModelSourceDir      = "dir"
	ModelSourcePostgres = "postgres"
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []error
	intEnv := func(key string, def int) int {
		v, err := getEnvInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	boolEnv := func(key string, def bool) bool {
		v, err := getEnvBool(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	durationEnv := func(key string, def time.Duration) time.Duration {
		v, err := getEnvDuration(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Common Assessment Recommendation API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RequestTimeout: durationEnv("REQUEST_TIMEOUT", 10*time.Second),
			AllowOrigins:   splitList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:8080")),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "common_assessment"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: intEnv("DB_MAX_OPEN_CONNS", 10),
			AutoMigrate:  boolEnv("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Enabled:  boolEnv("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       intEnv("REDIS_DB", 0),
			CacheTTL: durationEnv("RECOMMENDATION_CACHE_TTL", 10*time.Minute),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Engine: EngineConfig{
			TopK:              intEnv("TOP_K", 3),
			ResultOrder:       getEnv("RESULT_ORDER", "asc"),
			StrictFeatures:    boolEnv("STRICT_FEATURES", true),
			FeatureSchemaPath: getEnv("FEATURE_SCHEMA_PATH", ""),
		},
		Models: ModelsConfig{
			Source:       strings.ToLower(getEnv("MODEL_SOURCE", ModelSourceDir)),
			Dir:          getEnv("MODEL_DIR", "./models"),
			DefaultModel: getEnv("DEFAULT_MODEL", ""),
		},
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Engine.TopK <= 0 {
		return nil, fmt.Errorf("TOP_K must be positive, got %d", cfg.Engine.TopK)
	}

	switch cfg.Engine.ResultOrder {
	case "asc", "desc":
	default:
		return nil, fmt.Errorf("RESULT_ORDER must be asc or desc, got %q", cfg.Engine.ResultOrder)
	}

	switch cfg.Models.Source {
	case ModelSourceDir, ModelSourcePostgres:
	default:
		return nil, fmt.Errorf("MODEL_SOURCE must be %s or %s, got %q", ModelSourceDir, ModelSourcePostgres, cfg.Models.Source)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
