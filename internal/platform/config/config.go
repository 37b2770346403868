package config

import (
	"os"
	"strconv"
	"time"
)

// Bearer tokens are issued and checked with these registered claims.
const (
	TokenIssuer   = "degreeaudit"
	TokenAudience = "degreeaudit-api"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	Environment string
	// JWTSigningKey enables bearer token checks on the API when set.
	JWTSigningKey string
	Catalog       CatalogConfig
	Redis         RedisConfig
	HTTP          HTTPConfig
	Ranking       RankingConfig
	RateLimit     RateLimitConfig
}

// HTTPConfig bounds the API listener and its graceful shutdown.
type HTTPConfig struct {
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// DefaultHTTP is the listener configuration used when no overrides are set.
func DefaultHTTP() HTTPConfig {
	return HTTPConfig{
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

// RateLimitConfig caps API requests per caller. Zero PerWindow disables it.
type RateLimitConfig struct {
	PerWindow int
	Window    time.Duration
}

// CatalogConfig selects the course catalog backend and program data files.
type CatalogConfig struct {
	Driver            string // sqlite, postgres or memory
	DSN               string
	ProgramsDir       string
	EquivalenciesFile string
	CacheTTL          time.Duration
}

// RedisConfig configures the optional catalog cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RankingConfig holds the tunable ranking policy.
type RankingConfig struct {
	CompletionWeight float64
	GapWeight        float64
	TopN             int
	Concurrency      int
	PlaceholderGrade string
	GenEdTopN        int
}

// DefaultRanking is the ranking policy used when no overrides are set.
func DefaultRanking() RankingConfig {
	return RankingConfig{
		CompletionWeight: 0.7,
		GapWeight:        0.3,
		TopN:             6,
		Concurrency:      8,
		PlaceholderGrade: "B",
		GenEdTopN:        5,
	}
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	ranking := DefaultRanking()
	httpDefaults := DefaultHTTP()

	return Server{
		Addr:          getEnv("AUDIT_ADDR", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
		Catalog: CatalogConfig{
			Driver:            getEnv("CATALOG_DRIVER", "sqlite"),
			DSN:               getEnv("CATALOG_DSN", "data/courses.db"),
			ProgramsDir:       getEnv("PROGRAMS_DIR", "data/programs"),
			EquivalenciesFile: os.Getenv("EQUIVALENCIES_FILE"),
			CacheTTL:          getEnvDuration("CATALOG_CACHE_TTL", 10*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		HTTP: HTTPConfig{
			ReadHeaderTimeout: getEnvDuration("HTTP_READ_HEADER_TIMEOUT", httpDefaults.ReadHeaderTimeout),
			ReadTimeout:       getEnvDuration("HTTP_READ_TIMEOUT", httpDefaults.ReadTimeout),
			WriteTimeout:      getEnvDuration("HTTP_WRITE_TIMEOUT", httpDefaults.WriteTimeout),
			IdleTimeout:       getEnvDuration("HTTP_IDLE_TIMEOUT", httpDefaults.IdleTimeout),
			ShutdownTimeout:   getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", httpDefaults.ShutdownTimeout),
		},
		Ranking: RankingConfig{
			CompletionWeight: getEnvFloat("RANKING_COMPLETION_WEIGHT", ranking.CompletionWeight),
			GapWeight:        getEnvFloat("RANKING_GAP_WEIGHT", ranking.GapWeight),
			TopN:             getEnvInt("RANKING_TOP_N", ranking.TopN),
			Concurrency:      getEnvInt("RANKING_CONCURRENCY", ranking.Concurrency),
			PlaceholderGrade: getEnv("RANKING_PLACEHOLDER_GRADE", ranking.PlaceholderGrade),
			GenEdTopN:        getEnvInt("GENED_TOP_N", ranking.GenEdTopN),
		},
		RateLimit: RateLimitConfig{
			PerWindow: getEnvInt("RATE_LIMIT_REQUESTS", 120),
			Window:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}
