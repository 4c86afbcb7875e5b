// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, the database connection, sessions, the
// GitHub OAuth client, rate limiting, and observability.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-pokemon-api")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]

	Environment string            // OTEL_DEPLOYMENT_ENVIRONMENT (e.g. "staging")
	Headers     map[string]string // OTEL_EXPORTER_OTLP_HEADERS "k1=v1,k2=v2"
}

// DatabaseConfig selects and tunes the document store.
//
// URI is required. Its scheme picks the backend: mongodb:// and
// mongodb+srv:// use MongoDB, sqlite:// and file: use the embedded SQLite
// store.
type DatabaseConfig struct {
	URI            string        // MONGODB_URI
	Name           string        // MONGODB_DATABASE
	Collection     string        // MONGODB_COLLECTION
	ConnectTimeout time.Duration // DB_CONNECT_TIMEOUT
}

// SessionConfig controls the cookie-bound login session.
type SessionConfig struct {
	Secret       string        // SESSION_SECRET
	Ephemeral    bool          // true when Secret was generated at startup
	TTL          time.Duration // SESSION_TTL
	Sliding      bool          // SESSION_SLIDING: refresh expiry on use
	CookieName   string        // SESSION_COOKIE_NAME
	CookieSecure bool          // SESSION_COOKIE_SECURE

	RedisAddr     string // REDIS_ADDR; empty selects the in-memory store
	RedisPassword string // REDIS_PASSWORD
	RedisDB       int    // REDIS_DB
}

// GitHubConfig holds the OAuth application credentials.
type GitHubConfig struct {
	ClientID     string // GITHUB_CLIENT_ID
	ClientSecret string // GITHUB_CLIENT_SECRET
	CallbackURL  string // CALLBACK_URL
}

// Enabled reports whether enough credentials are present to run the login flow.
func (g GitHubConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel        string // debug|info|warn|error|fatal|panic
	LogPretty       bool   // pretty console logs in dev
	SwaggerEnabled  bool   // mount Swagger UI under /api-docs
	DocsAPIKey      string // sentinel key accepted by the auth gate
	DocsRequireAuth bool   // put /api-docs behind the auth gate

	// App
	Database DatabaseConfig
	Session  SessionConfig
	GitHub   GitHubConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "3000"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:        strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:       getbool("LOG_PRETTY", false),
		SwaggerEnabled:  getbool("SWAGGER_ENABLED", true),
		DocsAPIKey:      getenv("DOCS_API_KEY", "swagger-test"),
		DocsRequireAuth: getbool("DOCS_REQUIRE_AUTH", false),

		// App
		Database: DatabaseConfig{
			URI:            strings.TrimSpace(os.Getenv("MONGODB_URI")),
			Name:           getenv("MONGODB_DATABASE", "pokedex"),
			Collection:     getenv("MONGODB_COLLECTION", "pokemon"),
			ConnectTimeout: getdur("DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			Secret:        os.Getenv("SESSION_SECRET"),
			TTL:           getdur("SESSION_TTL", 24*time.Hour),
			Sliding:       getbool("SESSION_SLIDING", false),
			CookieName:    getenv("SESSION_COOKIE_NAME", "pokedex_session"),
			CookieSecure:  getbool("SESSION_COOKIE_SECURE", false),
			RedisAddr:     getenv("REDIS_ADDR", ""),
			RedisPassword: getenv("REDIS_PASSWORD", ""),
			RedisDB:       getint("REDIS_DB", 0),
		},
		GitHub: GitHubConfig{
			ClientID:     getenv("GITHUB_CLIENT_ID", ""),
			ClientSecret: getenv("GITHUB_CLIENT_SECRET", ""),
			CallbackURL:  getenv("CALLBACK_URL", ""),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 10.0),
		RateBurst: getint("RATE_BURST", 20),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-pokemon-api"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
			Environment: getenv("OTEL_DEPLOYMENT_ENVIRONMENT", "development"),
			Headers:     splitPairs(getenv("OTEL_EXPORTER_OTLP_HEADERS", "")),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.Session.Secret == "" {
		secret, err := randomSecret()
		if err != nil {
			return cfg, err
		}
		cfg.Session.Secret = secret
		cfg.Session.Ephemeral = true
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.Database.URI == "" {
		return cfg, errors.New("MONGODB_URI is not defined: set it to a mongodb://, mongodb+srv://, sqlite:// or file: connection string")
	}
	if strings.TrimSpace(cfg.Database.Name) == "" || strings.TrimSpace(cfg.Database.Collection) == "" {
		return cfg, errors.New("MONGODB_DATABASE and MONGODB_COLLECTION must not be empty")
	}
	if cfg.Database.ConnectTimeout <= 0 {
		return cfg, errors.New("DB_CONNECT_TIMEOUT must be > 0")
	}
	if len(cfg.Session.Secret) < 16 {
		return cfg, errors.New("SESSION_SECRET must be at least 16 characters")
	}
	if cfg.Session.TTL <= 0 {
		return cfg, errors.New("SESSION_TTL must be > 0")
	}
	if strings.TrimSpace(cfg.Session.CookieName) == "" {
		return cfg, errors.New("SESSION_COOKIE_NAME must not be empty")
	}
	if cfg.Session.RedisDB < 0 {
		return cfg, errors.New("REDIS_DB must be >= 0")
	}
	if cfg.GitHub.Enabled() && strings.TrimSpace(cfg.GitHub.CallbackURL) == "" {
		return cfg, errors.New("CALLBACK_URL is required when GitHub OAuth is configured")
	}
	if strings.TrimSpace(cfg.DocsAPIKey) == "" {
		return cfg, errors.New("DOCS_API_KEY must not be empty")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// splitPairs parses "k1=v1,k2=v2"; entries without '=' or with an empty key are skipped.
func splitPairs(s string) map[string]string {
	items := splitCSV(s)
	if len(items) == 0 {
		return nil
	}
	out := make(map[string]string, len(items))
	for _, it := range items {
		k, v, ok := strings.Cut(it, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}

// randomSecret returns 32 random bytes, hex encoded. Sessions signed with it
// do not survive a restart.
func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
