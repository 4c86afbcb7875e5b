package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

// withURI sets the one variable Load requires.
func withURI(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
}

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	withURI(t)
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestMustLoad_PanicsWithoutDatabaseURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("MustLoad should panic without MONGODB_URI")
		}
		if err, ok := r.(error); !ok || !strings.Contains(err.Error(), "MONGODB_URI is not defined") {
			t.Fatalf("unexpected panic value: %v", r)
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "off")
	t.Setenv("DOCS_API_KEY", "docs-key")
	t.Setenv("DOCS_REQUIRE_AUTH", "1")

	// Database
	t.Setenv("MONGODB_URI", "  mongodb+srv://cluster.example/  ")
	t.Setenv("MONGODB_DATABASE", "project2")
	t.Setenv("MONGODB_COLLECTION", "mons")
	t.Setenv("DB_CONNECT_TIMEOUT", "3s")

	// Session
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_SLIDING", "true")
	t.Setenv("SESSION_COOKIE_NAME", "sid")
	t.Setenv("SESSION_COOKIE_SECURE", "on")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "pw")
	t.Setenv("REDIS_DB", "2")

	// GitHub
	t.Setenv("GITHUB_CLIENT_ID", "cid")
	t.Setenv("GITHUB_CLIENT_SECRET", "csecret")
	t.Setenv("CALLBACK_URL", "http://localhost:3000/github/callback")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 10.0
	t.Setenv("RATE_BURST", "nope") // -> default 20

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")
	t.Setenv("OTEL_DEPLOYMENT_ENVIRONMENT", "staging")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "api-key=abc, x-tenant = kanto ,broken")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging / Docs
	if cfg.LogLevel != "warn" || !cfg.LogPretty || cfg.SwaggerEnabled || cfg.DocsAPIKey != "docs-key" || !cfg.DocsRequireAuth {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}

	// Database
	want := DatabaseConfig{URI: "mongodb+srv://cluster.example/", Name: "project2", Collection: "mons", ConnectTimeout: 3 * time.Second}
	if cfg.Database != want {
		t.Fatalf("database unexpected: %+v", cfg.Database)
	}

	// Session
	s := cfg.Session
	if s.Secret != "0123456789abcdef0123" || s.Ephemeral || s.TTL != 2*time.Hour || !s.Sliding ||
		s.CookieName != "sid" || !s.CookieSecure || s.RedisAddr != "redis:6379" || s.RedisPassword != "pw" || s.RedisDB != 2 {
		t.Fatalf("session unexpected: %+v", s)
	}

	// GitHub
	if !cfg.GitHub.Enabled() || cfg.GitHub.CallbackURL != "http://localhost:3000/github/callback" {
		t.Fatalf("github unexpected: %+v", cfg.GitHub)
	}

	// Rate limiting (parse fallback to defaults)
	if cfg.RateRPS != 10.0 || cfg.RateBurst != 20 {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
	if cfg.OTEL.Environment != "staging" {
		t.Fatalf("otel environment = %q", cfg.OTEL.Environment)
	}
	if want := map[string]string{"api-key": "abc", "x-tenant": "kanto"}; !reflect.DeepEqual(cfg.OTEL.Headers, want) {
		t.Fatalf("otel headers = %v", cfg.OTEL.Headers)
	}
}

func TestLoad_Defaults(t *testing.T) {
	withURI(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "3000" || cfg.GinMode != "release" || !cfg.SwaggerEnabled || cfg.DocsRequireAuth {
		t.Fatalf("server/docs defaults unexpected: %+v", cfg)
	}
	if cfg.DocsAPIKey != "swagger-test" {
		t.Fatalf("sentinel default = %q", cfg.DocsAPIKey)
	}
	if cfg.Database.Name != "pokedex" || cfg.Database.Collection != "pokemon" || cfg.Database.ConnectTimeout != 10*time.Second {
		t.Fatalf("database defaults unexpected: %+v", cfg.Database)
	}
	if cfg.Session.TTL != 24*time.Hour || cfg.Session.Sliding || cfg.Session.CookieName != "pokedex_session" || cfg.Session.RedisAddr != "" {
		t.Fatalf("session defaults unexpected: %+v", cfg.Session)
	}
	if cfg.GitHub.Enabled() {
		t.Fatalf("github should be disabled without credentials")
	}
}

func TestLoad_GeneratesEphemeralSecretWhenUnset(t *testing.T) {
	withURI(t)
	t.Setenv("SESSION_SECRET", "")

	a, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	b, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !a.Session.Ephemeral || len(a.Session.Secret) != 64 {
		t.Fatalf("expected generated 32-byte hex secret, got %+v", a.Session)
	}
	if a.Session.Secret == b.Session.Secret {
		t.Fatalf("generated secrets must differ between loads")
	}
	if a.Session.Secret == "secret" {
		t.Fatalf("must never fall back to a fixed placeholder")
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"invalid LOG_LEVEL", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"empty PORT via spaces", map[string]string{"PORT": "   "}, "PORT must not be empty"},
		{"non-positive timeouts", map[string]string{"READ_TIMEOUT": "0s"}, "timeouts must be positive"},
		{"max header bytes <= 0", map[string]string{"MAX_HEADER_BYTES": "0"}, "MAX_HEADER_BYTES"},
		{"missing MONGODB_URI", map[string]string{"MONGODB_URI": "   "}, "MONGODB_URI is not defined"},
		{"blank collection", map[string]string{"MONGODB_COLLECTION": " "}, "MONGODB_COLLECTION"},
		{"connect timeout", map[string]string{"DB_CONNECT_TIMEOUT": "-1s"}, "DB_CONNECT_TIMEOUT"},
		{"short session secret", map[string]string{"SESSION_SECRET": "short"}, "SESSION_SECRET"},
		{"session ttl", map[string]string{"SESSION_TTL": "0s"}, "SESSION_TTL"},
		{"redis db negative", map[string]string{"REDIS_DB": "-2"}, "REDIS_DB"},
		{"github without callback", map[string]string{"GITHUB_CLIENT_ID": "id", "GITHUB_CLIENT_SECRET": "s"}, "CALLBACK_URL"},
		{"rate rps negative", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"rate burst < 1", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"hsts max age negative", map[string]string{"HSTS_MAX_AGE": "-1s"}, "HSTS_MAX_AGE"},
		{"otel sample ratio out of range", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			withURI(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil || !containsErr(err, tc.want) {
				t.Fatalf("expected %q validation error, got: %v", tc.want, err)
			}
		})
	}
}

// --- helpers ---

func TestHelpers_getenv(t *testing.T) {
	t.Setenv("X_EMPTY", "")
	if getenv("X_EMPTY", "d") != "d" {
		t.Fatalf("getenv should fall back to default on empty var")
	}
	t.Setenv("X_SET", "val")
	if getenv("X_SET", "d") != "val" {
		t.Fatalf("getenv should read set value")
	}
}

func TestHelpers_getfloat_getint_getdur(t *testing.T) {
	t.Setenv("F_VALID", "3.14")
	if getfloat("F_VALID", 0) != 3.14 {
		t.Fatalf("getfloat parse failed")
	}
	t.Setenv("F_BAD", "nope")
	if getfloat("F_BAD", 1.23) != 1.23 {
		t.Fatalf("getfloat default on bad parse failed")
	}

	t.Setenv("I_VALID", "42")
	if getint("I_VALID", 0) != 42 {
		t.Fatalf("getint parse failed")
	}
	t.Setenv("I_BAD", "x")
	if getint("I_BAD", 7) != 7 {
		t.Fatalf("getint default on bad parse failed")
	}

	t.Setenv("D_VALID", "150ms")
	if getdur("D_VALID", time.Second) != 150*time.Millisecond {
		t.Fatalf("getdur parse failed")
	}
	t.Setenv("D_BAD", "zzz")
	if getdur("D_BAD", 2*time.Second) != 2*time.Second {
		t.Fatalf("getdur default on bad parse failed")
	}
}

func TestHelpers_getbool(t *testing.T) {
	for i, v := range []string{"1", "true", "TRUE", " yes ", "Y", "on", "On"} {
		k := "B_T_" + string(rune('a'+i))
		t.Setenv(k, v)
		if !getbool(k, false) {
			t.Fatalf("getbool(%q) = false; want true", v)
		}
	}
	for i, v := range []string{"0", "false", "FALSE", " no ", "N", "off", "Off"} {
		k := "B_F_" + string(rune('a'+i))
		t.Setenv(k, v)
		if getbool(k, true) {
			t.Fatalf("getbool(%q) = true; want false", v)
		}
	}
	t.Setenv("B_EMPTY", "")
	if !getbool("B_EMPTY", true) || getbool("B_EMPTY", false) {
		t.Fatalf("getbool default behavior unexpected")
	}
}

func TestHelpers_splitCSV(t *testing.T) {
	if out := splitCSV(""); out != nil {
		t.Fatalf("splitCSV empty should return nil")
	}
	want := []string{"a", "b", "c"}
	if got := splitCSV(" a, ,b ,  c  ,"); !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV mismatch: got %#v want %#v", got, want)
	}
}

// Ensure tests don't inherit a developer's shell env.
func TestMain(m *testing.M) {
	for _, k := range []string{"PORT", "MONGODB_URI", "SESSION_SECRET", "REDIS_ADDR", "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET"} {
		os.Unsetenv(k)
	}
	os.Exit(m.Run())
}

// containsErr reports whether err's message contains the given substring.
func containsErr(err error, want string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), want)
}
