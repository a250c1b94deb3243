package cfg

import (
	"testing"
	"time"
)

func validConfig() *Cfg {
	return &Cfg{
		Port:            "8080",
		Environment:     "test",
		LogLevel:        "info",
		APIKey:          NewSecret("key"),
		StoreBackend:    "memory",
		BoltPath:        "slugbin.db",
		DefaultTimezone: "America/Chicago",
		SlugLength:      6,
		MaxPasteSize:    256 * 1024,
		LRUCacheSize:    1000,
		RateLimit:       RateLimitCfg{RPM: 120, Burst: 20},
		ListConcurrency: 16,
		ContextTimeout:  5 * time.Second,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Cfg)
	}{
		{"missing api key", func(c *Cfg) { c.APIKey = NewSecret("") }},
		{"non-numeric port", func(c *Cfg) { c.Port = "http" }},
		{"unknown backend", func(c *Cfg) { c.StoreBackend = "dynamo" }},
		{"redis without url", func(c *Cfg) { c.StoreBackend = "redis" }},
		{"redis bad scheme", func(c *Cfg) {
			c.StoreBackend = "redis"
			c.RedisURL = "http://localhost:6379"
		}},
		{"rediss without tls flag", func(c *Cfg) {
			c.StoreBackend = "redis"
			c.RedisURL = "rediss://localhost:6379"
			c.RedisTLS = false
		}},
		{"bolt without path", func(c *Cfg) {
			c.StoreBackend = "bolt"
			c.BoltPath = ""
		}},
		{"bad timezone", func(c *Cfg) { c.DefaultTimezone = "Mars/Olympus" }},
		{"slug too short", func(c *Cfg) { c.SlugLength = 3 }},
		{"slug too long", func(c *Cfg) { c.SlugLength = 33 }},
		{"zero paste size", func(c *Cfg) { c.MaxPasteSize = 0 }},
		{"paste size over cap", func(c *Cfg) { c.MaxPasteSize = 11 * 1024 * 1024 }},
		{"bad proxy ip", func(c *Cfg) { c.TrustedProxies = []string{"not-an-ip"} }},
		{"bad proxy cidr", func(c *Cfg) { c.TrustedProxies = []string{"10.0.0.0/99"} }},
		{"production without metrics auth", func(c *Cfg) { c.Environment = "production" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			if err := Validate(c); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_KEY", "from-env")
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.APIKey.Value() != "from-env" {
		t.Errorf("api key = %q", c.APIKey.Value())
	}
	if c.StoreBackend != "bolt" || c.BoltPath != "slugbin.db" {
		t.Errorf("backend defaults = %q %q", c.StoreBackend, c.BoltPath)
	}
	if c.DefaultTimezone != "America/Chicago" {
		t.Errorf("timezone default = %q", c.DefaultTimezone)
	}
	if c.SlugLength != 6 || c.MaxPasteSize != 256*1024 {
		t.Errorf("size defaults = %d %d", c.SlugLength, c.MaxPasteSize)
	}
	if c.RateLimit.RPM != 120 || c.RateLimit.Burst != 20 {
		t.Errorf("rate limit defaults = %+v", c.RateLimit)
	}
}

func TestLoadParsesEnvironment(t *testing.T) {
	t.Setenv("API_KEY", "k")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "rediss://cache.internal:6379")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("RATE_LIMIT_RPM", "60")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CONTEXT_TIMEOUT", "10s")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(c); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !c.RedisTLS || c.RedisURL != "rediss://cache.internal:6379" {
		t.Errorf("redis = %q tls=%v", c.RedisURL, c.RedisTLS)
	}
	if c.RateLimit.RPM != 60 {
		t.Errorf("rpm = %d", c.RateLimit.RPM)
	}
	if len(c.AllowedOrigins) != 2 || c.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("origins = %v", c.AllowedOrigins)
	}
	if c.ContextTimeout != 10*time.Second {
		t.Errorf("timeout = %v", c.ContextTimeout)
	}
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("API_KEY", "k")
	t.Setenv("SLUG_LENGTH", "six")
	if _, err := Load(); err == nil {
		t.Error("expected parse error")
	}
}

func TestSecretRedactionAndWipe(t *testing.T) {
	s := NewSecret("topsecret")
	if s.String() != "***REDACTED***" {
		t.Errorf("String() = %q", s.String())
	}
	if s.Value() != "topsecret" {
		t.Errorf("Value() = %q", s.Value())
	}
	s.Wipe()
	if s.Value() == "topsecret" {
		t.Error("wipe left the secret intact")
	}
}
