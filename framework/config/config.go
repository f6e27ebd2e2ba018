package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/samber/mo"
)

// Config is the central typed configuration struct.
// Embed or extend it in your app's own AppConfig.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Log     LogConfig     `yaml:"log"`
	Inspect InspectConfig `yaml:"inspect"`
}

type AppConfig struct {
	Name  string `yaml:"name"`
	Env   string `yaml:"env"` // local | production | testing
	Debug bool   `yaml:"debug"`
	Port  string `yaml:"port"`
}

// LogConfig drives framework/logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace | debug | info | warn | error
	Output string `yaml:"output"` // stdout | stderr | file path
	Pretty bool   `yaml:"pretty"`
}

// InspectConfig controls the facade inspection server.
type InspectConfig struct {
	Addr string `yaml:"addr"`
}

// Address returns the listen address, or None when inspection is disabled.
func (c InspectConfig) Address() mo.Option[string] {
	if c.Addr == "" {
		return mo.None[string]()
	}
	return mo.Some(c.Addr)
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return fromEnv()
}

func fromEnv() *Config {
	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "GoFacade"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
			Port:  env("APP_PORT", "8000"),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Output: env("LOG_OUTPUT", "stderr"),
			Pretty: envBool("LOG_PRETTY", false),
		},
		Inspect: InspectConfig{
			Addr: env("INSPECT_ADDR", ""),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// Lookup returns a non-empty env value, or None.
func Lookup(key string) mo.Option[string] {
	if v := os.Getenv(key); v != "" {
		return mo.Some(v)
	}
	return mo.None[string]()
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	return LookupInt(key).OrElse(defaultVal)
}

// LookupInt returns a parsable int env value, or None.
func LookupInt(key string) mo.Option[int] {
	v, ok := Lookup(key).Get()
	if !ok {
		return mo.None[int]()
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return mo.None[int]()
	}
	return mo.Some(i)
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	return Lookup(key).OrElse(fallback)
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
