package app

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	LogLevel  string
	LogFormat string
	UserAgent string

	AUREndpoint     string
	FlathubRemote   string
	RequestTimeout  time.Duration
	ResultLimit     int
	PreferredSource string

	CacheDir        string
	CacheTTL        time.Duration
	CacheMaxEntries int
	CacheDisabled   bool
	RedisURL        string

	CompletionLimit  int
	MaxRecentEntries int

	MetricsAddr string
}

func LoadConfig() Config {
	return Config{
		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "warn")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		UserAgent: getEnv("PKGSCOUT_USER_AGENT", "pkgscout/1.0"),

		AUREndpoint:     getEnv("PKGSCOUT_AUR_ENDPOINT", "https://aur.archlinux.org/rpc/"),
		FlathubRemote:   getEnv("PKGSCOUT_FLATHUB_REMOTE", "flathub"),
		RequestTimeout:  time.Duration(getEnvInt("PKGSCOUT_TIMEOUT_SECONDS", 45)) * time.Second,
		ResultLimit:     getEnvInt("PKGSCOUT_RESULT_LIMIT", 5),
		PreferredSource: strings.ToLower(getEnv("PKGSCOUT_PREFER_SOURCE", "")),

		CacheDir:        getEnv("PKGSCOUT_CACHE_DIR", defaultCacheDir()),
		CacheTTL:        time.Duration(getEnvInt("PKGSCOUT_CACHE_TTL_HOURS", 24)) * time.Hour,
		CacheMaxEntries: getEnvInt("PKGSCOUT_CACHE_MAX_ENTRIES", 1000),
		CacheDisabled:   getEnvBool("PKGSCOUT_CACHE_DISABLED", false),
		RedisURL:        getEnv("PKGSCOUT_REDIS_URL", ""),

		CompletionLimit:  getEnvInt("PKGSCOUT_COMPLETION_LIMIT", 10),
		MaxRecentEntries: getEnvInt("PKGSCOUT_MAX_RECENT", 50),

		MetricsAddr: getEnv("PKGSCOUT_METRICS_ADDR", ""),
	}
}

// defaultCacheDir follows XDG_CACHE_HOME with a ~/.cache fallback.
func defaultCacheDir() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_CACHE_HOME")); dir != "" {
		return filepath.Join(dir, "pkgscout")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pkgscout")
	}
	return filepath.Join(home, ".cache", "pkgscout")
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
