package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mitech808/phone-price-bot/internal/domain/constants"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	TelegramToken     string
	AllowEmptySecrets bool

	ChannelUsername     string
	InstagramURL        string
	RequireSubscription bool
	AdminIDs            []int64

	PricesPath   string
	PricesSheet  string
	LinksPath    string
	FallbackURL  string
	WatchCatalog bool

	PostgresDSN             string
	PostgresConnectAttempts int
	PostgresConnectDelay    time.Duration
	StatsDBPath             string

	LogMode     string
	Timezone    string
	SessionTTL  time.Duration
	MaxSessions int
	WorkerCount int
	CacheSize   int
}

// Load .env (mavjud bo'lsa) va environmentdan konfiguratsiyani yuklash
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv faqat environment o'zgaruvchilaridan o'qiydi
func FromEnv() (*Config, error) {
	cfg := &Config{
		TelegramToken:   strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		ChannelUsername: getenvDefault("CHANNEL_USERNAME", constants.DefaultChannelUsername),
		InstagramURL:    getenvDefault("INSTAGRAM_URL", constants.DefaultInstagramURL),
		PricesPath:      getenvDefault("PRICES_PATH", constants.DefaultPricesPath),
		PricesSheet:     strings.TrimSpace(os.Getenv("PRICES_SHEET")),
		LinksPath:       getenvDefault("LINKS_PATH", constants.DefaultLinksPath),
		FallbackURL:     getenvDefault("FALLBACK_URL", constants.DefaultFallbackURL),
		PostgresDSN:     strings.TrimSpace(getenvAny("POSTGRES_DSN", "DATABASE_URL")),
		StatsDBPath:     strings.TrimSpace(os.Getenv("STATS_DB_PATH")),
		LogMode:         getenvDefault("LOG_MODE", "dev"),
		Timezone:        getenvDefault("TIMEZONE", "Asia/Baghdad"),
	}

	var err error
	if cfg.AllowEmptySecrets, err = getEnvBool("ALLOW_EMPTY_SECRETS", false); err != nil {
		return nil, err
	}
	if cfg.RequireSubscription, err = getEnvBool("REQUIRE_SUBSCRIPTION", true); err != nil {
		return nil, err
	}
	if cfg.WatchCatalog, err = getEnvBool("WATCH_CATALOG", true); err != nil {
		return nil, err
	}
	if cfg.AdminIDs, err = parseIDList(os.Getenv("ADMIN_IDS")); err != nil {
		return nil, fmt.Errorf("ADMIN_IDS noto'g'ri formatda: %w", err)
	}
	if cfg.SessionTTL, err = getenvDuration("SESSION_TTL", constants.DefaultSessionTTL); err != nil {
		return nil, err
	}
	if cfg.PostgresConnectDelay, err = getenvDuration("POSTGRES_CONNECT_RETRY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.MaxSessions, err = getenvInt("MAX_SESSIONS", constants.DefaultMaxSessions); err != nil {
		return nil, err
	}
	if cfg.WorkerCount, err = getenvInt("WORKER_COUNT", 0); err != nil {
		return nil, err
	}
	if cfg.CacheSize, err = getenvInt("RESOLVE_CACHE_SIZE", constants.DefaultResolveCacheSize); err != nil {
		return nil, err
	}
	if cfg.PostgresConnectAttempts, err = getenvInt("POSTGRES_CONNECT_MAX_ATTEMPTS", 20); err != nil {
		return nil, err
	}

	if cfg.PostgresDSN == "" {
		cfg.PostgresDSN = dsnFromParts()
	}
	return cfg, nil
}

// RequireSecrets bot rejimi uchun majburiy qiymatlar
func (c *Config) RequireSecrets() error {
	if c.AllowEmptySecrets {
		return nil
	}
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable bo'sh")
	}
	return nil
}

// DBParts DB_HOST/DB_PORT/DB_USER/DB_PASSWORD/DB_NAME/DB_SSLMODE
type DBParts struct {
	Host, Port, User, Password, Name, SSLMode string
}

// dsnFromParts DB_* qismlari berilgan bo'lsa postgres URL yig'adi
func dsnFromParts() string {
	p := DBParts{
		Host:     strings.TrimSpace(os.Getenv("DB_HOST")),
		Port:     getenvDefault("DB_PORT", "5432"),
		User:     strings.TrimSpace(os.Getenv("DB_USER")),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     strings.TrimSpace(os.Getenv("DB_NAME")),
		SSLMode:  getenvDefault("DB_SSLMODE", "disable"),
	}
	if p.Host == "" || p.Name == "" {
		return ""
	}
	return p.URL()
}

func (p DBParts) URL() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, p.Port),
		Path:   "/" + p.Name,
	}
	if p.User != "" {
		if p.Password != "" {
			u.User = url.UserPassword(p.User, p.Password)
		} else {
			u.User = url.User(p.User)
		}
	}
	q := u.Query()
	q.Set("sslmode", p.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func parseIDList(raw string) ([]int64, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", f, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getenvDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvAny(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func getenvInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s noto'g'ri son: %w", key, err)
	}
	return val, nil
}

// getenvDuration "30m" yoki soniyalar ("90")
func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s noto'g'ri davomiylik: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	default:
		return defaultValue, fmt.Errorf("%s noto'g'ri qiymat: %q", key, value)
	}
}
