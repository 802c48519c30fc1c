package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port          int
	DBDSN         string
	RedisURL      string
	SessionSecret string
	SessionTTL    time.Duration
	CookieName    string
	CookieSecure  bool
	AllowOrigins  []string
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.DBDSN = getEnv("DB_DSN", "")
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN obrigatório")
	}

	cfg.RedisURL = getEnv("REDIS_URL", "")
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL obrigatório")
	}

	cfg.SessionSecret = strings.TrimSpace(getEnv("SESSION_SECRET", ""))
	if len(cfg.SessionSecret) < 32 {
		return nil, errors.New("SESSION_SECRET deve ter pelo menos 32 caracteres")
	}

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 8*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = sessionTTL

	cfg.CookieName = strings.TrimSpace(getEnv("SESSION_COOKIE", "sd_sessao"))
	if cfg.CookieName == "" {
		cfg.CookieName = "sd_sessao"
	}
	cfg.CookieSecure = strings.EqualFold(getEnv("COOKIE_SECURE", "false"), "true")

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	cfg.AllowOrigins = nil
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
