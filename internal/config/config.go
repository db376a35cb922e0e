package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"time"
)

type APIConfig struct {
	Addr      string
	Debug     bool
	JWTSecret string

	MarketBaseURL string
	StockSymbols  []string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	TickInterval    time.Duration
	SimStart        time.Time
	SimEnd          time.Time
	StressCap       float64
	SessionTTL      time.Duration
	SessionCapacity int
}

type CLIConfig struct {
	APIBaseURL string
}

func LoadAPIFromEnv() (APIConfig, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("QS_API_ADDR", ":8000")
	}

	cfg := APIConfig{
		Addr:      addr,
		Debug:     envBoolDefault("QS_DEBUG", false),
		JWTSecret: strings.TrimSpace(os.Getenv("QS_JWT_SECRET_KEY")),

		MarketBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("QS_MARKET_BASE_URL")), "/"),
		StockSymbols:  envSymbolsDefault("QS_STOCK_SYMBOLS"),

		OpenAIAPIKey:  strings.TrimSpace(os.Getenv("QS_OPENAI_API_KEY")),
		OpenAIBaseURL: strings.TrimRight(envDefault("QS_OPENAI_BASE_URL", "https://api.openai.com"), "/"),
		OpenAIModel:   envDefault("QS_OPENAI_MODEL", "gpt-4o-mini"),

		TickInterval:    envDurationDefault("QS_TICK_INTERVAL", time.Second),
		SimStart:        envTimeDefault("QS_SIM_START", time.Date(2008, time.January, 1, 12, 0, 0, 0, time.UTC)),
		SimEnd:          envTimeDefault("QS_SIM_END", time.Date(2009, time.January, 1, 0, 0, 0, 0, time.UTC)),
		StressCap:       envFloatDefault("QS_STRESS_CAP", 80),
		SessionTTL:      envDurationDefault("QS_SESSION_TTL", time.Hour),
		SessionCapacity: envIntDefault("QS_SESSION_CAPACITY", 1024),
	}
	if cfg.JWTSecret == "" {
		// Tokens do not survive a restart without a configured key, which
		// matches the in-memory session lifetime.
		secret, err := randomSecret()
		if err != nil {
			return cfg, err
		}
		cfg.JWTSecret = secret
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("QS_API_BASE_URL", "http://localhost:8000"), "/"),
	}
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envFloatDefault(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envIntDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBoolDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envTimeDefault(key string, fallback time.Time) time.Time {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return fallback
	}
	return t.UTC()
}

func envSymbolsDefault(key string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
