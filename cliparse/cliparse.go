package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort         = 3002
	DefaultDatabaseType = "sqlite"
	DefaultSQLitePath   = "calorie_tracker.db"
	DefaultLLMBaseURL   = "https://openrouter.ai/api/v1"
	DefaultLLMModel     = "deepseek/deepseek-chat-v3.1:free"
	DefaultLLMTimeout   = 8 * time.Second
	DefaultLogLevel     = "info"
	DefaultAppTitle     = "Calorie Tracker"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Estimation provider
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string
	LLMTimeout time.Duration
	AppReferer string
	AppTitle   string

	LogLevel string
}

// LoadEnvFile reads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ParseFlags reads flags, falling back to environment variables and then defaults
func ParseFlags(args []string) (Config, error) {
	var (
		cfg        Config
		llmTimeout string
	)

	fs := flag.NewFlagSet("calorie-tracker", flag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or SQLite file path")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Estimation provider
	fs.StringVar(&cfg.LLMBaseURL, "llm-url", "", "Chat-completion API base URL")
	fs.StringVar(&cfg.LLMModel, "llm-model", "", "Default model for estimates")
	fs.StringVar(&cfg.LLMAPIKey, "llm-key", "", "Server-side provider API key (prefer env)")
	fs.StringVar(&llmTimeout, "llm-timeout", "", "Upstream request timeout, e.g. 8s")

	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}

	cfg.DatabaseType = firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), DefaultDatabaseType)
	cfg.DatabaseType = strings.ToLower(cfg.DatabaseType)
	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURL, os.Getenv("DATABASE_URL"))

	switch cfg.DatabaseType {
	case "sqlite":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = DefaultSQLitePath
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
	default:
		return Config{}, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	cfg.LLMBaseURL = firstNonEmpty(cfg.LLMBaseURL, os.Getenv("OPENROUTER_BASE_URL"), DefaultLLMBaseURL)
	cfg.LLMModel = firstNonEmpty(cfg.LLMModel, os.Getenv("OPENROUTER_MODEL"), DefaultLLMModel)
	// Secrets - optional; clients normally send their own key
	cfg.LLMAPIKey = firstNonEmpty(cfg.LLMAPIKey, os.Getenv("OPENROUTER_API_KEY"))

	cfg.LLMTimeout = DefaultLLMTimeout
	if s := firstNonEmpty(llmTimeout, os.Getenv("LLM_TIMEOUT")); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid LLM timeout %q", s)
		}
		cfg.LLMTimeout = d
	}

	cfg.AppReferer = os.Getenv("APP_REFERER")
	cfg.AppTitle = firstNonEmpty(os.Getenv("APP_TITLE"), DefaultAppTitle)

	cfg.LogLevel = strings.ToLower(firstNonEmpty(cfg.LogLevel, os.Getenv("LOG_LEVEL"), DefaultLogLevel))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
