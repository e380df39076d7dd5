package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Responder ResponderConfig `mapstructure:"responder"`
	Render    RenderConfig    `mapstructure:"render"`
	History   HistoryConfig   `mapstructure:"history"`
	Log       LogConfig       `mapstructure:"log"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	UseInMemory bool   `mapstructure:"use_in_memory"`
}

// RedisConfig selects the Redis history store when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type ResponderConfig struct {
	MaxTableCols        int `mapstructure:"max_table_cols"`
	ShortReplyThreshold int `mapstructure:"short_reply_threshold"`
}

type RenderConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	WordWrap int  `mapstructure:"word_wrap"`
}

type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return DatabaseConfig{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		port, err = strconv.Atoi(u.Port())
		if err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid port %q: %w", u.Port(), err)
		}
	}

	sslMode := u.Query().Get("sslmode")
	if sslMode == "" {
		sslMode = "disable"
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  sslMode,
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "copilot")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.use_in_memory", true)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "copilot")
	v.SetDefault("responder.max_table_cols", 5)
	v.SetDefault("responder.short_reply_threshold", 140)
	v.SetDefault("render.enabled", false)
	v.SetDefault("render.word_wrap", 80)
	v.SetDefault("history.limit", 5)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}

// LoadConfig reads the YAML file at path, if any, on top of the defaults.
// An empty path or a missing file is not an error: the program runs fully
// offline with defaults. Environment variables override file values
// (COPILOT_RENDER_ENABLED, COPILOT_LOG_LEVEL, ...), and DATABASE_URL and
// TELEGRAM_TOKEN are honoured as-is.
func LoadConfig(path string) (*Config, error) {
	// A .env next to the binary is optional.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// Enable environment variable support
	v.SetEnvPrefix("copilot")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Check for DATABASE_URL environment variable
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		config.Database = dbConfig
	}

	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if c.Responder.MaxTableCols < 1 {
		return fmt.Errorf("responder.max_table_cols must be positive, got %d", c.Responder.MaxTableCols)
	}
	if c.Responder.ShortReplyThreshold < 1 {
		return fmt.Errorf("responder.short_reply_threshold must be positive, got %d", c.Responder.ShortReplyThreshold)
	}
	if c.History.Limit < 1 {
		return fmt.Errorf("history.limit must be positive, got %d", c.History.Limit)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must not be negative, got %d", c.Redis.DB)
	}
	if c.Render.WordWrap < 0 {
		return fmt.Errorf("render.word_wrap must not be negative, got %d", c.Render.WordWrap)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}
