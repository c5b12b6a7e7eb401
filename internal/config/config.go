package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Telegram  TelegramConfig
	LLM       LLMConfig
	Storage   StorageConfig
	Session   SessionConfig
	Redis     RedisConfig
	Broadcast BroadcastConfig
	Server    ServerConfig
	Admin     AdminConfig
	Logger    LoggerConfig
}

type TelegramConfig struct {
	Token       string
	PollTimeout int
	Workers     int
}

type LLMConfig struct {
	Provider    string // openai | ollama
	APIKey      string
	Model       string
	ServerURL   string
	Temperature float64
	Timeout     time.Duration
}

// StorageConfig holds the three store locations. They may share one sqlite file.
type StorageConfig struct {
	UsersPath  string
	PlansPath  string
	EssaysPath string
}

type SessionConfig struct {
	Backend string // memory | redis
	TTL     time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type BroadcastConfig struct {
	Time        string
	Location    string
	Concurrency int
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type AdminConfig struct {
	JWTSecret string
}

type LoggerConfig struct {
	Level string
	Env   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.poll_timeout", 60)
	v.SetDefault("telegram.workers", 8)
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4-0613")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("storage.users_path", "data/linguabot.db")
	v.SetDefault("storage.plans_path", "data/linguabot.db")
	v.SetDefault("storage.essays_path", "data/linguabot.db")
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("broadcast.time", "14:00")
	v.SetDefault("broadcast.location", "Local")
	v.SetDefault("broadcast.concurrency", 4)
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "20s")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
}

// LoadConfig reads config.yaml (optional) and the environment. A local .env file
// is loaded first so its values take part in the env overrides below.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := fromViper(v)

	// Override with environment variables if set
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		cfg.LLM.Provider = provider
	}
	if serverURL := os.Getenv("LLM_SERVER_URL"); serverURL != "" {
		cfg.LLM.ServerURL = serverURL
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.Storage.UsersPath = dbPath
		cfg.Storage.PlansPath = dbPath
		cfg.Storage.EssaysPath = dbPath
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		cfg.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}
	if at := os.Getenv("BROADCAST_TIME"); at != "" {
		cfg.Broadcast.Time = at
	}
	if secret := os.Getenv("ADMIN_JWT_SECRET"); secret != "" {
		cfg.Admin.JWTSecret = secret
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid SERVER_PORT %q: %w", port, err)
		}
		cfg.Server.Port = p
	}

	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Telegram: TelegramConfig{
			Token:       v.GetString("telegram.token"),
			PollTimeout: v.GetInt("telegram.poll_timeout"),
			Workers:     v.GetInt("telegram.workers"),
		},
		LLM: LLMConfig{
			Provider:    v.GetString("llm.provider"),
			APIKey:      v.GetString("llm.api_key"),
			Model:       v.GetString("llm.model"),
			ServerURL:   v.GetString("llm.server_url"),
			Temperature: v.GetFloat64("llm.temperature"),
			Timeout:     v.GetDuration("llm.timeout"),
		},
		Storage: StorageConfig{
			UsersPath:  v.GetString("storage.users_path"),
			PlansPath:  v.GetString("storage.plans_path"),
			EssaysPath: v.GetString("storage.essays_path"),
		},
		Session: SessionConfig{
			Backend: v.GetString("session.backend"),
			TTL:     v.GetDuration("session.ttl"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Broadcast: BroadcastConfig{
			Time:        v.GetString("broadcast.time"),
			Location:    v.GetString("broadcast.location"),
			Concurrency: v.GetInt("broadcast.concurrency"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Admin: AdminConfig{
			JWTSecret: v.GetString("admin.jwt_secret"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
	}
}

// Validate checks the settings the bot cannot start without.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required (TELEGRAM_BOT_TOKEN)")
	}
	switch c.LLM.Provider {
	case "openai":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("openai api key is required (OPENAI_API_KEY)")
		}
	case "ollama":
		if c.LLM.ServerURL == "" {
			return fmt.Errorf("ollama server url is required (LLM_SERVER_URL)")
		}
	default:
		return fmt.Errorf("unsupported llm provider: %q", c.LLM.Provider)
	}
	if _, _, err := ParseClock(c.Broadcast.Time); err != nil {
		return err
	}
	if _, err := c.Broadcast.TimeLocation(); err != nil {
		return err
	}
	switch c.Session.Backend {
	case "memory":
	case "redis":
		if c.Redis.Address == "" {
			return fmt.Errorf("redis address is required for the redis session backend")
		}
	default:
		return fmt.Errorf("unsupported session backend: %q", c.Session.Backend)
	}
	return nil
}

// ParseClock parses a wall-clock time in HH:MM form.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid broadcast time %q, expected HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

// TimeLocation resolves the configured broadcast time zone.
func (b BroadcastConfig) TimeLocation() (*time.Location, error) {
	if b.Location == "" || b.Location == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(b.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid broadcast location %q: %w", b.Location, err)
	}
	return loc, nil
}
