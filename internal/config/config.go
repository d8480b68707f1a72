package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "QUIZZY"

type Config struct {
	Backend BackendConfig
	Quiz    QuizConfig
	Server  ServerConfig
	Logger  LoggerConfig
	Session SessionConfig
}

// BackendConfig points at the study-assistant backend that generates and grades quizzes.
type BackendConfig struct {
	BaseURL string
	// Timeout of zero leaves backend calls unbounded.
	Timeout time.Duration
}

type QuizConfig struct {
	DefaultTimePerQuestion time.Duration
}

type ServerConfig struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins string
}

type LoggerConfig struct {
	Level string
	Env   string
}

type SessionConfig struct {
	IdleTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "http://localhost:5000")
	v.SetDefault("backend.timeout", 0)
	v.SetDefault("quiz.default_time_per_question", 30*time.Second)
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20*time.Second)
	v.SetDefault("server.write_timeout", 20*time.Second)
	v.SetDefault("server.allowed_origins", "http://localhost:3000")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("session.idle_timeout", 30*time.Minute)
}

// LoadConfig reads configuration from defaults, an optional config.yaml, QUIZZY_* environment
// variables and, when flags is non-nil, command line flags (highest precedence).
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(v.GetString("backend.base_url"), "/"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		Quiz: QuizConfig{
			DefaultTimePerQuestion: v.GetDuration("quiz.default_time_per_question"),
		},
		Server: ServerConfig{
			Port:           v.GetInt("server.port"),
			ReadTimeout:    v.GetDuration("server.read_timeout"),
			WriteTimeout:   v.GetDuration("server.write_timeout"),
			AllowedOrigins: v.GetString("server.allowed_origins"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Session: SessionConfig{
			IdleTimeout: v.GetDuration("session.idle_timeout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// flagKeys maps command line flag names onto config keys.
var flagKeys = map[string]string{
	"backend":    "backend.base_url",
	"timeout":    "backend.timeout",
	"port":       "server.port",
	"log-level":  "logger.level",
	"log-env":    "logger.env",
	"time-limit": "quiz.default_time_per_question",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", name, err)
		}
	}
	return nil
}

// RegisterFlags declares the flags understood by LoadConfig on fs.
// Flags not given on the command line do not override lower layers.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("backend", "http://localhost:5000", "base URL of the study-assistant backend")
	fs.Duration("timeout", 0, "per-request backend timeout (0 disables)")
	fs.Int("port", 8090, "gateway listen port")
	fs.String("log-level", "info", "log level (info or debug)")
	fs.String("log-env", "development", "log format environment (development or production)")
	fs.Duration("time-limit", 30*time.Second, "time per question when the backend does not supply one")
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend.base_url %q: must be an absolute http(s) URL", c.Backend.BaseURL)
	}
	if c.Quiz.DefaultTimePerQuestion < time.Second {
		return fmt.Errorf("quiz.default_time_per_question must be at least 1s, got %s", c.Quiz.DefaultTimePerQuestion)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}
	return nil
}

// DefaultSeconds returns the fallback per-question limit in whole seconds.
func (q QuizConfig) DefaultSeconds() int {
	return int(q.DefaultTimePerQuestion / time.Second)
}
