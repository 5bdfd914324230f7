package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts "10s" style values from YAML, which yaml.v3 cannot
// decode into time.Duration directly.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
	Mail     MailConfig     `yaml:"mail"`
	Chat     ChatConfig     `yaml:"chat"`
	Admin    AdminConfig    `yaml:"admin"`
}

type ServerConfig struct {
	Port         string   `yaml:"port"`
	Env          string   `yaml:"env"`
	ReadTimeout  Duration `yaml:"readTimeout"`
	WriteTimeout Duration `yaml:"writeTimeout"`
}

type DatabaseConfig struct {
	DSN             string   `yaml:"dsn"`
	MaxIdleConns    int      `yaml:"maxIdleConns"`
	MaxOpenConns    int      `yaml:"maxOpenConns"`
	ConnMaxLifetime Duration `yaml:"connMaxLifetime"`
}

type JWTConfig struct {
	AccessSecret  string   `yaml:"accessSecret"`
	RefreshSecret string   `yaml:"refreshSecret"`
	AccessExpiry  Duration `yaml:"accessExpiry"`
	RefreshExpiry Duration `yaml:"refreshExpiry"`
	Issuer        string   `yaml:"issuer"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Filename   string `yaml:"filename"`
	MaxSize    int    `yaml:"maxSize"` // MB per file
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"` // days
	Compress   bool   `yaml:"compress"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// ChatConfig holds the message retention and pagination knobs.
type ChatConfig struct {
	RetentionDays              int `yaml:"retentionDays"`
	MaxMessagesPerConversation int `yaml:"maxMessagesPerConversation"`
	MessagesPerPage            int `yaml:"messagesPerPage"`
}

type AdminConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Load reads config/config.yaml (falling back to defaults when absent) and
// applies environment variable overrides on top.
func Load() *Config {
	cfg := loadFromYAML("config/config.yaml")
	overrideWithEnv(cfg)
	return cfg
}

func loadFromYAML(path string) *Config {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return defaults()
	}
	return cfg
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			Env:          "development",
			ReadTimeout:  Duration(10 * time.Second),
			WriteTimeout: Duration(10 * time.Second),
		},
		Database: DatabaseConfig{
			DSN:             "studybuddy:studybuddy@tcp(localhost:3306)/studybuddy?charset=utf8mb4&parseTime=True&loc=UTC",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: Duration(time.Hour),
		},
		JWT: JWTConfig{
			AccessSecret:  "change-me-in-production",
			RefreshSecret: "change-me-refresh",
			AccessExpiry:  Duration(24 * time.Hour),
			RefreshExpiry: Duration(168 * time.Hour),
			Issuer:        "studybuddy",
		},
		Log: LogConfig{
			Level:      "info",
			Filename:   "logs/app.log",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
		Mail: MailConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Chat: ChatConfig{
			RetentionDays:              30,
			MaxMessagesPerConversation: 5000,
			MessagesPerPage:            50,
		},
		Admin: AdminConfig{
			Email:    "admin@studybuddy.local",
			Password: "",
		},
	}
}

func overrideWithEnv(cfg *Config) {
	if v := getEnv("SERVER_PORT", ""); v != "" {
		cfg.Server.Port = v
	}
	if v := getEnv("SERVER_ENV", ""); v != "" {
		cfg.Server.Env = v
	}
	if d := getEnvDuration("SERVER_READ_TIMEOUT", 0); d > 0 {
		cfg.Server.ReadTimeout = Duration(d)
	}
	if d := getEnvDuration("SERVER_WRITE_TIMEOUT", 0); d > 0 {
		cfg.Server.WriteTimeout = Duration(d)
	}

	if v := getEnv("DATABASE_DSN", ""); v != "" {
		cfg.Database.DSN = v
	}
	if n := getEnvInt("DB_MAX_IDLE", 0); n > 0 {
		cfg.Database.MaxIdleConns = n
	}
	if n := getEnvInt("DB_MAX_OPEN", 0); n > 0 {
		cfg.Database.MaxOpenConns = n
	}

	if v := getEnv("JWT_ACCESS_SECRET", ""); v != "" {
		cfg.JWT.AccessSecret = v
	}
	if v := getEnv("JWT_REFRESH_SECRET", ""); v != "" {
		cfg.JWT.RefreshSecret = v
	}
	if d := getEnvDuration("JWT_ACCESS_EXPIRY", 0); d > 0 {
		cfg.JWT.AccessExpiry = Duration(d)
	}
	if d := getEnvDuration("JWT_REFRESH_EXPIRY", 0); d > 0 {
		cfg.JWT.RefreshExpiry = Duration(d)
	}
	if v := getEnv("JWT_ISSUER", ""); v != "" {
		cfg.JWT.Issuer = v
	}

	if v := getEnv("LOG_LEVEL", ""); v != "" {
		cfg.Log.Level = v
	}
	if v := getEnv("LOG_FILENAME", ""); v != "" {
		cfg.Log.Filename = v
	}

	if v := getEnv("MAIL_HOST", ""); v != "" {
		cfg.Mail.Host = v
	}
	if n := getEnvInt("MAIL_PORT", 0); n > 0 {
		cfg.Mail.Port = n
	}
	if v := getEnv("MAIL_USERNAME", ""); v != "" {
		cfg.Mail.Username = v
	}
	if v := getEnv("MAIL_PASSWORD", ""); v != "" {
		cfg.Mail.Password = v
	}
	if v := getEnv("MAIL_FROM", ""); v != "" {
		cfg.Mail.From = v
	}

	if n := getEnvInt("MESSAGE_RETENTION_DAYS", 0); n > 0 {
		cfg.Chat.RetentionDays = n
	}
	if n := getEnvInt("MAX_MESSAGES_PER_CONVERSATION", 0); n > 0 {
		cfg.Chat.MaxMessagesPerConversation = n
	}
	if n := getEnvInt("MESSAGES_PER_PAGE", 0); n > 0 {
		cfg.Chat.MessagesPerPage = n
	}

	if v := getEnv("ADMIN_EMAIL", ""); v != "" {
		cfg.Admin.Email = v
	}
	if v := getEnv("ADMIN_PASSWORD", ""); v != "" {
		cfg.Admin.Password = v
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
