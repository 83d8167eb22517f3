package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Speech modes
const (
	SpeechModeManual  = "manual"
	SpeechModeLiveKit = "livekit"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	LiveKit  LiveKitConfig
	Assembly AssemblyAIConfig
	Notify   NotifyConfig
	Standup  StandupConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled     bool
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	PublicURL       string
}

// LiveKitConfig holds LiveKit configuration
type LiveKitConfig struct {
	URL        string
	APIKey     string
	APISecret  string
	UseMock    bool
	RoomPrefix string
}

// AssemblyAIConfig holds AssemblyAI configuration
type AssemblyAIConfig struct {
	APIKey       string
	LanguageCode string
}

// NotifyConfig holds outbound delivery configuration
type NotifyConfig struct {
	SlackWebhookURL string
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPassword    string
	EmailFrom       string
	EmailTo         []string
}

// StandupConfig holds standup engine tuning, read from STANDUP_* variables
type StandupConfig struct {
	SilenceWindow           time.Duration `envconfig:"SILENCE_WINDOW" default:"4s"`
	GracePeriod             time.Duration `envconfig:"GRACE_PERIOD" default:"1s"`
	TickInterval            time.Duration `envconfig:"TICK_INTERVAL" default:"1s"`
	SpeakTimeout            time.Duration `envconfig:"SPEAK_TIMEOUT" default:"30s"`
	DefaultTimeLimit        int           `envconfig:"DEFAULT_TIME_LIMIT" default:"90"`
	ManualTimerFromFragment bool          `envconfig:"MANUAL_TIMER_FROM_FRAGMENT" default:"false"`
	QuestionKey             string        `envconfig:"QUESTION_KEY" default:"update"`
	QuestionPrompt          string        `envconfig:"QUESTION" default:"give your update"`
	SpeechMode              string        `envconfig:"SPEECH_MODE" default:"manual"`
	RosterSeedFile          string        `envconfig:"ROSTER_SEED_FILE"`
	HistoryFile             string        `envconfig:"HISTORY_FILE"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  getEnvAsList("ALLOWED_ORIGINS", "http://localhost:3000"),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Enabled:     getEnvAsBool("DB_ENABLED", true),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "standup_assistant"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Enabled:         getEnvAsBool("STORAGE_ENABLED", false),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "standup-assistant"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
		},
		LiveKit: LiveKitConfig{
			URL:        getEnv("LIVEKIT_URL", "ws://localhost:7880"),
			APIKey:     getEnv("LIVEKIT_API_KEY", "devkey"),
			APISecret:  getEnv("LIVEKIT_API_SECRET", "secret"),
			UseMock:    getEnvAsBool("LIVEKIT_USE_MOCK", true),
			RoomPrefix: getEnv("LIVEKIT_ROOM_PREFIX", "standup-"),
		},
		Assembly: AssemblyAIConfig{
			APIKey:       getEnv("ASSEMBLYAI_API_KEY", ""),
			LanguageCode: getEnv("ASSEMBLYAI_LANGUAGE", "en"),
		},
		Notify: NotifyConfig{
			SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
			SMTPHost:        getEnv("SMTP_HOST", ""),
			SMTPPort:        getEnvAsInt("SMTP_PORT", 587),
			SMTPUser:        getEnv("SMTP_USER", ""),
			SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
			EmailFrom:       getEnv("EMAIL_FROM", "standup@localhost"),
			EmailTo:         getEnvAsList("EMAIL_TO", ""),
		},
	}

	standup, err := LoadStandup()
	if err != nil {
		return nil, err
	}
	config.Standup = *standup

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadStandup reads only the STANDUP_* section. The CLI uses it directly.
func LoadStandup() (*StandupConfig, error) {
	var sc StandupConfig
	if err := envconfig.Process("STANDUP", &sc); err != nil {
		return nil, fmt.Errorf("failed to read standup config: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Storage.Enabled && c.Storage.BucketName == "" {
		return fmt.Errorf("STORAGE_BUCKET is required when storage is enabled")
	}
	if c.Standup.SpeechMode == SpeechModeLiveKit && !c.LiveKit.UseMock {
		if c.LiveKit.APIKey == "" || c.LiveKit.APISecret == "" {
			return fmt.Errorf("LIVEKIT_API_KEY and LIVEKIT_API_SECRET are required for livekit speech mode")
		}
	}
	return c.Standup.Validate()
}

// Validate validates the standup tuning
func (s *StandupConfig) Validate() error {
	if s.SilenceWindow <= 0 {
		return fmt.Errorf("STANDUP_SILENCE_WINDOW must be positive")
	}
	if s.GracePeriod < 0 {
		return fmt.Errorf("STANDUP_GRACE_PERIOD must not be negative")
	}
	if s.TickInterval <= 0 {
		return fmt.Errorf("STANDUP_TICK_INTERVAL must be positive")
	}
	if s.DefaultTimeLimit <= 0 {
		return fmt.Errorf("STANDUP_DEFAULT_TIME_LIMIT must be positive")
	}
	switch s.SpeechMode {
	case SpeechModeManual, SpeechModeLiveKit:
	default:
		return fmt.Errorf("STANDUP_SPEECH_MODE must be %q or %q", SpeechModeManual, SpeechModeLiveKit)
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetSMTPAddr returns the SMTP server address
func (c *Config) GetSMTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Notify.SMTPHost, c.Notify.SMTPPort)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
