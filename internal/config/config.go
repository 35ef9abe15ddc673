package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Worker    WorkerConfig
	Auth      AuthConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	CollectionCacheTTL time.Duration
	SessionStateTTL    time.Duration
	VisitorSetTTL      time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	ConsumerName  string
	ClaimMinIdle  time.Duration
	MaxRetries    int
}

type AuthConfig struct {
	// TokenKeyHex - 32-байтный симметричный ключ PASETO v4.local в hex
	TokenKeyHex   string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminUsername string
	// AdminPasswordHash - PHC-строка argon2id
	AdminPasswordHash string
}

type SchedulerConfig struct {
	Enabled        bool
	CatalogRefresh string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Without .env the process runs on environment variables only
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	setDefaults()

	cfg := &Config{
		Server: ServerConfig{
			Host:        viper.GetString("API_HOST"),
			Port:        viper.GetInt("API_PORT"),
			Env:         viper.GetString("API_ENV"),
			CORSOrigins: viper.GetString("CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			CollectionCacheTTL: time.Duration(viper.GetInt("COLLECTION_CACHE_TTL")) * time.Second,
			SessionStateTTL:    time.Duration(viper.GetInt("SESSION_STATE_TTL")) * time.Second,
			VisitorSetTTL:      time.Duration(viper.GetInt("VISITOR_SET_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup: viper.GetString("WORKER_CONSUMER_GROUP"),
			ConsumerName:  viper.GetString("WORKER_CONSUMER_NAME"),
			ClaimMinIdle:  time.Duration(viper.GetInt("WORKER_CLAIM_MIN_IDLE")) * time.Second,
			MaxRetries:    viper.GetInt("WORKER_MAX_RETRIES"),
		},
		Auth: AuthConfig{
			TokenKeyHex:       viper.GetString("AUTH_TOKEN_KEY"),
			TokenTTL:          time.Duration(viper.GetInt("AUTH_TOKEN_TTL")) * time.Second,
			AdminEmail:        strings.ToLower(strings.TrimSpace(viper.GetString("ADMIN_EMAIL"))),
			AdminUsername:     viper.GetString("ADMIN_USERNAME"),
			AdminPasswordHash: viper.GetString("ADMIN_PASSWORD_HASH"),
		},
		Scheduler: SchedulerConfig{
			Enabled:        viper.GetBool("SCHEDULER_ENABLED"),
			CatalogRefresh: viper.GetString("SCHEDULER_CATALOG_REFRESH"),
		},
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("API_HOST", "0.0.0.0")
	viper.SetDefault("API_PORT", 8080)
	viper.SetDefault("API_ENV", "development")
	viper.SetDefault("CORS_ORIGINS", "*")

	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", 6379)

	viper.SetDefault("COLLECTION_CACHE_TTL", 3600)
	viper.SetDefault("SESSION_STATE_TTL", 30*24*3600)
	viper.SetDefault("VISITOR_SET_TTL", 48*3600)

	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("WORKER_ENABLED", true)
	viper.SetDefault("WORKER_CONSUMER_GROUP", "listing-click-workers")
	viper.SetDefault("WORKER_MAX_RETRIES", 3)
	viper.SetDefault("WORKER_CLAIM_MIN_IDLE", 60)

	viper.SetDefault("AUTH_TOKEN_TTL", 12*3600)
	viper.SetDefault("ADMIN_USERNAME", "admin")

	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("SCHEDULER_CATALOG_REFRESH", "@every 5m")
}

// GetCORSOrigins возвращает список разрешённых origin через запятую
func (c *Config) GetCORSOrigins() string {
	parts := strings.Split(c.Server.CORSOrigins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return strings.Join(result, ",")
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
