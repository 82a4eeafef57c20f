package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// devEncryptionKey is only ever acceptable outside production; Load rejects
// it when env is prod.
const devEncryptionKey = "dev-only-insecure-key-32-bytes!!"

type Config struct {
	Env      string         `mapstructure:"env"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Token    TokenConfig    `mapstructure:"token"`
	QR       QRConfig       `mapstructure:"qr"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	AdminToken    string        `mapstructure:"admin_token"`
	TokenDuration time.Duration `mapstructure:"token_duration"`
	CacheDuration time.Duration `mapstructure:"cache_duration"`
}

// TokenConfig holds the symmetric key for the QR access-token codec.
type TokenConfig struct {
	EncryptionKey string `mapstructure:"encryption_key"`
}

// QRConfig controls QR image rendering and the public URL embedded in it.
type QRConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Size    int    `mapstructure:"size"`
}

func Load() (Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("submission")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("env", "dev")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("auth.admin_token", "admin_secret_token")
	viper.SetDefault("auth.token_duration", "24h")
	viper.SetDefault("auth.cache_duration", "1h")
	viper.SetDefault("token.encryption_key", devEncryptionKey)
	viper.SetDefault("qr.base_url", "http://localhost:8080")
	viper.SetDefault("qr.size", 256)

	if err := viper.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// validate fails fast on settings that must never fall back in production.
func (c Config) validate() error {
	if len(c.Token.EncryptionKey) != 32 {
		return fmt.Errorf("token.encryption_key must be exactly 32 bytes")
	}

	if c.Env == "prod" || c.Env == "production" {
		if c.Token.EncryptionKey == devEncryptionKey {
			return fmt.Errorf("token.encryption_key must be set explicitly in production")
		}
		if c.QR.BaseURL == "" || c.QR.BaseURL == "http://localhost:8080" {
			return fmt.Errorf("qr.base_url must be set explicitly in production")
		}
	}

	return nil
}
