package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"servicedesk-backend/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
		UploadMaxBytes     int64    `mapstructure:"upload_max_bytes"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Storage StorageConfig `mapstructure:"storage"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	BootstrapAdmins []BootstrapAdmin `mapstructure:"bootstrap_admins"`
}

// BootstrapAdmin is an admin login seeded at startup.
type BootstrapAdmin struct {
	MobileNo string `mapstructure:"mobile_no"`
	Password string `mapstructure:"password"`
}

// Load reads configs/config.yaml (optional), the environment and .env.
func Load() (*Config, error) {
	log := logger.WithComponent("config")

	// .env is optional in production
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(configPath())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("server.upload_max_bytes", 5*1024*1024)
	v.SetDefault("jwt.expiration_hours", 24*7)
	v.SetDefault("jwt.issuer", "servicedesk-backend")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "servicedesk")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("storage.driver", StorageLocal)
	v.SetDefault("storage.local_dir", "uploads")
	v.SetDefault("storage.public_base_url", "/uploads")
	v.SetDefault("storage.s3.region", "auto")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	if err := v.ReadInConfig(); err != nil {
		log.Info().Msg("No config file found, using defaults")
	}

	// AutomaticEnv would hand BOOTSTRAP_ADMINS to the bootstrap_admins key
	// as a raw string. The file list is read on its own and the env pairs
	// are merged by applyEnvOverrides.
	admins, err := fileBootstrapAdmins(configPath())
	if err != nil {
		return nil, err
	}
	v.Set("bootstrap_admins", []any{})

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}
	cfg.BootstrapAdmins = admins

	applyEnvOverrides(&cfg)

	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &cfg, nil
}

func configPath() string {
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		return p
	}
	return "configs/config.yaml"
}

// fileBootstrapAdmins reads bootstrap_admins from the config file only.
func fileBootstrapAdmins(path string) ([]BootstrapAdmin, error) {
	fv := viper.New()
	fv.SetConfigType("yaml")
	fv.SetConfigFile(path)
	if err := fv.ReadInConfig(); err != nil {
		return nil, nil
	}
	var admins []BootstrapAdmin
	if err := fv.UnmarshalKey("bootstrap_admins", &admins); err != nil {
		return nil, fmt.Errorf("config bootstrap_admins: %w", err)
	}
	return admins, nil
}

func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}
	if key := os.Getenv("S3_ACCESS_KEY"); key != "" {
		cfg.Storage.S3.AccessKey = key
	}
	if secret := os.Getenv("S3_SECRET_KEY"); secret != "" {
		cfg.Storage.S3.SecretKey = secret
	}
	if admins := os.Getenv("BOOTSTRAP_ADMINS"); admins != "" {
		cfg.BootstrapAdmins = append(cfg.BootstrapAdmins, ParseBootstrapAdmins(admins)...)
	}
}

// ParseBootstrapAdmins parses "mobile:password,mobile:password".
// Malformed pairs are skipped.
func ParseBootstrapAdmins(raw string) []BootstrapAdmin {
	var admins []BootstrapAdmin
	for _, pair := range strings.Split(raw, ",") {
		mobile, password, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || mobile == "" || password == "" {
			continue
		}
		admins = append(admins, BootstrapAdmin{MobileNo: mobile, Password: password})
	}
	return admins
}

// DSN returns the pgx connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
