package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env           string              `yaml:"env" env:"ENV" env-default:"local"`
	DSN           string              `yaml:"dsn" env:"DSN" env-required:"true"`
	HTTP          HTTPConfig          `yaml:"http"`
	Session       SessionConfig       `yaml:"session"`
	Token         TokenConfig         `yaml:"token"`
	Admin         AdminConfig         `yaml:"admin"`
	ObjectStorage ObjectStorageConfig `yaml:"object_storage"`
	Redis         RedisConf           `yaml:"redis"`
	Cache         CacheConfig         `yaml:"cache"`
	Janitor       JanitorConfig       `yaml:"janitor"`
	Log           LogConfig           `yaml:"log"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
	AllowOrigins    []string      `yaml:"allow_origins" env:"HTTP_ALLOW_ORIGINS" env-default:"*"`
}

type SessionConfig struct {
	Secret string `yaml:"secret" env:"SESSION_SECRET" env-required:"true"`
	MaxAge int    `yaml:"max_age" env-default:"604800"`
	Secure bool   `yaml:"secure" env:"SESSION_SECURE"`
}

type TokenConfig struct {
	Secret     string        `yaml:"secret" env:"TOKEN_SECRET" env-required:"true"`
	AccessTTL  time.Duration `yaml:"access_ttl" env-default:"15m"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env-default:"168h"`
}

// AdminConfig - учётная запись владельца, создаётся при старте если её нет
type AdminConfig struct {
	Name     string `yaml:"name" env:"ADMIN_NAME" env-default:"Owner"`
	Email    string `yaml:"email" env:"ADMIN_EMAIL"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

type ObjectStorageConfig struct {
	BaseDir   string        `yaml:"base_dir" env:"OBJECT_STORAGE_DIR" env-default:"./objects"`
	BaseURL   string        `yaml:"base_url" env:"OBJECT_STORAGE_URL" env-default:"http://localhost:8080"`
	Secret    string        `yaml:"secret" env:"OBJECT_STORAGE_SECRET" env-required:"true"`
	MaxSize   int64         `yaml:"max_size" env-default:"10485760"`
	UploadTTL time.Duration `yaml:"upload_ttl" env-default:"15m"`
}

type RedisConf struct {
	RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env-default:"0"`
	DialTimeout   time.Duration `yaml:"dial_timeout" env-default:"5s"`
}

type CacheConfig struct {
	TTL             time.Duration `yaml:"ttl" env-default:"5m"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env-default:"10m"`
}

type JanitorConfig struct {
	Enabled     bool          `yaml:"enabled" env:"JANITOR_ENABLED" env-default:"true"`
	Schedule    string        `yaml:"schedule" env-default:"0 3 * * *"`
	GracePeriod time.Duration `yaml:"grace_period" env-default:"24h"`
}

type LogConfig struct {
	File     string         `yaml:"file" env:"LOG_FILE"`
	Rotation RotationConfig `yaml:"rotation"`
}

type RotationConfig struct {
	MaxSize    int  `yaml:"max_size" env-default:"100"`
	MaxBackups int  `yaml:"max_backups" env-default:"5"`
	MaxAge     int  `yaml:"max_age" env-default:"30"`
	Compress   bool `yaml:"compress" env-default:"true"`
}

// MustLoad читает конфиг по пути из флага --config или CONFIG_PATH
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	// .env необязателен: переменные окружения могут прийти из оркестратора
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot read .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from env: %w", err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	return &cfg, nil
}

func (c HTTPConfig) Address() string {
	return c.Host + ":" + c.Port
}
