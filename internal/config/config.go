package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. PCESP_DATABASE_PATH.
const EnvPrefix = "PCESP"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr"              split_words:"true"`
	RPCSocket         string        `yaml:"rpcSocket"         envconfig:"RPC_SOCKET"`
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout" split_words:"true"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"   split_words:"true"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type StorageConfig struct {
	UploadDir string `yaml:"uploadDir" split_words:"true"`
}

type AuthConfig struct {
	SessionTTL time.Duration `yaml:"sessionTTL" envconfig:"SESSION_TTL"`
}

type LoggingConfig struct {
	Environment string `yaml:"environment"`
	Level       string `yaml:"level"`
}

// BootstrapConfig seeds the first chief officer when the personnel table is empty.
type BootstrapConfig struct {
	Badge     string `yaml:"badge"`
	Name      string `yaml:"name"`
	Password  string `yaml:"password"`
	RankName  string `yaml:"rankName"  split_words:"true"`
	RankLevel int    `yaml:"rankLevel" split_words:"true"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			RPCSocket:         "./pcesp.sock",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Database: DatabaseConfig{Path: "./pcesp.db"},
		Storage:  StorageConfig{UploadDir: "./uploads"},
		Auth:     AuthConfig{SessionTTL: 24 * time.Hour},
		Logging:  LoggingConfig{Environment: "development", Level: "info"},
		Bootstrap: BootstrapConfig{
			Badge:     "0001",
			Name:      "Chief of Police",
			Password:  "admin123",
			RankName:  "Chief",
			RankLevel: 100,
		},
	}
}

// Load returns the defaults, overlaid by the YAML file at path (when
// non-empty) and then by PCESP_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		buf, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.New("server addr is required")
	case c.Database.Path == "":
		return errors.New("database path is required")
	case c.Storage.UploadDir == "":
		return errors.New("upload dir is required")
	case c.Auth.SessionTTL <= 0:
		return errors.New("session ttl must be positive")
	}
	return nil
}
