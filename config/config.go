package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server            ServerConfig      `mapstructure:"server"`
	ConnectionStrings ConnectionStrings `mapstructure:"connection_strings"`
	Log               LogConfig         `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string `mapstructure:"port" validate:"required,numeric"`
}

// ConnectionStrings holds the store locations. The table store values have no
// defaults: the service refuses to start without them.
type ConnectionStrings struct {
	Default    string `mapstructure:"default"     validate:"required"`
	TableStore string `mapstructure:"table_store" validate:"required"`
	TableName  string `mapstructure:"table_name"  validate:"required"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

var envBindings = map[string]string{
	"server.port":                    "PORT",
	"connection_strings.default":     "DATABASE_URL",
	"connection_strings.table_store": "TABLE_STORE_URL",
	"connection_strings.table_name":  "TABLE_STORE_NAME",
	"log.level":                      "LOG_LEVEL",
}

// Load reads configuration from an optional .env file, an optional config file
// and the environment, in increasing order of precedence. An empty path looks
// for appsettings.yaml in the working directory and ./config.
func Load(path string) (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	vip := viper.New()
	if path != "" {
		vip.SetConfigFile(path)
	} else {
		vip.SetConfigName("appsettings")
		vip.SetConfigType("yaml")
		vip.AddConfigPath(".")
		vip.AddConfigPath("./config")
	}

	vip.SetDefault("server.port", "8080")
	vip.SetDefault("connection_strings.default", "sqlite://funcionarios.db")
	vip.SetDefault("log.level", "info")

	for key, env := range envBindings {
		if err := vip.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if err := vip.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ConnectionStrings.TableStore = strings.TrimSpace(cfg.ConnectionStrings.TableStore)
	cfg.ConnectionStrings.TableName = strings.TrimSpace(cfg.ConnectionStrings.TableName)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
