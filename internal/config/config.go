package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/webhook"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

type Config struct {
	Port string `yaml:"port"`

	StoreBackend string `yaml:"storeBackend"`
	StorePath    string `yaml:"storePath"`
	StoreKey     string `yaml:"storeKey"`

	PostgresDSN   string `yaml:"postgresDsn"`
	MySQLDSN      string `yaml:"mysqlDsn"`
	RunMigrations bool   `yaml:"runMigrations"`

	WebhookEnabled bool          `yaml:"webhookEnabled"`
	WebhookURL     string        `yaml:"webhookUrl"`
	WebhookTimeout time.Duration `yaml:"webhookTimeout"`

	// Empty disables event publishing and the command consumers.
	RabbitMQURL string `yaml:"rabbitmqUrl"`

	CORSAllowOrigins []string `yaml:"corsAllowOrigins"`
}

func defaults() Config {
	return Config{
		Port:             "8082",
		StoreBackend:     BackendFile,
		StorePath:        "data",
		StoreKey:         "orders",
		RunMigrations:    true,
		WebhookEnabled:   true,
		WebhookURL:       webhook.DefaultURL,
		WebhookTimeout:   5 * time.Second,
		CORSAllowOrigins: []string{"*"},
	}
}

// Load starts from defaults, applies the YAML file named by
// ORDER_SERVICE_CONFIG if set, then lets environment variables win.
func Load() (Config, error) {
	cfg := defaults()

	if path := getenv("ORDER_SERVICE_CONFIG", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Port = getenv("PORT", cfg.Port)
	cfg.StoreBackend = strings.ToLower(getenv("ORDER_STORE_BACKEND", cfg.StoreBackend))
	cfg.StorePath = getenv("ORDER_STORE_PATH", cfg.StorePath)
	cfg.StoreKey = getenv("ORDER_STORE_KEY", cfg.StoreKey)
	cfg.PostgresDSN = getenv("ORDER_DB_DSN", cfg.PostgresDSN)
	cfg.MySQLDSN = getenv("ORDER_MYSQL_DSN", cfg.MySQLDSN)
	cfg.RunMigrations = envBool("RUN_MIGRATIONS", cfg.RunMigrations)
	cfg.WebhookEnabled = envBool("WEBHOOK_ENABLED", cfg.WebhookEnabled)
	cfg.WebhookURL = getenv("WEBHOOK_URL", cfg.WebhookURL)
	cfg.WebhookTimeout = parseDuration(getenv("WEBHOOK_TIMEOUT", ""), cfg.WebhookTimeout)
	cfg.RabbitMQURL = getenv("RABBITMQ_URL", cfg.RabbitMQURL)
	if v := getenv("CORS_ALLOW_ORIGINS", ""); v != "" {
		cfg.CORSAllowOrigins = splitCSV(v)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendFile:
		if c.StorePath == "" {
			return fmt.Errorf("ORDER_STORE_PATH is required for the file backend")
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("ORDER_DB_DSN is required for the postgres backend")
		}
	case BackendMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("ORDER_MYSQL_DSN is required for the mysql backend")
		}
	default:
		return fmt.Errorf("unknown ORDER_STORE_BACKEND %q", c.StoreBackend)
	}
	if c.StoreKey == "" {
		return fmt.Errorf("ORDER_STORE_KEY must not be empty")
	}
	if c.WebhookTimeout <= 0 {
		return fmt.Errorf("WEBHOOK_TIMEOUT must be positive")
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v := getenv(k, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
