package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database Postgres `yaml:"database"`
	RabbitMQ RabbitMQ `yaml:"rabbitmq"`
	App      App      `yaml:"app"`
}

type Postgres struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQ struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// App carries the operational knobs shared by the menu, cashier and admin
// services. Rates are fractions, not percentages.
type App struct {
	TaxRate           float64  `yaml:"tax_rate"`
	ServiceChargeRate float64  `yaml:"service_charge_rate"`
	OrderWindowHours  int      `yaml:"order_window_hours"`
	ReloadIntervalSec int      `yaml:"reload_interval_sec"`
	AlertIntervalSec  int      `yaml:"alert_interval_sec"`
	AlertInitialMs    int      `yaml:"alert_initial_ms"`
	CueOffsetMs       int      `yaml:"cue_offset_ms"`
	RetryAttempts     int      `yaml:"retry_attempts"`
	RetryBaseDelayMs  int      `yaml:"retry_base_delay_ms"`
	Currency          Currency `yaml:"currency"`
}

type Currency struct {
	Symbol   string `yaml:"symbol"`
	Position string `yaml:"position"` // "before" or "after"
	Decimals int    `yaml:"decimals"`
}

// Format renders a money value with the configured symbol and decimal
// places, e.g. "3.50 JOD" or "$3.50".
func (c Currency) Format(v float64) string {
	amount := strconv.FormatFloat(v, 'f', c.Decimals, 64)
	if c.Symbol == "" {
		return amount
	}
	if c.Position == "before" {
		return c.Symbol + amount
	}
	return amount + " " + c.Symbol
}

// Default returns the configuration the services assume when a key is
// absent from the YAML file.
func Default() *Config {
	return &Config{
		Database: Postgres{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "qrmenu",
		},
		RabbitMQ: RabbitMQ{
			Host:     "localhost",
			Port:     5672,
			User:     "guest",
			Password: "guest",
		},
		App: App{
			TaxRate:           0.00,
			ServiceChargeRate: 0.10,
			OrderWindowHours:  8,
			ReloadIntervalSec: 30,
			AlertIntervalSec:  10,
			AlertInitialMs:    500,
			CueOffsetMs:       1000,
			RetryAttempts:     3,
			RetryBaseDelayMs:  1000,
			Currency: Currency{
				Symbol:   "JOD",
				Position: "after",
				Decimals: 2,
			},
		},
	}
}

func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", configPath, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.Database.Host = getEnv("POSTGRES_HOST", cfg.Database.Host)
	cfg.Database.User = getEnv("POSTGRES_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("POSTGRES_PASSWORD", cfg.Database.Password)
	cfg.Database.Database = getEnv("POSTGRES_DB", cfg.Database.Database)
	cfg.RabbitMQ.Host = getEnv("RABBITMQ_HOST", cfg.RabbitMQ.Host)
	cfg.RabbitMQ.User = getEnv("RABBITMQ_USER", cfg.RabbitMQ.User)
	cfg.RabbitMQ.Password = getEnv("RABBITMQ_PASSWORD", cfg.RabbitMQ.Password)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// CombinedRate is the single configured percentage applied to an order
// subtotal to derive the displayed total.
func (a App) CombinedRate() float64 {
	return a.TaxRate + a.ServiceChargeRate
}

func (a App) ReloadInterval() time.Duration {
	return time.Duration(a.ReloadIntervalSec) * time.Second
}

func (a App) AlertInterval() time.Duration {
	return time.Duration(a.AlertIntervalSec) * time.Second
}

func (a App) AlertInitialDelay() time.Duration {
	return time.Duration(a.AlertInitialMs) * time.Millisecond
}

func (a App) CueOffset() time.Duration {
	return time.Duration(a.CueOffsetMs) * time.Millisecond
}

func (a App) RetryBaseDelay() time.Duration {
	return time.Duration(a.RetryBaseDelayMs) * time.Millisecond
}
