package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type SMSRuConfig struct {
	APIID  string `yaml:"api_id"`
	From   string `yaml:"from"`
	DryRun bool   `yaml:"dry_run"`
}

type VerificationConfig struct {
	CodeTTL string `yaml:"code_ttl"` // строка вида "5m", см. time.ParseDuration
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	SMSRu        SMSRuConfig        `yaml:"smsru"`
	Verification VerificationConfig `yaml:"verification"`
}

const defaultCodeTTL = 5 * time.Minute

func (c *Config) CodeTTL() time.Duration {
	d, err := time.ParseDuration(c.Verification.CodeTTL)
	if err != nil || d <= 0 {
		return defaultCodeTTL
	}
	return d
}

func LoadConfig() *Config {
	return LoadConfigFrom("config/config.yaml")
}

func LoadConfigFrom(path string) *Config {
	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	return &cfg
}
