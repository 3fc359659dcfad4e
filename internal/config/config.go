package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type MobizonConfig struct {
	APIKey   string `yaml:"api_key"`
	SenderID string `yaml:"sender_id"`
	DryRun   bool   `yaml:"dry_run"`
}

type WhatsAppConfig struct {
	AccessToken   string `yaml:"access_token"`
	PhoneNumberID string `yaml:"phone_number_id"`
	DryRun        bool   `yaml:"dry_run"`
}

type SchedulerConfig struct {
	ExplicitIntervalSeconds int `yaml:"explicit_interval_seconds"`
	SweepIntervalMinutes    int `yaml:"sweep_interval_minutes"`
}

func (s SchedulerConfig) ExplicitInterval() time.Duration {
	return time.Duration(s.ExplicitIntervalSeconds) * time.Second
}

func (s SchedulerConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepIntervalMinutes) * time.Minute
}

type ReportsConfig struct {
	RootDir string `yaml:"root_dir"`
}

type Config struct {
	Server struct {
		Port    int    `yaml:"port"`
		BaseURL string `yaml:"base_url"` // used in accept/reject links
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Mobizon   MobizonConfig   `yaml:"mobizon"`
	WhatsApp  WhatsAppConfig  `yaml:"whatsapp"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Reports   ReportsConfig   `yaml:"reports"`
}

func LoadConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open " + path + ": " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse " + path + ": " + err.Error())
	}

	if cfg.Scheduler.ExplicitIntervalSeconds <= 0 {
		cfg.Scheduler.ExplicitIntervalSeconds = 60
	}
	if cfg.Scheduler.SweepIntervalMinutes <= 0 {
		cfg.Scheduler.SweepIntervalMinutes = 12 * 60
	}
	if cfg.Reports.RootDir == "" {
		cfg.Reports.RootDir = "./reports"
	}
	return &cfg
}
