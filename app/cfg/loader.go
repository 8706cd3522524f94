package cfg

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	if Version == "" {
		return "unknown"
	}
	return Version
}

type rawCfg struct {
	// Database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"news_user" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"news_password" description:"Database password (required)" required:"true"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"news_digest" description:"Database name"`

	// External providers
	NewsAPIKey     string `long:"news-api-key" env:"NEWS_API_KEY" description:"NewsAPI access key"`
	NewsAPIBaseURL string `long:"news-api-base-url" env:"NEWS_API_BASE_URL" default:"https://newsapi.org/v2" description:"Headlines provider base URL"`
	CohereAPIKey   string `long:"cohere-api-key" env:"COHERE_API_KEY" description:"Cohere API key (summaries disabled when empty)"`
	CohereModel    string `long:"cohere-model" env:"COHERE_MODEL" default:"command-r-08-2024" description:"Cohere model used for summarization"`

	// Application configuration
	Port            string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	AdminSecret     string `long:"admin-secret" env:"ADMIN_SECRET_TOKEN" description:"Shared secret for the admin trigger endpoint"`
	SourcesFile     string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yaml" description:"YAML file describing categories to ingest"`
	SummaryWorkers  int    `long:"summary-workers" env:"SUMMARY_WORKERS" default:"5" description:"Concurrent summarization workers per category"`
	RefreshInterval int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"0" description:"Background ingestion interval in minutes (0 disables)"`
	RedisAddr       string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for response caching (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"News Digest/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBHost:          raw.DBHost,
		DBPort:          raw.DBPort,
		DBUser:          raw.DBUser,
		DBPassword:      raw.DBPassword,
		DBName:          raw.DBName,
		NewsAPIKey:      raw.NewsAPIKey,
		NewsAPIBaseURL:  raw.NewsAPIBaseURL,
		CohereAPIKey:    raw.CohereAPIKey,
		CohereModel:     raw.CohereModel,
		Port:            raw.Port,
		AdminSecret:     raw.AdminSecret,
		SourcesFile:     raw.SourcesFile,
		SummaryWorkers:  raw.SummaryWorkers,
		RefreshInterval: raw.RefreshInterval,
		RedisAddr:       raw.RedisAddr,
		UserAgent:       raw.UserAgent,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if cfg.SummaryWorkers <= 0 {
		cfg.SummaryWorkers = 1
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
