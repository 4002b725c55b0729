package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/customeros/mailbridge/internal/logger"
	"github.com/customeros/mailbridge/internal/tracing"
)

type Config struct {
	AppConfig      *AppConfig
	Logger         *logger.Config
	Tracing        *tracing.JaegerConfig
	GmailConfig    *GmailConfig
	GraphConfig    *GraphConfig
	PostmarkConfig *PostmarkConfig
}

func InitConfig() (*Config, error) {
	config := &Config{
		AppConfig:      &AppConfig{},
		Logger:         &logger.Config{},
		Tracing:        &tracing.JaegerConfig{},
		GmailConfig:    &GmailConfig{},
		GraphConfig:    &GraphConfig{},
		PostmarkConfig: &PostmarkConfig{},
	}

	err := godotenv.Load()
	if err != nil {
		log.Print("Unable to load .env file")
	}

	if err = env.Parse(config); err != nil {
		return nil, errors.Wrap(err, "error loading mailbridge config")
	}
	if config.AppConfig.FanOutConcurrency < 0 {
		return nil, errors.New("FANOUT_CONCURRENCY must not be negative")
	}

	return config, nil
}
