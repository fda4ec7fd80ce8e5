package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment
	Task Task
}

// Environment собирается из переменных окружения.
type Environment struct {
	App      App
	Buff     Buff
	Steam    Steam
	Postgres Postgres
	Bot      Bot
	Servers  Servers
}

type App struct {
	Name       string `env:"APP_NAME" envDefault:"buff-autoaccept"`
	Version    string `env:"APP_VERSION" envDefault:"dev"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogHTTP    bool   `env:"LOG_HTTP" envDefault:"false"`
	ConfigPath string `env:"CONFIG_PATH" envDefault:"config/config.toml"`
}

type Servers struct {
	ProbeAddress    string        `env:"PROBE_ADDRESS" envDefault:":8081"`
	MetricsAddress  string        `env:"METRICS_ADDRESS" envDefault:":9090"`
	HTTPAddress     string        `env:"HTTP_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load читает окружение (.env подхватывается, если есть) и TOML-файл задачи.
func Load() (Config, error) {
	_ = godotenv.Load()

	var environment Environment

	if err := env.Parse(&environment); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	task, err := LoadTask(environment.App.ConfigPath)
	if err != nil {
		return Config{}, fmt.Errorf("LoadTask: %w", err)
	}

	return Config{
		Environment: environment,
		Task:        task,
	}, nil
}
