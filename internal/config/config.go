package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/skillarena/backend/pkg/tarantool"
)

type Config struct {
	RestPort  string           `yaml:"REST_PORT" env:"REST_PORT" env-default:"8080"`
	LogLevel  string           `yaml:"LOG_LEVEL" env:"LOG_LEVEL" env-default:"debug"`
	Tarantool tarantool.Config `yaml:"TARANTOOL" env:"TARANTOOL"`
}

func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		return nil, err
	}

	var config Config
	if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
