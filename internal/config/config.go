package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	MoveTableMemory = "memory"
	MoveTableRedis  = "redis"
)

var ErrInvalidMoveTable = errors.New("unknown move table backend")

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis    Redis  `yaml:"redis"`
	Engine   Engine `yaml:"engine"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Engine struct {
	// AIDelay is the pause before the computer's move is applied.
	AIDelay         time.Duration `yaml:"ai-delay" env:"ENGINE_AI_DELAY" env-default:"300ms"`
	MoveTable       string        `yaml:"move-table" env:"ENGINE_MOVE_TABLE" env-default:"memory"`
	DefaultStrategy string        `yaml:"default-strategy" env:"ENGINE_DEFAULT_STRATEGY" env-default:"optimal"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Engine.validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" || that.Port == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Engine) Strategy() (entity.Strategy, error) {
	return entity.ParseStrategy(that.DefaultStrategy)
}

func (that *Engine) validate() error {
	if that.MoveTable != MoveTableMemory && that.MoveTable != MoveTableRedis {
		return fmt.Errorf("%w: %q", ErrInvalidMoveTable, that.MoveTable)
	}

	if that.AIDelay < 0 {
		return fmt.Errorf("ai-delay must not be negative, got %s", that.AIDelay)
	}

	if _, err := that.Strategy(); err != nil {
		return err
	}

	return nil
}
