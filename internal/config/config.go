package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment after an
// optional .env file has been loaded.
type Config struct {
	Port   uint16 `env:"PORT" envDefault:"5000"`
	AppEnv string `env:"APP_ENV" envDefault:"production"`

	MongoURI      string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGODB_DATABASE,required"`

	// RedisAddr empty selects the in-process cache.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret string `env:"JWT_SECRET,required"`

	FrontendURI   string `env:"FRONTEND_URI" envDefault:"http://localhost:5173"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"chat.events"`

	ValidateGroupMembers bool          `env:"VALIDATE_GROUP_MEMBERS" envDefault:"false"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads envFile when it exists and parses the environment into Config.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + strconv.FormatUint(uint64(cfg.Port), 10)
	}

	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + strconv.FormatUint(uint64(c.Port), 10)
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
