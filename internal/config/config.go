package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	MySQLDSN        string        `envconfig:"MYSQL_DSN" default:"root:root@tcp(localhost:3306)/scanbill?parseTime=true"`
	RedisAddr       string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	MigrationsPath  string        `envconfig:"MIGRATIONS_PATH" default:"migrations"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	return &c, nil
}
