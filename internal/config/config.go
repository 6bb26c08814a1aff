package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	JWT      JWT
	Chat     Chat
}

type Server struct {
	Addr string
}

type Database struct {
	Driver string // "postgres" or "sqlite"
	DSN    string
}

type JWT struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Chat struct {
	// HideTombstonesInListing controls whether chat listings drop messages
	// deleted for everyone. Group listings always keep the (redacted) row.
	HideTombstonesInListing bool
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("jwt.accessttl", 24*time.Hour)
	v.SetDefault("jwt.refreshttl", 7*24*time.Hour)
	v.SetDefault("chat.hidetombstonesinlisting", true)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		slog.Warn("config file not found, using defaults and environment", "path", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = v.GetString("JWT_SECRET")
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = v.GetString("DATABASE_DSN")
	}
	return &cfg, nil
}
