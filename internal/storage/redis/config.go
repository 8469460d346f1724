package redis

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Config controls the connection pool and how long transient state lives.
// Profiles, credentials and leaderboard rows never expire.
type Config struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration

	GuestPlayerTTL time.Duration // guests vanish a day after their last save
	GameTTL        time.Duration // finished games linger for inspection
	HandTTL        time.Duration
	QueueTTL       time.Duration
}

func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379/0",
		PoolSize:       10,
		MinIdleConns:   2,
		DialTimeout:    5 * time.Second,
		GuestPlayerTTL: 24 * time.Hour,
		GameTTL:        24 * time.Hour,
		HandTTL:        24 * time.Hour,
		QueueTTL:       24 * time.Hour,
	}
}

// Options parses URL and applies the pool settings on top. Zero pool
// settings keep the go-redis defaults.
func (c Config) Options() (*redis.Options, error) {
	opts, err := redis.ParseURL(c.URL)
	if err != nil {
		return nil, err
	}
	if c.PoolSize > 0 {
		opts.PoolSize = c.PoolSize
	}
	if c.MinIdleConns > 0 {
		opts.MinIdleConns = c.MinIdleConns
	}
	if c.DialTimeout > 0 {
		opts.DialTimeout = c.DialTimeout
	}
	return opts, nil
}
