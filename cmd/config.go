package cmd

import (
	"fmt"
	"time"

	"orderwizard/internal/core/application/refcache"
	"orderwizard/internal/jobs"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	BackendURL     string
	BackendTimeout time.Duration

	SessionIdleTTL time.Duration
	CacheTTLs      refcache.TTLs
	Schedules      jobs.Schedules
}

// DSN is the libpq connection string of the session store.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
