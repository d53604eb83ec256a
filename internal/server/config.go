package server

import "time"

// Config holds server configuration.
type Config struct {
	Host string
	// Port is the first port tried; the next PortAttempts-1 ports are tried
	// when it is taken. Zero picks an ephemeral port.
	Port         int
	PortAttempts int

	// RepoPath is the repository /git/show reads from.
	RepoPath string

	DiffCacheTTL    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            3001,
		PortAttempts:    20,
		RepoPath:        ".",
		DiffCacheTTL:    10 * time.Minute,
		ShutdownTimeout: 5 * time.Second,
		MaxBodyBytes:    4 << 20,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Host == "" {
		c.Host = d.Host
	}
	if c.PortAttempts <= 0 {
		c.PortAttempts = d.PortAttempts
	}
	if c.RepoPath == "" {
		c.RepoPath = d.RepoPath
	}
	if c.DiffCacheTTL <= 0 {
		c.DiffCacheTTL = d.DiffCacheTTL
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = d.MaxBodyBytes
	}
	return c
}
