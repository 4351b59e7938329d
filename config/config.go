// Package config loads the service's environment-driven configuration
// (spec.md §6.3). The surface is small enough (bind address and port
// plus a log-level override) that a config-binding framework would add
// more machinery than it would save; see DESIGN.md.
package config

import (
	"os"
	"strconv"
)

// Config holds everything the Supervisor needs to bind and run.
type Config struct {
	BindAddr string
	Port     int
	LogLevel string
}

// Load reads ENGINE_BIND_ADDR, ENGINE_PORT, and ENGINE_LOG_LEVEL from the
// environment, falling back to spec.md's defaults.
func Load() Config {
	return Config{
		BindAddr: getEnv("ENGINE_BIND_ADDR", "0.0.0.0"),
		Port:     getEnvInt("ENGINE_PORT", 9000),
		LogLevel: getEnv("ENGINE_LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
