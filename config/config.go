package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"derby/protocol"
)

// Config is everything main needs to wire the engine and the server.
type Config struct {
	Addr       string
	PoolSize   int
	PerRound   int
	BaseSpeed  float64
	Distances  []int
	Seed       int64 // 0 means seed from the clock
	TickMillis int
}

// InitConfig loads a .env file into the environment when one is present.
func InitConfig() {
	if err := godotenv.Load(); err != nil {
		return // no .env is fine; plain environment variables still apply
	}
}

// Load reads the DERBY_* environment, applying defaults for anything unset.
func Load() (Config, error) {
	cfg := Config{
		Addr:       envString("DERBY_ADDR", ":8080"),
		Distances:  []int{1200, 1400, 1600, 1800, 2000, 2200},
		TickMillis: protocol.DefaultTickMillis,
	}

	var err error
	if cfg.PoolSize, err = envInt("DERBY_POOL_SIZE", 20); err != nil {
		return cfg, err
	}
	if cfg.PerRound, err = envInt("DERBY_PER_ROUND", 10); err != nil {
		return cfg, err
	}
	if cfg.BaseSpeed, err = envFloat("DERBY_BASE_SPEED", 10); err != nil {
		return cfg, err
	}
	if cfg.Seed, err = envInt64("DERBY_SEED", 0); err != nil {
		return cfg, err
	}
	if cfg.TickMillis, err = envInt("DERBY_TICK_MS", cfg.TickMillis); err != nil {
		return cfg, err
	}
	if cfg.TickMillis <= 0 {
		return cfg, fmt.Errorf("config: DERBY_TICK_MS must be positive, got %d", cfg.TickMillis)
	}
	if raw := os.Getenv("DERBY_DISTANCES"); raw != "" {
		distances, err := parseDistances(raw)
		if err != nil {
			return cfg, err
		}
		cfg.Distances = distances
	}
	return cfg, nil
}

func parseDistances(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("config: DERBY_DISTANCES entry %q: %w", p, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return n, nil
}

func envInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return f, nil
}
