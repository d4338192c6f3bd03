// Package config loads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvAddr          = "GRAPH_ROUTER_ADDR"
	EnvCORSOrigin    = "GRAPH_ROUTER_CORS_ORIGIN"
	EnvLogLevel      = "GRAPH_ROUTER_LOG_LEVEL"
	EnvGraphFile     = "GRAPH_ROUTER_GRAPH_FILE"
	EnvCanvasWidth   = "GRAPH_ROUTER_CANVAS_WIDTH"
	EnvCanvasHeight  = "GRAPH_ROUTER_CANVAS_HEIGHT"
	EnvMaxConcurrent = "GRAPH_ROUTER_MAX_CONCURRENT"
	EnvTimeout       = "GRAPH_ROUTER_REQUEST_TIMEOUT"
)

// Config holds process settings.
type Config struct {
	Addr           string
	CORSOrigin     string
	LogLevel       string
	GraphFile      string
	CanvasWidth    float64
	CanvasHeight   float64
	MaxConcurrent  int
	RequestTimeout time.Duration
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:           ":8080",
		LogLevel:       "info",
		CanvasWidth:    800,
		CanvasHeight:   600,
		MaxConcurrent:  runtime.NumCPU() * 2,
		RequestTimeout: 5 * time.Second,
	}
}

// Load reads files (".env" when none are given) into the environment,
// without overriding variables already set, then builds a Config from the
// environment. Missing files are skipped; malformed ones are an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the environment on top of Default.
// Unparseable numbers fall back to the default.
func FromEnv() Config {
	c := Default()
	c.Addr = getString(EnvAddr, c.Addr)
	c.CORSOrigin = getString(EnvCORSOrigin, c.CORSOrigin)
	c.LogLevel = getString(EnvLogLevel, c.LogLevel)
	c.GraphFile = getString(EnvGraphFile, c.GraphFile)
	c.CanvasWidth = getFloat(EnvCanvasWidth, c.CanvasWidth)
	c.CanvasHeight = getFloat(EnvCanvasHeight, c.CanvasHeight)
	c.MaxConcurrent = int(getFloat(EnvMaxConcurrent, float64(c.MaxConcurrent)))
	if v, ok := os.LookupEnv(EnvTimeout); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
	return c
}

func getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
