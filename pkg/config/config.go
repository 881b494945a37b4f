// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envAPIKey             = "OPENROUTER_API_KEY"
	envListenAddr         = "RELAY_LISTEN_ADDR"
	envUpstreamURL        = "RELAY_UPSTREAM_URL"
	envDefaultModel       = "RELAY_DEFAULT_MODEL"
	envUpstreamInsecure   = "RELAY_UPSTREAM_INSECURE"
	envLogLevel           = "RELAY_LOG_LEVEL"
	envHeaderTimeout      = "RELAY_HEADER_TIMEOUT"
	envServerReadTimeout  = "RELAY_SERVER_READ_TIMEOUT"
	envServerWriteTimeout = "RELAY_SERVER_WRITE_TIMEOUT"
	envServerIdleTimeout  = "RELAY_SERVER_IDLE_TIMEOUT"
	envGracefulShutdown   = "RELAY_GRACEFUL_SHUTDOWN"

	defaultListenAddr        = "127.0.0.1:5001"
	defaultUpstreamURL       = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel             = "openai/gpt-5.1"
	defaultLogLevel          = "info"
	defaultHeaderTimeout     = 30 * time.Second
	defaultServerReadTimeout = 30 * time.Second
	// No write timeout by default: streamed completions stay open for as long
	// as the model keeps producing tokens.
	defaultServerWriteTimeout = 0
	defaultServerIdleTimeout  = 120 * time.Second
	defaultGracefulShutdown   = 10 * time.Second
)

// Config captures runtime settings for the relay.
type Config struct {
	ListenAddr              string
	Upstream                *url.URL
	APIKey                  string
	DefaultModel            string
	InsecureSkipVerify      bool
	LogLevel                string
	HeaderTimeout           time.Duration
	ServerReadTimeout       time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	GracefulShutdownTimeout time.Duration
}

// KeyConfigured reports whether an upstream API key is present. A missing key
// is not a load failure; chat requests fail individually until one is provided.
func (c Config) KeyConfigured() bool {
	return c.APIKey != ""
}

// Load reads configuration from environment variables and validates required values.
func Load() (Config, error) {
	upstreamRaw := getString(envUpstreamURL, defaultUpstreamURL)

	upstream, err := url.Parse(upstreamRaw)
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", envUpstreamURL, err)
	}
	if !upstream.IsAbs() {
		return Config{}, errors.New(envUpstreamURL + " must be absolute (scheme://host)")
	}

	cfg := Config{
		ListenAddr:              getString(envListenAddr, defaultListenAddr),
		Upstream:                upstream,
		APIKey:                  strings.TrimSpace(os.Getenv(envAPIKey)),
		DefaultModel:            getString(envDefaultModel, defaultModel),
		InsecureSkipVerify:      getBool(envUpstreamInsecure, false),
		LogLevel:                strings.ToLower(getString(envLogLevel, defaultLogLevel)),
		HeaderTimeout:           getDuration(envHeaderTimeout, defaultHeaderTimeout),
		ServerReadTimeout:       getDuration(envServerReadTimeout, defaultServerReadTimeout),
		ServerWriteTimeout:      getDuration(envServerWriteTimeout, defaultServerWriteTimeout),
		ServerIdleTimeout:       getDuration(envServerIdleTimeout, defaultServerIdleTimeout),
		GracefulShutdownTimeout: getDuration(envGracefulShutdown, defaultGracefulShutdown),
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
