package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server   ServerConfig
	Agent    AgentConfig
	Database DatabaseConfig
	CORS     CORSConfig
}

// Load builds the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	agent, err := loadAgentConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		Agent:    agent,
		Database: DatabaseConfig{URL: strings.TrimSpace(os.Getenv("DATABASE_URL"))},
		CORS:     CORSConfig{AllowedOrigin: getEnvOrDefault("ALLOWED_ORIGIN", "*")},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AgentConfig points at the external agent webhook that answers user
// messages.
type AgentConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// Enabled reports whether a webhook endpoint was configured.
func (c AgentConfig) Enabled() bool {
	return c.WebhookURL != ""
}

func loadAgentConfig() (AgentConfig, error) {
	timeoutSeconds, err := parseOptionalIntEnv("AGENT_TIMEOUT_SECONDS")
	if err != nil {
		return AgentConfig{}, err
	}

	timeout := 15 * time.Second
	if timeoutSeconds != nil {
		if *timeoutSeconds < 1 {
			return AgentConfig{}, fmt.Errorf("AGENT_TIMEOUT_SECONDS must be positive, got %d", *timeoutSeconds)
		}
		timeout = time.Duration(*timeoutSeconds) * time.Second
	}

	return AgentConfig{
		WebhookURL: strings.TrimSpace(os.Getenv("AGENT_WEBHOOK_URL")),
		Timeout:    timeout,
	}, nil
}

// DatabaseConfig holds the Postgres connection string. An empty URL means
// the in-memory catalog seed is used instead.
type DatabaseConfig struct {
	URL string
}

// CORSConfig holds the browser origin allowed to call the API.
type CORSConfig struct {
	AllowedOrigin string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
