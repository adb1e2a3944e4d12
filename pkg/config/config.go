package config

import (
	"time"
)

// Config represents the complete configuration for the smoke test service.
// It provides type-safe access to all configuration values with validation.
type Config struct {
	Server  ServerConfig  `koanf:"server"  validate:"required"`
	Runtime RuntimeConfig `koanf:"runtime" validate:"required"`
	Auth    AuthConfig    `koanf:"auth"    validate:"required"`
	Clients ClientsConfig `koanf:"clients" validate:"required"`
	Queue   QueueConfig   `koanf:"queue"`
	Test    TestConfig    `koanf:"test"    validate:"required"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host    string        `koanf:"host"    validate:"required"        env:"SERVER_HOST"`
	Port    int           `koanf:"port"    validate:"min=1,max=65535" env:"SERVER_PORT"`
	Timeout time.Duration `koanf:"timeout"                            env:"SERVER_TIMEOUT"`
}

// RuntimeConfig contains runtime behavior configuration.
type RuntimeConfig struct {
	Environment string `koanf:"environment" validate:"oneof=development staging production" env:"RUNTIME_ENVIRONMENT"`
	LogLevel    string `koanf:"log_level"   validate:"oneof=debug info warn error"          env:"RUNTIME_LOG_LEVEL"`
	LogJSON     bool   `koanf:"log_json"                                                    env:"RUNTIME_LOG_JSON"`
}

// AuthConfig contains inbound bearer token verification configuration.
type AuthConfig struct {
	JWTSecret    string `koanf:"jwt_secret"    validate:"required" env:"AUTH_JWT_SECRET"`
	RequiredRole string `koanf:"required_role" validate:"required" env:"AUTH_REQUIRED_ROLE"`
}

// ClientsConfig contains the collaborator service endpoints and the outbound
// client-credentials token source used to call them.
type ClientsConfig struct {
	PrisonAPIURL       string        `koanf:"prison_api_url"       validate:"required,url" env:"CLIENTS_PRISON_API_URL"`
	CommunityAPIURL    string        `koanf:"community_api_url"    validate:"required,url" env:"CLIENTS_COMMUNITY_API_URL"`
	PrisonerSearchURL  string        `koanf:"prisoner_search_url"  validate:"required,url" env:"CLIENTS_PRISONER_SEARCH_URL"`
	ProbationSearchURL string        `koanf:"probation_search_url" validate:"required,url" env:"CLIENTS_PROBATION_SEARCH_URL"`
	Timeout            time.Duration `koanf:"timeout"                                      env:"CLIENTS_TIMEOUT"`
	OAuth              OAuthConfig   `koanf:"oauth"`
}

// OAuthConfig contains the client-credentials grant used for outbound calls.
type OAuthConfig struct {
	TokenURL     string `koanf:"token_url"     validate:"omitempty,url" env:"CLIENTS_OAUTH_TOKEN_URL"`
	ClientID     string `koanf:"client_id"                              env:"CLIENTS_OAUTH_CLIENT_ID"`
	ClientSecret string `koanf:"client_secret"                          env:"CLIENTS_OAUTH_CLIENT_SECRET"`
	Username     string `koanf:"username"                               env:"CLIENTS_OAUTH_USERNAME"`
}

// QueueConfig contains the domain-event queue configuration.
type QueueConfig struct {
	QueueURL string `koanf:"queue_url" env:"QUEUE_URL"`
	Region   string `koanf:"region"    env:"QUEUE_REGION"`
	// Endpoint overrides the SQS endpoint, e.g. for localstack.
	Endpoint string `koanf:"endpoint" env:"QUEUE_ENDPOINT"`
}

// TestConfig contains the polling budget shared by all smoke test stages.
type TestConfig struct {
	MaxDuration  time.Duration `koanf:"max_duration"  validate:"required" env:"TEST_MAX_DURATION"`
	PollInterval time.Duration `koanf:"poll_interval" validate:"required" env:"TEST_POLL_INTERVAL"`
}

// Default returns the configuration defaults applied before any environment
// overrides.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 30 * time.Second,
		},
		Runtime: RuntimeConfig{
			Environment: "development",
			LogLevel:    "info",
		},
		Auth: AuthConfig{
			RequiredRole: "ROLE_SMOKE_TEST",
		},
		Clients: ClientsConfig{
			PrisonAPIURL:       "http://localhost:8081",
			CommunityAPIURL:    "http://localhost:8082",
			PrisonerSearchURL:  "http://localhost:8083",
			ProbationSearchURL: "http://localhost:8084",
			Timeout:            10 * time.Second,
			OAuth: OAuthConfig{
				Username: "SMOKE_TEST_USER",
			},
		},
		Queue: QueueConfig{
			Region: "eu-west-2",
		},
		Test: TestConfig{
			MaxDuration:  600 * time.Second,
			PollInterval: 10 * time.Second,
		},
	}
}
