package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Load builds the configuration from defaults overlaid with environment
// variables, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			if path, ok := envToPath[key]; ok {
				return path, value
			}
			return "", nil
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// envToPath maps environment variable names to koanf config paths. Generated
// by hand from the `env` struct tags in config.go; keep the two in sync.
var envToPath = map[string]string{
	"SERVER_HOST":                  "server.host",
	"SERVER_PORT":                  "server.port",
	"SERVER_TIMEOUT":               "server.timeout",
	"RUNTIME_ENVIRONMENT":          "runtime.environment",
	"RUNTIME_LOG_LEVEL":            "runtime.log_level",
	"RUNTIME_LOG_JSON":             "runtime.log_json",
	"AUTH_JWT_SECRET":              "auth.jwt_secret",
	"AUTH_REQUIRED_ROLE":           "auth.required_role",
	"CLIENTS_PRISON_API_URL":       "clients.prison_api_url",
	"CLIENTS_COMMUNITY_API_URL":    "clients.community_api_url",
	"CLIENTS_PRISONER_SEARCH_URL":  "clients.prisoner_search_url",
	"CLIENTS_PROBATION_SEARCH_URL": "clients.probation_search_url",
	"CLIENTS_TIMEOUT":              "clients.timeout",
	"CLIENTS_OAUTH_TOKEN_URL":      "clients.oauth.token_url",
	"CLIENTS_OAUTH_CLIENT_ID":      "clients.oauth.client_id",
	"CLIENTS_OAUTH_CLIENT_SECRET":  "clients.oauth.client_secret",
	"CLIENTS_OAUTH_USERNAME":       "clients.oauth.username",
	"QUEUE_URL":                    "queue.queue_url",
	"QUEUE_REGION":                 "queue.region",
	"QUEUE_ENDPOINT":               "queue.endpoint",
	"TEST_MAX_DURATION":            "test.max_duration",
	"TEST_POLL_INTERVAL":           "test.poll_interval",
}
