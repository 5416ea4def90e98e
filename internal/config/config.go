// Package config loads process configuration from the environment into a single
// struct that is constructed once at cold start and passed into every client.
package config

import (
	"fmt"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds every setting the handlers can consume. Each binary validates
// only the sections it actually uses.
type Config struct {
	Region       string `koanf:"region"`
	Endpoint     string `koanf:"endpoint"`
	TableName    string `koanf:"table_name"`
	QueueName    string `koanf:"queue_name"`
	EventBusName string `koanf:"event_bus"`
	Stage        string `koanf:"stage"`

	Encompass  Encompass  `koanf:"encompass"`
	CreditPlus CreditPlus `koanf:"creditplus"`
}

// Encompass holds the loan-origination-system API settings.
type Encompass struct {
	BaseURL             string `koanf:"base_url"`
	SmartClientUser     string `koanf:"smart_client_user"`
	SmartClientPassword string `koanf:"smart_client_password"`
	ClientID            string `koanf:"client_id"`
	ClientSecret        string `koanf:"client_secret"`
	InstanceID          string `koanf:"instance_id"`
}

// CreditPlus holds the credit-report vendor API settings.
type CreditPlus struct {
	BaseURL  string `koanf:"base_url"`
	APIKey   string `koanf:"api_key"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// envKeys maps environment variable names onto config keys. Variables not
// listed here are ignored by the loader.
var envKeys = map[string]string{
	"AWS_REGION":                      "region",
	"AWS_ENDPOINT_URL":                "endpoint",
	"TABLE_NAME":                      "table_name",
	"QUEUE_NAME":                      "queue_name",
	"CP_EVENT_BUS":                    "event_bus",
	"STAGE":                           "stage",
	"ENCOMPASS_BASE_URL":              "encompass.base_url",
	"ENCOMPASS_SMART_CLIENT_USER":     "encompass.smart_client_user",
	"ENCOMPASS_SMART_CLIENT_PASSWORD": "encompass.smart_client_password",
	"ENCOMPASS_CLIENT_ID":             "encompass.client_id",
	"ENCOMPASS_CLIENT_SECRET":         "encompass.client_secret",
	"ENCOMPASS_INSTANCE_ID":           "encompass.instance_id",
	"CREDIT_PLUS_API_BASE_URL":        "creditplus.base_url",
	"CREDIT_PLUS_API_KEY":             "creditplus.api_key",
	"CREDIT_PLUS_API_USERNAME":        "creditplus.username",
	"CREDIT_PLUS_API_PASSWORD":        "creditplus.password",
}

func defaults() Config {
	return Config{
		Region: "us-east-2",
		Stage:  "dev",
	}
}

// Load builds the config from defaults overridden by the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading config defaults: %w", err)
	}

	envProvider := env.Provider("", ".", func(name string) string {
		return envKeys[name]
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// RequireTable checks the settings the loan store needs.
func (c *Config) RequireTable() error {
	return required(map[string]string{"TABLE_NAME": c.TableName})
}

// RequireQueue checks the settings the DLQ cleanup job needs.
func (c *Config) RequireQueue() error {
	return required(map[string]string{"QUEUE_NAME": c.QueueName})
}

// RequireEventBus checks the settings the replay handler needs.
func (c *Config) RequireEventBus() error {
	return required(map[string]string{"CP_EVENT_BUS": c.EventBusName})
}

// Validate checks the settings the Encompass client needs.
func (e Encompass) Validate() error {
	return required(map[string]string{
		"ENCOMPASS_BASE_URL":              e.BaseURL,
		"ENCOMPASS_SMART_CLIENT_USER":     e.SmartClientUser,
		"ENCOMPASS_SMART_CLIENT_PASSWORD": e.SmartClientPassword,
		"ENCOMPASS_CLIENT_ID":             e.ClientID,
		"ENCOMPASS_CLIENT_SECRET":         e.ClientSecret,
		"ENCOMPASS_INSTANCE_ID":           e.InstanceID,
	})
}

// Validate checks the settings the CreditPlus client needs.
func (cp CreditPlus) Validate() error {
	return required(map[string]string{
		"CREDIT_PLUS_API_BASE_URL": cp.BaseURL,
		"CREDIT_PLUS_API_KEY":      cp.APIKey,
		"CREDIT_PLUS_API_USERNAME": cp.Username,
		"CREDIT_PLUS_API_PASSWORD": cp.Password,
	})
}

func required(vals map[string]string) error {
	for name, v := range vals {
		if v == "" {
			return fmt.Errorf("environment missing %s", name)
		}
	}
	return nil
}
