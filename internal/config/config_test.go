package config_test

import (
	"os"
	"strings"
	"testing"

	"github.com/revolutionmortgage/cp-efolder-upload/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	if os.Getenv("AWS_REGION") != "" || os.Getenv("STAGE") != "" {
		t.Skip("environment overrides the defaults under test")
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Region != "us-east-2" {
		t.Errorf("Region = %q, want default us-east-2", cfg.Region)
	}
	if cfg.Stage != "dev" {
		t.Errorf("Stage = %q, want default dev", cfg.Stage)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AWS_REGION", "us-west-2")
	t.Setenv("TABLE_NAME", "loans")
	t.Setenv("QUEUE_NAME", "efolder-udn-dlq")
	t.Setenv("STAGE", "prod")
	t.Setenv("ENCOMPASS_BASE_URL", "https://api.example.com")
	t.Setenv("CREDIT_PLUS_API_KEY", "key-123")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Region != "us-west-2" {
		t.Errorf("Region = %q, want us-west-2", cfg.Region)
	}
	if cfg.TableName != "loans" {
		t.Errorf("TableName = %q, want loans", cfg.TableName)
	}
	if cfg.QueueName != "efolder-udn-dlq" {
		t.Errorf("QueueName = %q, want efolder-udn-dlq", cfg.QueueName)
	}
	if cfg.Stage != "prod" {
		t.Errorf("Stage = %q, want prod", cfg.Stage)
	}
	if cfg.Encompass.BaseURL != "https://api.example.com" {
		t.Errorf("Encompass.BaseURL = %q, want https://api.example.com", cfg.Encompass.BaseURL)
	}
	if cfg.CreditPlus.APIKey != "key-123" {
		t.Errorf("CreditPlus.APIKey = %q, want key-123", cfg.CreditPlus.APIKey)
	}
}

func TestRequireTable(t *testing.T) {
	cfg := &config.Config{}
	if err := cfg.RequireTable(); err == nil || !strings.Contains(err.Error(), "TABLE_NAME") {
		t.Errorf("RequireTable() error = %v, want mention of TABLE_NAME", err)
	}

	cfg.TableName = "loans"
	if err := cfg.RequireTable(); err != nil {
		t.Errorf("RequireTable() error = %v, want nil", err)
	}
}

func TestEncompassValidate(t *testing.T) {
	e := config.Encompass{
		BaseURL:             "https://api.example.com",
		SmartClientUser:     "svc",
		SmartClientPassword: "secret",
		ClientID:            "id",
		ClientSecret:        "cs",
		InstanceID:          "be11207045",
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil for complete config", err)
	}

	e.ClientSecret = ""
	if err := e.Validate(); err == nil {
		t.Error("Validate() error = nil, want error for missing client secret")
	}
}
