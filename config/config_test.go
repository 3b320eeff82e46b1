package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Session       struct {
		CodeLength int `mapstructure:"code_length"`
	} `mapstructure:"session"`
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "sessiond"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.ServiceName != "sessiond" {
			t.Errorf("expected logging service name to follow config name, got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "sessiond", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	yamlContent := `
name: sessiond
environment: staging
session:
  code_length: 8
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg testConfig
	if err := LoadConfig("sessiond", &cfg, WithConfigFile(configPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "sessiond" {
		t.Errorf("expected name 'sessiond', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Session.CodeLength != 8 {
		t.Errorf("expected code_length 8, got %d", cfg.Session.CodeLength)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("name: sessiond\nsession:\n  code_length: 6\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("SESSION_CODE_LENGTH", "4")

	var cfg testConfig
	if err := LoadConfig("sessiond", &cfg, WithConfigFile(configPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Session.CodeLength != 4 {
		t.Errorf("expected env to override code_length to 4, got %d", cfg.Session.CodeLength)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool   { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestResolveWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"../cmd/sessiond/config.yml": true,
		"./.env":                     true,
	}}
	files := Resolve("sessiond", LoaderConfig{FileSystem: fs})
	if files.ConfigFile != "../cmd/sessiond/config.yml" {
		t.Errorf("unexpected config file %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("unexpected env file %q", files.EnvFile)
	}
}

func TestResolvePrefersExplicitPaths(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config.yml": true}}
	files := Resolve("sessiond", LoaderConfig{FileSystem: fs, ConfigFile: "/etc/sessiond.yml"})
	if files.ConfigFile != "/etc/sessiond.yml" {
		t.Errorf("expected explicit path, got %q", files.ConfigFile)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("SERVER_CORS_ALLOWED_ORIGINS")
	for _, want := range []string{
		"server_cors_allowed_origins",
		"server.cors_allowed_origins",
		"server.cors.allowed_origins",
		"server.cors.allowed.origins",
	} {
		if !slices.Contains(got, want) {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}
	if single := envKeyVariants("PORT"); len(single) != 1 || single[0] != "port" {
		t.Errorf("unexpected variants for single key: %v", single)
	}
}
