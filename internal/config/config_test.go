package config

import (
	"strings"
	"testing"
)

// mapBackend serves canned key/value pairs for tests.
type mapBackend map[string]any

func (m mapBackend) GetString(key string) (string, bool, error) {
	v, ok := m[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (m mapBackend) GetInt(key string) (int, bool, error) {
	v, ok := m[key]
	if !ok {
		return 0, false, nil
	}
	i, ok := v.(int)
	return i, ok, nil
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{
		"GROQ_API_KEY", "GROQ_MODEL",
		"DOCASK_GROQ_BASE_URL", "DOCASK_GROQ_TIMEOUT",
		"DOCASK_STORAGE_DATA_DIR", "DOCASK_STORAGE_USERS_FILE",
		"DOCASK_SERVER_PORT", "DOCASK_SERVER_TOKEN", "DOCASK_LOG_LEVEL",
	} {
		t.Setenv(env, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(mapBackend{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Groq.APIKey != "" {
		t.Errorf("expected empty api key by default, got %q", cfg.Groq.APIKey)
	}
	if cfg.Groq.Model != DefaultModel {
		t.Errorf("expected default model, got %q", cfg.Groq.Model)
	}
	if cfg.Groq.Timeout != "60s" {
		t.Errorf("expected 60s timeout, got %q", cfg.Groq.Timeout)
	}
	if cfg.Server.Port != 4600 {
		t.Errorf("expected default port 4600, got %d", cfg.Server.Port)
	}
	if !strings.HasSuffix(cfg.Storage.UsersFile, "users.json") {
		t.Errorf("expected users file under the data dir, got %q", cfg.Storage.UsersFile)
	}
}

func TestBackendValuesOverrideDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(mapBackend{
		"groq.api_key":       "sk-file",
		"groq.model":         "file-model",
		"storage.users_file": "/tmp/users.json",
		"server.port":        9000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Groq.APIKey != "sk-file" {
		t.Errorf("api key not applied: %q", cfg.Groq.APIKey)
	}
	if cfg.Groq.Model != "file-model" {
		t.Errorf("model not applied: %q", cfg.Groq.Model)
	}
	if cfg.Storage.UsersFile != "/tmp/users.json" {
		t.Errorf("users file not applied: %q", cfg.Storage.UsersFile)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port not applied: %d", cfg.Server.Port)
	}
}

func TestEnvOverridesBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "sk-env")
	t.Setenv("GROQ_MODEL", "env-model")
	t.Setenv("DOCASK_SERVER_PORT", "7777")

	cfg, err := loadWith(mapBackend{
		"groq.api_key": "sk-file",
		"groq.model":   "file-model",
		"server.port":  9000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Groq.APIKey != "sk-env" {
		t.Errorf("env should win over file: %q", cfg.Groq.APIKey)
	}
	if cfg.Groq.Model != "env-model" {
		t.Errorf("env should win over file: %q", cfg.Groq.Model)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("env should win over file: %d", cfg.Server.Port)
	}
}

func TestResolveModelPrecedence(t *testing.T) {
	cfg := Config{Groq: GroqConfig{Model: "configured-model"}}

	if got := cfg.ResolveModel("explicit-model"); got != "explicit-model" {
		t.Errorf("explicit argument should win, got %q", got)
	}
	if got := cfg.ResolveModel(""); got != "configured-model" {
		t.Errorf("configured model should win over default, got %q", got)
	}

	var empty Config
	if got := empty.ResolveModel(""); got != DefaultModel {
		t.Errorf("expected built-in default, got %q", got)
	}
}

func TestMissingKeyWarningNamesDefaultModel(t *testing.T) {
	msg := MissingKeyWarning()
	if !strings.Contains(msg, "GROQ_API_KEY") || !strings.Contains(msg, DefaultModel) {
		t.Errorf("warning should name the env var and default model: %q", msg)
	}
}
