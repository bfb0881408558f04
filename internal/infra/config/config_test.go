// Task 1.2: tests for config.Load precedence (defaults < YAML file < env).
// No t.Parallel() — env vars are process-global and not thread-safe.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearConfigEnv blanks every variable Load reads so defaults apply.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		envKeyConfigFile, envKeyHTTPAddr, envKeyDBPath, envKeyJWTSecret,
		envKeyOpenAIAPIKey, envKeyOpenAIBaseURL, envKeySerperAPIKey, envKeySerperBaseURL,
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.DBPath != "mindsdb.db" {
		t.Errorf("DBPath = %q, want mindsdb.db", cfg.DBPath)
	}
	if cfg.OpenAIBaseURL != "https://api.openai.com/v1" {
		t.Errorf("OpenAIBaseURL = %q", cfg.OpenAIBaseURL)
	}
	if cfg.SerperBaseURL != "https://google.serper.dev" {
		t.Errorf("SerperBaseURL = %q", cfg.SerperBaseURL)
	}
	if cfg.OpenAIAPIKey != "" {
		t.Errorf("OpenAIAPIKey should have no default, got %q", cfg.OpenAIAPIKey)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv(envKeyHTTPAddr, ":9090")
	t.Setenv(envKeyDBPath, "/tmp/other.db")
	t.Setenv(envKeyOpenAIAPIKey, "sk-test")
	t.Setenv(envKeySerperBaseURL, "http://serper.internal")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("DBPath = %q, want /tmp/other.db", cfg.DBPath)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("OpenAIAPIKey = %q, want sk-test", cfg.OpenAIAPIKey)
	}
	if cfg.SerperBaseURL != "http://serper.internal" {
		t.Errorf("SerperBaseURL = %q", cfg.SerperBaseURL)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	data := "http_addr: \":7070\"\ndb_path: from-file.db\nopenai_api_key: sk-from-file\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(envKeyConfigFile, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if cfg.HTTPAddr != ":7070" {
		t.Errorf("HTTPAddr = %q, want :7070", cfg.HTTPAddr)
	}
	if cfg.DBPath != "from-file.db" {
		t.Errorf("DBPath = %q, want from-file.db", cfg.DBPath)
	}
	if cfg.OpenAIAPIKey != "sk-from-file" {
		t.Errorf("OpenAIAPIKey = %q, want sk-from-file", cfg.OpenAIAPIKey)
	}
	// Fields absent from the file keep their defaults.
	if cfg.OpenAIBaseURL != "https://api.openai.com/v1" {
		t.Errorf("OpenAIBaseURL = %q", cfg.OpenAIBaseURL)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("http_addr: \":7070\"\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(envKeyConfigFile, path)
	t.Setenv(envKeyHTTPAddr, ":6060")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.HTTPAddr != ":6060" {
		t.Errorf("HTTPAddr = %q, want :6060 (env wins over file)", cfg.HTTPAddr)
	}
}

func TestLoad_MissingFileIsError(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv(envKeyConfigFile, filepath.Join(t.TempDir(), "nope.yml"))

	if _, err := Load(); err == nil {
		t.Fatal("Load should fail when the named config file does not exist")
	}
}

func TestLoad_MalformedFileIsError(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("http_addr: [:::"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(envKeyConfigFile, path)

	if _, err := Load(); err == nil {
		t.Fatal("Load should fail on malformed YAML")
	}
}
