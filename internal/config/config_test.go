package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestGetDefaultOpener(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
	}

	opener := getDefaultOpener()

	if expectedOpener, ok := expected[runtime.GOOS]; ok {
		if opener != expectedOpener {
			t.Errorf("getDefaultOpener() = %s, want %s for %s", opener, expectedOpener, runtime.GOOS)
		}
	} else if opener != "open" {
		t.Errorf("getDefaultOpener() = %s, want 'open' for unknown OS", opener)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Catalog.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("Catalog.BaseURL = %s", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.HTTPTimeout != 30*time.Second {
		t.Errorf("Catalog.HTTPTimeout = %v, want 30s", cfg.Catalog.HTTPTimeout)
	}
	if cfg.Catalog.ImageBaseURL != "https://image.tmdb.org/t/p/w500" {
		t.Errorf("Catalog.ImageBaseURL = %s", cfg.Catalog.ImageBaseURL)
	}
	if cfg.Store.Backend != BackendAppwrite {
		t.Errorf("Store.Backend = %s, want %s", cfg.Store.Backend, BackendAppwrite)
	}
	if cfg.Store.Timeout != 10*time.Second {
		t.Errorf("Store.Timeout = %v, want 10s", cfg.Store.Timeout)
	}
	if cfg.Search.Debounce != 500*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 500ms", cfg.Search.Debounce)
	}
	if cfg.Search.TrendingLimit != 5 {
		t.Errorf("Search.TrendingLimit = %d, want 5", cfg.Search.TrendingLimit)
	}
	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Keys.Bindings.Quit != "q" {
		t.Errorf("Keys.Bindings.Quit = %s, want 'q'", cfg.Keys.Bindings.Quit)
	}
	if cfg.Log.Level != "off" {
		t.Errorf("Log.Level = %s, want 'off'", cfg.Log.Level)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.Search.Debounce != 500*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 500ms", cfg.Search.Debounce)
	}
	if cfg.Catalog.WebURL != "https://www.themoviedb.org/movie" {
		t.Errorf("Catalog.WebURL = %s", cfg.Catalog.WebURL)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "test-config.toml")
	configContent := `
[catalog]
api_key = "file-token"
http_timeout = "60s"
user_agent = "test-agent"

[store]
backend = "bolt"
path = "/tmp/flik-test.db"
timeout = "3s"

[search]
debounce = "250ms"
trending_limit = 10

[ui.colors]
primary = "#FF0000"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Catalog.APIKey != "file-token" {
		t.Errorf("Catalog.APIKey = %s, want 'file-token'", cfg.Catalog.APIKey)
	}
	if cfg.Catalog.HTTPTimeout != 60*time.Second {
		t.Errorf("Catalog.HTTPTimeout = %v, want 60s", cfg.Catalog.HTTPTimeout)
	}
	if cfg.Store.Backend != BackendBolt {
		t.Errorf("Store.Backend = %s, want bolt", cfg.Store.Backend)
	}
	if cfg.Store.Path != "/tmp/flik-test.db" {
		t.Errorf("Store.Path = %s", cfg.Store.Path)
	}
	if cfg.Store.Timeout != 3*time.Second {
		t.Errorf("Store.Timeout = %v, want 3s", cfg.Store.Timeout)
	}
	if cfg.Search.Debounce != 250*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 250ms", cfg.Search.Debounce)
	}
	if cfg.Search.TrendingLimit != 10 {
		t.Errorf("Search.TrendingLimit = %d, want 10", cfg.Search.TrendingLimit)
	}
	if cfg.UI.Colors.Primary != "#FF0000" {
		t.Errorf("UI.Colors.Primary = %s, want '#FF0000'", cfg.UI.Colors.Primary)
	}
	// Unset keys keep their defaults.
	if cfg.Catalog.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("Catalog.BaseURL = %s", cfg.Catalog.BaseURL)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TMDB_API_KEY", "env-token")
	t.Setenv("FLIK_STORE_PROJECT_ID", "proj-123")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Catalog.APIKey != "env-token" {
		t.Errorf("Catalog.APIKey = %q, want 'env-token'", cfg.Catalog.APIKey)
	}
	if cfg.Store.ProjectID != "proj-123" {
		t.Errorf("Store.ProjectID = %q, want 'proj-123'", cfg.Store.ProjectID)
	}
}

func TestLoad_PrefixedKeyWins(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TMDB_API_KEY", "generic")
	t.Setenv("FLIK_CATALOG_API_KEY", "specific")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Catalog.APIKey != "specific" {
		t.Errorf("Catalog.APIKey = %q, want 'specific'", cfg.Catalog.APIKey)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(configPath, []byte("[catalog\napi_key = "), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load() expected error for malformed TOML")
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := defaultConfig()
	cfg.Catalog.UserAgent = "test-save-agent"
	cfg.Catalog.HTTPTimeout = 45 * time.Second
	cfg.Store.Backend = BackendBolt
	cfg.Store.Path = "/test/path.db"
	cfg.Search.Debounce = 750 * time.Millisecond
	cfg.Keys.Modifier = "alt"
	cfg.Keys.Bindings.Quit = "x"

	savePath := filepath.Join(tmpDir, "nested", "saved-config.toml")
	if err := Save(cfg, savePath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(savePath); os.IsNotExist(err) {
		t.Fatal("Save() did not create config file")
	}

	loaded, err := Load(savePath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.Store.Path != cfg.Store.Path {
		t.Errorf("Loaded Store.Path = %s, want %s", loaded.Store.Path, cfg.Store.Path)
	}
	if loaded.Catalog.UserAgent != cfg.Catalog.UserAgent {
		t.Errorf("Loaded Catalog.UserAgent = %s, want %s", loaded.Catalog.UserAgent, cfg.Catalog.UserAgent)
	}
	if loaded.Catalog.HTTPTimeout != cfg.Catalog.HTTPTimeout {
		t.Errorf("Loaded Catalog.HTTPTimeout = %v, want %v", loaded.Catalog.HTTPTimeout, cfg.Catalog.HTTPTimeout)
	}
	if loaded.Search.Debounce != cfg.Search.Debounce {
		t.Errorf("Loaded Search.Debounce = %v, want %v", loaded.Search.Debounce, cfg.Search.Debounce)
	}
	if loaded.Keys.Modifier != cfg.Keys.Modifier {
		t.Errorf("Loaded Keys.Modifier = %s, want %s", loaded.Keys.Modifier, cfg.Keys.Modifier)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "generated.toml")
	if err := GenerateDefaultConfig(configPath); err != nil {
		t.Fatalf("GenerateDefaultConfig() error = %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}

	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Generated config has Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Search.TrendingLimit != 5 {
		t.Errorf("Generated config has Search.TrendingLimit = %d, want 5", cfg.Search.TrendingLimit)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	if got := expandPath("~/movies.db"); got != filepath.Join(home, "movies.db") {
		t.Errorf("expandPath(~/movies.db) = %s", got)
	}
	if got := expandPath(""); got != "" {
		t.Errorf("expandPath(\"\") = %s, want empty", got)
	}
	if got := expandPath("relative.db"); !filepath.IsAbs(got) {
		t.Errorf("expandPath(relative.db) = %s, want absolute", got)
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	if cfg == nil {
		t.Fatal("TestConfig() returned nil")
	}
	if cfg.Catalog.UserAgent != "flik-test/1.0" {
		t.Errorf("TestConfig Catalog.UserAgent = %s, want 'flik-test/1.0'", cfg.Catalog.UserAgent)
	}
	if cfg.Store.Backend != BackendBolt {
		t.Errorf("TestConfig Store.Backend = %s, want bolt", cfg.Store.Backend)
	}
}

func TestValidate(t *testing.T) {
	cfg := TestConfig()
	cfg.Store.Path = filepath.Join(t.TempDir(), "flik.db")
	cfg.Catalog.BaseURL = "http://127.0.0.1:8080/3/"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Catalog.BaseURL != "http://127.0.0.1:8080/3" {
		t.Errorf("Validate() did not normalize BaseURL: %s", cfg.Catalog.BaseURL)
	}
}

func TestValidate_MissingCredential(t *testing.T) {
	cfg := TestConfig()
	cfg.Store.Path = "/tmp/flik.db"
	cfg.Catalog.APIKey = "  "

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for missing API key")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() error type = %T, want *ValidationError", err)
	}
	if len(verr.Problems) != 1 {
		t.Errorf("Problems = %v, want exactly one", verr.Problems)
	}
	if !errors.Is(err, ErrMissingCredential) {
		t.Errorf("Validate() error should wrap ErrMissingCredential: %v", err)
	}
}

func TestValidate_AppwriteBackend(t *testing.T) {
	cfg := defaultConfig()
	cfg.Catalog.APIKey = "token"
	cfg.Store.Endpoint = "ftp://cloud.appwrite.io"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected errors for incomplete appwrite settings")
	}
	if !errors.Is(err, ErrInvalidEndpoint) {
		t.Errorf("expected ErrInvalidEndpoint in %v", err)
	}
	if !errors.Is(err, ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential for project id in %v", err)
	}
	if !errors.Is(err, ErrMissingSetting) {
		t.Errorf("expected ErrMissingSetting for database id in %v", err)
	}
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := TestConfig()
	cfg.Store.Backend = "redis"

	if err := cfg.Validate(); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Validate() = %v, want ErrUnknownBackend", err)
	}
}

func TestValidate_SearchSettings(t *testing.T) {
	cfg := TestConfig()
	cfg.Store.Path = "/tmp/flik.db"
	cfg.Search.Debounce = 0
	cfg.Search.TrendingLimit = -1

	err := cfg.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v, want *ValidationError", err)
	}
	if len(verr.Problems) != 2 {
		t.Errorf("Problems = %v, want two", verr.Problems)
	}
}

func TestValidate_Paths(t *testing.T) {
	dir := t.TempDir()

	cfg := TestConfig()
	cfg.Store.Path = dir
	cfg.Log.Level = "debug"
	cfg.Log.File = "/var/log/../flik.log"

	err := cfg.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v, want *ValidationError", err)
	}
	if len(verr.Problems) != 2 {
		t.Errorf("Problems = %v, want store.path and log.file", verr.Problems)
	}
	if !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Validate() error should wrap ErrInvalidPath: %v", err)
	}
}

func TestValidate_LogFileIgnoredWhenOff(t *testing.T) {
	cfg := TestConfig()
	cfg.Store.Path = filepath.Join(t.TempDir(), "flik.db")
	cfg.Log.Level = "off"
	cfg.Log.File = "/var/log/../flik.log"

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil when logging is off", err)
	}
}
