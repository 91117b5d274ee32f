package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendAppwrite = "appwrite"
	BackendBolt     = "bolt"
)

type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Store    StoreConfig    `mapstructure:"store"`
	Search   SearchConfig   `mapstructure:"search"`
	UI       UIConfig       `mapstructure:"ui"`
	Launcher LauncherConfig `mapstructure:"launcher"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	ImageBaseURL      string        `mapstructure:"image_base_url"`
	WebURL            string        `mapstructure:"web_url"`
	APIKey            string        `mapstructure:"api_key"`
	UserAgent         string        `mapstructure:"user_agent"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// StoreConfig selects and configures the popularity store backend.
type StoreConfig struct {
	Backend      string        `mapstructure:"backend"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Path         string        `mapstructure:"path"`
	Endpoint     string        `mapstructure:"endpoint"`
	ProjectID    string        `mapstructure:"project_id"`
	APIKey       string        `mapstructure:"api_key"`
	DatabaseID   string        `mapstructure:"database_id"`
	CollectionID string        `mapstructure:"collection_id"`
}

type SearchConfig struct {
	Debounce        time.Duration `mapstructure:"debounce"`
	TrendingLimit   int           `mapstructure:"trending_limit"`
	SuggestionLimit int           `mapstructure:"suggestion_limit"`
	MaxQueryLength  int           `mapstructure:"max_query_length"`
}

type UIConfig struct {
	Colors    UIColors `mapstructure:"colors"`
	CardWidth int      `mapstructure:"card_width"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type LauncherConfig struct {
	Opener string `mapstructure:"opener"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit             string `mapstructure:"quit"`
	Open             string `mapstructure:"open"`
	AcceptSuggestion string `mapstructure:"accept_suggestion"`
	Back             string `mapstructure:"back"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Catalog: CatalogConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			ImageBaseURL:      "https://image.tmdb.org/t/p/w500",
			WebURL:            "https://www.themoviedb.org/movie",
			UserAgent:         "flik/1.0 (https://github.com/pders01/flik)",
			HTTPTimeout:       30 * time.Second,
			RequestsPerSecond: 20,
			Burst:             5,
		},
		Store: StoreConfig{
			Backend:      BackendAppwrite,
			Timeout:      10 * time.Second,
			Path:         filepath.Join(homeDir, ".flik.db"),
			Endpoint:     "https://cloud.appwrite.io/v1",
			CollectionID: "metrics",
		},
		Search: SearchConfig{
			Debounce:        500 * time.Millisecond,
			TrendingLimit:   5,
			SuggestionLimit: 3,
			MaxQueryLength:  256,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#AB8BFF",
				Secondary:  "#D6C7FF",
				Accent:     "#95E1D3",
				Background: "#030014",
				Surface:    "#0F0D23",
				Text:       "#EAEAEA",
				Muted:      "#A8B5DB",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			CardWidth: 30,
		},
		Launcher: LauncherConfig{
			Opener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:             "q",
				Open:             "o",
				AcceptSuggestion: "f",
				Back:             "esc",
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(homeDir, ".flik", "flik.log"),
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// setDefaults registers every leaf key so environment overrides resolve
// through AutomaticEnv.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("catalog.base_url", cfg.Catalog.BaseURL)
	v.SetDefault("catalog.image_base_url", cfg.Catalog.ImageBaseURL)
	v.SetDefault("catalog.web_url", cfg.Catalog.WebURL)
	v.SetDefault("catalog.api_key", cfg.Catalog.APIKey)
	v.SetDefault("catalog.user_agent", cfg.Catalog.UserAgent)
	v.SetDefault("catalog.http_timeout", cfg.Catalog.HTTPTimeout)
	v.SetDefault("catalog.requests_per_second", cfg.Catalog.RequestsPerSecond)
	v.SetDefault("catalog.burst", cfg.Catalog.Burst)

	v.SetDefault("store.backend", cfg.Store.Backend)
	v.SetDefault("store.timeout", cfg.Store.Timeout)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("store.endpoint", cfg.Store.Endpoint)
	v.SetDefault("store.project_id", cfg.Store.ProjectID)
	v.SetDefault("store.api_key", cfg.Store.APIKey)
	v.SetDefault("store.database_id", cfg.Store.DatabaseID)
	v.SetDefault("store.collection_id", cfg.Store.CollectionID)

	v.SetDefault("search.debounce", cfg.Search.Debounce)
	v.SetDefault("search.trending_limit", cfg.Search.TrendingLimit)
	v.SetDefault("search.suggestion_limit", cfg.Search.SuggestionLimit)
	v.SetDefault("search.max_query_length", cfg.Search.MaxQueryLength)

	colors := cfg.UI.Colors
	v.SetDefault("ui.colors.primary", colors.Primary)
	v.SetDefault("ui.colors.secondary", colors.Secondary)
	v.SetDefault("ui.colors.accent", colors.Accent)
	v.SetDefault("ui.colors.background", colors.Background)
	v.SetDefault("ui.colors.surface", colors.Surface)
	v.SetDefault("ui.colors.text", colors.Text)
	v.SetDefault("ui.colors.muted", colors.Muted)
	v.SetDefault("ui.colors.error", colors.Error)
	v.SetDefault("ui.colors.success", colors.Success)
	v.SetDefault("ui.card_width", cfg.UI.CardWidth)

	v.SetDefault("launcher.opener", cfg.Launcher.Opener)

	v.SetDefault("keys.modifier", cfg.Keys.Modifier)
	v.SetDefault("keys.bindings.quit", cfg.Keys.Bindings.Quit)
	v.SetDefault("keys.bindings.open", cfg.Keys.Bindings.Open)
	v.SetDefault("keys.bindings.accept_suggestion", cfg.Keys.Bindings.AcceptSuggestion)
	v.SetDefault("keys.bindings.back", cfg.Keys.Bindings.Back)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "flik")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FLIK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The TMDB read access token is commonly exported under its own name.
	_ = v.BindEnv("catalog.api_key", "FLIK_CATALOG_API_KEY", "TMDB_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Store.Path = expandPath(cfg.Store.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
}

// ExpandPath is exported for command-line overrides of configured paths.
func ExpandPath(path string) string {
	return expandPath(path)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations are written as strings for TOML readability
	catalogCfg := map[string]interface{}{
		"base_url":            config.Catalog.BaseURL,
		"image_base_url":      config.Catalog.ImageBaseURL,
		"web_url":             config.Catalog.WebURL,
		"api_key":             config.Catalog.APIKey,
		"user_agent":          config.Catalog.UserAgent,
		"http_timeout":        config.Catalog.HTTPTimeout.String(),
		"requests_per_second": config.Catalog.RequestsPerSecond,
		"burst":               config.Catalog.Burst,
	}

	storeCfg := map[string]interface{}{
		"backend":       config.Store.Backend,
		"timeout":       config.Store.Timeout.String(),
		"path":          config.Store.Path,
		"endpoint":      config.Store.Endpoint,
		"project_id":    config.Store.ProjectID,
		"api_key":       config.Store.APIKey,
		"database_id":   config.Store.DatabaseID,
		"collection_id": config.Store.CollectionID,
	}

	searchCfg := map[string]interface{}{
		"debounce":         config.Search.Debounce.String(),
		"trending_limit":   config.Search.TrendingLimit,
		"suggestion_limit": config.Search.SuggestionLimit,
		"max_query_length": config.Search.MaxQueryLength,
	}

	v.Set("catalog", catalogCfg)
	v.Set("store", storeCfg)
	v.Set("search", searchCfg)
	v.Set("ui", map[string]interface{}{
		"card_width": config.UI.CardWidth,
		"colors": map[string]interface{}{
			"primary":    config.UI.Colors.Primary,
			"secondary":  config.UI.Colors.Secondary,
			"accent":     config.UI.Colors.Accent,
			"background": config.UI.Colors.Background,
			"surface":    config.UI.Colors.Surface,
			"text":       config.UI.Colors.Text,
			"muted":      config.UI.Colors.Muted,
			"error":      config.UI.Colors.Error,
			"success":    config.UI.Colors.Success,
		},
	})
	v.Set("launcher", map[string]interface{}{"opener": config.Launcher.Opener})
	v.Set("keys", map[string]interface{}{
		"modifier": config.Keys.Modifier,
		"bindings": map[string]interface{}{
			"quit":              config.Keys.Bindings.Quit,
			"open":              config.Keys.Bindings.Open,
			"accept_suggestion": config.Keys.Bindings.AcceptSuggestion,
			"back":              config.Keys.Bindings.Back,
		},
	})
	v.Set("log", map[string]interface{}{
		"level": config.Log.Level,
		"file":  config.Log.File,
	})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
