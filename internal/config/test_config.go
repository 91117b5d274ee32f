package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	defaults := defaultConfig()
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:           "http://127.0.0.1:0",
			ImageBaseURL:      defaults.Catalog.ImageBaseURL,
			WebURL:            defaults.Catalog.WebURL,
			APIKey:            "test-token",
			UserAgent:         "flik-test/1.0",
			HTTPTimeout:       5 * time.Second,
			RequestsPerSecond: 1000,
			Burst:             100,
		},
		Store: StoreConfig{
			Backend: BackendBolt,
			Timeout: 1 * time.Second,
		},
		Search: SearchConfig{
			Debounce:        10 * time.Millisecond,
			TrendingLimit:   5,
			SuggestionLimit: 3,
			MaxQueryLength:  256,
		},
		UI:       defaults.UI,
		Launcher: defaults.Launcher,
		Keys:     defaults.Keys,
		Log:      LogConfig{Level: "off"},
	}
}
