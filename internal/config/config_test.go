package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "http://localhost:8080")
	}
	if cfg.API.SearchPath != "/api/search" {
		t.Errorf("API.SearchPath = %q, want %q", cfg.API.SearchPath, "/api/search")
	}
	if cfg.API.Timeout != 0 {
		t.Errorf("API.Timeout = %v, want 0", cfg.API.Timeout)
	}
	if cfg.API.UserAgent != "nexus/"+Version {
		t.Errorf("API.UserAgent = %q, want %q", cfg.API.UserAgent, "nexus/"+Version)
	}

	if !cfg.TUI.AltScreen {
		t.Error("TUI.AltScreen should be true by default")
	}
	if cfg.TUI.ShowNationalValue {
		t.Error("TUI.ShowNationalValue should be false by default")
	}

	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be true by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.MaxSizeMB != 10 || cfg.Logging.MaxBackups != 3 {
		t.Errorf("Logging rotation = %d/%d, want 10/3", cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups)
	}

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default() config should be valid, got %v", errs)
	}
}

func TestSearchURL(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"http://localhost:8080", "/api/search", "http://localhost:8080/api/search"},
		{"http://localhost:8080/", "/api/search", "http://localhost:8080/api/search"},
		{"https://nexus.example.com/v1", "/search", "https://nexus.example.com/v1/search"},
	}

	for _, tt := range tests {
		api := APIConfig{BaseURL: tt.base, SearchPath: tt.path}
		if got := api.SearchURL(); got != tt.want {
			t.Errorf("SearchURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestResolveDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	l := LoggingConfig{}
	if got := l.ResolveDir(); got != filepath.Join("/xdg", "nexus", "logs") {
		t.Errorf("ResolveDir() = %q, want default under config dir", got)
	}

	l.Dir = "/var/log/nexus"
	if got := l.ResolveDir(); got != "/var/log/nexus" {
		t.Errorf("ResolveDir() = %q, want /var/log/nexus", got)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	l.Dir = "~/nexus-logs"
	if got := l.ResolveDir(); got != filepath.Join(home, "nexus-logs") {
		t.Errorf("ResolveDir() = %q, want %q", got, filepath.Join(home, "nexus-logs"))
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("uses XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != filepath.Join("/custom/config", "nexus") {
			t.Errorf("ConfigDir() = %q", got)
		}
		if got := ConfigFile(); got != filepath.Join("/custom/config", "nexus", "config.yaml") {
			t.Errorf("ConfigFile() = %q", got)
		}
	})

	t.Run("falls back to home", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		if got := ConfigDir(); got != filepath.Join(home, ".config", "nexus") {
			t.Errorf("ConfigDir() = %q", got)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("reads file and applies defaults", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		SetDefaults()

		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "api:\n  base_url: https://nexus.example.com\n  timeout: 5s\ntui:\n  show_national_value: true\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			t.Fatalf("ReadInConfig: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.API.BaseURL != "https://nexus.example.com" {
			t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
		}
		if cfg.API.Timeout != 5*time.Second {
			t.Errorf("API.Timeout = %v, want 5s", cfg.API.Timeout)
		}
		if cfg.API.SearchPath != "/api/search" {
			t.Errorf("API.SearchPath = %q, want default", cfg.API.SearchPath)
		}
		if !cfg.TUI.ShowNationalValue {
			t.Error("TUI.ShowNationalValue should be true from file")
		}
	})

	t.Run("returns validation errors", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		SetDefaults()
		viper.Set("api.base_url", "not a url")
		viper.Set("logging.level", "loud")

		_, err := Load()
		if err == nil {
			t.Fatal("Load() should fail")
		}
		verrs, ok := err.(ValidationErrors)
		if !ok {
			t.Fatalf("Load() error type = %T, want ValidationErrors", err)
		}
		if len(verrs) != 2 {
			t.Errorf("got %d errors, want 2: %v", len(verrs), verrs)
		}
	})

	t.Run("Get falls back to defaults", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		SetDefaults()
		viper.Set("api.search_path", "no-slash")

		cfg := Get()
		if cfg.API.SearchPath != "/api/search" {
			t.Errorf("Get() SearchPath = %q, want default", cfg.API.SearchPath)
		}
	})
}
