package run

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/xhd2015/partsearch/data"
	"github.com/xhd2015/partsearch/models"
	"github.com/xhd2015/partsearch/searchbox"
)

const DEFAULT_HISTORY = "sqlite"

const (
	EnvAPIBaseURL   = "PARTSEARCH_API_BASE_URL"
	EnvAssetBaseURL = "PARTSEARCH_ASSET_BASE_URL"

	// names used by the web frontend's .env
	envLegacyAPIBaseURL   = "REACT_APP_BASE_URL"
	envLegacyAssetBaseURL = "REACT_APP_S3URL"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	APIBaseURL    string
	AssetBaseURL  string
	History       string
	Debounce      time.Duration
	BlurDelay     time.Duration
	Timeout       time.Duration
	DisableImages bool
}

// ApplyConfigDefaults fills what the command line left empty from the
// environment (and .env), then from config.toml, then from defaults.
func ApplyConfigDefaults(flagValues Settings) (Settings, error) {
	err := loadDotEnv(".env")
	if err != nil {
		return Settings{}, err
	}
	savedConfig, err := data.LoadConfig()
	if err != nil {
		return Settings{}, err
	}
	return resolveSettings(flagValues, os.Getenv, savedConfig), nil
}

// loadDotEnv does not override variables already set in the environment.
func loadDotEnv(file string) error {
	err := godotenv.Load(file)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", file, err)
	}
	return nil
}

func resolveSettings(s Settings, getenv func(string) string, savedConfig *models.Config) Settings {
	if savedConfig == nil {
		savedConfig = &models.Config{}
	}

	if s.APIBaseURL == "" {
		s.APIBaseURL = firstNonEmpty(getenv(EnvAPIBaseURL), getenv(envLegacyAPIBaseURL), savedConfig.APIBaseURL)
	}
	if s.AssetBaseURL == "" {
		s.AssetBaseURL = firstNonEmpty(getenv(EnvAssetBaseURL), getenv(envLegacyAssetBaseURL), savedConfig.AssetBaseURL)
	}
	if s.History == "" {
		s.History = firstNonEmpty(savedConfig.History, DEFAULT_HISTORY)
	}
	if s.Debounce == 0 {
		s.Debounce = msOr(savedConfig.DebounceMs, searchbox.DefaultDebounce)
	}
	if s.BlurDelay == 0 {
		s.BlurDelay = msOr(savedConfig.BlurDelayMs, searchbox.DefaultBlurDelay)
	}
	if s.Timeout == 0 {
		s.Timeout = msOr(savedConfig.TimeoutMs, searchbox.DefaultRequestTimeout)
	}
	if !s.DisableImages {
		s.DisableImages = savedConfig.DisableImages
	}
	if s.AssetBaseURL == "" {
		s.DisableImages = true
	}
	s.APIBaseURL = strings.TrimSuffix(s.APIBaseURL, "/")
	s.AssetBaseURL = strings.TrimSuffix(s.AssetBaseURL, "/")
	return s
}

func (s Settings) Validate() error {
	if s.APIBaseURL == "" {
		return fmt.Errorf("API base URL is not configured: pass --api-base-url, set %s, or run `partsearch config --set-api-base-url <url>`", EnvAPIBaseURL)
	}
	switch s.History {
	case "sqlite", "file", "none":
	default:
		return fmt.Errorf("unsupported history type: %s, available: sqlite, file, none", s.History)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func msOr(ms int, def time.Duration) time.Duration {
	if ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}
