
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"

	"speech-scraper/internal/tapp"
)

type Config struct {
	BaseURL        string `json:"base_url"`
	CachePath      string `json:"cache_path"`
	UserAgent      string `json:"user_agent"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func Default() Config {
	return Config{
		BaseURL:   tapp.DefaultBaseURL,
		CachePath: filepath.Join(os.TempDir(), "speech-scraper-cache.db"),
		UserAgent: "speech-scraper/1.0",
	}
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// Read loads the defaults, then <name>.<ext>, then <name>.local.<ext>, each
// overriding the fields the previous one set. Missing files are skipped.
func Read(name string) (Config, error) {
	out := Default()
	if name == "" {
		return out, nil
	}

	prefix, ext := splitExt(filepath.Base(name))
	local := filepath.Join(filepath.Dir(name), fmt.Sprintf("%s.local.%s", prefix, ext))

	for _, path := range []string{name, local} {
		contents, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return out, err
		}
		if len(contents) == 0 {
			continue
		}
		var override Config
		if err := json5.Unmarshal(contents, &override); err != nil {
			return out, fmt.Errorf("%s: %w", path, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		slog.Debug("loaded config", "path", path)
	}
	return out, nil
}
