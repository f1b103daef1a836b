package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) from path, or CAPMETRICS_CONFIG when path is empty
//  3. env (prefix CAPMETRICS_)
func Load(path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("CAPMETRICS_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Map env keys like CAPMETRICS_MIN_MINUTES -> min_minutes (flat keys).
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("CAPMETRICS_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "capmetrics_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
