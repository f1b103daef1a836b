// Package config defines the CLI configuration and its loading order:
// defaults, then an optional YAML file, then CAPMETRICS_* environment
// variables.
package config

import "fmt"

// Config contains every tunable of the pipeline. Flat koanf tags keep the
// env-var mapping trivial (CAPMETRICS_MIN_MINUTES -> min_minutes).
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// CachePath locates the sqlite file holding fetched season tables.
	CachePath string `koanf:"cache_path"`

	// FirstSeason and LastSeason bound the ingested panel, inclusive, as
	// season-ending years. SalaryFrom is the first season joined against
	// salary data; earlier seasons only supply lag features.
	FirstSeason int `koanf:"first_season"`
	LastSeason  int `koanf:"last_season"`
	SalaryFrom  int `koanf:"salary_from"`

	// MinMinutes and MinCapFraction gate which player-seasons may become
	// modeling targets. Both are strict lower bounds.
	MinMinutes     float64 `koanf:"min_minutes"`
	MinCapFraction float64 `koanf:"min_cap_fraction"`

	// ReferencePlayer and ReferenceSeason pick the record whose value
	// ratio separates cost-efficient from not.
	ReferencePlayer string `koanf:"reference_player"`
	ReferenceSeason int    `koanf:"reference_season"`

	// TrainFraction and Seed control the reproducible train/test split.
	TrainFraction float64 `koanf:"train_fraction"`
	Seed          int64   `koanf:"seed"`

	// KMin and KMax bound the neighbor-count sweep, inclusive.
	KMin int `koanf:"k_min"`
	KMax int `koanf:"k_max"`

	// Fetcher politeness knobs.
	UserAgent         string  `koanf:"user_agent"`
	RequestsPerSecond float64 `koanf:"rps"`
	Burst             int     `koanf:"burst"`
	TimeoutSeconds    int     `koanf:"timeout_seconds"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		CachePath:         "capmetrics.db",
		FirstSeason:       2015,
		LastSeason:        2021,
		SalaryFrom:        2017,
		MinMinutes:        800,
		MinCapFraction:    0.01,
		ReferencePlayer:   "Fred VanVleet",
		ReferenceSeason:   2021,
		TrainFraction:     0.75,
		Seed:              42,
		KMin:              1,
		KMax:              20,
		UserAgent:         "capmetrics/1.0 (research; contact via repo issues)",
		RequestsPerSecond: 0.5,
		Burst:             1,
		TimeoutSeconds:    20,
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.FirstSeason > c.LastSeason {
		return fmt.Errorf("first_season %d after last_season %d", c.FirstSeason, c.LastSeason)
	}
	if c.SalaryFrom < c.FirstSeason || c.SalaryFrom > c.LastSeason {
		return fmt.Errorf("salary_from %d outside season range %d-%d", c.SalaryFrom, c.FirstSeason, c.LastSeason)
	}
	for season := c.SalaryFrom; season <= c.LastSeason; season++ {
		if _, ok := SalaryCap(season); !ok {
			return fmt.Errorf("no salary cap known for season %d", season)
		}
	}
	if c.TrainFraction <= 0 || c.TrainFraction >= 1 {
		return fmt.Errorf("train_fraction %v outside (0, 1)", c.TrainFraction)
	}
	if c.KMin < 1 || c.KMax < c.KMin {
		return fmt.Errorf("bad neighbor sweep range [%d, %d]", c.KMin, c.KMax)
	}
	if c.RequestsPerSecond <= 0 || c.Burst < 1 {
		return fmt.Errorf("bad fetch rate rps=%v burst=%d", c.RequestsPerSecond, c.Burst)
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("bad fetch timeout %ds", c.TimeoutSeconds)
	}
	if c.ReferencePlayer == "" {
		return fmt.Errorf("reference_player must not be empty")
	}
	return nil
}
