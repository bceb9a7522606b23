// Package config loads doctran configuration from an optional YAML file
// and the environment. Environment variables override file values, and
// a .env file is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked for in the working
// directory when no path is given.
const DefaultFileName = "doctran.yaml"

// Config holds the full pipeline configuration.
type Config struct {
	// OpenAIAPIKey authenticates against the OpenAI API. Env only
	// (DOCTRAN_OPENAI_API_KEY or OPENAI_API_KEY); never read from the
	// YAML file.
	OpenAIAPIKey string `yaml:"-"`

	// Model is the chat model used for translation.
	Model string `yaml:"model"`

	// FineTunedModel, when set, is used instead of Model by the
	// --finetuned translation mode.
	FineTunedModel string `yaml:"finetuned_model"`

	// TargetLangs are the target language codes.
	TargetLangs []string `yaml:"target_langs"`

	// ChunkSize is the number of units per translation request.
	ChunkSize int `yaml:"chunk_size"`

	// TermMinCount is the frequency threshold for terminology mining.
	TermMinCount int `yaml:"term_min_count"`

	// FineTuneThreshold is the combined new-plus-untrained term count
	// that triggers a fine-tuning job.
	FineTuneThreshold int `yaml:"finetune_threshold"`

	// SkipRatio is the target-script character ratio above which a
	// file is considered already translated and skipped.
	SkipRatio float64 `yaml:"skip_ratio"`

	// StoreSentinels controls whether term entries whose translation
	// failed (sentinel markers) are persisted.
	StoreSentinels bool `yaml:"store_sentinels"`

	// OutputMode is "test" (write under translated/) or "real"
	// (rename the source aside and write in place).
	OutputMode string `yaml:"output_mode"`

	// TermDBPath is the SQLite terminology database path.
	TermDBPath string `yaml:"term_db_path"`

	// RedisURL enables the Redis translation cache when non-empty.
	RedisURL string `yaml:"redis_url"`

	// CacheTTL is the cache TTL in seconds (0 = no expiration).
	CacheTTL int `yaml:"cache_ttl"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		Model:             "gpt-4o-mini",
		TargetLangs:       []string{"ko", "ja"},
		ChunkSize:         500,
		TermMinCount:      5,
		FineTuneThreshold: 20,
		SkipRatio:         0.10,
		StoreSentinels:    false,
		OutputMode:        "test",
		TermDBPath:        "doctran_terms.db",
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (or DefaultFileName if path is empty; a missing default file is not
// an error), then .env, then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Optional default file.
	default:
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	// Missing .env is the common case.
	_ = godotenv.Load()

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := firstEnv("DOCTRAN_OPENAI_API_KEY", "OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("DOCTRAN_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("DOCTRAN_FINETUNED_MODEL"); v != "" {
		cfg.FineTunedModel = v
	}
	if v := os.Getenv("DOCTRAN_TARGET_LANGS"); v != "" {
		cfg.TargetLangs = splitList(v)
	}
	if v, ok := envInt("DOCTRAN_CHUNK_SIZE"); ok {
		cfg.ChunkSize = v
	}
	if v, ok := envInt("DOCTRAN_TERM_MIN_COUNT"); ok {
		cfg.TermMinCount = v
	}
	if v, ok := envInt("DOCTRAN_FINETUNE_THRESHOLD"); ok {
		cfg.FineTuneThreshold = v
	}
	if v := os.Getenv("DOCTRAN_SKIP_RATIO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.SkipRatio = f
		}
	}
	if v := os.Getenv("DOCTRAN_STORE_SENTINELS"); v != "" {
		cfg.StoreSentinels = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("DOCTRAN_OUTPUT_MODE"); v != "" {
		cfg.OutputMode = v
	}
	if v := os.Getenv("DOCTRAN_TERM_DB"); v != "" {
		cfg.TermDBPath = v
	}
	if v := os.Getenv("DOCTRAN_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v, ok := envInt("DOCTRAN_CACHE_TTL"); ok {
		cfg.CacheTTL = v
	}
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.TermMinCount <= 0 {
		return fmt.Errorf("term_min_count must be positive, got %d", c.TermMinCount)
	}
	if c.FineTuneThreshold <= 0 {
		return fmt.Errorf("finetune_threshold must be positive, got %d", c.FineTuneThreshold)
	}
	if c.SkipRatio < 0 || c.SkipRatio > 1 {
		return fmt.Errorf("skip_ratio must be within [0, 1], got %v", c.SkipRatio)
	}
	if c.OutputMode != "test" && c.OutputMode != "real" {
		return fmt.Errorf("output_mode must be \"test\" or \"real\", got %q", c.OutputMode)
	}
	if len(c.TargetLangs) == 0 {
		return fmt.Errorf("target_langs must not be empty")
	}
	return nil
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
