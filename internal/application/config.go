// Package application wires the scorers into an end-to-end evaluation run
// and carries its configuration.
package application

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs can use "30s" style strings.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// CompositeWeights blend the three dimensions into the ranking composite.
// They must sum to 1.
type CompositeWeights struct {
	Semantic  float64 `yaml:"semantic" validate:"gte=0,lte=1"`
	Stylistic float64 `yaml:"stylistic" validate:"gte=0,lte=1"`
	Judge     float64 `yaml:"judge" validate:"gte=0,lte=1"`
}

// JudgeSettings tune the qualitative judge.
type JudgeSettings struct {
	// Provider selects the LLM provider ("anthropic" or "openai").
	Provider string `yaml:"provider"`
	// Model overrides the provider default model when non-empty.
	Model string `yaml:"model"`
	// MaxConcurrency bounds in-flight judge requests.
	MaxConcurrency int `yaml:"max_concurrency" validate:"gt=0"`
	// RequestTimeout bounds each judge call.
	RequestTimeout Duration `yaml:"request_timeout" validate:"gt=0"`
}

// EmbeddingSettings tune the embedding client.
type EmbeddingSettings struct {
	// Model overrides the default embedding model when non-empty.
	Model string `yaml:"model"`
	// CacheSize bounds the per-run embedding memoization.
	CacheSize int `yaml:"cache_size" validate:"gt=0"`
}

// Config holds every tunable of an evaluation run.
type Config struct {
	// DatasetPath locates the CSV of response pairs.
	DatasetPath string `yaml:"dataset_path" validate:"required"`

	// OutputPath locates the snapshot JSON to write.
	OutputPath string `yaml:"output_path" validate:"required"`

	// TopN is how many weakest matches the snapshot reports.
	TopN int `yaml:"top_n" validate:"gt=0"`

	// NeutralJudgeScore substitutes for an absent qualitative score in the
	// ranking composite, already normalized to [0, 1].
	NeutralJudgeScore float64 `yaml:"neutral_judge_score" validate:"gte=0,lte=1"`

	Weights   CompositeWeights  `yaml:"weights"`
	Judge     JudgeSettings     `yaml:"judge"`
	Embedding EmbeddingSettings `yaml:"embedding"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		DatasetPath:       "data/response_pairs.csv",
		OutputPath:        "outputs/evaluation_results.json",
		TopN:              5,
		NeutralJudgeScore: 0.5,
		Weights: CompositeWeights{
			Semantic:  0.35,
			Stylistic: 0.35,
			Judge:     0.30,
		},
		Judge: JudgeSettings{
			Provider:       "anthropic",
			MaxConcurrency: 5,
			RequestTimeout: Duration(60 * time.Second),
		},
		Embedding: EmbeddingSettings{
			CacheSize: 1024,
		},
	}
}

// LoadConfig reads YAML from path over the defaults. An empty path returns
// the validated defaults unchanged.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks field constraints and that the weights form a convex
// combination.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	sum := c.Weights.Semantic + c.Weights.Stylistic + c.Weights.Judge
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("composite weights must sum to 1, got %.6f", sum)
	}
	return nil
}
