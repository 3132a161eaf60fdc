// Command evaluate runs a full human-vs-AI response evaluation over a CSV
// dataset and writes one JSON snapshot of the results.
//
// The embedding dimension requires OPENAI_API_KEY. The qualitative judge
// dimension is optional: when the configured provider's API key is absent
// the run proceeds without it and the snapshot marks every judgment null.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"

	"github.com/ahrav/go-mimic/infrastructure/dataset"
	"github.com/ahrav/go-mimic/infrastructure/embedding"
	"github.com/ahrav/go-mimic/infrastructure/llm"
	"github.com/ahrav/go-mimic/infrastructure/metrics"
	"github.com/ahrav/go-mimic/infrastructure/scorers"
	"github.com/ahrav/go-mimic/infrastructure/storage"
	"github.com/ahrav/go-mimic/internal/application"
	"github.com/ahrav/go-mimic/internal/domain"
	"github.com/ahrav/go-mimic/internal/ports"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	datasetPath := flag.String("dataset", "", "override dataset CSV path")
	outputPath := flag.String("output", "", "override snapshot output path")
	topN := flag.Int("top", 0, "override number of weakest matches to report")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*configPath, *datasetPath, *outputPath, *topN, logger); err != nil {
		logger.Error("evaluation failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, datasetPath, outputPath string, topN int, logger *slog.Logger) error {
	config, err := application.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if datasetPath != "" {
		config.DatasetPath = datasetPath
	}
	if outputPath != "" {
		config.OutputPath = outputPath
	}
	if topN > 0 {
		config.TopN = topN
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewPrometheusCollector("mimic_eval")

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for the embedding dimension")
	}
	embedder, err := embedding.NewOpenAIEmbedder(embedding.Config{
		APIKey: openAIKey,
		Model:  config.Embedding.Model,
	})
	if err != nil {
		return fmt.Errorf("create embedder: %w", err)
	}
	cachedEmbedder, err := embedding.NewCachedEmbedder(embedder, config.Embedding.CacheSize)
	if err != nil {
		return fmt.Errorf("create embedding cache: %w", err)
	}

	semantic, err := scorers.NewSemanticScorer(cachedEmbedder, nil)
	if err != nil {
		return err
	}
	stylistic := scorers.NewStylisticScorer(nil)

	judgeClient := buildJudgeClient(config, collector, logger)
	judge, err := scorers.NewJudgeScorer(judgeClient, scorers.JudgeConfig{
		MaxConcurrency: config.Judge.MaxConcurrency,
		RequestTimeout: config.Judge.RequestTimeout.Std(),
	}, logger)
	if err != nil {
		return err
	}

	evaluator, err := application.NewEvaluator(
		config,
		dataset.NewCSVLoader(config.DatasetPath),
		semantic,
		stylistic,
		judge,
		storage.NewJSONStore(config.OutputPath),
		logger,
	)
	if err != nil {
		return err
	}

	snapshot, err := evaluator.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(snapshot, config.OutputPath)
	return nil
}

// buildJudgeClient returns nil when the provider's API key is not set,
// which downgrades the run to the two automated dimensions.
func buildJudgeClient(config application.Config, collector ports.MetricsCollector, logger *slog.Logger) ports.LLMClient {
	envVar := "ANTHROPIC_API_KEY"
	if config.Judge.Provider == "openai" {
		envVar = "OPENAI_API_KEY"
	}
	apiKey := os.Getenv(envVar)
	if apiKey == "" {
		logger.Warn("judge disabled", "reason", envVar+" not set")
		return nil
	}

	client, err := llm.NewClient(config.Judge.Provider, llm.ClientConfig{
		APIKey: apiKey,
		Model:  config.Judge.Model,
		Middleware: []llm.Middleware{
			llm.MetricsMiddleware(collector),
			llm.TracingMiddleware(otel.Tracer("go-mimic/llm")),
			llm.RateLimitMiddleware(float64(config.Judge.MaxConcurrency), config.Judge.MaxConcurrency),
			llm.TimeoutMiddleware(config.Judge.RequestTimeout.Std()),
		},
	})
	if err != nil {
		logger.Warn("judge disabled", "reason", err)
		return nil
	}
	return client
}

func printSummary(snapshot *domain.EvaluationSnapshot, outputPath string) {
	fmt.Println("==============================================")
	fmt.Println("EVALUATION SUMMARY")
	fmt.Println("==============================================")
	fmt.Printf("Run ID:        %s\n", snapshot.Metadata.RunID)
	fmt.Printf("Pairs:         %d (%d persons, %d categories)\n",
		snapshot.Metadata.TotalPairs, snapshot.Metadata.NumPersons, snapshot.Metadata.NumCategories)

	semantic := snapshot.Aggregate.Semantic
	fmt.Printf("Semantic:      mean cosine %.3f (min %.3f, max %.3f)\n",
		semantic.MeanCosine, semantic.MinCosine, semantic.MaxCosine)

	stylistic := snapshot.Aggregate.Stylistic
	fmt.Printf("Stylistic:     mean style score %.3f, %.1f%% with human-like imperfections\n",
		stylistic.MeanStyleScore, stylistic.PctWithImperfections)

	judge := snapshot.Aggregate.Judge
	if judge.Count > 0 {
		fmt.Printf("LLM judge:     mean overall %.2f/10 over %d pairs\n", judge.MeanOverallScore, judge.Count)
		for _, weakness := range judge.CommonWeaknesses {
			fmt.Printf("  weakness: %s (%d)\n", weakness.Weakness, weakness.Count)
		}
	} else {
		fmt.Println("LLM judge:     skipped")
	}

	if len(snapshot.WeakestMatches) > 0 {
		fmt.Println("Weakest matches:")
		for _, match := range snapshot.WeakestMatches {
			fmt.Printf("  pair %d (%s/%s): composite %.3f\n",
				match.PairID, match.PersonID, match.Category, match.CompositeScore)
		}
	}

	fmt.Printf("Snapshot written to %s\n", outputPath)
}
