// doctran — batch translation pipeline for structured technical documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ZaguanLabs/doctran"
	"github.com/ZaguanLabs/doctran/cache"
	"github.com/ZaguanLabs/doctran/config"
	"github.com/ZaguanLabs/doctran/cost"
	_ "github.com/ZaguanLabs/doctran/document"
	"github.com/ZaguanLabs/doctran/provider"
	"github.com/ZaguanLabs/doctran/termmine"
	"github.com/ZaguanLabs/doctran/termstore"
	"github.com/spf13/cobra"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	configPath string
	outputMode string
	fineTuned  bool
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "doctran",
		Short: "Batch translation pipeline for structured technical documents",
		Long: `doctran — batch translation pipeline for structured technical documents.

Translates SGML/DocBook, Markdown, and AsciiDoc documentation into Korean
and Japanese while byte-preserving every structural token. Along the way it
mines recurring domain terminology into a persistent store and, once enough
new terms accumulate, submits a fine-tuning job so future runs use a model
that already knows the project's vocabulary.

Commands:
  translate         Translate a single document
  translate-folder  Translate every supported document under a folder
  predict-cost      Estimate the API cost of translating a folder
  finetune          Submit and inspect fine-tuning jobs
  models            List models available to the API key
  cache             Export or import the translation cache`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: doctran.yaml if present)")

	root.AddCommand(
		newTranslateCmd(),
		newTranslateFolderCmd(),
		newPredictCostCmd(),
		newFinetuneCmd(),
		newModelsCmd(),
		newCacheCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// signalContext returns a context cancelled by SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if outputMode != "" {
		cfg.OutputMode = outputMode
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func newClient(cfg config.Config) (*provider.OpenAIClient, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not set (OPENAI_API_KEY or DOCTRAN_OPENAI_API_KEY)")
	}
	model := cfg.Model
	if fineTuned {
		if cfg.FineTunedModel == "" {
			return nil, fmt.Errorf("--finetuned requires finetuned_model in config or DOCTRAN_FINETUNED_MODEL")
		}
		model = cfg.FineTunedModel
	}
	return provider.NewOpenAIClient(provider.OpenAIConfig{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       model,
		TargetLangs: cfg.TargetLangs,
	}), nil
}

// buildPipeline wires the full pipeline from config. The returned
// cleanup closes the store and cache and must always run.
func buildPipeline(cfg config.Config) (*doctran.Pipeline, func(), error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := termstore.OpenSQLite(cfg.TermDBPath)
	if err != nil {
		return nil, nil, err
	}

	var translationCache doctran.TranslationCache
	var closeCache func()
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			URL: cfg.RedisURL,
			TTL: cfg.CacheTTL,
		})
		if err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("connecting to Redis: %w", err)
		}
		translationCache = redisCache
		closeCache = func() { redisCache.Close() }
	} else {
		translationCache = cache.NewInMemoryCache(cfg.CacheTTL)
	}

	p := doctran.NewPipeline(client,
		doctran.WithStore(store),
		doctran.WithCache(translationCache),
		doctran.WithMiner(termmine.NewMiner(termmine.NewProseTagger(), cfg.TermMinCount)),
		doctran.WithChunkSize(cfg.ChunkSize),
		doctran.WithFineTuneThreshold(cfg.FineTuneThreshold),
		doctran.WithIncludeUntrained(!fineTuned),
		doctran.WithSkipRatio(cfg.SkipRatio),
		doctran.WithStoreSentinels(cfg.StoreSentinels),
		doctran.WithOutputMode(doctran.OutputMode(cfg.OutputMode)),
		doctran.WithTargetLangs(cfg.TargetLangs...),
		doctran.WithLog(logInfo),
	)

	cleanup := func() {
		if closeCache != nil {
			closeCache()
		}
		if err := store.Close(); err != nil {
			logWarning("closing terminology store: %v", err)
		}
	}
	return p, cleanup, nil
}

// ---------------------------------------------------------------------------
// translate (single file)
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <file>",
		Short: "Translate a single document",
		Long: `Translate one SGML, Markdown, or AsciiDoc document.

In test output mode (the default) the translation is written to
translated/translated_<name> next to the source. In real mode the source
is first renamed to <name>_original<ext> and the translation written in
its place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(args[0])
		},
	}

	cmd.Flags().StringVar(&outputMode, "output-mode", "", `Output mode: "test" or "real"`)
	cmd.Flags().BoolVar(&fineTuned, "finetuned", false, "Use the configured fine-tuned model")

	return cmd
}

func runTranslate(path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, cleanup, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signalContext()
	defer stop()

	result, err := p.TranslateFile(ctx, path)
	if err != nil {
		return fmt.Errorf("%s aborted at %s: %w", path, result.Stage, err)
	}

	switch result.Stage {
	case doctran.StageSkipExit:
		logInfo("%s already translated, skipped", path)
	default:
		logSuccess("%s -> %s (%d units, %d cached)", path, result.OutputPath, result.Units, result.Cached)
	}
	return nil
}

// ---------------------------------------------------------------------------
// translate-folder (batch)
// ---------------------------------------------------------------------------

func newTranslateFolderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate-folder <dir>",
		Short: "Translate every supported document under a folder",
		Long: `Walk a folder and translate every supported document.

Files are processed sequentially. A failing file is logged and the batch
continues; the command exits zero as long as the walk itself succeeded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslateFolder(args[0])
		},
	}

	cmd.Flags().StringVar(&outputMode, "output-mode", "", `Output mode: "test" or "real"`)
	cmd.Flags().BoolVar(&fineTuned, "finetuned", false, "Use the configured fine-tuned model")

	return cmd
}

func runTranslateFolder(dir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, cleanup, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signalContext()
	defer stop()

	logInfo("translating folder %s", dir)
	folder, err := p.TranslateFolder(ctx, dir)
	if err != nil && err != context.Canceled {
		return err
	}

	for _, f := range folder.Files {
		if f.Stage == doctran.StageAborted {
			logWarning("%s failed at %s: %v", f.Path, f.Stage, f.Err)
		}
	}
	logSuccess("done: %d translated, %d skipped, %d failed (of %d)",
		folder.Done, folder.Skipped, folder.Aborted, len(folder.Files))
	return nil
}

// ---------------------------------------------------------------------------
// predict-cost
// ---------------------------------------------------------------------------

func newPredictCostCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "predict-cost <dir>",
		Short: "Estimate the API cost of translating a folder",
		Long: `Tokenize every supported document under a folder and estimate the
API cost for a model. Interrupting with Ctrl-C prints the partial
estimate counted so far.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredictCost(args[0], model)
		},
	}

	cmd.Flags().StringVar(&model, "model", "gpt-4o-mini", "Model to price against")

	return cmd
}

func runPredictCost(dir, model string) error {
	enc, err := cost.NewTiktokenEncoder()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	logInfo("analyzing folder %s for model %s", dir, model)
	est, ferr := cost.EstimateFolder(ctx, dir, model, enc)
	if ferr != nil && ferr != context.Canceled {
		return ferr
	}
	if ferr == context.Canceled {
		logWarning("interrupted, showing partial results")
	}

	for _, skipped := range est.Skipped {
		logWarning("skipped %s", skipped)
	}
	fmt.Printf("Files:          %d\n", est.Files)
	fmt.Printf("Total tokens:   %d\n", est.Tokens)
	fmt.Printf("Input cost:     $%.2f\n", est.InputCost)
	fmt.Printf("Output cost:    $%.2f\n", est.OutputCost)
	fmt.Printf("Estimated cost: $%.2f (%s)\n", est.TotalCost, est.Model)
	return nil
}

// ---------------------------------------------------------------------------
// finetune (job inspection)
// ---------------------------------------------------------------------------

func newFinetuneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finetune",
		Short: "Submit and inspect fine-tuning jobs",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "submit",
			Short: "Submit a fine-tuning job from the stored untrained terms",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runFinetuneSubmit()
			},
		},
		&cobra.Command{
			Use:   "status <job-id>",
			Short: "Show the status of a fine-tuning job",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runFinetuneStatus(args[0])
			},
		},
	)

	return cmd
}

func runFinetuneSubmit() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	store, err := termstore.OpenSQLite(cfg.TermDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signalContext()
	defer stop()

	untrained, err := store.FetchUntrained(ctx)
	if err != nil {
		return err
	}

	var examples []doctran.TrainingExample
	var sources []string
	for _, entry := range untrained {
		usable := true
		for lang, text := range entry.Translations {
			if text == doctran.SentinelMarker(lang) {
				usable = false
				break
			}
		}
		if !usable {
			continue
		}
		examples = append(examples, doctran.TrainingExample{
			Source:       entry.Source,
			Translations: entry.Translations,
		})
		sources = append(sources, entry.Source)
	}

	if len(examples) < cfg.FineTuneThreshold {
		logWarning("only %d untrained terms, need %d", len(examples), cfg.FineTuneThreshold)
		return nil
	}

	jobID, err := client.SubmitFineTune(ctx, examples)
	if err != nil {
		return err
	}
	if err := store.MarkTrained(ctx, sources); err != nil {
		return err
	}
	logSuccess("submitted fine-tuning job %s with %d terms", jobID, len(examples))
	return nil
}

func runFinetuneStatus(jobID string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	status, err := client.FineTuneStatus(ctx, jobID)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", jobID, status)
	return nil
}

// ---------------------------------------------------------------------------
// models
// ---------------------------------------------------------------------------

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models available to the API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels()
		},
	}
}

func runModels() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	models, err := client.ListModels(ctx)
	if err != nil {
		return err
	}
	for _, id := range models {
		fmt.Println(id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// cache export / import
// ---------------------------------------------------------------------------

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Export or import the translation cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "export <file>",
			Short: "Export Redis cache entries to a JSON file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCacheExport(args[0])
			},
		},
		&cobra.Command{
			Use:   "import <file>",
			Short: "Import cache entries from a JSON file into Redis",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCacheImport(args[0])
			},
		},
	)

	return cmd
}

func openRedisCache(cfg config.Config) (*cache.RedisCache, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("cache commands require redis_url in config or DOCTRAN_REDIS_URL")
	}
	return cache.NewRedisCache(cache.RedisConfig{URL: cfg.RedisURL, TTL: cfg.CacheTTL})
}

func runCacheExport(path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	redisCache, err := openRedisCache(cfg)
	if err != nil {
		return err
	}
	defer redisCache.Close()

	// The exporter walks in-memory caches; a Redis export goes through a
	// staging copy loaded by key scan.
	// TODO: stream directly from Redis with SCAN instead of staging.
	staging := cache.NewInMemoryCache(0)
	if err := cache.CopyRedisEntries(redisCache, staging); err != nil {
		return err
	}

	if err := cache.NewExporter(staging).ExportToFile(path, map[string]string{
		"langs": fmt.Sprint(cfg.TargetLangs),
	}); err != nil {
		return err
	}
	logSuccess("cache exported to %s", filepath.Clean(path))
	return nil
}

func runCacheImport(path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	redisCache, err := openRedisCache(cfg)
	if err != nil {
		return err
	}
	defer redisCache.Close()

	result, err := cache.NewImporter(redisCache).ImportFromFile(path)
	if err != nil {
		return err
	}
	logSuccess("imported %d entries (%d failed)", result.Imported, result.Failed)
	return nil
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", doctran.Name, doctran.Version)
			fmt.Printf("  commit:  %s\n", doctran.GitCommit)
			fmt.Printf("  built:   %s\n", doctran.BuildDate)
		},
	}
}
