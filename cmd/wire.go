package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizdoc/internal/config"
	"github.com/abhisek/quizdoc/internal/extract"
	"github.com/abhisek/quizdoc/internal/generate"
	"github.com/abhisek/quizdoc/internal/history"
	"github.com/abhisek/quizdoc/internal/llm"
	"github.com/abhisek/quizdoc/internal/logging"
	"github.com/abhisek/quizdoc/internal/remote"
	"github.com/abhisek/quizdoc/internal/storage"
	"github.com/abhisek/quizdoc/internal/store"
)

// runtime bundles what every command needs: configuration, a logger and
// the open store.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store

	provider    llm.Provider
	providerErr error
}

// setup loads configuration, builds the logger and opens the store. The
// returned runtime must be closed.
func setup(cmd *cobra.Command, console bool) (*runtime, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("log-file"); p != "" {
		cfg.Log.File = p
	}

	logger, err := logging.New(cfg.Log, logging.Options{Console: console})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	logger.Debug("runtime ready", zap.String("db", dbPath), zap.String("config", cfg.File))
	return &runtime{cfg: cfg, logger: logger, store: st}, nil
}

func (r *runtime) Close() {
	_ = r.logger.Sync()
	_ = r.store.Close()
}

// llmProvider builds the LLM provider once. A missing configuration is
// remembered and reported by callers that actually need a model.
func (r *runtime) llmProvider(ctx context.Context) (llm.Provider, error) {
	if r.provider == nil && r.providerErr == nil {
		r.provider, r.providerErr = llm.NewProvider(ctx, r.cfg.LLM, r.store.EventRepo(), r.logger)
	}
	return r.provider, r.providerErr
}

// extractor builds the extraction adapter with the configured OCR engine
// and archive.
func (r *runtime) extractor(ctx context.Context) (*extract.Adapter, error) {
	ec := r.cfg.Extract

	var ocr extract.OCREngine
	switch ec.OCREngine {
	case "tesseract":
		ocr = extract.NewTesseractOCR(ec.TesseractPath, ec.TesseractLang, ec.OCRTimeout)
	default:
		if p, err := r.llmProvider(ctx); err == nil {
			ocr = extract.NewLLMOCR(p)
		} else {
			r.logger.Warn("image OCR unavailable", zap.Error(err))
		}
	}

	opts := []extract.Option{
		extract.WithLimits(extract.Limits{MaxImages: ec.MaxImages, MaxPDFPages: ec.MaxPDFPages}),
		extract.WithLogger(r.logger),
	}
	archive, err := storage.New(ctx, r.cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("init archive: %w", err)
	}
	if archive != nil {
		opts = append(opts, extract.WithArchive(archive, r.cfg.Archive.Prefix))
	}
	return extract.NewAdapter(ocr, opts...), nil
}

func (r *runtime) generatorConfig() generate.Config {
	gc := r.cfg.Generate
	cfg := generate.DefaultConfig()
	if gc.MaxTokens > 0 {
		cfg.MaxTokens = gc.MaxTokens
	}
	cfg.Temperature = gc.Temperature
	cfg.MaxSourceChars = gc.MaxSourceChars
	cfg.Structured = gc.Structured
	return cfg
}

// llmGenerator returns a generator calling the LLM provider directly.
func (r *runtime) llmGenerator(ctx context.Context) (*generate.LLMGenerator, error) {
	p, err := r.llmProvider(ctx)
	if err != nil {
		return nil, err
	}
	return generate.New(p, r.generatorConfig()), nil
}

// generator returns the remote endpoint client when an endpoint is set,
// the LLM generator otherwise. status describes the choice for display.
func (r *runtime) generator(ctx context.Context, endpoint string) (gen generate.Generator, status string, err error) {
	if endpoint == "" {
		endpoint = r.cfg.Generate.Endpoint
	}
	if endpoint != "" {
		return remote.New(endpoint, r.cfg.Generate.EndpointTimeout, remote.WithLogger(r.logger)), endpoint, nil
	}
	g, err := r.llmGenerator(ctx)
	if err != nil {
		return nil, "", err
	}
	return g, r.provider.ModelID(), nil
}

// recorder returns the history recorder, or nil when history is off.
func (r *runtime) recorder() *history.Recorder {
	if !r.cfg.Generate.SaveHistory {
		return nil
	}
	return history.NewRecorder(r.store.QuizRepo(), r.logger)
}
