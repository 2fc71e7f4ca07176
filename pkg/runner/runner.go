package runner

import (
	"context"
	"fmt"
	"time"

	"dictdoy/pkg/config"
	"dictdoy/pkg/dictionary"
	"dictdoy/pkg/llmservice"
	"dictdoy/pkg/logger"
	"dictdoy/pkg/lookup"
)

// LoadCallbacks 定义启动流程中的回调。
type LoadCallbacks struct {
	OnProgress func(phase string)
	OnError    func(stage string, err error)
}

// Services is everything a front end needs to answer queries.
type Services struct {
	Config     *config.AppConfig
	Logger     *logger.Logger
	Dictionary *dictionary.Dictionary
	Adapter    *lookup.Adapter
	Fallback   lookup.Fallback // nil unless llm.enabled
}

// Start loads the configuration at configPath (the default location when
// empty) and bootstraps the services.
func Start(ctx context.Context, configPath string, cb LoadCallbacks) (*Services, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if configPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFrom(configPath)
	}
	if err != nil {
		err = fmt.Errorf("failed to load configuration: %w", err)
		cb.error("config", err)
		return nil, err
	}

	log := logger.NewLogger(100) // Max 100 lines for in-memory log
	return Bootstrap(ctx, cfg, log, cb)
}

// Bootstrap builds the services from an already loaded configuration.
func Bootstrap(ctx context.Context, cfg *config.AppConfig, log *logger.Logger, cb LoadCallbacks) (*Services, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warnf("Using info log level: %v", err)
	}
	log.SetLevel(level)

	cb.progress("dictionary")
	started := time.Now()
	dict, err := dictionary.Load(ctx, dictionary.Source{
		CedictPath: cfg.Dictionary.CedictPath,
		HSKPath:    cfg.Dictionary.HSKPath,
	})
	if err != nil {
		log.Errorf("Dictionary loading failed: %v", err)
		err = fmt.Errorf("failed to load dictionary: %w", err)
		cb.error("dictionary", err)
		return nil, err
	}
	log.Infof("Loaded %d dictionary entries in %s", dict.Len(), time.Since(started).Round(time.Millisecond))

	svc := &Services{
		Config:     cfg,
		Logger:     log,
		Dictionary: dict,
		Adapter:    lookup.NewAdapter(dict),
	}

	if cfg.LLM.Enabled {
		cb.progress("llm")
		svc.Fallback = llmservice.NewLLMService(llmservice.LLMServiceConfig{
			BaseURL:    cfg.LLM.BaseURL,
			APIKey:     cfg.LLM.APIKey,
			Model:      cfg.LLM.Model,
			Prompt:     cfg.LLM.Prompt,
			Timeout:    time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
			MaxRetries: cfg.LLM.MaxRetries,
		}, log)
		log.Infof("LLM fallback enabled with model %s", cfg.LLM.Model)
	}

	cb.progress("ready")
	return svc, nil
}

func (cb LoadCallbacks) progress(phase string) {
	if cb.OnProgress != nil {
		cb.OnProgress(phase)
	}
}

func (cb LoadCallbacks) error(stage string, err error) {
	if cb.OnError != nil {
		cb.OnError(stage, err)
	}
}
