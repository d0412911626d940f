package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ribara/skillbridge/internal/config"
	"github.com/ribara/skillbridge/internal/extract"
	"github.com/ribara/skillbridge/internal/llm"
	"github.com/ribara/skillbridge/internal/logger"
	"github.com/ribara/skillbridge/internal/session"
	"github.com/ribara/skillbridge/internal/tutor"
	"github.com/ribara/skillbridge/internal/webctx"
)

// app bundles the wired components a subcommand needs.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	client   llm.Client
	analyzer *extract.Analyzer
	store    session.Store
	tutor    *tutor.Controller
}

// loadConfig merges config file, environment and global flags.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if flagConfigPath != "" {
		loaded, err := config.Load(flagConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if flagAPIKey != "" {
		cfg.APIKey = flagAPIKey
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	if flagLogJSON {
		cfg.LogJSON = true
	}
	cfg.FromEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp wires the full stack. Close releases the LLM client and the
// session store.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogJSON, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	llmCfg := llm.DefaultConfig()
	if cfg.Model != "" {
		llmCfg = llmCfg.
			WithModel(llm.TierStandard, cfg.Model).
			WithModel(llm.TierAdvanced, cfg.Model)
	}

	client, err := llm.NewGeminiClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	svc := llm.NewService(client, llmCfg, log)
	analyzer := extract.NewAnalyzer(svc, nil, nil, log)

	var store session.Store
	if cfg.DatabaseURL != "" {
		store, err = session.NewPostgresStore(ctx, cfg.DatabaseURL)
	} else {
		store, err = session.NewFileStore(cfg.SessionDir)
	}
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	web := webctx.NewDuckDuckGo(log)
	ctl := tutor.NewController(svc, store, web, cfg.RefreshInterval, nil, log)

	return &app{
		cfg:      cfg,
		log:      log,
		client:   client,
		analyzer: analyzer,
		store:    store,
		tutor:    ctl,
	}, nil
}

func (a *app) Close() {
	if err := a.client.Close(); err != nil {
		a.log.Warn("closing LLM client", zap.Error(err))
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing session store", zap.Error(err))
	}
	_ = a.log.Sync()
}
