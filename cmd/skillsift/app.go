package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/tmc/langchaingo/embeddings"

	"github.com/amishk599/skillsift/internal/config"
	"github.com/amishk599/skillsift/internal/embedcache"
	"github.com/amishk599/skillsift/internal/gate"
	"github.com/amishk599/skillsift/internal/metrics"
	"github.com/amishk599/skillsift/internal/oracle"
	"github.com/amishk599/skillsift/internal/pipeline"
	"github.com/amishk599/skillsift/internal/skills"
	"github.com/amishk599/skillsift/internal/store"
)

// app is the fully wired service shared by every command.
type app struct {
	pipeline *pipeline.Pipeline
	gate     *gate.Gate
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	closers  []io.Closer
}

func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// buildApp wires oracles, cache tiers and pipeline stages from cfg. It embeds
// the technical reference sets, so it needs a reachable embedding oracle.
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	g := gate.New(m)

	a := &app{gate: g, registry: reg, metrics: m}

	generator, err := setupGenerator(cfg.LLM, g, m, logger)
	if err != nil {
		return nil, err
	}

	embedder, err := setupEmbedder(cfg.Embedding, m)
	if err != nil {
		return nil, err
	}

	st, err := setupEmbeddingStore(ctx, cfg.Embedding, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, st)

	cache, err := embedcache.New(embedder, cfg.Embedding.CacheSize, st, m, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	technical, err := skills.NewTechnicalClassifier(ctx, cache, embedder,
		cfg.Analysis.TechnicalThreshold, cfg.Analysis.SupportBonus, m, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init technical classifier: %w", err)
	}

	var candidates pipeline.CandidateExtractor
	switch cfg.Analysis.SkillSource {
	case config.SkillSourceNER:
		ner := oracle.NewNERClient(cfg.NER.URL, cfg.NER.Token, &http.Client{Timeout: cfg.NER.Timeout}, g, m)
		candidates = skills.NewNERCandidateExtractor(ner, m, logger)
		logger.Info("using ner skill candidates", "url", cfg.NER.URL)
	default:
		candidates = skills.NewLLMCandidateExtractor(generator, m, logger)
	}

	a.pipeline = pipeline.New(pipeline.Stages{
		Seniority:   skills.NewSeniorityClassifier(generator, m, logger),
		Candidates:  candidates,
		Technical:   technical,
		Levels:      skills.NewLevelAssigner(generator, m, logger),
		Merger:      skills.NewMerger(cache, cfg.Analysis.MergeThreshold, m, logger),
		Categorizer: skills.NewCategorizer(generator, cfg.Analysis.ChunkSize, m, logger),
		Grouper:     skills.NewHierarchicalGrouper(generator, cfg.Analysis.ChunkSize, m, logger),
	}, logger)

	return a, nil
}

func setupGenerator(cfg config.LLMConfig, g *gate.Gate, m *metrics.Metrics, logger *slog.Logger) (*oracle.Client, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	var (
		provider oracle.Provider
		placer   oracle.Placer
	)
	switch cfg.Provider {
	case config.ProviderOllama:
		llm, err := oracle.NewOllamaModel(cfg.BaseURL, cfg.Model, httpClient)
		if err != nil {
			return nil, err
		}
		provider = oracle.NewLangChainProvider(llm, cfg.Temperature)
		if cfg.EnsureResident {
			placer = oracle.NewOllamaResidency(cfg.BaseURL, cfg.Model, cfg.KeepAlive, httpClient)
		}
	default:
		provider = oracle.NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Temperature, httpClient)
	}

	logger.Info("generation oracle configured", "provider", cfg.Provider, "model", cfg.Model, "base_url", cfg.BaseURL)
	return oracle.NewClient(provider, g, placer, m, logger), nil
}

func setupEmbedder(cfg config.EmbeddingConfig, m *metrics.Metrics) (*oracle.LangChainEmbedder, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	var client embeddings.EmbedderClient
	switch cfg.Provider {
	case config.ProviderOllama:
		llm, err := oracle.NewOllamaModel(cfg.BaseURL, cfg.Model, httpClient)
		if err != nil {
			return nil, err
		}
		client = llm
	default:
		llm, err := oracle.NewOpenAIEmbeddingModel(cfg.BaseURL, cfg.APIKey, cfg.Model, httpClient)
		if err != nil {
			return nil, err
		}
		client = llm
	}
	return oracle.NewLangChainEmbedder(client, m)
}

type embeddingStore interface {
	embedcache.Store
	io.Closer
}

func setupEmbeddingStore(ctx context.Context, cfg config.EmbeddingConfig, logger *slog.Logger) (embeddingStore, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		st, err := store.NewSQLiteStore(cfg.SQLitePath, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("open embedding store: %w", err)
		}
		if n, err := st.Count(ctx); err == nil {
			logger.Info("sqlite embedding store opened", "path", cfg.SQLitePath, "entries", n)
		}
		return st, nil
	case config.StoreRedis:
		st, err := store.NewRedisStore(ctx, cfg.RedisURL, cfg.Model, cfg.RedisTTL)
		if err != nil {
			return nil, fmt.Errorf("open embedding store: %w", err)
		}
		logger.Info("redis embedding store connected")
		return st, nil
	default:
		return store.NewNopStore(), nil
	}
}
