package oracle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/amishk599/skillsift/internal/metrics"
	"github.com/amishk599/skillsift/internal/model"
)

// LangChainProvider adapts any langchaingo model to Provider.
type LangChainProvider struct {
	llm         llms.Model
	temperature float64
}

// NewLangChainProvider wraps llm.
func NewLangChainProvider(llm llms.Model, temperature float64) *LangChainProvider {
	return &LangChainProvider{llm: llm, temperature: temperature}
}

// Complete generates a completion for prompt.
func (p *LangChainProvider) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, p.llm, prompt,
		llms.WithMaxTokens(maxTokens),
		llms.WithTemperature(p.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return out, nil
}

// NewOllamaModel connects to an Ollama server. The returned model serves both
// generation and embeddings.
func NewOllamaModel(serverURL, modelName string, httpClient *http.Client) (*ollama.LLM, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(modelName),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	return llm, nil
}

// NewOpenAIEmbeddingModel connects to an OpenAI-compatible embeddings endpoint.
func NewOpenAIEmbeddingModel(baseURL, token, modelName string, httpClient *http.Client) (*openai.LLM, error) {
	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithEmbeddingModel(modelName),
		openai.WithHTTPClient(httpClient),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai embedding client: %w", err)
	}
	return llm, nil
}

// LangChainEmbedder adapts a langchaingo embedder to Embedder.
type LangChainEmbedder struct {
	embedder embeddings.Embedder
	metrics  *metrics.Metrics
}

// NewLangChainEmbedder builds an embedder on top of client.
func NewLangChainEmbedder(client embeddings.EmbedderClient, m *metrics.Metrics) (*LangChainEmbedder, error) {
	e, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return &LangChainEmbedder{embedder: e, metrics: m}, nil
}

// Embed returns the embedding of a single string.
func (e *LangChainEmbedder) Embed(ctx context.Context, text string) (model.Embedding, error) {
	start := time.Now()
	vec, err := e.embedder.EmbedQuery(ctx, text)
	e.metrics.ObserveOracle("embed", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("embed %q: %w", text, err)
	}
	return model.Embedding(vec), nil
}

// EmbedBatch returns one embedding per input, in input order.
func (e *LangChainEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]model.Embedding, error) {
	start := time.Now()
	vecs, err := e.embedder.EmbedDocuments(ctx, texts)
	e.metrics.ObserveOracle("embed", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("embed %d texts: %w", len(texts), err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embed: got %d vectors for %d texts", len(vecs), len(texts))
	}
	out := make([]model.Embedding, len(vecs))
	for i, v := range vecs {
		out[i] = model.Embedding(v)
	}
	return out, nil
}
