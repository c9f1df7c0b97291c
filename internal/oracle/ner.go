package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/amishk599/skillsift/internal/gate"
	"github.com/amishk599/skillsift/internal/metrics"
	"github.com/amishk599/skillsift/internal/model"
)

// Entity is one span recognized by the NER oracle.
type Entity struct {
	Group string  `json:"entity_group"`
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// NERClient calls a token-classification endpoint that speaks the Hugging
// Face inference protocol with simple aggregation. When a gate is set, calls
// queue behind generation calls for the same slot.
type NERClient struct {
	url        string
	token      string
	httpClient *http.Client
	gate       *gate.Gate
	metrics    *metrics.Metrics
}

// NewNERClient creates a client for the endpoint at url. token and g may be empty.
func NewNERClient(url, token string, httpClient *http.Client, g *gate.Gate, m *metrics.Metrics) *NERClient {
	return &NERClient{
		url:        url,
		token:      token,
		httpClient: httpClient,
		gate:       g,
		metrics:    m,
	}
}

type nerRequest struct {
	Inputs     string        `json:"inputs"`
	Parameters nerParameters `json:"parameters"`
}

type nerParameters struct {
	AggregationStrategy string `json:"aggregation_strategy"`
}

// Recognize returns the entities found in text, in the order the oracle reports them.
func (c *NERClient) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if c.gate == nil {
		return c.recognize(ctx, text)
	}
	return gate.Run(ctx, c.gate, func(ctx context.Context) ([]Entity, error) {
		return c.recognize(ctx, text)
	})
}

func (c *NERClient) recognize(ctx context.Context, text string) (entities []Entity, err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveOracle("ner", time.Since(start), err) }()

	body, err := json.Marshal(nerRequest{
		Inputs:     text,
		Parameters: nerParameters{AggregationStrategy: "simple"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal ner request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create ner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ner response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(respBytes), maxErrorBody)}
	}

	if err := json.Unmarshal(respBytes, &entities); err != nil {
		return nil, fmt.Errorf("parse ner response: %w", err)
	}
	return entities, nil
}
