package oracle

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/amishk599/skillsift/internal/gate"
	"github.com/amishk599/skillsift/internal/metrics"
)

// outputDelimiter marks where the answer starts when a model echoes its prompt.
const outputDelimiter = "OUTPUT:"

// Client is the single entry point for text generation. Every call goes
// through the gate and no error ever leaves Generate.
type Client struct {
	provider Provider
	gate     *gate.Gate
	placer   Placer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewClient creates a generation client. placer may be nil.
func NewClient(provider Provider, g *gate.Gate, placer Placer, m *metrics.Metrics, logger *slog.Logger) *Client {
	return &Client{
		provider: provider,
		gate:     g,
		placer:   placer,
		metrics:  m,
		logger:   logger.With("component", "oracle"),
	}
}

// Generate returns the generated text for prompt, trimmed and cut after the
// first "OUTPUT:" marker if present. Any failure yields "".
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) string {
	raw, err := gate.Run(ctx, c.gate, func(ctx context.Context) (string, error) {
		c.ensureResident(ctx)

		start := time.Now()
		out, err := c.provider.Complete(ctx, prompt, maxTokens)
		c.metrics.ObserveOracle("generate", time.Since(start), err)
		return out, err
	})
	if err != nil {
		c.logger.Warn("generation failed", "error", err, "max_tokens", maxTokens)
		c.metrics.Fallback("oracle")
		return ""
	}

	c.logger.Debug("generation output", "max_tokens", maxTokens, "output", raw)
	return cutOutput(raw)
}

// ensureResident loads the model when the backend reports it is not loaded.
// Failures are logged and generation is attempted anyway.
func (c *Client) ensureResident(ctx context.Context) {
	if c.placer == nil {
		return
	}
	ok, err := c.placer.Resident(ctx)
	if err != nil {
		c.logger.Warn("residency check failed", "error", err)
		return
	}
	if ok {
		return
	}
	c.logger.Info("model not resident, loading")
	if err := c.placer.Place(ctx); err != nil {
		c.logger.Warn("model load failed", "error", err)
	}
}

func cutOutput(raw string) string {
	raw = strings.TrimSpace(raw)
	if _, after, found := strings.Cut(raw, outputDelimiter); found {
		return strings.TrimSpace(after)
	}
	return raw
}
