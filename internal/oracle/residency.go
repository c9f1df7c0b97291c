package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/amishk599/skillsift/internal/model"
)

// OllamaResidency keeps a model loaded on an Ollama server.
type OllamaResidency struct {
	baseURL    string
	model      string
	keepAlive  string
	httpClient *http.Client
}

// NewOllamaResidency creates a residency checker for modelName. keepAlive is
// passed through to Ollama (e.g. "30m", "-1").
func NewOllamaResidency(baseURL, modelName, keepAlive string, httpClient *http.Client) *OllamaResidency {
	return &OllamaResidency{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      modelName,
		keepAlive:  keepAlive,
		httpClient: httpClient,
	}
}

type psResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// Resident reports whether the model is currently loaded.
func (o *OllamaResidency) Resident(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/ps", nil)
	if err != nil {
		return false, fmt.Errorf("create ps request: %w", err)
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("ps request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return false, &model.HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var ps psResponse
	if err := json.NewDecoder(resp.Body).Decode(&ps); err != nil {
		return false, fmt.Errorf("decode ps response: %w", err)
	}
	for _, m := range ps.Models {
		if sameModel(m.Name, o.model) || sameModel(m.Model, o.model) {
			return true, nil
		}
	}
	return false, nil
}

// Place asks Ollama to load the model. An empty prompt loads without generating.
func (o *OllamaResidency) Place(ctx context.Context) error {
	body, err := json.Marshal(map[string]any{
		"model":      o.model,
		"prompt":     "",
		"stream":     false,
		"keep_alive": o.keepAlive,
	})
	if err != nil {
		return fmt.Errorf("marshal load request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create load request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("load request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &model.HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// sameModel treats "llama3" and "llama3:latest" as the same model.
func sameModel(loaded, want string) bool {
	if loaded == want {
		return true
	}
	if !strings.Contains(want, ":") {
		return loaded == want+":latest"
	}
	return false
}
