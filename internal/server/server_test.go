package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/skillsift/internal/metrics"
	"github.com/amishk599/skillsift/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	gotText   string
	gotSkills []string
	gotLevels *model.SkillLevels
}

func (f *fakeService) Analyze(_ context.Context, text string) model.AnalysisResult {
	f.gotText = text
	return model.AnalysisResult{
		Seniority: model.SenioritySenior,
		Skills: model.SkillLevelsOf(
			model.SkillLevel{Name: "Kafka", Level: 4},
			model.SkillLevel{Name: "Go", Level: 5},
		),
	}
}

func (f *fakeService) GroupSkills(_ context.Context, skills []string) model.CategoryMap {
	f.gotSkills = skills
	out := model.CategoryMap{}
	for _, s := range skills {
		out[s] = "Backend"
	}
	return out
}

func (f *fakeService) GroupSkillLevels(_ context.Context, skills *model.SkillLevels) model.SkillGroups {
	f.gotLevels = skills
	return model.SkillGroups{"Backend": skills.Map()}
}

func newTestServer(t *testing.T) (*fakeService, http.Handler) {
	t.Helper()
	reg := prometheus.NewRegistry()
	svc := &fakeService{}
	s := New(svc, metrics.New(reg), reg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, s.Handler()
}

func do(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAnalyze(t *testing.T) {
	svc, h := newTestServer(t)

	w := do(h, http.MethodPost, "/analyze", `{"text":"Senior Go engineer"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Senior Go engineer", svc.gotText)
	assert.Equal(t, `{"seniority":"senior","skills":{"Kafka":4,"Go":5}}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestAnalyze_EmptyTextAccepted(t *testing.T) {
	_, h := newTestServer(t)

	w := do(h, http.MethodPost, "/analyze", `{"text":""}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyze_BadBody(t *testing.T) {
	_, h := newTestServer(t)

	for _, body := range []string{`{}`, `not json`, `{"text": 42}`} {
		w := do(h, http.MethodPost, "/analyze", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
}

func TestGroupSkills(t *testing.T) {
	svc, h := newTestServer(t)

	w := do(h, http.MethodPost, "/groupSkills", `{"skills":["Go","gRPC"]}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Go", "gRPC"}, svc.gotSkills)
	assert.JSONEq(t, `{"Go":"Backend","gRPC":"Backend"}`, w.Body.String())
}

func TestGroupSkills_MissingSkills(t *testing.T) {
	_, h := newTestServer(t)

	w := do(h, http.MethodPost, "/groupSkills", `{"skill":["Go"]}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGroupSkillLevels(t *testing.T) {
	svc, h := newTestServer(t)

	w := do(h, http.MethodPost, "/groupSkillLevels", `{"skills":{"Rust":3,"Go":5}}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.gotLevels)
	assert.Equal(t, []string{"Rust", "Go"}, svc.gotLevels.Names())
	assert.JSONEq(t, `{"Backend":{"Rust":3,"Go":5}}`, w.Body.String())
}

func TestGroupSkillLevels_NonIntegerLevel(t *testing.T) {
	_, h := newTestServer(t)

	w := do(h, http.MethodPost, "/groupSkillLevels", `{"skills":{"Rust":"high"}}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	_, h := newTestServer(t)

	w := do(h, http.MethodGet, "/healthz", "", map[string]string{requestIDHeader: "abc-123"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCORS_AnyOrigin(t *testing.T) {
	_, h := newTestServer(t)

	w := do(h, http.MethodOptions, "/analyze", "", map[string]string{
		"Origin":                         "https://jobs.example.com",
		"Access-Control-Request-Method":  "POST",
		"Access-Control-Request-Headers": "Content-Type",
	})

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "https://jobs.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	do(h, http.MethodGet, "/healthz", "", nil)
	w := do(h, http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
