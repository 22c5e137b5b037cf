package handlers

import (
	"Supermarket-Vision-Backend/domain"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInference struct {
	got    domain.AnalyzeRequest
	result json.RawMessage
	err    error
}

func (s *stubInference) Analyze(_ context.Context, req domain.AnalyzeRequest) (json.RawMessage, error) {
	s.got = req
	return s.result, s.err
}

func postAnalyze(t *testing.T, svc *stubInference, body string) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Post("/functions/v1/analyze-product", NewAnalyzeHandler(svc).AnalyzeProduct)

	req := httptest.NewRequest("POST", "/functions/v1/analyze-product", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestAnalyzeProductSuccess(t *testing.T) {
	svc := &stubInference{result: json.RawMessage(`[{"name":"Milk","confidence":0.9}]`)}

	status, out := postAnalyze(t, svc, `{"type":"realtime-scan","imageData":"data:image/jpeg;base64,/9j/"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, out["success"])
	items, ok := out["analysis"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
	assert.Equal(t, domain.AnalysisTypeRealtime, svc.got.Type)
}

func TestAnalyzeProductFailures(t *testing.T) {
	status, out := postAnalyze(t, &stubInference{err: errors.New("OpenAI API key not configured")}, `{"type":"analyze","query":"milk"}`)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, true, out["error"])
	assert.Equal(t, "OpenAI API key not configured", out["message"])

	status, out = postAnalyze(t, &stubInference{}, `not json`)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, true, out["error"])
}
