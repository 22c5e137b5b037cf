package inference

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/internal/utils"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	maxTokens   = 1000
	temperature = 0.3
)

// Provider sends one prompt, with an optional image data URI, to a hosted
// vision-language model and returns the model's raw text reply.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string, imageDataURI *string) (string, error)
}

func NewProvider(config utils.Config, httpClient *http.Client) (Provider, error) {
	switch strings.ToLower(config.AIProvider) {
	case "", ProviderOpenAI:
		return &openAIProvider{
			apiKey:     config.OpenAIAPIKey,
			model:      config.OpenAIModel,
			baseURL:    strings.TrimRight(config.OpenAIBaseURL, "/"),
			httpClient: httpClient,
		}, nil
	case ProviderGemini:
		return &geminiProvider{
			apiKey:     config.GeminiAPIKey,
			model:      config.GeminiModel,
			baseURL:    strings.TrimRight(config.GeminiBaseURL, "/"),
			httpClient: httpClient,
		}, nil
	}
	return nil, fmt.Errorf("unknown AI_PROVIDER %q", config.AIProvider)
}

type openAIProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func (p *openAIProvider) Name() string { return ProviderOpenAI }

func (p *openAIProvider) Complete(ctx context.Context, prompt string, imageDataURI *string) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY: %w", domain.ErrMissingAPIKey)
	}

	content := []map[string]any{
		{"type": "text", "text": prompt},
	}
	if imageDataURI != nil {
		content = append(content, map[string]any{
			"type": "image_url",
			"image_url": map[string]any{
				"url":    *imageDataURI,
				"detail": "high",
			},
		})
	}

	requestBody := map[string]any{
		"model": p.model,
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}

	var reply struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}
	if err := postJSON(ctx, p.httpClient, p.baseURL+"/chat/completions", headers, requestBody, &reply, "OpenAI"); err != nil {
		return "", err
	}

	if len(reply.Choices) == 0 {
		return "", domain.ErrUpstreamNoContent
	}
	return reply.Choices[0].Message.Content, nil
}

type geminiProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func (p *geminiProvider) Name() string { return ProviderGemini }

func (p *geminiProvider) Complete(ctx context.Context, prompt string, imageDataURI *string) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY: %w", domain.ErrMissingAPIKey)
	}

	parts := []map[string]any{
		{"text": prompt},
	}
	if imageDataURI != nil {
		mimeType, data := splitDataURI(*imageDataURI)
		parts = append(parts, map[string]any{
			"inline_data": map[string]any{
				"mime_type": mimeType,
				"data":      data,
			},
		})
	}

	requestBody := map[string]any{
		"contents": []map[string]any{
			{"parts": parts},
		},
		"generationConfig": map[string]any{
			"temperature":     temperature,
			"topP":            0.8,
			"topK":            40,
			"maxOutputTokens": maxTokens,
		},
	}

	var reply struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, p.model, url.QueryEscape(p.apiKey))
	if err := postJSON(ctx, p.httpClient, endpoint, nil, requestBody, &reply, "Gemini"); err != nil {
		return "", err
	}

	if len(reply.Candidates) == 0 || len(reply.Candidates[0].Content.Parts) == 0 {
		return "", domain.ErrUpstreamNoContent
	}
	return reply.Candidates[0].Content.Parts[0].Text, nil
}

// splitDataURI returns the mime type and base64 payload of a data URI. A
// bare base64 string is assumed to be JPEG.
func splitDataURI(uri string) (string, string) {
	if !strings.HasPrefix(uri, "data:") {
		return "image/jpeg", uri
	}
	header, data, found := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !found {
		return "image/jpeg", ""
	}
	mimeType := strings.TrimSuffix(header, ";base64")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return mimeType, data
}

func postJSON(ctx context.Context, client *http.Client, endpoint string, headers map[string]string, body any, out any, upstream string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s API error: %d: %w: %s", upstream, resp.StatusCode, domain.ErrUpstreamFailed, strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode reply: %v", domain.ErrUpstreamFailed, err)
	}
	return nil
}
