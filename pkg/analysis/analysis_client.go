// Package analysis talks to the inference proxy and turns its replies into
// domain.AnalysisResult values.
package analysis

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/pkg/frame"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 4 << 20

var (
	ErrNetwork           = errors.New("analysis request failed")
	ErrRemote            = errors.New("analysis service returned an error")
	ErrMalformedResponse = errors.New("analysis response is malformed")
	ErrInvalidInput      = errors.New("exactly one of image or query is required")
)

type (
	// Input holds exactly one of an encoded image or a text query.
	Input struct {
		Image *frame.Encoded
		Query string
	}

	Client interface {
		Analyze(ctx context.Context, input Input, mode domain.ScanMode) (domain.AnalysisResult, error)
	}

	client struct {
		endpoint   string
		httpClient *http.Client
		now        func() time.Time
	}
)

func ImageInput(encoded frame.Encoded) Input {
	return Input{Image: &encoded}
}

func QueryInput(query string) Input {
	return Input{Query: query}
}

func NewClient(endpoint string, timeout time.Duration) Client {
	return NewClientWithHTTP(endpoint, &http.Client{Timeout: timeout})
}

func NewClientWithHTTP(endpoint string, httpClient *http.Client) Client {
	return &client{
		endpoint:   endpoint,
		httpClient: httpClient,
		now:        time.Now,
	}
}

func (c *client) Analyze(ctx context.Context, input Input, mode domain.ScanMode) (domain.AnalysisResult, error) {
	if !mode.Valid() {
		return domain.AnalysisResult{}, domain.ErrInvalidScanMode
	}
	query := strings.TrimSpace(input.Query)
	if (input.Image == nil) == (query == "") {
		return domain.AnalysisResult{}, ErrInvalidInput
	}

	request := domain.AnalyzeRequest{Type: mode.WireType()}
	if input.Image != nil {
		uri := input.Image.DataURI()
		request.ImageData = &uri
	} else {
		request.Query = query
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	var envelope domain.AnalyzeResponse
	decodeErr := json.Unmarshal(body, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := strings.TrimSpace(string(body))
		if decodeErr == nil && envelope.Message != "" {
			message = envelope.Message
		}
		return domain.AnalysisResult{}, fmt.Errorf("%w: status %d: %s", ErrRemote, resp.StatusCode, message)
	}
	if decodeErr != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}
	if envelope.Error {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %s", ErrRemote, envelope.Message)
	}
	if !envelope.Success {
		return domain.AnalysisResult{}, fmt.Errorf("%w: missing success flag", ErrMalformedResponse)
	}

	return Normalize(envelope.Analysis, c.now()), nil
}
