// Package inference is the server side of the analyze-product proxy: it
// picks a prompt, calls the hosted model and relays its JSON reply.
package inference

import (
	"Supermarket-Vision-Backend/domain"
	"context"
	"encoding/json"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"regexp"
	"strings"
	"time"
)

const (
	queryCacheTTL     = 30 * time.Minute
	queryCacheCleanup = 10 * time.Minute
)

var (
	fencePattern  = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	arrayPattern  = regexp.MustCompile(`(?s)\[.*\]`)
)

type (
	// Observer is told about every upstream call.
	Observer interface {
		UpstreamCall(provider string, kind domain.AnalysisType, took time.Duration, err error)
	}

	InferenceService interface {
		Analyze(ctx context.Context, req domain.AnalyzeRequest) (json.RawMessage, error)
	}

	inferenceService struct {
		provider Provider
		limiter  *rate.Limiter
		cache    *cache.Cache
		observer Observer
	}
)

// NewInferenceService rate limits upstream calls to rps per second; rps <= 0
// disables the limit.
func NewInferenceService(provider Provider, rps int, observer Observer) InferenceService {
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = rps
	}
	return &inferenceService{
		provider: provider,
		limiter:  rate.NewLimiter(limit, burst),
		cache:    cache.New(queryCacheTTL, queryCacheCleanup),
		observer: observer,
	}
}

func (s *inferenceService) Analyze(ctx context.Context, req domain.AnalyzeRequest) (json.RawMessage, error) {
	kind := req.Type
	if kind == "" {
		kind = domain.AnalysisTypeAnalyze
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAnalysis, req.Type)
	}

	image := req.ImageData
	if image != nil && strings.TrimSpace(*image) == "" {
		image = nil
	}
	query := strings.TrimSpace(req.Query)

	var cacheKey string
	if image == nil {
		if kind != domain.AnalysisTypeIngredients {
			return nil, domain.ErrMissingImage
		}
		if query == "" {
			return nil, domain.ErrMissingQuery
		}
		cacheKey = string(kind) + ":" + strings.ToLower(query)
		if cached, ok := s.cache.Get(cacheKey); ok {
			return cached.(json.RawMessage), nil
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailed, err)
	}

	prompt := promptFor(kind, image != nil, query)
	start := time.Now()
	text, err := s.provider.Complete(ctx, prompt, image)
	if s.observer != nil {
		s.observer.UpstreamCall(s.provider.Name(), kind, time.Since(start), err)
	}
	if err != nil {
		log.Errorf("%s analysis (%s) failed: %v", s.provider.Name(), kind, err)
		return nil, err
	}
	log.Debugf("%s analysis (%s) replied with %d bytes", s.provider.Name(), kind, len(text))

	analysis := ParseReply(text)
	if cacheKey != "" {
		s.cache.SetDefault(cacheKey, analysis)
	}
	return analysis, nil
}

// ParseReply extracts the JSON document from a model reply. Replies that
// hold no JSON become {"message": <text>, "items": []}.
func ParseReply(text string) json.RawMessage {
	trimmed := strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(trimmed); m != nil {
		trimmed = strings.TrimSpace(m[1])
	}
	if json.Valid([]byte(trimmed)) && trimmed != "" {
		return json.RawMessage(trimmed)
	}

	// prose around a JSON document: take whichever document starts first
	best, bestAt := "", -1
	for _, pattern := range []*regexp.Regexp{objectPattern, arrayPattern} {
		loc := pattern.FindStringIndex(trimmed)
		if loc == nil {
			continue
		}
		candidate := trimmed[loc[0]:loc[1]]
		if json.Valid([]byte(candidate)) && (bestAt == -1 || loc[0] < bestAt) {
			best, bestAt = candidate, loc[0]
		}
	}
	if bestAt != -1 {
		return json.RawMessage(best)
	}

	fallback, _ := json.Marshal(domain.TextAnalysis{Message: text, Items: []any{}})
	return fallback
}
