package summarizer

import (
	"context"
	"strings"

	"news-summarizer/internal/services/article"
	"news-summarizer/internal/services/llm"

	"github.com/rs/zerolog/log"
)

// Fetcher retrieves the plain text of an article.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Service builds prompts for the completion service and relays its answers.
type Service struct {
	llm     llm.Client
	fetcher Fetcher
}

// NewService creates a new Service
func NewService(llmClient llm.Client, fetcher Fetcher) *Service {
	return &Service{
		llm:     llmClient,
		fetcher: fetcher,
	}
}

// Summarize asks the completion service for a summary of text plus the
// analyses enabled in req and returns the answer verbatim.
func (s *Service) Summarize(ctx context.Context, text string, req AnalysisRequest) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &InvalidInputError{Field: "text"}
	}

	log.Debug().
		Int("max_length", req.MaxLength).
		Bool("sentiment", req.Sentiment).
		Bool("entities", req.Entities).
		Bool("topic", req.Topic).
		Str("language", req.Language).
		Msg("Summarizing text")

	result, err := s.llm.Complete(ctx, llm.CompletionRequest{
		Prompt:      BuildSummaryPrompt(text, req),
		MaxTokens:   req.MaxTokens(),
		Temperature: summaryTemperature,
	})
	if err != nil {
		return "", &RemoteServiceError{Op: "summarize", StatusCode: llm.StatusCode(err), Err: err}
	}
	return result, nil
}

// SummarizeFromURL fetches the article at url and summarizes it. When the
// article cannot be fetched the completion service is not called and a
// *article.FetchError is returned.
func (s *Service) SummarizeFromURL(ctx context.Context, url string, req AnalysisRequest) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", &InvalidInputError{Field: "url"}
	}

	text, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", &article.FetchError{URL: url, Err: article.ErrEmptyContent}
	}

	return s.Summarize(ctx, text, req)
}

// Translate asks the completion service to translate text. Output longer than
// the flat token budget is truncated by the provider.
func (s *Service) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &InvalidInputError{Field: "text"}
	}
	if strings.TrimSpace(targetLanguage) == "" {
		return "", &InvalidInputError{Field: "target_language"}
	}

	result, err := s.llm.Complete(ctx, llm.CompletionRequest{
		Prompt:      BuildTranslatePrompt(text, targetLanguage),
		MaxTokens:   translateMaxTokens,
		Temperature: translateTemperature,
	})
	if err != nil {
		return "", &RemoteServiceError{Op: "translate", StatusCode: llm.StatusCode(err), Err: err}
	}
	return result, nil
}
