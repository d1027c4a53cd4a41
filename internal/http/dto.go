package http

import (
	"news-summarizer/internal/services/summarizer"
)

// SupportedLanguages are the translation targets offered to clients.
var SupportedLanguages = []string{"French", "Tamil", "German", "Chinese", "Hindi"}

// SummarizeRequest represents a summarization request. URL takes precedence
// over Text when both are set. Analysis flags default to true.
type SummarizeRequest struct {
	URL       string `json:"url,omitempty" validate:"omitempty,http_url"`
	Text      string `json:"text,omitempty"`
	MaxLength int    `json:"max_length,omitempty" validate:"omitempty,min=50,max=200"`
	Sentiment *bool  `json:"sentiment,omitempty"`
	Entities  *bool  `json:"entities,omitempty"`
	Topic     *bool  `json:"topic,omitempty"`
	Language  string `json:"language,omitempty" validate:"omitempty,max=50"`
}

// AnalysisRequest fills in defaults for omitted fields.
func (r SummarizeRequest) AnalysisRequest() summarizer.AnalysisRequest {
	req := summarizer.DefaultAnalysisRequest()
	if r.MaxLength != 0 {
		req.MaxLength = r.MaxLength
	}
	if r.Sentiment != nil {
		req.Sentiment = *r.Sentiment
	}
	if r.Entities != nil {
		req.Entities = *r.Entities
	}
	if r.Topic != nil {
		req.Topic = *r.Topic
	}
	if r.Language != "" {
		req.Language = r.Language
	}
	return req
}

// TranslateRequest represents a translation request
type TranslateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language" validate:"required,oneof=French Tamil German Chinese Hindi"`
}

// ResultResponse carries the completion text unmodified
type ResultResponse struct {
	Result string `json:"result"`
}

type LanguagesResponse struct {
	Languages []string `json:"languages"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

// Common error codes
const (
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeFetchFailed = "FETCH_FAILED"
	ErrCodeUpstream    = "UPSTREAM_ERROR"
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeBadRequest  = "BAD_REQUEST"
)

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}
