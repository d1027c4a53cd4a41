package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"news-summarizer/internal/services/article"
	"news-summarizer/internal/services/summarizer"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const (
	msgMissingArticle     = "Please enter a URL or article text to summarize."
	msgMissingTranslation = "Please enter text to translate."
	maxRequestBodyBytes   = 1 << 20
)

// SummarizerHandler handles summarization and translation HTTP requests
type SummarizerHandler struct {
	service  *summarizer.Service
	validate *validator.Validate
}

// NewSummarizerHandler creates a new SummarizerHandler
func NewSummarizerHandler(service *summarizer.Service) *SummarizerHandler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &SummarizerHandler{
		service:  service,
		validate: validate,
	}
}

// RegisterRoutes registers all summarizer routes
func (h *SummarizerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/summarize", h.Summarize)
		r.Post("/translate", h.Translate)
		r.Get("/languages", h.Languages)
	})
}

// Summarize handles article summarization from a URL or pasted text
func (h *SummarizerHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.URL) == "" && strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, NewErrorResponse(ErrCodeValidation, msgMissingArticle))
		return
	}

	var (
		result string
		err    error
	)
	if req.URL != "" {
		result, err = h.service.SummarizeFromURL(r.Context(), req.URL, req.AnalysisRequest())
	} else {
		result, err = h.service.Summarize(r.Context(), req.Text, req.AnalysisRequest())
	}
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ResultResponse{Result: result})
}

// Translate handles free-text translation
func (h *SummarizerHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if !h.decode(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, NewErrorResponse(ErrCodeValidation, msgMissingTranslation))
		return
	}

	result, err := h.service.Translate(r.Context(), req.Text, req.TargetLanguage)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ResultResponse{Result: result})
}

// Languages lists the supported translation targets
func (h *SummarizerHandler) Languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LanguagesResponse{Languages: SupportedLanguages})
}

// decode reads and validates a JSON body, writing the error response itself
// when it returns false.
func (h *SummarizerHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, NewErrorResponse(ErrCodeBadRequest, "invalid request body"))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, NewErrorResponse(ErrCodeValidation, validationMessage(err)))
		return false
	}
	return true
}

func (h *SummarizerHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		fetchErr  *article.FetchError
		remoteErr *summarizer.RemoteServiceError
		inputErr  *summarizer.InvalidInputError
	)

	switch {
	case errors.As(err, &inputErr):
		writeError(w, http.StatusBadRequest, NewErrorResponse(ErrCodeValidation, inputErr.Error()))
	case errors.As(err, &fetchErr):
		writeError(w, http.StatusBadGateway, NewErrorResponse(ErrCodeFetchFailed, summarizer.UserMessage(err)))
	case errors.As(err, &remoteErr):
		log.Error().Err(err).Str("op", remoteErr.Op).Msg("Completion service failed")
		resp := NewErrorResponse(ErrCodeUpstream, summarizer.UserMessage(err))
		resp.Error.UpstreamStatus = remoteErr.StatusCode
		writeError(w, http.StatusBadGateway, resp)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, NewErrorResponse(ErrCodeInternal, "Internal server error"))
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "min":
			msgs = append(msgs, fe.Field()+" must be at least "+fe.Param())
		case "max":
			msgs = append(msgs, fe.Field()+" must be at most "+fe.Param())
		case "http_url":
			msgs = append(msgs, fe.Field()+" must be an http or https URL")
		case "oneof":
			msgs = append(msgs, fe.Field()+" must be one of "+strings.Join(SupportedLanguages, ", "))
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, resp *ErrorResponse) {
	writeJSON(w, status, resp)
}
