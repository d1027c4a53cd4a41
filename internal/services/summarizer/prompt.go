package summarizer

import (
	"fmt"
	"strings"
)

const (
	DefaultMaxLength = 150
	DefaultLanguage  = "english"

	summaryTemperature   = 0.7
	translateTemperature = 0.3
	translateMaxTokens   = 1000

	// analysisTokenHeadroom is reserved on top of the summary length for the
	// analysis sections.
	analysisTokenHeadroom = 200

	sentimentInstruction = "- Overall sentiment"
	entitiesInstruction  = "- Key entities (people, organizations, locations) mentioned"
	topicInstruction     = "- Topic classification"

	// Indent of every non-blank line after the first.
	promptIndent = "        "
)

// AnalysisRequest selects the summary length and the analysis sections to
// ask for.
type AnalysisRequest struct {
	MaxLength int
	Sentiment bool
	Entities  bool
	Topic     bool
	// Language is accepted for compatibility but does not affect the prompt.
	Language string
}

// DefaultAnalysisRequest asks for a 150 word summary with every analysis.
func DefaultAnalysisRequest() AnalysisRequest {
	return AnalysisRequest{
		MaxLength: DefaultMaxLength,
		Sentiment: true,
		Entities:  true,
		Topic:     true,
		Language:  DefaultLanguage,
	}
}

// MaxTokens is the completion budget for a summary of req.MaxLength words.
func (req AnalysisRequest) MaxTokens() int {
	return req.MaxLength + analysisTokenHeadroom
}

// BuildSummaryPrompt renders the summarization prompt. Disabled analyses
// leave an empty line in place so every flag combination keeps the same
// shape.
func BuildSummaryPrompt(text string, req AnalysisRequest) string {
	lines := []string{
		fmt.Sprintf("Summarize the following text in about %d words:", req.MaxLength),
		"",
		promptIndent + text,
		"",
		promptIndent + "Then, provide an analysis of the summary:",
		promptIndent + optional(req.Sentiment, sentimentInstruction),
		promptIndent + optional(req.Entities, entitiesInstruction),
		promptIndent + optional(req.Topic, topicInstruction),
		"",
		promptIndent + "Summary and Analysis:",
	}
	return strings.Join(lines, "\n")
}

func BuildTranslatePrompt(text, targetLanguage string) string {
	return fmt.Sprintf("Translate the following text to %s: %s", targetLanguage, text)
}

func optional(enabled bool, line string) string {
	if enabled {
		return line
	}
	return ""
}
