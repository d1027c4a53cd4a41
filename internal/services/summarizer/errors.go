package summarizer

import (
	"errors"
	"fmt"

	"news-summarizer/internal/services/article"
)

// FetchFailedMessage is shown in place of a summary when the article could
// not be retrieved.
const FetchFailedMessage = "Failed to fetch article content."

// InvalidInputError is returned before any network call when a required
// input is empty.
type InvalidInputError struct {
	Field string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s is required", e.Field)
}

// RemoteServiceError wraps any failure of the completion service.
type RemoteServiceError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RemoteServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: completion service returned %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: completion service: %v", e.Op, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text to display for err. Fetch failures collapse
// into FetchFailedMessage; everything else keeps its cause.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var fetchErr *article.FetchError
	if errors.As(err, &fetchErr) {
		return FetchFailedMessage
	}
	return err.Error()
}
