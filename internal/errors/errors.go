package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrEmptyPlaylist    = errors.New("no audio files found")
	ErrInvalidPath      = errors.New("not a file or directory")
	ErrDecodeFailure    = errors.New("failed to decode audio")
	ErrNoCandidateFound = errors.New("no playable candidate found")
	ErrAudioUnavailable = errors.New("audio output unavailable")
	ErrNoLibrary        = errors.New("no library configured")
	ErrNoSession        = errors.New("no saved session")
	ErrConfigNotFound   = errors.New("config file not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// StrumError wraps an error with a user-friendly suggestion.
type StrumError struct {
	Err        error
	Suggestion string
}

func (e *StrumError) Error() string {
	return e.Err.Error()
}

func (e *StrumError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &StrumError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// Check if it's already a StrumError with suggestion
	var strumErr *StrumError
	if errors.As(err, &strumErr) && strumErr.Suggestion != "" {
		return strumErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	// Library errors
	if errors.Is(err, ErrNoLibrary) || strings.Contains(errStr, "no library") {
		return "Run 'strum config set-library' to choose a music directory"
	}

	if errors.Is(err, ErrEmptyPlaylist) || errors.Is(err, ErrNoCandidateFound) ||
		strings.Contains(errStr, "no audio files") {
		return "Run 'strum library scan' to check what strum can see in your library"
	}

	if errors.Is(err, ErrInvalidPath) || strings.Contains(errStr, "no such file") {
		return "Check that the path exists and points to an album directory"
	}

	// Decode errors
	if errors.Is(err, ErrDecodeFailure) || strings.Contains(errStr, "decode") {
		return "The file may be corrupt or in a container strum cannot decode (mp3, flac, wav and ogg play natively)"
	}

	// Audio backend errors
	if errors.Is(err, ErrAudioUnavailable) || strings.Contains(errStr, "audio device") ||
		strings.Contains(errStr, "alsa") {
		return "No audio output device was found. Check your sound configuration"
	}

	// Config errors
	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) ||
		strings.Contains(errStr, "config") {
		return "Run 'strum config init' to write a fresh configuration file"
	}

	if errors.Is(err, ErrNoSession) {
		return "Play something first; strum saves your session on quit"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
