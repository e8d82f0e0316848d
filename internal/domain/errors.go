package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a quiz session does not exist or was already discarded.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionFinished is returned when a finished session is asked for another question or answer.
	ErrSessionFinished = errors.New("quiz session already finished")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrNoResults is returned when a success rate is requested for an empty result list.
	ErrNoResults = errors.New("no results to score")
	// ErrInvalidRate is returned when a grade is requested for a negative rate.
	ErrInvalidRate = errors.New("rate must be a positive number")
)

// ConfigFormatError reports a configuration file that is not valid JSON.
type ConfigFormatError struct {
	Path string
	Err  error
}

func (e *ConfigFormatError) Error() string {
	return fmt.Sprintf("malformed configuration %s: %v", e.Path, e.Err)
}

func (e *ConfigFormatError) Unwrap() error { return e.Err }

// InvalidConfigError reports a well-formed configuration with the wrong shape or missing files.
type InvalidConfigError struct {
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

// QuestionCountError rejects a requested number of questions before a session is built.
type QuestionCountError struct {
	Requested int
	Available int
}

func (e *QuestionCountError) Error() string {
	if e.Requested < 0 {
		return "number of questions must be a positive number"
	}
	return fmt.Sprintf("number of questions option is bigger than number of questions available: %d", e.Available)
}
