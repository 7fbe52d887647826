package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrRunNotReady = errors.New("run has not produced a report yet")
)

// InterviewError aborts Phase 1. It names the persona and concept that failed.
type InterviewError struct {
	PersonaID   string
	PersonaName string
	ConceptID   string
	ConceptName string
	Err         error
}

func (e *InterviewError) Error() string {
	return fmt.Sprintf("interview with %s on concept %q failed: %v", e.PersonaName, e.ConceptName, e.Err)
}

func (e *InterviewError) Unwrap() error {
	return e.Err
}

// ResponseFormatError reports collaborator output that does not match the expected shape
type ResponseFormatError struct {
	Reason string
	Err    error
}

func (e *ResponseFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}
