package services

import (
	"errors"
	"fmt"

	"alfredoptarigan/ai-interviewer/internal/models"
)

var (
	ErrInterviewNotFound = errors.New("interview not found or invalid ID")
	ErrInterviewStatus   = errors.New("interview cannot be continued")
	ErrMissingUserID     = errors.New("user ID was not associated during start")
	ErrInvalidUserID     = errors.New("invalid user ID format")
	ErrUserExists        = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
)

// ValidationError marks a failure caused by the caller's input. Message is
// safe to return to clients.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StatusError reports a turn sent to an interview that is no longer in
// progress.
type StatusError struct {
	Status models.InterviewStatus
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Interview cannot be continued, status is: %s", e.Status)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrInterviewStatus
}
