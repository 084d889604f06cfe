package services

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidSIREN          = errors.New("invalid siren")
	ErrQuestionnaireConflict = errors.New("questionnaire submitted concurrently")
)
