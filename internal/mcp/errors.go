package mcp

import (
	"errors"
	"fmt"

	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/ganot/activitylog/internal/domain/timeline"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var verr *activity.ValidationError
	switch {
	case errors.As(err, &verr):
		return &APIError{
			Code:         "VALIDATION_FAILED",
			Message:      verr.Error(),
			Details:      map[string]string{"field": verr.Field},
			RecoveryHint: "Fix the named field and retry",
		}
	case errors.Is(err, activity.ErrValidation):
		return &APIError{Code: "VALIDATION_FAILED", Message: err.Error(), RecoveryHint: "Fix the request and retry"}
	case errors.Is(err, timeline.ErrSubjectNotFound):
		return &APIError{Code: "SUBJECT_NOT_FOUND", Message: err.Error(), RecoveryHint: "Check the customer or company ID"}
	case errors.Is(err, timeline.ErrSourceNotFound):
		return &APIError{Code: "SOURCE_NOT_FOUND", Message: err.Error(), RecoveryHint: "Create the note or message before logging it"}
	case errors.Is(err, activity.ErrStorage):
		return &APIError{Code: "STORAGE_UNAVAILABLE", Message: "activity storage unavailable", RecoveryHint: "Retry later"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

// protocolError is a request-level failure with a fixed JSON-RPC code.
type protocolError struct {
	code int
	msg  string
}

func (e *protocolError) Error() string {
	return e.msg
}

func (e *protocolError) JSONRPCCode() int {
	return e.code
}

var (
	// ErrUnknownMethod indicates a JSON-RPC method with no handler.
	ErrUnknownMethod error = &protocolError{code: -32601, msg: "unknown method"}
	// ErrInvalidParams indicates params that could not be decoded.
	ErrInvalidParams error = &protocolError{code: -32602, msg: "invalid params"}
)
