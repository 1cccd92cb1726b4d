package models

import "errors"

// ErrNotFound is returned by repositories when the requested row does not exist
var ErrNotFound = errors.New("record not found")

// Status is the status field of an operation result
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrorKind classifies failed operations
type ErrorKind string

const (
	KindConstraintViolation ErrorKind = "constraint_violation"
	KindNotFound            ErrorKind = "not_found"
	KindEngineUnavailable   ErrorKind = "engine_unavailable"
	KindUnexpected          ErrorKind = "unexpected"
)

// OperationResult is returned by every write and report operation
type OperationResult struct {
	Status  Status    `json:"status"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"error_kind,omitempty"`
	Data    any       `json:"data,omitempty"`
}

// Success creates a successful result, data may be nil
func Success(message string, data any) *OperationResult {
	return &OperationResult{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}
}

// Failure creates an error result of the given kind
func Failure(kind ErrorKind, message string) *OperationResult {
	return &OperationResult{
		Status:  StatusError,
		Message: message,
		Kind:    kind,
	}
}

// OK reports whether the operation succeeded
func (r *OperationResult) OK() bool {
	return r.Status == StatusSuccess
}
