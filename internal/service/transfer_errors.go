package service

import (
	"errors"
	"fmt"
	"strings"

	"go-fleet-ws/internal/model"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPrecondition      = errors.New("precondition failed")
	ErrTransferNotFound  = errors.New("transfer not found")
)

// Validation error codes.
const (
	CodeRequired          = "Required"
	CodeInvalidValue      = "InvalidValue"
	CodeSameSite          = "SameSite"
	CodeUnexpectedPayload = "UnexpectedPayload"
	CodeNotFound          = "NotFound"
	CodeSiteMismatch      = "SiteMismatch"
	CodeMachineBusy       = "MachineBusy"
	CodeConsumption       = "Consumption"
)

// ValidationError rejects input before any state is touched.
type ValidationError struct {
	Code    string
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func newValidationError(code, message string, fields ...string) *ValidationError {
	return &ValidationError{Code: code, Fields: fields, Message: message}
}

// InvalidTransitionError reports a status change the lifecycle does not allow.
// Stale is set when the record moved between load and write.
type InvalidTransitionError struct {
	From  model.TransferStatus
	To    model.TransferStatus
	Stale bool
}

func (e *InvalidTransitionError) Error() string {
	if e.Stale {
		return fmt.Sprintf("transfer changed concurrently while moving %s -> %s; reload and retry", e.From, e.To)
	}
	return fmt.Sprintf("cannot move transfer from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// PreconditionError reports an operation that needs a state the transfer has not reached.
type PreconditionError struct {
	Operation string
	Status    model.TransferStatus
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s is not available while the transfer is %s", e.Operation, e.Status)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }
