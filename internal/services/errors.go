package services

import (
	"errors"
	"fmt"
)

var (
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrNoActiveInstances   = errors.New("no active instances available")
	ErrNothingToPause      = errors.New("no pending messages to pause")
	ErrNoPauseBatchFound   = errors.New("no pause batch found")
	ErrBatchAlreadyResumed = errors.New("pause batch already resumed")
	ErrMessageNotFound     = errors.New("message not found")
)

// ValidationError is returned before any mutation when input or campaign state is invalid
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PartialActivationFailure reports that activation stopped after Inserted rows were
// written. Re-running activation is safe and only inserts what is missing.
type PartialActivationFailure struct {
	Inserted int
	Err      error
}

func (e *PartialActivationFailure) Error() string {
	return fmt.Sprintf("activation aborted after inserting %d messages: %v", e.Inserted, e.Err)
}

func (e *PartialActivationFailure) Unwrap() error {
	return e.Err
}

// AuditWriteFailure reports that a pause or resume could not be recorded. Nothing changed.
type AuditWriteFailure struct {
	Err error
}

func (e *AuditWriteFailure) Error() string {
	return fmt.Sprintf("failed to write audit batch: %v", e.Err)
}

func (e *AuditWriteFailure) Unwrap() error {
	return e.Err
}
