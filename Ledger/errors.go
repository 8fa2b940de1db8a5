package Ledger

import (
	"errors"
	"fmt"
)

var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrTreatmentNotFound = errors.New("treatment not found")
	ErrPaymentNotFound   = errors.New("payment not found")

	// ErrTreatmentClosed rejects mutations against a completed treatment.
	ErrTreatmentClosed = errors.New("treatment is completed and closed for changes")

	// ErrInvalidEdit rejects a payment edit that points at a different
	// treatment than the payment belongs to.
	ErrInvalidEdit = errors.New("payment edit does not belong to the original treatment")

	// ErrInvalidTransition rejects completing an already completed
	// treatment or reopening one that is already active.
	ErrInvalidTransition = errors.New("treatment is already in the requested state")
)

// ValidationError reports bad input. It is always raised before any
// storage is touched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PersistenceError wraps a failed atomic unit. The transaction has been
// rolled back by the time one of these is returned; nothing from the
// attempt survives.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
