// Package repository turns document-store records into typed ward entities
// and back. Every call is refused unless an operator is signed in.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/dukerupert/wardbook/internal/docstore"
	"github.com/dukerupert/wardbook/internal/model"
)

type Kind string

const (
	KindUnavailable Kind = "unavailable"
	KindPermission  Kind = "permission"
	KindNotFound    Kind = "not_found"
	KindUnknown     Kind = "unknown"
)

// ErrNotSignedIn is wrapped by permission errors raised before any store
// call.
var ErrNotSignedIn = errors.New("not signed in")

// StoreError is a failed repository operation.
type StoreError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Gate reports whether data access is currently allowed.
type Gate interface {
	SignedIn() bool
}

func checkGate(gate Gate, op string) error {
	if !gate.SignedIn() {
		return &StoreError{Op: op, Kind: KindPermission, Err: ErrNotSignedIn}
	}
	return nil
}

// wrap classifies err for op. Validation errors pass through untouched.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve model.ValidationError
	if errors.As(err, &ve) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Kind: classify(err), Err: err}
}

func classify(err error) Kind {
	var netErr net.Error
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrNotSignedIn):
		return KindPermission
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.As(err, &netErr):
		return KindUnavailable
	}
	return KindUnknown
}

// IsKind reports whether err is a StoreError of kind k.
func IsKind(err error, k Kind) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == k
}

var kindText = map[Kind]string{
	KindUnavailable: "the records store is unavailable",
	KindPermission:  "please sign in first",
	KindNotFound:    "record not found",
	KindUnknown:     "unexpected error",
}

// UserMessage describes the failure without the underlying error text.
func (e *StoreError) UserMessage() string {
	text, ok := kindText[e.Kind]
	if !ok {
		text = kindText[KindUnknown]
	}
	return "Could not " + e.Op + ": " + text
}
