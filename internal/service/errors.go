package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error kinds. Handlers choose the HTTP status with errors.Is against these.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("rate limited")
	ErrUnavailable  = errors.New("unavailable")
)

// DetailError carries the message shown to clients next to its kind.
type DetailError struct {
	Kind   error
	Detail string
}

func (e *DetailError) Error() string { return e.Detail }
func (e *DetailError) Unwrap() error { return e.Kind }

func detail(kind error, msg string) error {
	return &DetailError{Kind: kind, Detail: msg}
}

func detailf(kind error, format string, args ...any) error {
	return &DetailError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// IncompleteError lists the profile sections blocking an approval request.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string { return "Complete all sections before requesting approval." }
func (e *IncompleteError) Unwrap() error { return ErrValidation }

// MailError wraps a delivery failure that must surface to the caller.
type MailError struct {
	Err error
}

func (e *MailError) Error() string { return "Failed to send email: " + e.Err.Error() }
func (e *MailError) Unwrap() error { return e.Err }

var (
	ErrOTPInvalid   = detail(ErrValidation, "Invalid or expired OTP.")
	ErrOTPThrottled = detail(ErrRateLimited, "Too many OTP requests. Please try again later.")

	ErrHotelNotFound         = detail(ErrNotFound, "Hotel not found.")
	ErrHotelAlreadyActive    = detail(ErrValidation, "This hotel is already active (approved). No approval request is needed.")
	ErrApprovalNotRequested  = detail(ErrValidation, "This hotel has not requested approval yet.")
	ErrAdminOnly             = detail(ErrForbidden, "Access denied: admin only.")
	ErrActivationViaApproval = detail(ErrForbidden, "Hotel activation must be done via the admin approval endpoint.")
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
