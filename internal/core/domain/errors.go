package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUserNotFound        = wrapNotFound("user not found")
	ErrOfferingNotFound    = wrapNotFound("service not found")
	ErrReservationNotFound = wrapNotFound("reservation not found")
	ErrCategoryNotFound    = wrapNotFound("category not found")
)

var (
	ErrDuplicateIdentity  = errors.New("user already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidInput       = errors.New("invalid input")
)

var (
	ErrInvalidCard       = errors.New("invalid card number")
	ErrCardExpired       = errors.New("card has expired")
	ErrNoAvailability    = errors.New("no places available for this service")
	ErrInvalidTransition = errors.New("invalid reservation status transition")
	ErrRequestInProgress = errors.New("a request with this idempotency key is in progress")
)

type notFoundError struct{ msg string }

func wrapNotFound(msg string) error { return &notFoundError{msg: msg} }

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Unwrap() error { return ErrNotFound }
