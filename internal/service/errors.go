package service

import "errors"

// Storage errors
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrNotFound           = errors.New("record not found")
)

// Ledger rejections. Each one routes to its own page.
var (
	ErrCardCreditNotAllowed = errors.New("credit by card is not allowed")
	ErrInvalidDirection     = errors.New("direction must be Credit or Debit")
	ErrInvalidMethod        = errors.New("unknown payment method")
	ErrMissingBalance       = errors.New("no balance for the selected account")
)

// Input and credential errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidCredential = errors.New("invalid user id or password")
	ErrWrongCredential   = errors.New("wrong credential")
)

// ErrNoSession means the request carries no live session.
var ErrNoSession = errors.New("no valid session")
