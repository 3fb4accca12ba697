package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConflict            = errors.New("user already exists")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidRecipient    = errors.New("invalid recipient")
	ErrNoWallet            = errors.New("no wallet")
	ErrUpstreamUnavailable = errors.New("analysis service unavailable")

	ErrWalletExists      = errors.New("wallet already exists")
	ErrInvalidStatus     = errors.New("status must be completed or declined")
	ErrInvalidTransition = errors.New("transaction is no longer pending")
	ErrInvalidAmount     = errors.New("amount must be positive with at most two decimal places")
)

var (
	ErrSenderNoWallet    = fmt.Errorf("sender has no wallet: %w", ErrNoWallet)
	ErrRecipientNoWallet = fmt.Errorf("recipient has no wallet: %w", ErrNoWallet)
)
