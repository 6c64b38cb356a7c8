package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so transports can map to user guidance text
// without leaking infrastructure details.
var (
	ErrNotFound          = errors.New("not found")
	ErrExpired           = errors.New("expired")
	ErrAlreadyUsed       = errors.New("already used")
	ErrOwnershipMismatch = errors.New("ownership mismatch")
)
