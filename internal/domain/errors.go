package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the registry operation contract. Callers match them
// with errors.Is; every failure is reported synchronously and nothing at
// this layer retries.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid input")
	ErrIntegrity  = errors.New("integrity violation")
	ErrConflict   = errors.New("conflict")
)

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

func Integrityf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrIntegrity)...)
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}
