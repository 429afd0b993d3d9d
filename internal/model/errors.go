package model

import (
	"errors"
	"fmt"
)

var ErrHistoryCorrupt = errors.New("history store is corrupt")

type UnsupportedCurrencyError struct {
	Code string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency: %q", e.Code)
}

type InvalidAmountError struct {
	Amount float64
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %v: must be a non-negative number", e.Amount)
}

type RateFetchErrorKind string

const (
	RateFetchNetwork RateFetchErrorKind = "network"
	RateFetchTimeout RateFetchErrorKind = "timeout"
	RateFetchStatus  RateFetchErrorKind = "status"
	RateFetchParse   RateFetchErrorKind = "parse"
)

type RateFetchError struct {
	Kind RateFetchErrorKind
	Base Currency
	Err  error
}

func (e *RateFetchError) Error() string {
	return fmt.Sprintf("failed to fetch rates for %s (%s): %v", e.Base, e.Kind, e.Err)
}

func (e *RateFetchError) Unwrap() error {
	return e.Err
}

// HistoryWriteError reports a conversion that succeeded but could not be recorded.
type HistoryWriteError struct {
	Err error
}

func (e *HistoryWriteError) Error() string {
	return fmt.Sprintf("failed to write conversion history: %v", e.Err)
}

func (e *HistoryWriteError) Unwrap() error {
	return e.Err
}
