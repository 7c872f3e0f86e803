package usecase

import (
	"errors"

	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
)

var (
	// ErrQuoteExpired is returned when confirming an unknown or expired
	// prepayment quote.
	ErrQuoteExpired = errors.New("prepayment quote expired or unknown")

	// ErrQuoteStale is returned when the loan changed after the quote was
	// issued.
	ErrQuoteStale = errors.New("loan changed since prepayment quote was issued")

	// ErrActiveLoanExists is returned when onboarding a second loan for a
	// vehicle whose current loan is not closed, whether the check here or
	// the repository's uniqueness constraint catches it.
	ErrActiveLoanExists = model.ErrActiveLoanExists
)
