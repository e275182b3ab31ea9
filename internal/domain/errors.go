package domain

import "errors"

// -----------------------------------------------------------------------------
// Domain Errors
// These errors represent domain-level failures surfaced as operation outcomes
// by the session, catalog and rental components.
// -----------------------------------------------------------------------------

// Rental workflow errors
var (
	ErrInvalidDuration = errors.New("requested duration is below the minimum rent length")
	ErrWorkflowBusy    = errors.New("a rental attempt is already in flight")
)

// Session errors
var (
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Catalog errors
var (
	ErrUnknownBook = errors.New("unknown book")
)
