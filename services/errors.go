package services

import "errors"

// Shared errors used across services and the HTTP mapping layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Guard violations.
	ErrInvalidState = errors.New("transition not allowed from the current state")
	ErrUnauthorized = errors.New("operation not allowed for the current user")
	ErrInvalidScore = errors.New("scores are malformed or do not produce a winner")

	// Registration.
	ErrAlreadyRegistered   = errors.New("player is already registered for this tournament")
	ErrNotRegistered       = errors.New("player is not registered for this tournament")
	ErrRegistrationNotOpen = errors.New("tournament registration is not open")
	ErrCapacityExceeded    = errors.New("tournament registration is full")
	ErrIneligibleGeography = errors.New("player's region is outside the tournament scope")
	ErrTournamentStarted   = errors.New("tournament has already started")
	ErrSeedTaken           = errors.New("seed is already assigned to another participant")

	// Tournament lifecycle.
	ErrNotEnoughParticipants = errors.New("at least 2 registered participants are required")
	ErrTournamentNameTaken   = errors.New("tournament name already exists")

	// Match lifecycle.
	ErrNotMatchParticipant = errors.New("user is not a participant of this match")
	ErrAlreadyReported     = errors.New("a no-show has already been reported for this match")
	ErrMatchSlotEmpty      = errors.New("match slot is not filled yet")

	// Payouts and wallet.
	ErrInsufficientBalance = errors.New("amount exceeds the wallet's available balance")
	ErrInvalidMethod       = errors.New("payout method does not belong to the organizer or is unverified")
	ErrProviderError       = errors.New("payment provider rejected the transfer")
	ErrWalletNotFound      = errors.New("organizer wallet not found")
)
