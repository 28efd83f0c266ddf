package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed     = errors.New("validation failed")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrInvalidCredentials   = errors.New("invalid cedula or password")
	ErrCedulaInvalid        = errors.New("cedula must be 7 to 10 digits and cannot start with 0")
	ErrRefereeRoleRequired  = errors.New("assigned referee must hold the referee role")
	ErrPlayerRoleRequired   = errors.New("user must hold the player role")
	ErrCategoryMismatch     = errors.New("player category does not match the tournament category")
	ErrTournamentDatesOrder = errors.New("tournament end date must be after start date")

	// Matches
	ErrMatchRosterSize          = errors.New("each team must field 1 or 2 players")
	ErrMatchRosterOverlap       = errors.New("a player cannot appear on both teams")
	ErrMatchWinnerInvalid       = errors.New("winner team must be 1 or 2")
	ErrMatchNotFinalized        = errors.New("match is not finalized")
	ErrMatchAlreadyFinalized    = errors.New("match is already finalized")
	ErrMatchNotCancelable       = errors.New("only scheduled or confirmed matches can be canceled")
	ErrResultEditLimitReached   = errors.New("result correction limit reached for this match")
	ErrMatchOutcomeUnresolvable = errors.New("match outcome could not be resolved")

	// Reservations
	ErrReservationEndBeforeStart = errors.New("end time must be after start time")
	ErrReservationTooShort       = errors.New("reservation must last at least 1 hour")
	ErrReservationTooLong        = errors.New("reservation cannot exceed 4 hours")
	ErrReservationOutsideHours   = errors.New("reservation is outside court operating hours")
	ErrReservationPastDate       = errors.New("reservation date cannot be in the past")
	ErrReservationConflict       = errors.New("reservation overlaps an existing booking")
	ErrReservationNotCancelable  = errors.New("past reservations cannot be canceled")

	// Auth / access
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Conflicts
	ErrCedulaConflict = errors.New("cedula is already registered")
	ErrEmailConflict  = errors.New("email address is already in use")

	// Entity-specific not-found (more context than the generic ErrNotFound)
	ErrUserNotFound        = errors.New("user not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrCourtNotFound       = errors.New("court not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrNewsNotFound        = errors.New("news post not found")
	ErrCategoryNotFound    = errors.New("category not found")
)
