package domain

import "errors"

// Precondition violations abort the whole operation.
var (
	ErrWalkoverWithoutWinner    = errors.New("walkover requires a series winner")
	ErrUndeterminedWinCondition = errors.New("game has no determined win condition")
	ErrWinnerNotParticipant     = errors.New("winner is not a participant of the series")
)

// Malformed input.
var (
	ErrInvalidGameNumber = errors.New("game number must be between 1 and 3")
	ErrDuplicateGame     = errors.New("duplicate game number")
	ErrInvalidStatus     = errors.New("invalid series status")
	ErrInvalidCondition  = errors.New("invalid win condition")
	ErrInvalidRound      = errors.New("invalid round number")
	ErrSamePlayer        = errors.New("a series needs two distinct players")
	ErrEmptyUsername     = errors.New("username must not be empty")
	ErrNegativeFarm      = errors.New("farm must not be negative")
	ErrNegativeDuration  = errors.New("duration must not be negative")
	ErrDurationRange     = errors.New("duration is out of range")
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrSeriesNotFound = errors.New("series not found")
	ErrUsernameTaken  = errors.New("username already taken")
)

// IsPrecondition reports whether err is one of the precondition violations.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrWalkoverWithoutWinner) ||
		errors.Is(err, ErrUndeterminedWinCondition) ||
		errors.Is(err, ErrWinnerNotParticipant)
}

// IsInvalidInput reports whether err describes malformed caller input.
func IsInvalidInput(err error) bool {
	for _, target := range []error{
		ErrInvalidGameNumber, ErrDuplicateGame, ErrInvalidStatus, ErrInvalidCondition, ErrInvalidRound,
		ErrSamePlayer, ErrEmptyUsername, ErrNegativeFarm, ErrNegativeDuration, ErrDurationRange,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrPlayerNotFound) || errors.Is(err, ErrSeriesNotFound)
}
