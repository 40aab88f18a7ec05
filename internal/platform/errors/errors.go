package apperrors

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrInvalidConfig        = errors.New("invalid config")
	ErrIO                   = errors.New("io failure")
	ErrNoActiveDungeon      = errors.New("no active dungeon")
	ErrActiveDungeonExists  = errors.New("active dungeon already exists")
	ErrGradingScriptMissing = errors.New("grading script not found")
)

// IsNotFound reports whether err is, or wraps, a NotFound condition.
// ErrGradingScriptMissing counts as NotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrGradingScriptMissing)
}
