package prediction

import (
	"errors"
	"fmt"
)

// Sentinel kinds for prediction errors.
var (
	ErrPrediction     = errors.New("prediction failed")
	ErrWidthMismatch  = errors.New("feature vector width mismatch")
	ErrEmptyOutput    = errors.New("predictor returned no output")
	ErrNoPredictor    = errors.New("no predictor configured")
	ErrNonFiniteValue = errors.New("predictor returned a non-finite value")
)

// Error wraps any failure of the predictor call. errors.Is(err, ErrPrediction)
// holds for every *Error.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrPrediction, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches ErrPrediction in addition to the wrapped chain.
func (e *Error) Is(target error) bool { return target == ErrPrediction }

func wrap(op string, err error) error {
	return &Error{Op: op, Err: err}
}
