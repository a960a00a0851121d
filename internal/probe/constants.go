package probe

import (
	"errors"
	"time"
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	progressInterval        = time.Second
)

// Generation constants.
const (
	// UnknownAirline is never part of the model's vocabulary.
	UnknownAirline = "Probe Air"
	journeyYear    = 2019
	minutesPerDay  = 24 * 60
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o640
)

// Error kinds returned by Run.
var (
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrVerification = errors.New("verification failed")
	ErrConfig       = errors.New("invalid probe config")
)
