package artifact

import (
	"errors"
	"fmt"
)

// Sentinel kinds for artifact errors.
var (
	ErrModelArtifactMissing    = errors.New("model artifact missing")
	ErrModelArtifactUnreadable = errors.New("model artifact unreadable")
	ErrIncompatibleLayout      = errors.New("model feature layout does not match encoder")
	ErrUnsupportedKind         = errors.New("unsupported model kind")
	ErrMalformedModel          = errors.New("malformed model")
	ErrRowWidth                = errors.New("row width does not match model")
)

// StartupError is returned by Load. The process must not start serving when
// it sees one.
type StartupError struct {
	Path string
	Err  error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("load model %q: %v", e.Path, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }
