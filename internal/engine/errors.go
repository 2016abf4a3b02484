package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

// Video reset result codes reported by the engine
const (
	CodeSuccess         = 0
	CodeFail            = -1
	CodeNotSupported    = -2
	CodeInvalidParam    = -3
	CodeCurrentlyActive = -4
	CodeModuleNotFound  = -5
)

var (
	ErrUnknownSource  = errors.New("unknown source")
	ErrUnknownSetting = errors.New("unknown setting")
	ErrShutdown       = errors.New("engine is shut down")
)

// InitError is returned when the engine fails to start
type InitError struct {
	Code int
}

func (e *InitError) Error() string {
	return fmt.Sprintf("engine initialization failed (code %d): %s", e.Code, InitErrorMessage(e.Code))
}

// InitErrorMessage maps an initialization code to a human-readable message
func InitErrorMessage(code int) string {
	switch code {
	case CodeNotSupported:
		return "The graphics API could not be found on your system. Please install the latest version of your graphics drivers and try again."
	case CodeModuleNotFound:
		return "Failed to initialize the video pipeline. Your video drivers may be out of date, or this system may not be supported."
	default:
		return "An unknown error was encountered while initializing the engine."
	}
}

// Initializer is implemented by engines that need an explicit video reset before use
type Initializer interface {
	ResetVideo(width, height, fps int) int
	Shutdown() error
}

// Start runs the video reset and shuts the engine down on failure.
// The returned error wraps an *InitError.
func Start(e Initializer, width, height, fps int) error {
	code := e.ResetVideo(width, height, fps)
	if code == CodeSuccess {
		return nil
	}

	initErr := &InitError{Code: code}
	if err := e.Shutdown(); err != nil {
		return errors.Wrapf(initErr, "shutdown after failed start also failed: %v", err)
	}
	return errors.WithStack(initErr)
}

// AsInitError extracts the *InitError from a Start error
func AsInitError(err error) (*InitError, bool) {
	initErr, ok := errors.Cause(err).(*InitError)
	return initErr, ok
}
