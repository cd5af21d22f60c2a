package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNoDeviceType     = errors.New("device type not selected")
	ErrNoConfiguration  = errors.New("no configuration loaded")
	ErrNotSignedIn      = errors.New("sign in required")
	ErrUnknownComponent = errors.New("unknown component")
	ErrUnknownOption    = errors.New("unknown option")
	ErrBuildNotFound    = errors.New("saved build not found")
	ErrEmptyName        = errors.New("device name must not be empty")
	ErrBusy             = errors.New("generation already in progress")
	ErrStaleImage       = errors.New("image response superseded by a newer request")
	ErrInvalidState     = errors.New("action not allowed in current state")
	ErrStaleKeyboard    = errors.New("keyboard belongs to another configuration")
)

// GenerationError bad/missing AI response or transport failure while generating a build.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	return formatWrapped("configuration generation failed", e.Reason, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ImageGenerationError non-fatal: the configuration keeps its last good image.
type ImageGenerationError struct {
	Reason string
	Err    error
}

func (e *ImageGenerationError) Error() string {
	return formatWrapped("image generation failed", e.Reason, e.Err)
}

func (e *ImageGenerationError) Unwrap() error { return e.Err }

// AdvisorError market recommendation failed
type AdvisorError struct {
	Reason string
	Err    error
}

func (e *AdvisorError) Error() string {
	return formatWrapped("market advisor failed", e.Reason, e.Err)
}

func (e *AdvisorError) Unwrap() error { return e.Err }

// PersistenceReadError stored record could not be decoded. Callers treat the record as absent.
type PersistenceReadError struct {
	Key string
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("stored record %q is unreadable: %v", e.Key, e.Err)
}

func (e *PersistenceReadError) Unwrap() error { return e.Err }

func formatWrapped(prefix, reason string, err error) string {
	switch {
	case reason != "" && err != nil:
		return fmt.Sprintf("%s: %s: %v", prefix, reason, err)
	case reason != "":
		return fmt.Sprintf("%s: %s", prefix, reason)
	case err != nil:
		return fmt.Sprintf("%s: %v", prefix, err)
	default:
		return prefix
	}
}
