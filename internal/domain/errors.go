package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a bad or missing inbound parameter. It is the only
// error class surfaced to callers as a non-200 status.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ResolutionError reports a failed geocoding call.
type ResolutionError struct {
	Reason string
	Status int // upstream HTTP status, 0 when no response was received
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ResolutionHTTPError builds the error for a non-success geocoder status.
func ResolutionHTTPError(status int) *ResolutionError {
	return &ResolutionError{Reason: fmt.Sprintf("geocode_http_%d", status), Status: status}
}

// ErrNoMatch is the reason tag used when the geocoder returns no results.
const ErrNoMatch = "geocode_no_result"

// RegistryError reports a registry call that failed on every variant. Attempt
// describes the last request made; its URL is already redacted.
type RegistryError struct {
	Reason  string
	Attempt Attempt
	Err     error
}

func (e *RegistryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *RegistryError) Unwrap() error { return e.Err }

// ConfigurationError reports missing server configuration.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("env_%s_missing", e.Key)
}

// Attempt describes one registry request for diagnostics.
type Attempt struct {
	Variant string
	Status  int
	URL     string
}

// RedactedValue replaces credential values in surfaced URLs.
const RedactedValue = "REDACTED"

// ReasonOf returns the stable reason tag for err, without wrapped detail.
func ReasonOf(err error) string {
	if err == nil {
		return ""
	}
	var (
		ve *ValidationError
		re *ResolutionError
		ge *RegistryError
		ce *ConfigurationError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Reason
	case errors.As(err, &re):
		return re.Reason
	case errors.As(err, &ge):
		return ge.Reason
	case errors.As(err, &ce):
		return ce.Error()
	}
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return msg
}
