package types

import "fmt"

// AccessError reports a filesystem entry that could not be read. The walker
// records it as a warning and continues unless fail-fast is configured.
type AccessError struct {
	Path string
	Err  error
}

// Error returns the formatted access failure message.
func (accessError *AccessError) Error() string {
	return fmt.Sprintf("access %s: %v", accessError.Path, accessError.Err)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As.
func (accessError *AccessError) Unwrap() error {
	return accessError.Err
}

// ParseWarning reports a lexing ambiguity in one file. The stripper falls
// back to pass-through for that file and the run continues.
type ParseWarning struct {
	Path   string
	Reason string
}

// Error returns the formatted parse warning message.
func (parseWarning *ParseWarning) Error() string {
	return fmt.Sprintf("parse %s: %s", parseWarning.Path, parseWarning.Reason)
}

// ConfigError reports an invalid filter rule or configuration value. It is
// fatal and must be raised before any traversal begins.
type ConfigError struct {
	Field  string
	Reason string
}

// Error returns the formatted configuration failure message.
func (configError *ConfigError) Error() string {
	return fmt.Sprintf("configuration %s: %s", configError.Field, configError.Reason)
}
