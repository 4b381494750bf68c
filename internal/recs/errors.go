package recs

import "fmt"

// CollaboratorError reports a failure talking to an external collaborator
// (generative model or geolocation). It is the only error class that may
// surface to the end user, and only as a generic retry message.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// ParseError reports malformed collaborator output. Always absorbed locally:
// callers see an empty result, never this error.
type ParseError struct {
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse collaborator response: %v (payload %q)", e.Err, e.Snippet)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError reports a persistent-store fault. Always absorbed locally and
// degraded to a cache miss.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
