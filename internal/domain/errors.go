package domain

import "errors"

// ErrNotFound is returned when a looked-up race, event or snapshot does not
// exist. It is an ordinary outcome; handlers map it to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when caller input is malformed (unknown status,
// bad sort field, bad pagination). Handlers map it to HTTP 422.
var ErrValidation = errors.New("validation error")

// ErrEmptySource is returned when the source produced no data rows at all.
// A source whose rows were all dropped as blank is not an error.
var ErrEmptySource = errors.New("source is empty")

// ErrSourceUnavailable is returned when the tabular source could not be
// fetched or read.
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrNotLoaded is returned by read operations before the first successful
// ingestion. Handlers map it to HTTP 503.
var ErrNotLoaded = errors.New("races not loaded")
