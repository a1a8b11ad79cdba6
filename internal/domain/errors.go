package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// entry does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing route, negative distance) and by the filter
// constructor when a date bound cannot be parsed.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrRender is returned by the report renderers when a document cannot be
// laid out or serialized. Handlers should map this to HTTP 500 and must not
// emit any partial document bytes.
var ErrRender = errors.New("render error")
