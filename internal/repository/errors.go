package repository

import "errors"

// ErrNotFound means no submission has the requested id. Handlers map it to 404.
var ErrNotFound = errors.New("submission not found")
