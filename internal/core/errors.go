package core

import "errors"

// ErrResourceNotFound is returned when a resource ID named on the command
// line (e.g. `destroy -r`) has no recorded state.
var ErrResourceNotFound = errors.New("resource not found in state")
