package epiphan

import "errors"

// ErrUnexpectedStatus indicates the device answered with a non-200
// HTTP status.
var ErrUnexpectedStatus = errors.New("unexpected device response status")
