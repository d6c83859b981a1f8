package health

import "errors"

// ErrCheckTimeout wraps check errors caused by the run timeout.
var ErrCheckTimeout = errors.New("health: check timeout")
