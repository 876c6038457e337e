package lock

import "errors"

// ErrLockTimeout is returned when a slot lock cannot be acquired in time.
var ErrLockTimeout = errors.New("slot lock acquisition timeout")
