package types

import "errors"

// ErrProfileNotFound is returned by profile stores when no profile exists
// for the requested user.
var ErrProfileNotFound = errors.New("profile not found")
