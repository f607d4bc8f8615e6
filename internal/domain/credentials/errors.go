package credentials

import "errors"

// Sentinel kinds for credential errors.
var (
	ErrLoad = errors.New("load teachers failed")
	ErrHash = errors.New("hash password failed")
)
