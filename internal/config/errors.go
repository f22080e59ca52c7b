package config

import "errors"

// ErrInvalidConfig is returned when the layered configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")
