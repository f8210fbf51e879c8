package notification

import "errors"

var (
	ErrInvalidTrigger = errors.New("invalid trigger type")
	ErrInvalidScope   = errors.New("invalid scope")
)
