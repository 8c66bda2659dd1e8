package morris

import "errors"

var (
	ErrInvalidTokenTransition = errors.New("invalid token transition")
	ErrUnknownPoint           = errors.New("unknown board point")
	ErrUnknownAction          = errors.New("unknown action kind")
	ErrPointRequired          = errors.New("action requires a board point")
)
