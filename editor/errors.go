package editor

import "errors"

var (
	ErrNoSelection    = errors.New("no selection")
	ErrBadSelection   = errors.New("invalid selection")
	ErrUnknownCommand = errors.New("unknown command")
	ErrNestedApply    = errors.New("apply called inside a transaction")
)
