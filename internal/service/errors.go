package service

import "errors"

var (
	ErrNotFound           = errors.New("task not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStoreNil           = errors.New("task store is nil")
	ErrPoolNil            = errors.New("event pool is nil")
	ErrInvalidID          = errors.New("invalid task id")
	ErrInvalidUser        = errors.New("invalid user id")
	ErrUnknownAction      = errors.New("unknown action")
	ErrActionNotPermitted = errors.New("action not permitted")
	ErrConflict           = errors.New("task was modified concurrently")
)
