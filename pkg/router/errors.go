package router

import "errors"

var (
	errInvalidResetTime = errors.New("invalid daily reset time, expected HH:MM")
	errMissingCollab    = errors.New("router requires a node directory, telemetry store, command factory and command logger")
	errRouterStopped    = errors.New("router stopped")
	errHandlerPanic     = errors.New("handler panicked")
	errHandlerTimeout   = errors.New("handler timed out")
)
