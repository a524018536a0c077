package bot

import "errors"

var (
	errDataDir   = errors.New("failed to create data directory")
	errConnect   = errors.New("initial radio connection failed")
	errAPIServer = errors.New("status API failed")
	errStopped   = errors.New("bot already stopped")
)
