// Package storage pkg/storage/errors.go
package storage

import "errors"

var (
	errMissingBaseURL = errors.New("storage base URL is required")
	errRequest        = errors.New("failed to create storage request")
	errSend           = errors.New("failed to reach storage API")
	errStatus         = errors.New("storage API returned non-2xx status")
	errDecode         = errors.New("failed to decode storage response")
	errEncode         = errors.New("failed to encode storage payload")
)
