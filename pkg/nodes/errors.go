package nodes

import "errors"

var (
	ErrNodeNotFound    = errors.New("node not found")
	ErrNoSamples       = errors.New("no samples recorded")
	ErrInvalidIdentity = errors.New("node identity requires an id")

	errSnapshotRead   = errors.New("failed to read node snapshot")
	errSnapshotDecode = errors.New("failed to decode node snapshot")
	errSnapshotWrite  = errors.New("failed to write node snapshot")
)
