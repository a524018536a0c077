package telemetry

import "errors"

var (
	errSnapshotRead   = errors.New("failed to read telemetry snapshot")
	errSnapshotDecode = errors.New("failed to decode telemetry snapshot")
	errSnapshotWrite  = errors.New("failed to write telemetry snapshot")
)
