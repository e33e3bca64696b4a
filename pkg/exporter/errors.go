package exporter

import "errors"

// Error taxonomy shared by the connection manager, the exporters and the
// status projector. Callers classify failures with errors.Is.
var (
	// ErrConnectionLost reports that the node connection dropped or stopped answering.
	ErrConnectionLost = errors.New("connection lost")

	// ErrInvalidEvent marks a log that is not one of the exporter's events. It is skipped.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrDuplicateWrite marks a write of an already stored event. It counts as success.
	ErrDuplicateWrite = errors.New("duplicate write")

	// ErrPersistence marks a store failure. It halts the historical batch.
	ErrPersistence = errors.New("persistence failure")

	// ErrEnrichment marks a failed block lookup. The event is skipped.
	ErrEnrichment = errors.New("enrichment failure")

	// ErrDerivedState marks a failed balance or status refresh. It is only logged.
	ErrDerivedState = errors.New("derived state failure")

	// ErrLiveStream marks a failed live subscription. It is reported as a connection loss.
	ErrLiveStream = errors.New("live stream failure")
)
