package ports

// MessageLog is the append-only record of messages received by the server.
type MessageLog interface {
	// Append writes one record followed by a newline. The record must be
	// durable when Append returns.
	Append(record []byte) error

	// Path returns the location of the log.
	Path() string

	// Close releases the underlying handle.
	Close() error
}
