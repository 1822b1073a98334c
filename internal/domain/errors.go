package domain

import "errors"

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("udpping: invalid configuration")

	// ErrPayloadTooLarge is returned when a payload does not fit the receive buffer.
	ErrPayloadTooLarge = errors.New("udpping: payload exceeds buffer size")

	// ErrUnknownEncoding is returned when a text encoding name cannot be resolved.
	ErrUnknownEncoding = errors.New("udpping: unknown encoding")

	// ErrReceiveTimeout is returned when no reply arrives within the receive timeout.
	ErrReceiveTimeout = errors.New("udpping: receive timeout")

	// ErrInterrupted is returned when the delay between client iterations is cut short.
	ErrInterrupted = errors.New("udpping: interrupted")

	// ErrInvalidTransition is returned for a lifecycle transition the state machine does not allow.
	ErrInvalidTransition = errors.New("udpping: invalid state transition")
)
