// Package domain contains the core value types and errors for udpping.
//
// It has no dependencies on files or logging and holds only the
// rules shared by the client and the server.
//
// # Types
//
//   - [Datagram]: a received or outgoing payload paired with its peer address
//   - [State]: the lifecycle state of a client or server run
//
// Errors returned by the public API wrap the sentinels in this package and
// can be checked with errors.Is.
package domain
