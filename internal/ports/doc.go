// Package ports defines the interfaces that connect the client and server
// loops in internal/app to infrastructure adapters.
//
// # Port Interfaces
//
//   - [Logger]: Structured logging abstraction
//   - [MessageLog]: Append-only, durable message record kept by the server
//   - [TextCodec]: Named single-byte (or UTF-8) text encoding
//
// The application layer depends only on these interfaces. Adapters in
// internal/adapters implement them with zerolog, the file system and
// golang.org/x/text.
package ports
