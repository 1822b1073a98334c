package ports

import (
	"net"
	"time"
)

// Logger is what the client, server and follower log through.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is a single key/value attached to a log line. Adapters switch on the
// dynamic type of Value.
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int field, used for counters and byte lengths.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Int64 creates an int64 field, used for file offsets and sizes.
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Bool creates a bool field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Duration creates a duration field for delays and timeouts.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err attaches err under the "error" key.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Peer attaches a remote address under the "peer" key, rendered as host:port.
// A nil addr is logged as an empty string.
func Peer(addr net.Addr) Field {
	if addr == nil || isNilUDPAddr(addr) {
		return Field{Key: "peer", Value: ""}
	}
	return Field{Key: "peer", Value: addr.String()}
}

func isNilUDPAddr(addr net.Addr) bool {
	a, ok := addr.(*net.UDPAddr)
	return ok && a == nil
}
