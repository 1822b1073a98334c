package domain

import "net"

// MaxDatagramSize is the default receive buffer size in bytes.
const MaxDatagramSize = 1024

// Datagram is a single UDP payload and the address it came from or goes to.
// Payload is owned by the Datagram and is never a view into a reused buffer.
type Datagram struct {
	Payload []byte
	Peer    *net.UDPAddr
}

// NewDatagram copies the first n bytes of buf into a new Datagram.
// n is the length reported by the socket, not len(buf).
func NewDatagram(buf []byte, n int, peer *net.UDPAddr) Datagram {
	if n < 0 {
		n = 0
	}
	if n > len(buf) {
		n = len(buf)
	}
	payload := make([]byte, n)
	copy(payload, buf[:n])
	return Datagram{Payload: payload, Peer: peer}
}

// Len returns the payload length in bytes.
func (d Datagram) Len() int { return len(d.Payload) }
