package ports

// TextCodec converts between datagram bytes and text using one named encoding.
type TextCodec interface {
	// Name returns the canonical encoding name.
	Name() string

	// Decode maps raw bytes to text.
	Decode(b []byte) (string, error)

	// Encode maps text to raw bytes. Runes the encoding cannot represent are
	// replaced rather than rejected.
	Encode(s string) ([]byte, error)
}
