// Package text resolves named text encodings for datagram payloads and the
// message log. Resolution never depends on the host locale.
package text

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/MaciejGrzybacz/DistributedSystems/internal/domain"
	"github.com/MaciejGrzybacz/DistributedSystems/internal/ports"
)

// DefaultEncoding is the single-byte encoding used when none is configured.
const DefaultEncoding = "windows-1250"

var known = map[string]struct {
	name string
	enc  encoding.Encoding
}{
	"windows-1250": {"windows-1250", charmap.Windows1250},
	"cp1250":       {"windows-1250", charmap.Windows1250},
	"windows-1252": {"windows-1252", charmap.Windows1252},
	"cp1252":       {"windows-1252", charmap.Windows1252},
	"iso-8859-1":   {"iso-8859-1", charmap.ISO8859_1},
	"latin1":       {"iso-8859-1", charmap.ISO8859_1},
	"iso-8859-2":   {"iso-8859-2", charmap.ISO8859_2},
	"latin2":       {"iso-8859-2", charmap.ISO8859_2},
	"utf-8":        {"utf-8", unicode.UTF8},
	"utf8":         {"utf-8", unicode.UTF8},
}

// Codec implements ports.TextCodec for one encoding.
type Codec struct {
	name string
	enc  encoding.Encoding
}

// Lookup returns the codec for name. Names are case-insensitive; names not in
// the built-in table are resolved through the IANA registry. Only single-byte
// encodings that leave ASCII unchanged are accepted from the registry, since
// the message log is framed on a raw '\n' byte.
func Lookup(name string) (*Codec, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultEncoding
	}
	if k, ok := known[key]; ok {
		return &Codec{name: k.name, enc: k.enc}, nil
	}

	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEncoding, name)
	}
	if !asciiCompatible(enc) {
		return nil, fmt.Errorf("%w: %q does not keep ASCII bytes unchanged", domain.ErrUnknownEncoding, name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = key
	}
	return &Codec{name: strings.ToLower(canonical), enc: enc}, nil
}

// asciiCompatible reports whether enc is a single-byte charmap in which every
// byte below 0x80 decodes to itself and no other byte decodes to '\n'.
func asciiCompatible(enc encoding.Encoding) bool {
	cm, ok := enc.(*charmap.Charmap)
	if !ok {
		return false
	}
	for b := 0; b < 0x100; b++ {
		r := cm.DecodeByte(byte(b))
		if b < 0x80 && r != rune(b) {
			return false
		}
		if b >= 0x80 && r == '\n' {
			return false
		}
	}
	return true
}

// MustLookup is like Lookup but panics on an unknown name.
func MustLookup(name string) *Codec {
	c, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the canonical encoding name.
func (c *Codec) Name() string { return c.name }

// Decode maps raw bytes to text.
func (c *Codec) Decode(b []byte) (string, error) {
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", c.name, err)
	}
	return string(out), nil
}

// Encode maps text to raw bytes, substituting runes the encoding cannot represent.
func (c *Codec) Encode(s string) ([]byte, error) {
	out, err := encoding.ReplaceUnsupported(c.enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.name, err)
	}
	return out, nil
}

var _ ports.TextCodec = (*Codec)(nil)
