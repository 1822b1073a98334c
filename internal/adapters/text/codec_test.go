package text

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MaciejGrzybacz/DistributedSystems/internal/domain"
)

func TestLookup_Aliases(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "windows-1250"},
		{"windows-1250", "windows-1250"},
		{"CP1250", "windows-1250"},
		{" cp1252 ", "windows-1252"},
		{"latin1", "iso-8859-1"},
		{"ISO-8859-2", "iso-8859-2"},
		{"UTF-8", "utf-8"},
		{"koi8-r", "koi8-r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Name())
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("no-such-charset")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownEncoding))
}

func TestLookup_RejectsNonASCIICompatible(t *testing.T) {
	for _, name := range []string{"utf-16", "utf-16be", "utf-16le", "shift_jis"} {
		t.Run(name, func(t *testing.T) {
			_, err := Lookup(name)
			require.ErrorIs(t, err, domain.ErrUnknownEncoding)
		})
	}
}

func TestASCIICompatible(t *testing.T) {
	tests := []struct {
		name string
		enc  encoding.Encoding
		want bool
	}{
		{"windows-1250", charmap.Windows1250, true},
		{"koi8-r", charmap.KOI8R, true},
		{"ebcdic-037", charmap.CodePage037, false},
		{"utf-16", unicode.UTF16(unicode.BigEndian, unicode.UseBOM), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, asciiCompatible(tt.enc))
		})
	}
}

func TestCodec_Windows1250RoundTrip(t *testing.T) {
	c := MustLookup("windows-1250")
	msg := "zażółć gęślą jaźń"

	raw, err := c.Encode(msg)
	require.NoError(t, err)
	// Single-byte encoding: one byte per rune.
	assert.Len(t, raw, len([]rune(msg)))
	assert.Equal(t, byte(0xBF), raw[2]) // ż

	got, err := c.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestCodec_ASCIIIsIdentity(t *testing.T) {
	for _, name := range []string{"windows-1250", "iso-8859-1", "utf-8"} {
		c := MustLookup(name)
		raw, err := c.Encode("Ping Java")
		require.NoError(t, err)
		assert.Equal(t, []byte("Ping Java"), raw, name)

		s, err := c.Decode([]byte("Pong Java"))
		require.NoError(t, err)
		assert.Equal(t, "Pong Java", s, name)
	}
}

func TestCodec_EncodeReplacesUnsupported(t *testing.T) {
	c := MustLookup("windows-1250")
	raw, err := c.Encode("a日b")
	require.NoError(t, err)
	assert.Len(t, raw, 3)
	assert.Equal(t, byte('a'), raw[0])
	assert.Equal(t, byte('b'), raw[2])
}

func TestMustLookup_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLookup("no-such-charset") })
}
