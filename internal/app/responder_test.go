package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaciejGrzybacz/DistributedSystems/internal/domain"
)

func TestKeywordResponder(t *testing.T) {
	r := KeywordResponder{Rules: DefaultKeywordRules()}

	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"Ping Python", "Pong Python", true},
		{"ping JAVA", "Pong Java", true},
		{"python and java", "Pong Python", true},
		{"hello", "", false},
	}

	for _, tt := range tests {
		got, ok := r.Reply(tt.text)
		assert.Equal(t, tt.want, got, tt.text)
		assert.Equal(t, tt.wantOK, ok, tt.text)
	}
}

func TestNewResponder(t *testing.T) {
	r, err := NewResponder(ReplyFixed, "Pong Java")
	require.NoError(t, err)
	got, ok := r.Reply("anything")
	assert.True(t, ok)
	assert.Equal(t, "Pong Java", got)

	_, err = NewResponder(ReplyKeyword, "")
	assert.NoError(t, err)

	_, err = NewResponder("echo", "")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}
