package app

import (
	"fmt"
	"strings"

	"github.com/MaciejGrzybacz/DistributedSystems/internal/domain"
)

// ReplyMode selects how the server picks a reply for a message.
type ReplyMode string

const (
	// ReplyFixed answers every message with the same payload.
	ReplyFixed ReplyMode = "fixed"

	// ReplyKeyword answers according to keywords found in the message and
	// stays silent when none matches.
	ReplyKeyword ReplyMode = "keyword"
)

// DefaultReply is the payload sent back by the server in fixed mode.
const DefaultReply = "Pong Java"

// Responder chooses the reply for a decoded message.
// ok is false when no reply should be sent.
type Responder interface {
	Reply(text string) (reply string, ok bool)
}

// FixedResponder always replies with the same text.
type FixedResponder struct {
	Text string
}

// Reply implements Responder.
func (r FixedResponder) Reply(string) (string, bool) {
	return r.Text, true
}

// KeywordRule maps a case-insensitive keyword to a reply.
type KeywordRule struct {
	Keyword string
	Reply   string
}

// KeywordResponder replies with the first rule whose keyword occurs in the message.
type KeywordResponder struct {
	Rules []KeywordRule
}

// DefaultKeywordRules answers Python and Java clients in their own name.
func DefaultKeywordRules() []KeywordRule {
	return []KeywordRule{
		{Keyword: "python", Reply: "Pong Python"},
		{Keyword: "java", Reply: "Pong Java"},
	}
}

// Reply implements Responder.
func (r KeywordResponder) Reply(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, rule := range r.Rules {
		if strings.Contains(lower, strings.ToLower(rule.Keyword)) {
			return rule.Reply, true
		}
	}
	return "", false
}

// NewResponder builds the responder for mode. reply is used by ReplyFixed.
func NewResponder(mode ReplyMode, reply string) (Responder, error) {
	switch mode {
	case ReplyFixed, "":
		return FixedResponder{Text: reply}, nil
	case ReplyKeyword:
		return KeywordResponder{Rules: DefaultKeywordRules()}, nil
	default:
		return nil, fmt.Errorf("%w: reply mode %q", domain.ErrInvalidConfig, mode)
	}
}
