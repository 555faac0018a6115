// Package tokens estimates prompt sizes so chat history can be cut to a
// token budget before it is sent to the model.
package tokens

import (
	"context"
	"log/slog"
	"sync"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

const (
	defaultEncoding = "cl100k_base"
	// messageOverhead approximates the role and separator tokens of one chat message.
	messageOverhead = 4
)

// Counter counts tokens with the model's BPE encoding. The encoding is
// loaded on first use; when it cannot be loaded a character based estimate
// is used instead.
type Counter struct {
	model string
	once  sync.Once
	enc   *tiktoken.Tiktoken
}

func NewCounter(model string) *Counter {
	return &Counter{model: model}
}

func (c *Counter) load(ctx context.Context) {
	c.once.Do(func() {
		enc, err := tiktoken.EncodingForModel(c.model)
		if err != nil {
			enc, err = tiktoken.GetEncoding(defaultEncoding)
		}
		if err != nil {
			slog.WarnContext(ctx, "Token encoding unavailable, using estimate", "model", c.model, "error", err)
			return
		}
		c.enc = enc
	})
}

// Count returns the number of tokens in text.
func (c *Counter) Count(ctx context.Context, text string) int {
	c.load(ctx)
	if c.enc == nil {
		return estimate(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

// Newest returns how many of the trailing messages fit in budget tokens.
// Messages are taken newest first and the first one that overflows stops
// the count.
func (c *Counter) Newest(ctx context.Context, messages []string, budget int) int {
	used, n := 0, 0
	for i := len(messages) - 1; i >= 0; i-- {
		used += c.Count(ctx, messages[i]) + messageOverhead
		if used > budget {
			break
		}
		n++
	}
	return n
}

func estimate(text string) int {
	return utf8.RuneCountInString(text)/3 + 1
}
