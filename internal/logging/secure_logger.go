// Package logging configures the process logger. Attribute values whose keys
// look like credentials are replaced before they reach the output.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode"
)

const Redacted = "[REDACTED]"

// sensitiveWords are matched against whole words of a key, so "access_token"
// is masked while "prompt_tokens" is not.
var sensitiveWords = map[string]bool{
	"apikey":        true,
	"password":      true,
	"passwd":        true,
	"token":         true,
	"secret":        true,
	"authorization": true,
	"credential":    true,
}

// RedactingHandler wraps a slog.Handler and masks sensitive attributes,
// including those nested in groups.
type RedactingHandler struct {
	next slog.Handler
}

func NewRedactingHandler(next slog.Handler) *RedactingHandler {
	return &RedactingHandler{next: next}
}

// New builds the default JSON logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewRedactingHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}

// ParseLevel maps debug, warn and error to their levels; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redact(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = redact(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(clean)}
}

func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}

func redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		clean := make([]any, len(group))
		for i, ga := range group {
			clean[i] = redact(ga)
		}
		return slog.Group(a.Key, clean...)
	}
	if IsSensitive(a.Key) && !isEmpty(a.Value) {
		return slog.String(a.Key, Redacted)
	}
	return a
}

// IsSensitive reports whether a field name indicates a credential. Keys are
// split into words on separators and camelCase humps.
func IsSensitive(key string) bool {
	words := keyWords(key)
	for i, w := range words {
		if sensitiveWords[w] {
			return true
		}
		if w == "api" && i+1 < len(words) && words[i+1] == "key" {
			return true
		}
	}
	return false
}

func keyWords(key string) []string {
	var b strings.Builder
	prevLower := false
	for _, r := range key {
		switch {
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte(' ')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevLower = true
		default:
			b.WriteByte(' ')
			prevLower = false
		}
	}
	return strings.Fields(b.String())
}

func isEmpty(v slog.Value) bool {
	return v.Kind() == slog.KindString && v.String() == ""
}
