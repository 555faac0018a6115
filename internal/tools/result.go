package tools

import "fmt"

// Request is the wire form of a tool call.
type Request struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Content is one item of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the wire form of a tool answer. Failures are carried in-band
// with IsError set; a Result is never accompanied by a Go error.
type Result struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// TextResult wraps a successful text answer.
func TextResult(text string) Result {
	return Result{Content: []Content{{Type: "text", Text: text}}}
}

// ErrorResult renders err as "Hata: <message>".
func ErrorResult(err error) Result {
	return errorText("Hata: " + err.Error())
}

// ErrorResultf renders a failure with a custom prefix.
func ErrorResultf(format string, args ...any) Result {
	return errorText(fmt.Sprintf(format, args...))
}

func errorText(text string) Result {
	return Result{Content: []Content{{Type: "text", Text: text}}, IsError: true}
}

// Text returns the first text item, or "" for an empty result.
func (r Result) Text() string {
	for _, c := range r.Content {
		if c.Type == "text" {
			return c.Text
		}
	}
	return ""
}
