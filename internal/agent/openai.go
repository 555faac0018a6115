package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/8adimka/Go_Weather_Assistant/internal/metrics"
	"github.com/8adimka/Go_Weather_Assistant/internal/retry"
	"github.com/8adimka/Go_Weather_Assistant/internal/tokens"
)

const systemPrompt = `Sen hava durumu konusunda uzman bir asistansın.
Kullanıcıların hava durumu sorularını yanıtlamak için hava durumu araçlarını kullanıyorsun.

Yeteneklerin:
1. Herhangi bir şehrin güncel hava durumunu öğrenebilirsin
2. 7 günlük hava durumu tahminini verebilirsin
3. Hava durumu verilerini anlaşılır şekilde açıklayabilirsin
4. Türkçe ve İngilizce destekliyorsun

Sana verilen hava durumu verisini kullanarak kullanıcıya dostça bir şekilde yanıt ver.`

const (
	maxReplyTokens = 1000
	// historyTokenBudget caps the prior conversation sent with each request.
	historyTokenBudget = 2000
)

// OpenAIResponder phrases replies with the OpenAI chat completions API.
type OpenAIResponder struct {
	cli         openai.Client
	model       string
	retryConfig retry.RetryConfig
	metrics     *metrics.Metrics
	counter     *tokens.Counter
}

var _ Responder = (*OpenAIResponder)(nil)

func NewOpenAIResponder(apiKey, model string, retryConfig retry.RetryConfig, m *metrics.Metrics, opts ...option.RequestOption) *OpenAIResponder {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIResponder{
		cli:         openai.NewClient(opts...),
		model:       model,
		retryConfig: retryConfig,
		metrics:     m,
		counter:     tokens.NewCounter(model),
	}
}

func (r *OpenAIResponder) Respond(ctx context.Context, message, weatherData string, history []Message) (string, error) {
	history = r.recent(ctx, history)

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	msgs = append(msgs, openai.SystemMessage(systemPrompt))
	for _, m := range history {
		switch m.Role {
		case RoleUser:
			msgs = append(msgs, openai.UserMessage(m.Content))
		case RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		}
	}
	msgs = append(msgs, openai.UserMessage(fmt.Sprintf(
		"Kullanıcı mesajı: %q\n\nHava durumu verisi:\n%s\n\nBu veriyi kullanarak kullanıcıya dostça ve bilgilendirici bir yanıt ver.",
		message, weatherData)))

	start := time.Now()
	resp, err := retry.RetryWithResult(ctx, r.retryConfig, func() (*openai.ChatCompletion, error) {
		return r.cli.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:     openai.ChatModel(r.model),
			Messages:  msgs,
			MaxTokens: openai.Int(maxReplyTokens),
		})
	})
	duration := time.Since(start)
	r.metrics.RecordOpenAIRequest(ctx, r.model, err == nil, duration)

	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", errors.New("empty response from OpenAI")
	}

	slog.InfoContext(ctx, "OpenAI API call completed",
		"model", r.model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"duration_ms", duration.Milliseconds(),
	)
	return resp.Choices[0].Message.Content, nil
}

// recent drops the oldest history messages beyond historyTokenBudget.
func (r *OpenAIResponder) recent(ctx context.Context, history []Message) []Message {
	contents := make([]string, len(history))
	for i, m := range history {
		contents[i] = m.Content
	}
	n := r.counter.Newest(ctx, contents, historyTokenBudget)
	if n < len(history) {
		slog.DebugContext(ctx, "History trimmed to token budget", "kept", n, "dropped", len(history)-n)
	}
	return history[len(history)-n:]
}
