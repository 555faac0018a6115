// Package agent answers chat messages about the weather. It extracts a
// place and query kind from the message, fetches the data through the tool
// cascade and phrases the reply.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/8adimka/Go_Weather_Assistant/internal/query"
	"github.com/8adimka/Go_Weather_Assistant/internal/tools"
)

const (
	GreetingMessage = "Merhaba! Ben hava durumu asistanıyım. Size herhangi bir şehrin hava durumunu söyleyebilirim. " +
		"Örneğin: 'İstanbul'un hava durumu nasıl?' veya 'Paris için 7 günlük tahmin ver' diyebilirsiniz."
	ErrorMessage = "Üzgünüm, bir hata oluştu. Lütfen tekrar deneyin."

	connectionProbeCity = "istanbul"
)

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Response is the reply to one chat message. Error is set only when the
// weather data could not be fetched.
type Response struct {
	Message     string `json:"message"`
	WeatherData string `json:"weatherData,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Invoker runs a named weather tool.
type Invoker interface {
	Invoke(ctx context.Context, name string, args map[string]any) tools.Result
}

// Responder turns weather text into a conversational reply.
type Responder interface {
	Respond(ctx context.Context, message, weatherData string, history []Message) (string, error)
}

type Agent struct {
	invoker   Invoker
	responder Responder
}

// New creates an agent. A nil responder selects the plain text replies.
func New(invoker Invoker, responder Responder) *Agent {
	return &Agent{invoker: invoker, responder: responder}
}

// ProcessMessage answers message, using history only for the LLM reply.
func (a *Agent) ProcessMessage(ctx context.Context, message string, history []Message) Response {
	intent, ok := query.Extract(message)
	if !ok {
		slog.DebugContext(ctx, "No weather query in message")
		return Response{Message: GreetingMessage}
	}

	slog.InfoContext(ctx, "Weather query extracted", "place", intent.Place, "kind", intent.Kind)
	return a.Answer(ctx, intent, message, history)
}

// Answer fetches the weather for an already known intent and phrases the
// reply to message.
func (a *Agent) Answer(ctx context.Context, intent query.Intent, message string, history []Message) Response {
	data, err := a.Weather(ctx, intent)
	if err != nil {
		slog.WarnContext(ctx, "Failed to get weather data", "place", intent.Place, "error", err)
		return Response{Message: ErrorMessage, Error: err.Error()}
	}

	if a.responder != nil {
		reply, err := a.responder.Respond(ctx, message, data, history)
		if err == nil {
			return Response{Message: reply, WeatherData: data}
		}
		slog.WarnContext(ctx, "LLM reply failed, using plain reply", "error", err)
	}

	return Response{Message: simpleReply(intent, data), WeatherData: data}
}

// Weather fetches the text for an intent through the invoker.
func (a *Agent) Weather(ctx context.Context, intent query.Intent) (string, error) {
	name := tools.GetWeatherByCity
	if intent.Kind == query.KindForecast {
		name = tools.GetDailyForecastByCity
	}

	res := a.invoker.Invoke(ctx, string(name), map[string]any{"city": intent.Place})
	if res.IsError {
		return "", errors.New(res.Text())
	}
	text := res.Text()
	if text == "" {
		return "", errors.New("Veri alınamadı")
	}
	return text, nil
}

// TestConnection probes the tool path with a current weather query.
func (a *Agent) TestConnection(ctx context.Context) error {
	_, err := a.Weather(ctx, query.Intent{Place: connectionProbeCity, Kind: query.KindCurrent})
	if err != nil {
		return fmt.Errorf("weather connection test failed: %w", err)
	}
	return nil
}

func simpleReply(intent query.Intent, data string) string {
	if intent.Kind == query.KindForecast {
		return fmt.Sprintf("%s için 7 günlük hava durumu tahmini:\n\n%s", intent.Place, data)
	}
	return fmt.Sprintf("%s güncel hava durumu:\n\n%s", intent.Place, data)
}
