package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/twitchtv/twirp"

	"github.com/8adimka/Go_Weather_Assistant/internal/agent"
	"github.com/8adimka/Go_Weather_Assistant/internal/query"
	"github.com/8adimka/Go_Weather_Assistant/internal/tools"
)

const (
	Name    = "Weather Assistant"
	Version = "1.0.0"
)

type Assistant interface {
	ProcessMessage(ctx context.Context, message string, history []agent.Message) agent.Response
	Answer(ctx context.Context, intent query.Intent, message string, history []agent.Message) agent.Response
	TestConnection(ctx context.Context) error
}

// ToolService runs tool calls locally for the tool endpoints.
type ToolService interface {
	Call(ctx context.Context, req tools.Request) tools.Result
	Catalog() []tools.Descriptor
}

type Server struct {
	assist    Assistant
	tools     ToolService
	history   *HistoryStore
	toolPaths []string
}

func NewServer(assist Assistant, toolService ToolService, history *HistoryStore, toolPaths []string) *Server {
	return &Server{
		assist:    assist,
		tools:     toolService,
		history:   history,
		toolPaths: toolPaths,
	}
}

// Register mounts the chat, weather and tool routes on r and installs the
// JSON 404 handler.
func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/info", s.Info).Methods(http.MethodGet)
	r.HandleFunc("/chat", s.Chat).Methods(http.MethodPost)
	r.HandleFunc("/chat/{sessionId}", s.ClearSession).Methods(http.MethodDelete)
	r.HandleFunc("/weather/current", s.weather(query.KindCurrent)).Methods(http.MethodGet)
	r.HandleFunc("/weather/forecast", s.weather(query.KindForecast)).Methods(http.MethodGet)
	r.HandleFunc("/test", s.Test).Methods(http.MethodGet)
	r.HandleFunc("/tools", s.ListTools).Methods(http.MethodGet)
	for _, path := range s.toolPaths {
		r.HandleFunc(path, s.CallTool).Methods(http.MethodPost)
	}
	r.NotFoundHandler = http.HandlerFunc(s.NotFound)
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

type ChatResponse struct {
	Message     string    `json:"message"`
	WeatherData string    `json:"weatherData,omitempty"`
	Error       string    `json:"error,omitempty"`
	SessionID   string    `json:"sessionId"`
	Timestamp   time.Time `json:"timestamp"`
}

func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, twirp.InvalidArgumentError("body", "must be a JSON object"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, twirp.RequiredArgumentError("message"))
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	ctx := r.Context()
	history := s.history.Get(req.SessionID)
	slog.InfoContext(ctx, "Processing chat message", "session_id", req.SessionID, "history_len", len(history))

	resp := s.assist.ProcessMessage(ctx, req.Message, history)

	s.history.Append(req.SessionID,
		agent.Message{Role: agent.RoleUser, Content: req.Message},
		agent.Message{Role: agent.RoleAssistant, Content: resp.Message},
	)

	writeJSON(w, http.StatusOK, ChatResponse{
		Message:     resp.Message,
		WeatherData: resp.WeatherData,
		Error:       resp.Error,
		SessionID:   req.SessionID,
		Timestamp:   time.Now(),
	})
}

type WeatherResponse struct {
	City      string    `json:"city"`
	Data      string    `json:"data,omitempty"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) weather(kind query.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		city := strings.TrimSpace(r.URL.Query().Get("city"))
		if city == "" {
			writeError(w, twirp.RequiredArgumentError("city"))
			return
		}

		message := city + " hava durumu"
		if kind == query.KindForecast {
			message = city + " 7 günlük tahmin"
		}
		resp := s.assist.Answer(r.Context(), query.Intent{Place: city, Kind: kind}, message, nil)

		writeJSON(w, http.StatusOK, WeatherResponse{
			City:      city,
			Data:      resp.WeatherData,
			Message:   resp.Message,
			Error:     resp.Error,
			Timestamp: time.Now(),
		})
	}
}

func (s *Server) Test(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"timestamp": time.Now()}
	if err := s.assist.TestConnection(r.Context()); err != nil {
		slog.WarnContext(r.Context(), "Connection test failed", "error", err)
		resp["toolConnection"] = false
		resp["message"] = "Hava durumu servisi bağlantısı başarısız"
		resp["error"] = err.Error()
	} else {
		resp["toolConnection"] = true
		resp["message"] = "Hava durumu servisi bağlantısı başarılı"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) ClearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	s.history.Clear(sessionID)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   fmt.Sprintf("Session %s temizlendi", sessionID),
		"timestamp": time.Now(),
	})
}

// CallTool serves the tool-call contract. Tool failures are reported
// in-band with isError and a 200 status.
func (s *Server) CallTool(w http.ResponseWriter, r *http.Request) {
	var req tools.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, twirp.InvalidArgumentError("body", "must be a JSON object with name and arguments"))
		return
	}
	writeJSON(w, http.StatusOK, s.tools.Call(r.Context(), req))
}

func (s *Server) ListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.tools.Catalog()})
}

func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	endpoints := map[string]string{
		"/chat":             "POST - Asistan ile sohbet et",
		"/chat/{sessionId}": "DELETE - Sohbet geçmişini temizle",
		"/weather/current":  "GET - Direkt hava durumu al",
		"/weather/forecast": "GET - Direkt 7 günlük tahmin al",
		"/test":             "GET - Hava durumu servisi bağlantısını test et",
		"/tools":            "GET - Araç listesi",
	}
	for _, path := range s.toolPaths {
		endpoints[path] = "POST - Araç çağrısı"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":        Name,
		"version":     Version,
		"description": "Hava durumu araçlarını kullanan akıllı asistan",
		"capabilities": []string{
			"Güncel hava durumu sorgulama",
			"7 günlük hava durumu tahmini",
			"Dünya çapında şehir desteği",
			"Türkçe ve İngilizce dil desteği",
		},
		"endpoints": endpoints,
	})
}

func (s *Server) NotFound(w http.ResponseWriter, r *http.Request) {
	available := []string{
		"GET /health",
		"GET /ready",
		"GET /info",
		"POST /chat",
		"DELETE /chat/:sessionId",
		"GET /weather/current?city=<city>",
		"GET /weather/forecast?city=<city>",
		"GET /test",
		"GET /tools",
		"GET /metrics",
	}
	for _, path := range s.toolPaths {
		available = append(available, "POST "+path)
	}

	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":              "Endpoint bulunamadı",
		"availableEndpoints": available,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err twirp.Error) {
	if writeErr := twirp.WriteError(w, err); writeErr != nil {
		slog.Error("Failed to write error response", "error", writeErr)
	}
}
