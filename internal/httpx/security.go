package httpx

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/8adimka/Go_Weather_Assistant/internal/errorsx"
)

// SecurityConfig holds configuration for security middleware
type SecurityConfig struct {
	APIKey         string
	RateLimitRPS   float64
	RateLimitBurst int
	// PublicPaths skip the API key check. A trailing "/*" matches a prefix.
	PublicPaths []string
}

// SecurityMiddleware rate limits every request per IP and, when an API key
// is configured, requires it in X-API-Key on non-public paths.
type SecurityMiddleware struct {
	apiKey      string
	publicPaths []string
	rateLimit   *RateLimiter
}

func NewSecurityMiddleware(cfg SecurityConfig) *SecurityMiddleware {
	return &SecurityMiddleware{
		apiKey:      cfg.APIKey,
		publicPaths: cfg.PublicPaths,
		rateLimit:   NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
}

func (s *SecurityMiddleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return s.rateLimit.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.apiKey == "" || s.isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get("X-API-Key")
			if providedKey == "" {
				s.unauthorized(w, r, "API key required")
				return
			}
			if !ConstantTimeCompare(providedKey, s.apiKey) {
				s.unauthorized(w, r, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		}))
	}
}

func (s *SecurityMiddleware) isPublic(path string) bool {
	for _, pattern := range s.publicPaths {
		if matchesPath(path, pattern) {
			return true
		}
	}
	return false
}

func (s *SecurityMiddleware) unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	slog.WarnContext(r.Context(), message,
		"ip", GetClientIP(r),
		"method", r.Method,
		"path", r.URL.Path,
	)
	w.Header().Set("WWW-Authenticate", "API-Key")
	errorsx.WriteHTTPError(w, errorsx.Wrap(errorsx.ErrUnauthorized, message))
}

// ConstantTimeCompare compares two secrets without leaking their common prefix length.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// matchesPath supports exact matches and prefix patterns ending in "/*".
func matchesPath(path, pattern string) bool {
	if path == pattern {
		return true
	}

	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return strings.HasPrefix(path, prefix+"/") || path == prefix
	}

	return false
}
