package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"project-management-app/backend/domain"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const HeaderRequestID = "X-Request-ID"

// Authenticator resolves a bearer token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// RequestID tags the request with an id, reusing the caller's when present,
// and stores a logger carrying it in the context.
func RequestID(logger *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)

			entry := logger.WithFields(logrus.Fields{
				"request_id": id,
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			ctx := context.WithValue(r.Context(), keyLogger{}, entry)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// ExtractTraceInfoMiddleware continues a trace started by the caller and
// opens a server span named after the matched route.
func ExtractTraceInfoMiddleware(tracer trace.Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			name := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					name = tpl
				}
			}
			ctx, span := tracer.Start(ctx, r.Method+" "+name, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			if sc := span.SpanContext(); sc.IsValid() {
				ctx = context.WithValue(ctx, keyLogger{}, loggerFrom(r).WithField("trace_id", sc.TraceID().String()))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Sanitize drops operator-like keys ($-prefixed or dotted) from the query
// string and from JSON bodies before they reach a handler.
func Sanitize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		values := r.URL.Query()
		dirty := false
		for key := range values {
			if unsafeKey(key) {
				values.Del(key)
				dirty = true
			}
		}
		if dirty {
			r.URL.RawQuery = values.Encode()
		}

		if r.Body != nil && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
			_ = r.Body.Close()
			if err == nil {
				raw = sanitizeJSON(raw)
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
		}

		next.ServeHTTP(w, r)
	})
}

func unsafeKey(key string) bool {
	return strings.HasPrefix(key, "$") || strings.Contains(key, ".")
}

// sanitizeJSON returns raw unchanged when it is not valid JSON; decoding
// then fails in the handler with a proper validation error.
func sanitizeJSON(raw []byte) []byte {
	var body interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return raw
	}
	clean, err := json.Marshal(strip(body))
	if err != nil {
		return raw
	}
	return clean
}

func strip(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, child := range t {
			if unsafeKey(k) {
				delete(t, k)
				continue
			}
			t[k] = strip(child)
		}
		return t
	case []interface{}:
		for i := range t {
			t[i] = strip(t[i])
		}
		return t
	default:
		return v
	}
}

// MiddlewareAuth requires a valid bearer token and puts the user in context.
func MiddlewareAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				writeErrorResp(domain.ErrMissingToken(), w, r)
				return
			}

			user, err := auth.Authenticate(r.Context(), strings.TrimSpace(token))
			if err != nil {
				writeErrorResp(err, w, r)
				return
			}

			ctx := context.WithValue(r.Context(), KeyUser{}, user)
			ctx = context.WithValue(ctx, keyLogger{}, loggerFrom(r).WithField("user_id", user.Id.Hex()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MiddlewareRole lets through users holding one of roles. It must run after
// MiddlewareAuth.
func MiddlewareRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := actorFrom(r)
			if user == nil {
				writeErrorResp(domain.ErrMissingToken(), w, r)
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			loggerFrom(r).WithField("role", user.Role.String()).Info("role not allowed")
			writeErrorResp(domain.ErrForbidden(), w, r)
		})
	}
}
