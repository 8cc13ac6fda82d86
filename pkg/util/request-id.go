package util

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type key string

const (
	requestIDKey = key("x-request-id")

	// RequestIDHeader is the HTTP header carrying the caller supplied request id.
	RequestIDHeader = "X-Request-ID"
)

// WithRequestID returns a context with a request id.
// It will generate new request id if the provided id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = generate()
	}

	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns request id from context.
// Returns empty string if not present.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestIDMiddleware copies the X-Request-ID header into the request context,
// generating one when absent, and echoes it on the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithRequestID(r.Context(), r.Header.Get(RequestIDHeader))
		w.Header().Set(RequestIDHeader, GetRequestID(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// generate returns a uuid-v4 string to use as request id
func generate() string {
	return uuid.NewString()
}
