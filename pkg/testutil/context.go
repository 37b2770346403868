package testutil

import (
	"net/http"

	"degreeaudit/pkg/requestcontext"
)

// WithSubject adds an authenticated token subject to the request context.
// This simulates what the auth middleware does for authenticated requests.
func WithSubject(req *http.Request, subject string) *http.Request {
	return req.WithContext(requestcontext.WithSubject(req.Context(), subject))
}

// WithClientMetadata adds client IP and User-Agent to the request context.
func WithClientMetadata(req *http.Request, clientIP, userAgent string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), clientIP, userAgent))
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
