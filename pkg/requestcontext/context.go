// Package requestcontext carries request-scoped values through context.Context.
//
// HTTP middleware writes them; the audit, ranking and gen-ed services and the
// rate limiter read them without depending on net/http. Every accessor
// returns the zero value when nothing was set, which is the normal case for
// CLI runs.
package requestcontext

import (
	"context"
	"time"
)

type key int

const (
	subjectKey key = iota
	clientIPKey
	userAgentKey
	requestIDKey
	requestTimeKey
)

func str(ctx context.Context, k key) string {
	v, _ := ctx.Value(k).(string)
	return v
}

// Subject is the authenticated token subject, or "" for anonymous calls.
func Subject(ctx context.Context) string { return str(ctx, subjectKey) }

func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

func ClientIP(ctx context.Context) string { return str(ctx, clientIPKey) }

func UserAgent(ctx context.Context) string { return str(ctx, userAgentKey) }

// WithClientMetadata records the caller's address and User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey, clientIP)
	return context.WithValue(ctx, userAgentKey, userAgent)
}

func RequestID(ctx context.Context) string { return str(ctx, requestIDKey) }

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// Now is the time the request arrived. Outside a request it is the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins Now, mainly for tests.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}
