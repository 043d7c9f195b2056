// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, a structured HTTP access logger that
// scrubs identifying values from request metadata before emitting logs.
// Request and response bodies are never logged, so the anthropometric
// payloads (weight, circumference measurements) stay out of the logs by
// construction; usernames, which travel in query strings on the history
// endpoints, are masked explicitly.
package middleware

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RedactOptions configures additional scrub behavior for RedactingLogger.
//
// MaskHeaders lists extra HTTP header names whose values are fully replaced
// with "[REDACTED]". Matching is case-insensitive and merged with built-in
// sensitive headers (Authorization, Cookie, Set-Cookie).
//
// MaskQueryParams lists query parameter names whose values are masked in the
// logged query string; "username" is always included.
type RedactOptions struct {
	MaskHeaders     []string
	MaskQueryParams []string
}

// RedactingLogger returns a Gin middleware that logs each request with
// sensitive values scrubbed: masked query parameters, masked headers, and
// regex-based removal of emails and UUID-like identifiers from the
// remaining header values. Log level follows the response status
// (info / warn 4xx / error 5xx).
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	uuidRE := regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE := regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)

	redact := func(s string) string {
		if s == "" {
			return s
		}
		out := uuidRE.ReplaceAllString(s, "[REDACTED:id]")
		return emailRE.ReplaceAllString(out, "[REDACTED:email]")
	}

	maskHeaders := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}

	maskParams := map[string]struct{}{
		"username": {},
	}
	for _, p := range opts.MaskQueryParams {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			maskParams[p] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := redact(maskQuery(c.Request.URL.Query(), maskParams))

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := maskHeaders[strings.ToLower(k)]; ok {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = redact(strings.Join(vv, ", "))
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		reqID := c.Writer.Header().Get("X-Request-ID")
		if reqID == "" {
			reqID = c.GetHeader("X-Request-ID")
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}

		ev.
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", latency).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}

// maskQuery re-encodes the query string with the values of masked parameters
// replaced. Parameter order is whatever url.Values produces; logs do not
// depend on it.
func maskQuery(q url.Values, masked map[string]struct{}) string {
	if len(q) == 0 {
		return ""
	}
	out := url.Values{}
	for k, vv := range q {
		if _, ok := masked[strings.ToLower(k)]; ok {
			for range vv {
				out.Add(k, "[REDACTED]")
			}
			continue
		}
		for _, v := range vv {
			out.Add(k, v)
		}
	}
	return out.Encode()
}
