package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"blogsearch/internal/locale"
	"blogsearch/internal/metrics"
)

type localeKey struct{}

// LocaleFrom returns the locale negotiated for a request
func LocaleFrom(ctx context.Context) string {
	v, _ := ctx.Value(localeKey{}).(string)
	return v
}

// Locale negotiates the request locale. A lang query parameter wins over
// Accept-Language.
func Locale(n *locale.Negotiator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var loc string
			if lang := r.URL.Query().Get("lang"); lang != "" {
				loc = n.Match(lang)
			} else {
				loc = n.FromAcceptLanguage(r.Header.Get("Accept-Language"))
			}
			w.Header().Set("Content-Language", loc)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), localeKey{}, loc)))
		})
	}
}

// Logging writes one slog line per request
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			level := slog.LevelInfo
			if sw.status >= 500 {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start),
				"locale", sw.Header().Get("Content-Language"),
			)
		})
	}
}

// Metrics records request count, latency and the in-flight gauge
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			path := routeLabel(r)
			m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// routeLabel keeps label cardinality bounded to the registered routes
func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return "unmatched"
}

// statusWriter captures the response status code
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.status = code
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.wroteHeader {
		sw.wroteHeader = true
	}
	return sw.ResponseWriter.Write(b)
}
