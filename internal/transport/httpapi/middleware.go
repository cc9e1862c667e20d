package httpapi

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lukebdev/termlink/internal/core"
	"github.com/lukebdev/termlink/internal/service/ratelimit"
	"github.com/lukebdev/termlink/pkg/log"
)

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.FromCtx(r.Context()).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", clientKey(r)).
			Msg("http request")
		next.ServeHTTP(w, r)
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Admin-Token")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limited gates a handler behind the named rate scopes, checked in
// order. Headers always reflect the baseline scope; a rejection answers
// with the scope that tripped.
func (s *Server) limited(next http.HandlerFunc, scopes ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Limiter == nil {
			next(w, r)
			return
		}

		key := clientKey(r)
		for i, scope := range scopes {
			res := s.deps.Limiter.Check(scope, key)
			if i == 0 {
				setRateHeaders(w, res)
			}
			if !res.Allowed {
				setRateHeaders(w, res)
				writeError(w, &core.RateLimitError{Reset: res.Reset})
				return
			}
		}
		next(w, r)
	}
}

// admin gates privileged endpoints behind the shared secret, passed as
// a header or a query parameter. No secret configured means no access.
func (s *Server) admin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Admin-Token")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if s.deps.AdminToken == "" || token != s.deps.AdminToken {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
			return
		}
		next(w, r)
	}
}

func setRateHeaders(w http.ResponseWriter, res ratelimit.Result) {
	w.Header().Set("RateLimit-Limit", strconv.Itoa(res.Limit))
	w.Header().Set("RateLimit-Remaining", strconv.Itoa(res.Remaining))
	w.Header().Set("RateLimit-Reset", strconv.Itoa(ceilSeconds(res)))
}

func ceilSeconds(res ratelimit.Result) int {
	secs := int((res.Reset + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// clientKey buckets requests per caller: the first forwarded address
// when behind a proxy, the socket peer otherwise.
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
