package httpmiddleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowOrigins lists the origins allowed to make cross-origin requests.
	// An empty list or the single entry "*" allows every origin.
	AllowOrigins []string

	// AllowMethods lists the HTTP methods clients may use.
	// Defaults to "GET, POST, OPTIONS" when empty.
	AllowMethods []string

	// AllowHeaders lists the request headers clients may send.
	// Defaults to "Content-Type" when empty.
	AllowHeaders []string

	// MaxAge is how long (in seconds) preflight results may be cached.
	// A zero value omits the header.
	MaxAge int
}

// CORS returns a middleware that answers preflight requests and attaches the
// allow headers to actual responses. Disallowed origins get no CORS headers,
// which makes the browser reject the response.
func CORS(cfg CORSConfig) Middleware {
	allowAll := len(cfg.AllowOrigins) == 0
	allowed := make(map[string]bool, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			allowAll = true
			continue
		}
		allowed[strings.ToLower(o)] = true
	}

	allowMethods := strings.Join(cfg.AllowMethods, ", ")
	if allowMethods == "" {
		allowMethods = "GET, POST, OPTIONS"
	}
	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")
	if allowHeaders == "" {
		allowHeaders = "Content-Type"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowOrigin := ""
			switch {
			case allowAll:
				allowOrigin = "*"
			case allowed[strings.ToLower(origin)]:
				allowOrigin = origin
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				if allowOrigin != "" {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", allowOrigin)
					h.Set("Access-Control-Allow-Methods", allowMethods)
					h.Set("Access-Control-Allow-Headers", allowHeaders)
					if cfg.MaxAge > 0 {
						h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
					}
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if allowOrigin != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			}
			next.ServeHTTP(w, r)
		})
	}
}
