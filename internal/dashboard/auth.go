package dashboard

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"github.com/soyeahso/scoredeck/internal/config"
)

// ResolvedAuth holds the resolved API auth configuration.
type ResolvedAuth struct {
	Token string
}

// Enabled reports whether token auth is configured. An empty token
// disables auth, intended for loopback-only deployments.
func (a ResolvedAuth) Enabled() bool {
	return a.Token != ""
}

// ResolveAuth resolves the API token from config and environment.
// Precedence: config value, then SCOREDECK_DASHBOARD_TOKEN.
func ResolveAuth(cfg config.DashboardAuth) ResolvedAuth {
	token := cfg.Token
	if token == "" {
		token = os.Getenv("SCOREDECK_DASHBOARD_TOKEN")
	}
	return ResolvedAuth{Token: token}
}

// Authorize checks the bearer token on a request. Requests may also
// carry the token in the "token" query parameter for WebSocket clients
// that cannot set headers.
func (a ResolvedAuth) Authorize(r *http.Request) bool {
	if !a.Enabled() {
		return true
	}

	presented := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		presented = strings.TrimPrefix(h, "Bearer ")
	} else if q := r.URL.Query().Get("token"); q != "" {
		presented = q
	}
	if presented == "" {
		return false
	}
	return safeEqual(presented, a.Token)
}

// safeEqual performs a constant-time string comparison to prevent timing attacks.
// It avoids early-return on length mismatch to prevent leaking secret length via timing.
func safeEqual(a, b string) bool {
	lenMatch := subtle.ConstantTimeEq(int32(len(a)), int32(len(b)))
	cmp := subtle.ConstantTimeCompare([]byte(a), []byte(b))
	return subtle.ConstantTimeSelect(lenMatch, cmp, 0) == 1
}
