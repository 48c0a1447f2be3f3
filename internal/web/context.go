package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/sheetcheck/internal/core"
)

// withOrigin tags the request context with the client address (already
// rewritten by TrustedRealIP) and user agent.
func withOrigin(r *http.Request) context.Context {
	return core.WithOrigin(r.Context(), core.Origin{
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
}
