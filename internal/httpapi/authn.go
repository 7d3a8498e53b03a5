package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pforhan/teven-sub000/internal/access"
	"github.com/pforhan/teven-sub000/internal/audit"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// Paths an anonymous party must reach: token issuance, the invitation
// redemption flow, and operational probes.
var publicPaths = []string{
	"/v1/auth/token",
	"/v1/invitations/validate",
	"/v1/invitations/accept",
	"/metrics",
	"/healthz",
	"/readyz",
	"/v1/info",
	"/",
}

// withAuth verifies the bearer token and builds a fresh authorization
// context for every request. Role assignments are re-read each time, so
// revocations are visible immediately.
func (a *API) withAuth(next http.Handler) http.Handler {
	if a == nil || a.access == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if isPublicPath(r.URL.Path) {
			// Public endpoints still see the caller's identity when a
			// valid token accompanies the request; invitation acceptance
			// depends on knowing the caller is signed in.
			if ctx, ok := a.optionalAuth(r); ok {
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		userID, err := access.ParseAndValidate(token)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		ac, err := a.access.AuthContextFor(r.Context(), userID)
		if err != nil {
			switch {
			case errors.Is(err, access.ErrUnauthenticated):
				writeError(w, r, http.StatusUnauthorized, "unauthorized")
			default:
				writeError(w, r, http.StatusInternalServerError, "authentication error")
			}
			return
		}

		ctx := access.ContextWithAuth(r.Context(), ac)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// optionalAuth builds an authorization context if the request carries a
// valid bearer token. Failures are ignored; the request proceeds as
// anonymous.
func (a *API) optionalAuth(r *http.Request) (ctx context.Context, ok bool) {
	token, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		return nil, false
	}
	userID, err := access.ParseAndValidate(token)
	if err != nil {
		return nil, false
	}
	ac, err := a.access.AuthContextFor(r.Context(), userID)
	if err != nil {
		return nil, false
	}
	return access.ContextWithAuth(r.Context(), ac), true
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

// --- token issuance ---

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

const tokenTTL = 15 * time.Minute

func (a *API) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req tokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.access.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, access.ErrUnauthenticated) {
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "authentication error")
		return
	}

	token, err := access.GenerateToken(user.ID, tokenTTL)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	expiresAt := time.Now().UTC().Add(tokenTTL)
	_ = audit.LogEvent(r.Context(), "auth.token.issued", map[string]any{
		"user_id":    user.ID,
		"expires_at": expiresAt.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
