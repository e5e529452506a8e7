package server

import (
	"context"
	"crypto/subtle"
	"net/http"

	apperrors "github.com/stacklume/stacklume/pkg/errors"
	sess "github.com/stacklume/stacklume/pkg/session"
)

type contextKey string

// sessionContextKey carries the authenticated session through a request.
const sessionContextKey contextKey = "stacklume.session"

// sessionFrom returns the session attached by requireSession. Handlers
// behind the middleware can rely on it being non-nil.
func sessionFrom(ctx context.Context) *sess.Session {
	s, _ := ctx.Value(sessionContextKey).(*sess.Session)
	return s
}

// requireSession authenticates the request. With NoAuth every request
// runs as the local user; otherwise the session cookie must resolve to
// a live server-side session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.noAuth {
			ctx := context.WithValue(r.Context(), sessionContextKey, sess.Local())
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		cookie, err := s.cookieStore.Get(r, cookieName)
		if err != nil {
			writeError(w, apperrors.New(apperrors.ErrCodeUnauthorized, "invalid session cookie"))
			return
		}
		id, _ := cookie.Values["session_id"].(string)
		if id == "" {
			writeError(w, apperrors.New(apperrors.ErrCodeUnauthorized, "not logged in"))
			return
		}

		session, err := s.sessions.Get(r.Context(), id)
		if err != nil {
			writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "load session"))
			return
		}
		if session == nil {
			writeError(w, apperrors.New(apperrors.ErrCodeSessionExpired, "session expired, log in again"))
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireCSRF enforces the double-submit check on mutating requests: the
// CSRF cookie issued at login must be echoed back in the X-CSRF-Token
// header. Cross-site form posts carry the cookie but cannot set the
// header. Safe methods and NoAuth mode pass through.
func (s *Server) requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.noAuth {
			next.ServeHTTP(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(csrfCookieName)
		if err != nil || cookie.Value == "" {
			writeError(w, apperrors.New(apperrors.ErrCodeForbidden, "missing CSRF token"))
			return
		}
		header := r.Header.Get(csrfHeader)
		if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
			writeError(w, apperrors.New(apperrors.ErrCodeForbidden, "invalid CSRF token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
