package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stacklume/stacklume/pkg/dashboard"
	apperrors "github.com/stacklume/stacklume/pkg/errors"
	"github.com/stacklume/stacklume/pkg/grid"
	"github.com/stacklume/stacklume/pkg/layouts"
	sess "github.com/stacklume/stacklume/pkg/session"
)

// errorResponse is the JSON body for all API errors.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	writeJSON(w, apperrors.HTTPStatus(err), errorResponse{
		Code:    string(code),
		Message: apperrors.UserMessage(err),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Auth
// =============================================================================

func (s *Server) handleLoginState(w http.ResponseWriter, r *http.Request) {
	state, err := s.states.Generate(r.Context(), sess.DefaultStateTTL)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "generate login state"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"state": state})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	State    string `json:"state"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid login request body"))
		return
	}

	ok, err := s.states.Validate(r.Context(), req.State)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "validate login state"))
		return
	}
	if !ok {
		writeError(w, apperrors.New(apperrors.ErrCodeUnauthorized, "invalid or expired login state"))
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.password)) == 1
	if !userOK || !passOK {
		writeError(w, apperrors.New(apperrors.ErrCodeUnauthorized, "invalid credentials"))
		return
	}

	session, err := sess.New(req.Username, sess.DefaultTTL)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "create session"))
		return
	}
	if err := s.sessions.Set(r.Context(), session); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "store session"))
		return
	}

	cookie, _ := s.cookieStore.Get(r, cookieName)
	cookie.Values["session_id"] = session.ID
	if err := cookie.Save(r, w); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "save session cookie"))
		return
	}

	csrfToken, err := sess.GenerateState()
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "generate CSRF token"))
		return
	}
	// Readable on purpose: the frontend echoes it back in the CSRF header.
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    csrfToken,
		Path:     "/",
		MaxAge:   int(sess.DefaultTTL / time.Second),
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{
		"username":   session.Username,
		"csrf_token": csrfToken,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, _ := s.cookieStore.Get(r, cookieName)
	if id, ok := cookie.Values["session_id"].(string); ok && id != "" {
		_ = s.sessions.Delete(r.Context(), id)
	}
	cookie.Options.MaxAge = -1
	_ = cookie.Save(r, w)
	http.SetCookie(w, &http.Cookie{
		Name:   csrfCookieName,
		Path:   "/",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"username": session.Username})
}

// =============================================================================
// Dashboards
// =============================================================================

func (s *Server) handleListDashboards(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeStorage, err, "list dashboards"))
		return
	}
	if list == nil {
		list = []*dashboard.Dashboard{}
	}
	writeJSON(w, http.StatusOK, list)
}

type createDashboardRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleCreateDashboard(w http.ResponseWriter, r *http.Request) {
	var req createDashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid dashboard body"))
		return
	}

	d := dashboard.New(req.Title)
	d.Owner = sessionFrom(r.Context()).UserID()
	if err := d.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), d); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeStorage, err, "save dashboard"))
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.loadDashboard(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleUpdateDashboard(w http.ResponseWriter, r *http.Request) {
	existing, err := s.loadDashboard(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var next dashboard.Dashboard
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid dashboard body"))
		return
	}

	// Identity and provenance are server-owned.
	next.ID = existing.ID
	next.Owner = existing.Owner
	next.CreatedAt = existing.CreatedAt

	if err := next.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), &next); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeStorage, err, "save dashboard"))
		return
	}
	writeJSON(w, http.StatusOK, &next)
}

func (s *Server) handleDeleteDashboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeStorage, err, "delete dashboard"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Layouts
// =============================================================================

func (s *Server) handleLayouts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	opts := layouts.Options{
		Refresh: r.URL.Query().Get("refresh") == "true",
	}
	result, err := s.runner.DeriveAll(r.Context(), id, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCurrentLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	viewport, err := strconv.Atoi(r.URL.Query().Get("viewport"))
	if err != nil || viewport <= 0 {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "viewport query parameter must be a positive integer"))
		return
	}

	profile, arr, err := s.runner.Current(r.Context(), id, viewport, layouts.Options{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"breakpoint":  profile.Name,
		"columns":     profile.Columns,
		"arrangement": arr,
	})
}

func (s *Server) handleSaveLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	breakpoint := chi.URLParam(r, "breakpoint")
	if err := apperrors.ValidateBreakpointName(breakpoint); err != nil {
		writeError(w, err)
		return
	}

	var edited grid.Arrangement
	if err := json.NewDecoder(r.Body).Decode(&edited); err != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid arrangement body"))
		return
	}

	d, err := s.runner.SaveEdited(r.Context(), id, breakpoint, edited, layouts.Options{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleCompact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	moved, err := s.runner.CompactCanonical(r.Context(), id, layouts.Options{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"moved": moved})
}

// loadDashboard resolves the {id} URL parameter to a stored dashboard.
func (s *Server) loadDashboard(r *http.Request) (*dashboard.Dashboard, error) {
	id := chi.URLParam(r, "id")
	d, err := s.store.Get(r.Context(), id)
	if errors.Is(err, dashboard.ErrNotFound) {
		return nil, apperrors.New(apperrors.ErrCodeDashboardNotFound, "dashboard %q not found", id)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "load dashboard %q", id)
	}
	return d, nil
}
