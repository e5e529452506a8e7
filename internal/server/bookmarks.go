package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stacklume/stacklume/pkg/dashboard"
	apperrors "github.com/stacklume/stacklume/pkg/errors"
)

// Categories and bookmarks are addressed by position inside their widget,
// not by synthetic IDs. The slices are small, ordered, and owned by a
// single widget, so the index in the stored slice is the stable handle
// the frontend already has.

type categoryRequest struct {
	Title string `json:"title"`
}

type bookmarkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Icon  string `json:"icon,omitempty"`
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "category body must carry a title"))
		return
	}
	s.mutateBookmarksWidget(w, r, http.StatusCreated, func(widget *dashboard.Widget) error {
		widget.Categories = append(widget.Categories, dashboard.Category{Title: req.Title})
		return nil
	})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "category body must carry a title"))
		return
	}
	s.mutateBookmarksWidget(w, r, http.StatusOK, func(widget *dashboard.Widget) error {
		pos, err := categoryIndex(r, widget)
		if err != nil {
			return err
		}
		widget.Categories[pos].Title = req.Title
		return nil
	})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	s.mutateBookmarksWidget(w, r, http.StatusOK, func(widget *dashboard.Widget) error {
		pos, err := categoryIndex(r, widget)
		if err != nil {
			return err
		}
		widget.Categories = append(widget.Categories[:pos], widget.Categories[pos+1:]...)
		return nil
	})
}

func (s *Server) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	var req bookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.URL == "" {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "bookmark body must carry a title and url"))
		return
	}
	s.mutateBookmarksWidget(w, r, http.StatusCreated, func(widget *dashboard.Widget) error {
		pos, err := categoryIndex(r, widget)
		if err != nil {
			return err
		}
		cat := &widget.Categories[pos]
		cat.Bookmarks = append(cat.Bookmarks, dashboard.Bookmark{
			Title: req.Title,
			URL:   req.URL,
			Icon:  req.Icon,
		})
		return nil
	})
}

func (s *Server) handleUpdateBookmark(w http.ResponseWriter, r *http.Request) {
	var req bookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.URL == "" {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "bookmark body must carry a title and url"))
		return
	}
	s.mutateBookmarksWidget(w, r, http.StatusOK, func(widget *dashboard.Widget) error {
		pos, err := categoryIndex(r, widget)
		if err != nil {
			return err
		}
		bpos, err := bookmarkIndex(r, &widget.Categories[pos])
		if err != nil {
			return err
		}
		widget.Categories[pos].Bookmarks[bpos] = dashboard.Bookmark{
			Title: req.Title,
			URL:   req.URL,
			Icon:  req.Icon,
		}
		return nil
	})
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	s.mutateBookmarksWidget(w, r, http.StatusOK, func(widget *dashboard.Widget) error {
		pos, err := categoryIndex(r, widget)
		if err != nil {
			return err
		}
		cat := &widget.Categories[pos]
		bpos, err := bookmarkIndex(r, cat)
		if err != nil {
			return err
		}
		cat.Bookmarks = append(cat.Bookmarks[:bpos], cat.Bookmarks[bpos+1:]...)
		return nil
	})
}

// mutateBookmarksWidget loads the dashboard, resolves the target widget,
// applies the mutation, validates, and persists. The updated widget is
// the response body.
func (s *Server) mutateBookmarksWidget(w http.ResponseWriter, r *http.Request, status int, mutate func(*dashboard.Widget) error) {
	d, err := s.loadDashboard(r)
	if err != nil {
		writeError(w, err)
		return
	}

	widgetID := chi.URLParam(r, "widgetID")
	idx := -1
	for i := range d.Widgets {
		if d.Widgets[i].ID == widgetID {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeError(w, apperrors.New(apperrors.ErrCodeWidgetNotFound, "widget %q not found", widgetID))
		return
	}
	widget := &d.Widgets[idx]
	if widget.Kind != dashboard.KindBookmarks {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidWidget, "widget %q is not a bookmarks widget", widgetID))
		return
	}

	if err := mutate(widget); err != nil {
		writeError(w, err)
		return
	}
	if err := d.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), d); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeStorage, err, "save dashboard"))
		return
	}
	writeJSON(w, status, widget)
}

// categoryIndex parses the {pos} URL parameter and bounds-checks it
// against the widget's categories.
func categoryIndex(r *http.Request, widget *dashboard.Widget) (int, error) {
	pos, err := strconv.Atoi(chi.URLParam(r, "pos"))
	if err != nil || pos < 0 || pos >= len(widget.Categories) {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "no category at position %q", chi.URLParam(r, "pos"))
	}
	return pos, nil
}

// bookmarkIndex parses the {bpos} URL parameter and bounds-checks it
// against the category's bookmarks.
func bookmarkIndex(r *http.Request, cat *dashboard.Category) (int, error) {
	bpos, err := strconv.Atoi(chi.URLParam(r, "bpos"))
	if err != nil || bpos < 0 || bpos >= len(cat.Bookmarks) {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "no bookmark at position %q", chi.URLParam(r, "bpos"))
	}
	return bpos, nil
}
