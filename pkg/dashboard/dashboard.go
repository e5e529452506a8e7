// Package dashboard defines the dashboard document model and its storage
// backends.
//
// A dashboard is a titled collection of widgets together with one
// canonical widget arrangement on the widest breakpoint grid. The
// canonical arrangement is the only persisted layout; arrangements for
// smaller breakpoints are derived on demand by the layouts service.
package dashboard

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/stacklume/stacklume/pkg/cache"
	apperrors "github.com/stacklume/stacklume/pkg/errors"
	"github.com/stacklume/stacklume/pkg/grid"
)

// Widget kinds understood by the frontend.
const (
	KindBookmarks = "bookmarks"
	KindClock     = "clock"
	KindWeather   = "weather"
	KindRSS       = "rss"
	KindIframe    = "iframe"
	KindMonitor   = "monitor"
)

// Bookmark is one link inside a bookmarks widget.
type Bookmark struct {
	Title string `json:"title" bson:"title"`
	URL   string `json:"url" bson:"url"`
	Icon  string `json:"icon,omitempty" bson:"icon,omitempty"`
}

// Category groups bookmarks under a heading.
type Category struct {
	Title     string     `json:"title" bson:"title"`
	Bookmarks []Bookmark `json:"bookmarks" bson:"bookmarks"`
}

// Widget is one tile on the dashboard. Its position lives in the
// dashboard's canonical arrangement, keyed by the widget ID.
type Widget struct {
	ID         string          `json:"id" bson:"_id"`
	Kind       string          `json:"kind" bson:"kind"`
	Title      string          `json:"title,omitempty" bson:"title,omitempty"`
	URL        string          `json:"url,omitempty" bson:"url,omitempty"`
	Categories []Category      `json:"categories,omitempty" bson:"categories,omitempty"`
	Options    json.RawMessage `json:"options,omitempty" bson:"options,omitempty"`
}

// Dashboard is the persisted document: widgets plus the canonical
// arrangement and the breakpoint profiles it is derived for.
type Dashboard struct {
	ID        string           `json:"id" bson:"_id"`
	Owner     string           `json:"owner,omitempty" bson:"owner,omitempty"`
	Title     string           `json:"title" bson:"title"`
	Widgets   []Widget         `json:"widgets" bson:"widgets"`
	Canonical grid.Arrangement `json:"canonical" bson:"canonical"`
	Profiles  grid.ProfileSet  `json:"profiles,omitempty" bson:"profiles,omitempty"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" bson:"updated_at"`
}

// New creates an empty dashboard with a generated ID and the reference
// breakpoint profiles.
func New(title string) *Dashboard {
	now := time.Now().UTC()
	return &Dashboard{
		ID:        uuid.NewString(),
		Title:     title,
		Profiles:  grid.DefaultProfiles(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EffectiveProfiles returns the dashboard's breakpoint profiles, falling
// back to the reference set for documents persisted without one.
func (d *Dashboard) EffectiveProfiles() grid.ProfileSet {
	if len(d.Profiles) == 0 {
		return grid.DefaultProfiles()
	}
	return d.Profiles
}

// Widget returns the widget with the given ID.
func (d *Dashboard) Widget(id string) (Widget, bool) {
	for _, w := range d.Widgets {
		if w.ID == id {
			return w, true
		}
	}
	return Widget{}, false
}

// Validate checks the document: a sane title, valid widget IDs and URLs,
// valid breakpoint profiles, and a canonical arrangement that is
// collision-free on the canonical grid and references only existing
// widgets.
func (d *Dashboard) Validate() error {
	if err := apperrors.ValidateDashboardTitle(d.Title); err != nil {
		return err
	}
	if err := d.EffectiveProfiles().Validate(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidBreakpoint, err, "invalid breakpoint profiles")
	}

	ids := make(map[string]bool, len(d.Widgets))
	for _, w := range d.Widgets {
		if err := apperrors.ValidateWidgetID(w.ID); err != nil {
			return err
		}
		if ids[w.ID] {
			return apperrors.New(apperrors.ErrCodeInvalidWidget, "duplicate widget ID %q", w.ID)
		}
		ids[w.ID] = true
		if w.URL != "" {
			if err := apperrors.ValidateURL(w.URL); err != nil {
				return err
			}
		}
		for _, c := range w.Categories {
			for _, b := range c.Bookmarks {
				if err := apperrors.ValidateURL(b.URL); err != nil {
					return err
				}
			}
		}
	}

	columns := d.EffectiveProfiles().Canonical().Columns
	if err := d.Canonical.Validate(columns); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidLayout, err, "invalid canonical arrangement")
	}
	for _, p := range d.Canonical {
		if !ids[p.ID] {
			return apperrors.New(apperrors.ErrCodeInvalidLayout, "arrangement references unknown widget %q", p.ID)
		}
	}
	return nil
}

// CanonicalHash returns a content hash of the canonical arrangement,
// used in derived-layout cache keys.
func (d *Dashboard) CanonicalHash() string {
	data, _ := json.Marshal(d.Canonical)
	return cache.Hash(data)
}

// ProfilesHash returns a content hash of the effective profile set,
// used in derived-layout cache keys.
func (d *Dashboard) ProfilesHash() string {
	data, _ := json.Marshal(d.EffectiveProfiles())
	return cache.Hash(data)
}
