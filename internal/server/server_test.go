package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/stacklume/stacklume/pkg/cache"
	"github.com/stacklume/stacklume/pkg/dashboard"
	"github.com/stacklume/stacklume/pkg/grid"
	"github.com/stacklume/stacklume/pkg/layouts"
	sess "github.com/stacklume/stacklume/pkg/session"
)

func testServer(t *testing.T, cfg func(*Config)) (*Server, dashboard.Store) {
	t.Helper()

	store, err := dashboard.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	sessionStore, err := sess.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("session NewFileStore error: %v", err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})

	config := Config{
		Runner:        layouts.NewRunner(store, fileCache, nil, logger),
		Store:         store,
		Sessions:      sessionStore,
		SessionSecret: "test-secret",
		NoAuth:        true,
		Logger:        logger,
	}
	if cfg != nil {
		cfg(&config)
	}
	return New(config), store
}

func seedDashboard(t *testing.T, store dashboard.Store) *dashboard.Dashboard {
	t.Helper()
	d := dashboard.New("Home")
	d.Widgets = []dashboard.Widget{
		{ID: "clock", Kind: dashboard.KindClock},
		{ID: "weather", Kind: dashboard.KindWeather},
	}
	d.Canonical = grid.Arrangement{
		{ID: "clock", X: 0, Y: 0, W: 6, H: 2},
		{ID: "weather", X: 6, Y: 0, W: 6, H: 2},
	}
	if err := store.Save(context.Background(), d); err != nil {
		t.Fatalf("seed Save error: %v", err)
	}
	return d
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t, nil)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestCookieSecureFlag(t *testing.T) {
	// Plain-HTTP serving must not mark cookies Secure, or browsers would
	// silently drop them and every login would appear to fail.
	srv, _ := testServer(t, nil)
	if srv.cookieStore.Options.Secure {
		t.Error("Secure should default to false")
	}

	srv, _ = testServer(t, func(c *Config) {
		c.SecureCookies = true
	})
	if !srv.cookieStore.Options.Secure {
		t.Error("Secure should follow SecureCookies")
	}
}

func TestDashboardCRUD(t *testing.T) {
	srv, _ := testServer(t, nil)
	h := srv.Handler()

	// Create
	rec := doJSON(t, h, http.MethodPost, "/api/dashboards", map[string]string{"title": "Media"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var created dashboard.Dashboard
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" || created.Title != "Media" {
		t.Errorf("created = %+v", created)
	}
	if created.Owner != "user:local" {
		t.Errorf("Owner = %q, want user:local", created.Owner)
	}

	// Get
	rec = doJSON(t, h, http.MethodGet, "/api/dashboards/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// Update
	created.Title = "Media Server"
	rec = doJSON(t, h, http.MethodPut, "/api/dashboards/"+created.ID, created)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body)
	}
	var updated dashboard.Dashboard
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.Title != "Media Server" {
		t.Errorf("Title = %q", updated.Title)
	}

	// List
	rec = doJSON(t, h, http.MethodGet, "/api/dashboards", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []dashboard.Dashboard
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("list len = %d, want 1", len(list))
	}

	// Delete
	rec = doJSON(t, h, http.MethodDelete, "/api/dashboards/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/api/dashboards/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestDashboardNotFound(t *testing.T) {
	srv, _ := testServer(t, nil)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/dashboards/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Code != "DASHBOARD_NOT_FOUND" {
		t.Errorf("error code = %q", body.Code)
	}
}

func TestLayoutsEndpoint(t *testing.T) {
	srv, store := testServer(t, nil)
	d := seedDashboard(t, store)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/dashboards/"+d.ID+"/layouts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var result layouts.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Layouts) != 3 {
		t.Fatalf("layouts len = %d, want 3", len(result.Layouts))
	}
	narrow := result.Layouts["narrow"]
	byID := map[string]grid.Placement{}
	for _, p := range narrow {
		byID[p.ID] = p
	}
	if c := byID["clock"]; c.X != 0 || c.W != 3 {
		t.Errorf("clock = %+v, want x:0 w:3", c)
	}
}

func TestCurrentLayoutEndpoint(t *testing.T) {
	srv, store := testServer(t, nil)
	d := seedDashboard(t, store)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/dashboards/"+d.ID+"/layouts/current?viewport=1024", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var body struct {
		Breakpoint  string           `json:"breakpoint"`
		Columns     int              `json:"columns"`
		Arrangement grid.Arrangement `json:"arrangement"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Breakpoint != "medium" || body.Columns != 10 {
		t.Errorf("matched %s/%d, want medium/10", body.Breakpoint, body.Columns)
	}

	// Missing viewport parameter
	rec = doJSON(t, h, http.MethodGet, "/api/dashboards/"+d.ID+"/layouts/current", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status without viewport = %d, want 400", rec.Code)
	}
}

func TestSaveLayoutEndpoint(t *testing.T) {
	srv, store := testServer(t, nil)
	d := seedDashboard(t, store)

	edited := grid.Arrangement{
		{ID: "weather", X: 0, Y: 0, W: 3, H: 2},
		{ID: "clock", X: 3, Y: 0, W: 3, H: 2},
	}
	rec := doJSON(t, srv.Handler(), http.MethodPut, "/api/dashboards/"+d.ID+"/layouts/narrow", edited)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	stored, err := store.Get(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	byID := map[string]grid.Placement{}
	for _, p := range stored.Canonical {
		byID[p.ID] = p
	}
	if w := byID["weather"]; w.X != 0 || w.W != 6 {
		t.Errorf("weather = %+v, want x:0 w:6 in canonical space", w)
	}
}

func TestSaveLayoutUnknownBreakpoint(t *testing.T) {
	srv, store := testServer(t, nil)
	d := seedDashboard(t, store)

	rec := doJSON(t, srv.Handler(), http.MethodPut, "/api/dashboards/"+d.ID+"/layouts/huge", grid.Arrangement{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCompactEndpoint(t *testing.T) {
	srv, store := testServer(t, nil)
	d := seedDashboard(t, store)
	d.Canonical[0].Y = 5
	d.Canonical[1].Y = 5
	if err := store.Save(context.Background(), d); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/dashboards/"+d.ID+"/compact", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["moved"] != 2 {
		t.Errorf("moved = %d, want 2", body["moved"])
	}
}

func TestAuthRequired(t *testing.T) {
	srv, _ := testServer(t, func(c *Config) {
		c.NoAuth = false
		c.Username = "admin"
		c.Password = "hunter2"
	})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/dashboards", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	srv, store := testServer(t, func(c *Config) {
		c.NoAuth = false
		c.Username = "admin"
		c.Password = "hunter2"
	})
	seedDashboard(t, store)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	client := &http.Client{Jar: jar}

	// Fetch a login state token
	resp, err := client.Get(ts.URL + "/api/login/state")
	if err != nil {
		t.Fatalf("state request error: %v", err)
	}
	var stateBody map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&stateBody); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	resp.Body.Close()

	// Wrong password fails
	badReq, _ := json.Marshal(map[string]string{
		"username": "admin", "password": "wrong", "state": stateBody["state"],
	})
	resp, err = client.Post(ts.URL+"/api/login", "application/json", bytes.NewReader(badReq))
	if err != nil {
		t.Fatalf("login request error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", resp.StatusCode)
	}

	// State tokens are single use: fetch a fresh one and log in
	resp, err = client.Get(ts.URL + "/api/login/state")
	if err != nil {
		t.Fatalf("state request error: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&stateBody); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	resp.Body.Close()

	goodReq, _ := json.Marshal(map[string]string{
		"username": "admin", "password": "hunter2", "state": stateBody["state"],
	})
	resp, err = client.Post(ts.URL+"/api/login", "application/json", bytes.NewReader(goodReq))
	if err != nil {
		t.Fatalf("login request error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}

	// The cookie now authenticates API calls
	resp, err = client.Get(ts.URL + "/api/me")
	if err != nil {
		t.Fatalf("me request error: %v", err)
	}
	var me map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	resp.Body.Close()
	if me["username"] != "admin" {
		t.Errorf("me = %v", me)
	}

	// Logout invalidates the session
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/logout", nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("logout request error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", resp.StatusCode)
	}

	resp, err = client.Get(ts.URL + "/api/me")
	if err != nil {
		t.Fatalf("me request error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("me after logout status = %d, want 401", resp.StatusCode)
	}
}

func TestCSRFProtectsMutatingRequests(t *testing.T) {
	srv, _ := testServer(t, func(c *Config) {
		c.NoAuth = false
		c.Username = "admin"
		c.Password = "hunter2"
	})

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	client := &http.Client{Jar: jar}

	resp, err := client.Get(ts.URL + "/api/login/state")
	if err != nil {
		t.Fatalf("state request error: %v", err)
	}
	var stateBody map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&stateBody); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	resp.Body.Close()

	loginReq, _ := json.Marshal(map[string]string{
		"username": "admin", "password": "hunter2", "state": stateBody["state"],
	})
	resp, err = client.Post(ts.URL+"/api/login", "application/json", bytes.NewReader(loginReq))
	if err != nil {
		t.Fatalf("login request error: %v", err)
	}
	var loginBody map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&loginBody); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	resp.Body.Close()
	if loginBody["csrf_token"] == "" {
		t.Fatal("login response should carry a CSRF token")
	}

	// Reads need no token
	resp, err = client.Get(ts.URL + "/api/dashboards")
	if err != nil {
		t.Fatalf("list request error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("list status = %d, want 200", resp.StatusCode)
	}

	// A mutating request without the header is what a cross-site form
	// post looks like: cookie present, token absent.
	body, _ := json.Marshal(map[string]string{"title": "Media"})
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/dashboards", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("create request error: %v", err)
	}
	var errBody errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("create without token status = %d, want 403", resp.StatusCode)
	}
	if errBody.Code != "FORBIDDEN" {
		t.Errorf("error code = %q, want FORBIDDEN", errBody.Code)
	}

	// Echoing the token back satisfies the double-submit check
	req, _ = http.NewRequest(http.MethodPost, ts.URL+"/api/dashboards", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", loginBody["csrf_token"])
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("create request error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("create with token status = %d, want 201", resp.StatusCode)
	}
}
