// Package session provides session management for authenticated users.
//
// This package defines interfaces for session storage and login state
// management, with implementations for different backends:
//   - file: File-based storage for single-instance deployments
//   - redis: Redis-backed storage for multi-instance deployments
//
// # Architecture
//
// Sessions store the authenticated username with automatic expiration.
// The Store interface supports:
//   - Get/Set/Delete operations
//   - Automatic expiration checking
//   - Cleanup of expired sessions
//
// State tokens provide CSRF protection during the login flow. The
// StateStore interface supports:
//   - Token generation with TTL
//   - Single-use validation (tokens are deleted after validation)
//
// # Usage
//
// Create a session store:
//
//	// Single instance
//	store, err := session.NewFileStore("")  // Uses ~/.config/stacklume/sessions/
//
//	// Multi-instance
//	store, err := session.NewRedisStore(ctx, "redis://localhost:6379/0")
//
// Manage sessions:
//
//	// Create session
//	sess, err := session.New(username, session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	// Retrieve session
//	sess, err := store.Get(ctx, sessionID)
//	if err != nil {
//	    return err
//	}
//	if sess == nil || sess.IsExpired() {
//	    // Session not found or expired
//	}
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")

	// ErrInvalidState is returned when a login state token is invalid or already used.
	ErrInvalidState = errors.New("invalid or expired state token")
)

// Session stores user session data.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// UserID returns a storage-compatible user identifier.
// Format: "user:{username}" to namespace session-derived identifiers.
// This format is used in cache keys and dashboard ownership.
func (s *Session) UserID() string {
	if s == nil || s.Username == "" {
		return ""
	}
	return "user:" + s.Username
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (optional, may be no-op for Redis).
	Cleanup(ctx context.Context) error
}

// StateStore manages login state tokens for CSRF protection.
// State tokens are short-lived (typically 10 minutes) and single-use.
// For multi-instance deployments, use Redis to share state across instances.
type StateStore interface {
	// Generate creates a new state token and stores it with the given TTL.
	// Returns the generated state token.
	Generate(ctx context.Context, ttl time.Duration) (string, error)

	// Validate checks if a state token is valid and removes it (single-use).
	// Returns true if the token was valid and not expired.
	Validate(ctx context.Context, state string) (bool, error)

	// Cleanup removes expired state tokens (optional, may be no-op for Redis).
	Cleanup(ctx context.Context) error
}

// Default durations.
const (
	// DefaultTTL is the default session duration.
	DefaultTTL = 24 * time.Hour

	// DefaultStateTTL is the default login state token duration.
	DefaultStateTTL = 10 * time.Minute
)

// GenerateID creates a cryptographically secure random session ID.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// GenerateState creates a cryptographically secure random state token.
func GenerateState() (string, error) {
	return GenerateID() // Same implementation, different semantic meaning
}

// New creates a new session for the given user.
func New(username string, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:        id,
		Username:  username,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// Local creates a mock session for local deployments without authentication.
// This is used when --no-auth is enabled.
func Local() *Session {
	now := time.Now()
	return &Session{
		ID:        "local-session",
		Username:  "local",
		ExpiresAt: now.Add(365 * 24 * time.Hour), // Never expires
		CreatedAt: now,
	}
}
