// Package session manages the cookie-backed login session: the anti-forgery
// state token issued per login attempt and the authenticated-session marker
// consulted by every protected endpoint.
package session

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName = "travel-guide-session"

	keyState    = "state"
	keyLoggedIn = "logged_in"
	keySubject  = "subject_id"
)

var (
	// ErrInvalidState is returned when the callback state is absent from the
	// session or does not equal the received value. This is the anti-CSRF
	// check binding a login attempt to its callback.
	ErrInvalidState = errors.New("invalid state parameter")

	// ErrNotAuthenticated is returned when the session carries no
	// authenticated marker.
	ErrNotAuthenticated = errors.New("user not logged in")
)

// Manager issues and validates login state and tracks the authenticated
// subject in a signed cookie session.
type Manager struct {
	store *sessions.CookieStore
}

// NewManager creates a session manager signing cookies with the given key.
func NewManager(sessionKey []byte) *Manager {
	store := sessions.NewCookieStore(sessionKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

// IssueState generates a fresh unguessable state token for a login attempt
// and stores it in the caller's session.
func (m *Manager) IssueState(w http.ResponseWriter, r *http.Request) (string, error) {
	session := m.session(r)

	state := uuid.NewString()
	session.Values[keyState] = state

	if err := session.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	return state, nil
}

// ValidateState compares the received callback state with the stored token.
// The stored token is cleared on success so it cannot be replayed.
func (m *Manager) ValidateState(w http.ResponseWriter, r *http.Request, received string) error {
	session := m.session(r)

	stored, ok := session.Values[keyState].(string)
	if !ok || stored == "" || received == "" || received != stored {
		return ErrInvalidState
	}

	delete(session.Values, keyState)
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Authenticate marks the session as logged in for the given subject.
func (m *Manager) Authenticate(w http.ResponseWriter, r *http.Request, subjectID string) error {
	session := m.session(r)

	session.Values[keyLoggedIn] = true
	session.Values[keySubject] = subjectID

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Clear removes the authenticated marker, returning the session to the
// unauthenticated state.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	session := m.session(r)

	delete(session.Values, keyLoggedIn)
	delete(session.Values, keySubject)

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Subject returns the authenticated subject ID, or ErrNotAuthenticated when
// either marker is missing.
func (m *Manager) Subject(r *http.Request) (string, error) {
	session := m.session(r)

	loggedIn, ok := session.Values[keyLoggedIn].(bool)
	if !ok || !loggedIn {
		return "", ErrNotAuthenticated
	}

	subject, ok := session.Values[keySubject].(string)
	if !ok || subject == "" {
		return "", ErrNotAuthenticated
	}

	return subject, nil
}

// session returns the request's session, treating decode failures as a fresh
// session rather than an error. gorilla/sessions returns a usable new session
// alongside such errors.
func (m *Manager) session(r *http.Request) *sessions.Session {
	session, _ := m.store.Get(r, sessionName)
	return session
}
