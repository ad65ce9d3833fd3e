package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gainworld/travel-guide/internal/database"
	"github.com/gainworld/travel-guide/internal/middleware"
	"github.com/gainworld/travel-guide/internal/models"
	"github.com/gainworld/travel-guide/internal/services/google"
	"github.com/gainworld/travel-guide/internal/session"
)

// stubAuthenticator stands in for the Google client so handler tests never
// leave the process.
type stubAuthenticator struct {
	creds   *google.Credentials
	err     error
	gotCode string
}

func (s *stubAuthenticator) AuthCodeURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + url.QueryEscape(state)
}

func (s *stubAuthenticator) Authenticate(_ context.Context, code string) (*google.Credentials, error) {
	s.gotCode = code
	if s.err != nil {
		return nil, s.err
	}
	return s.creds, nil
}

// testEnv is a full HTTP server wired the way main wires it, backed by a
// throwaway database and a stubbed provider. The client carries cookies and
// never follows redirects, so tests can inspect each hop.
type testEnv struct {
	srv      *httptest.Server
	client   *http.Client
	db       *database.DB
	auth     *stubAuthenticator
	sessions *session.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	logger := zap.NewNop()
	sessions := session.NewManager([]byte("0123456789abcdef0123456789abcdef"))
	stub := &stubAuthenticator{
		creds: &google.Credentials{
			AccessToken:  "stub-access-token",
			RefreshToken: "stub-refresh-token",
			Claims: &models.IDClaims{
				Subject: "sub-123",
				Email:   "alice@example.com",
				Name:    "Alice Example",
				Picture: "https://example.com/alice.jpg",
			},
		},
	}

	authHandler := NewAuthHandler(stub, database.NewUserRepository(db), sessions, logger)
	placeHandler := NewPlaceHandler(database.NewPlaceRepository(db), logger)

	r := mux.NewRouter()
	r.Use(middleware.ContentType)
	authHandler.RegisterRoutes(r)

	protected := r.NewRoute().Subrouter()
	protected.Use(middleware.Auth(sessions, logger))
	protected.HandleFunc("/userinfo", authHandler.UserInfo).Methods("GET")
	placeHandler.RegisterRoutes(protected)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testEnv{srv: srv, client: client, db: db, auth: stub, sessions: sessions}
}

func (e *testEnv) do(t *testing.T, method, path string, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return resp, respBody
}

// login runs the full login flow against the stubbed provider and leaves the
// authenticated session cookie in the client jar.
func (e *testEnv) login(t *testing.T) {
	t.Helper()

	resp, _ := e.do(t, http.MethodGet, "/login", "")
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("GET /login status = %d, want 307", resp.StatusCode)
	}

	authURL, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("failed to parse authorization URL: %v", err)
	}
	state := authURL.Query().Get("state")
	if state == "" {
		t.Fatal("authorization URL carries no state parameter")
	}

	resp, _ = e.do(t, http.MethodGet, "/callback?state="+url.QueryEscape(state)+"&code=test-code", "")
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("GET /callback status = %d, want 307", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("callback redirected to %q, want /", loc)
	}
}

// authenticateAs plants an authenticated session cookie directly, without
// running the login flow.
func (e *testEnv) authenticateAs(t *testing.T, subjectID string) {
	t.Helper()

	rec := httptest.NewRecorder()
	if err := e.sessions.Authenticate(rec, httptest.NewRequest(http.MethodGet, "/", nil), subjectID); err != nil {
		t.Fatalf("failed to authenticate session: %v", err)
	}

	srvURL, err := url.Parse(e.srv.URL)
	if err != nil {
		t.Fatalf("failed to parse server URL: %v", err)
	}
	e.client.Jar.SetCookies(srvURL, rec.Result().Cookies())
}

func (e *testEnv) countRows(t *testing.T, table string) int {
	t.Helper()

	var count int
	if err := e.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	return count
}

func decodeMessage(t *testing.T, body []byte) string {
	t.Helper()

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("failed to decode message response %q: %v", body, err)
	}
	return payload.Message
}

func decodeError(t *testing.T, body []byte) string {
	t.Helper()

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("failed to decode error response %q: %v", body, err)
	}
	return payload.Error
}
