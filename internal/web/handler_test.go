package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	authservice "github.com/weblogin/weblogin/internal/auth/service"
	"github.com/weblogin/weblogin/internal/common/constants"
	commoncrypto "github.com/weblogin/weblogin/internal/common/crypto"
	"github.com/weblogin/weblogin/internal/common/logger"
	"github.com/weblogin/weblogin/internal/session"
	"github.com/weblogin/weblogin/internal/user/domain"
	userrepo "github.com/weblogin/weblogin/internal/user/repository"
)

type stubRepository struct {
	users map[domain.ID]domain.User
}

func (s *stubRepository) Create(ctx context.Context, user domain.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (s *stubRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, userrepo.ErrUserNotFound
	}
	return u, nil
}

func (s *stubRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	if errors.Is(err, userrepo.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	log, err := logger.New("", "test", "CRITICAL")
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}

	repo := &stubRepository{users: make(map[domain.ID]domain.User)}
	hasher := commoncrypto.NewBcryptHasher(bcrypt.MinCost)
	ids := commoncrypto.NewUUIDGenerator()
	tokens := commoncrypto.NewRandomTokenGenerator()

	auth := authservice.NewAuthService(repo, hasher, ids, nil, "admin", "pass", log)
	sessions := session.NewManager(session.NewMemoryStore(), repo, tokens, time.Hour, log)

	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}

	handler := NewHandler(auth, sessions, renderer, time.Hour, 5*time.Second, log)

	mux := http.NewServeMux()
	handler.Register(mux)
	return mux
}

func doSetup(t *testing.T, mux *http.ServeMux) {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/setup", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("setup returned %d", rec.Code)
	}
}

func doLogin(t *testing.T, mux *http.ServeMux, username, password string) *http.Response {
	t.Helper()
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec.Result()
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == constants.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestHomeRedirectsAnonymousToLogin(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestLoginPageRendersForAnonymous(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/login"`) {
		t.Error("expected the login form to be rendered")
	}
	if strings.Contains(rec.Body.String(), "Incorrect username or password") {
		t.Error("error banner must not show without the error flag")
	}
}

func TestLoginPageShowsErrorBanner(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login?error=true", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Incorrect username or password.") {
		t.Error("expected the generic error banner")
	}
}

func TestLoginFlowSuccess(t *testing.T) {
	mux := newTestMux(t)
	doSetup(t, mux)

	resp := doLogin(t, mux, "admin", "pass")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}

	cookie := sessionCookie(resp)
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on home, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "admin") {
		t.Error("expected the home page to greet the user")
	}
}

func TestLoginPageRedirectsAuthenticated(t *testing.T) {
	mux := newTestMux(t)
	doSetup(t, mux)

	resp := doLogin(t, mux, "admin", "pass")
	cookie := sessionCookie(resp)
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	mux := newTestMux(t)
	doSetup(t, mux)

	resp := doLogin(t, mux, "admin", "wrong")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/login?error=") {
		t.Errorf("expected redirect back to the login form, got %q", loc)
	}
	if sessionCookie(resp) != nil {
		t.Error("a failed login must not set a session cookie")
	}
}

func TestLoginUnknownUser(t *testing.T) {
	mux := newTestMux(t)
	doSetup(t, mux)

	resp := doLogin(t, mux, "ghost", "pass")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/login?error=") {
		t.Errorf("expected redirect back to the login form, got %q", loc)
	}
}

func TestLogoutFlow(t *testing.T) {
	mux := newTestMux(t)
	doSetup(t, mux)

	resp := doLogin(t, mux, "admin", "pass")
	cookie := sessionCookie(resp)
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}

	cleared := sessionCookie(rec.Result())
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Error("expected the session cookie to be cleared")
	}

	// The token itself is dead: replaying it no longer authenticates.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 after logout, got %d", rec.Code)
	}
}

func TestSetupIsIdempotent(t *testing.T) {
	mux := newTestMux(t)
	doSetup(t, mux)
	doSetup(t, mux)

	resp := doLogin(t, mux, "admin", "pass")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		t.Fatal("expected login to still succeed after repeated setup")
	}
}

func TestForgedCookieIsAnonymous(t *testing.T) {
	mux := newTestMux(t)
	doSetup(t, mux)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "forged"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestHomeMethodNotAllowed(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestUnknownPathIs404(t *testing.T) {
	mux := newTestMux(t)
	doSetup(t, mux)

	resp := doLogin(t, mux, "admin", "pass")
	cookie := sessionCookie(resp)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
