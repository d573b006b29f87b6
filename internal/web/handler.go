package web

import (
	"errors"
	"net/http"
	"time"

	authservice "github.com/weblogin/weblogin/internal/auth/service"
	"github.com/weblogin/weblogin/internal/common/constants"
	commonhttp "github.com/weblogin/weblogin/internal/common/http"
	"github.com/weblogin/weblogin/internal/common/logger"
	"github.com/weblogin/weblogin/internal/session"
)

type Handler struct {
	auth           *authservice.AuthService
	sessions       *session.Manager
	renderer       *Renderer
	log            *logger.Logger
	sessionTTL     time.Duration
	requestTimeout time.Duration
}

func NewHandler(
	auth *authservice.AuthService,
	sessions *session.Manager,
	renderer *Renderer,
	sessionTTL time.Duration,
	requestTimeout time.Duration,
	log *logger.Logger,
) *Handler {
	return &Handler{
		auth:           auth,
		sessions:       sessions,
		renderer:       renderer,
		log:            log,
		sessionTTL:     sessionTTL,
		requestTimeout: requestTimeout,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	withTimeout := commonhttp.WithTimeout(h.requestTimeout)
	mux.HandleFunc("/", commonhttp.RequireMethod(http.MethodGet)(withTimeout(h.requireAuthenticated(h.handleHome))))
	mux.HandleFunc("/login", withTimeout(h.handleLoginRoute))
	mux.HandleFunc("/logout", commonhttp.RequireMethod(http.MethodGet)(withTimeout(h.handleLogout)))
	mux.HandleFunc("/setup", commonhttp.RequireMethod(http.MethodGet)(withTimeout(h.handleSetup)))
}

func (h *Handler) handleLoginRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.requireAnonymous(h.handleLoginPage)(w, r)
	case http.MethodPost:
		h.handleLoginSubmit(w, r)
	default:
		commonhttp.WriteJSON(w, http.StatusMethodNotAllowed, commonhttp.ErrorEnvelope{
			Code:    commonhttp.CodeMethodNotAllowed,
			Message: "method not allowed",
		})
	}
}

type homeData struct {
	Username string
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	user, _ := CurrentUser(r.Context())
	if err := h.renderer.Render(w, "home.html", homeData{Username: user.Username}); err != nil {
		h.log.Errorf("failed to render home page: %v", err)
	}
}

type loginData struct {
	Error string
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	data := loginData{}
	if r.URL.Query().Get("error") != "" {
		data.Error = "Incorrect username or password."
	}
	if err := h.renderer.Render(w, "login.html", data); err != nil {
		h.log.Errorf("failed to render login page: %v", err)
	}
}

func (h *Handler) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login?error=true", http.StatusFound)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.auth.Authenticate(r.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrUnknownUser), errors.Is(err, authservice.ErrWrongPassword):
			http.Redirect(w, r, "/login?error=true", http.StatusFound)
		case errors.Is(err, authservice.ErrServiceUnavailable):
			http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	token, err := h.sessions.Login(r.Context(), user)
	if err != nil {
		h.log.Errorf("failed to establish session: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, r, token)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if err := h.sessions.Logout(r.Context(), token); err != nil {
		h.log.Errorf("failed to destroy session: %v", err)
	}
	h.clearSessionCookie(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleSetup provisions the default admin account. Running it again once the
// account exists is a no-op, so the route is safe to hit repeatedly.
func (h *Handler) handleSetup(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.EnsureDefaultAdmin(r.Context()); err != nil {
		if errors.Is(err, authservice.ErrDuplicateUser) {
			h.log.WithFields(r.Context(), logger.Fields{
				"action": "setup_duplicate",
			}).Info("default admin created concurrently")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		h.log.Errorf("failed to provision default admin: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(constants.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
