package web

import (
	"context"
	"net/http"

	"github.com/weblogin/weblogin/internal/common/logger"
	userdomain "github.com/weblogin/weblogin/internal/user/domain"
)

type contextKey string

const currentUserKey contextKey = "current_user"

// CurrentUser returns the identity resolved by a guard for this request.
func CurrentUser(ctx context.Context) (userdomain.User, bool) {
	user, ok := ctx.Value(currentUserKey).(userdomain.User)
	return user, ok
}

// requireAuthenticated redirects anonymous visitors to the login page. A
// session store fault is treated as anonymous so the guard itself never
// surfaces an error page.
func (h *Handler) requireAuthenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok, err := h.sessions.CurrentUser(r.Context(), sessionToken(r))
		if err != nil {
			h.log.WithFields(r.Context(), logger.Fields{
				"action": "guard_session_lookup_failed",
			}).Errorf("treating visitor as anonymous: %v", err)
		}
		if !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		ctx := context.WithValue(r.Context(), currentUserKey, user)
		next(w, r.WithContext(ctx))
	}
}

// requireAnonymous sends already-authenticated visitors to the home page.
func (h *Handler) requireAnonymous(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok, err := h.sessions.CurrentUser(r.Context(), sessionToken(r))
		if err != nil {
			h.log.WithFields(r.Context(), logger.Fields{
				"action": "guard_session_lookup_failed",
			}).Errorf("treating visitor as anonymous: %v", err)
		}
		if ok {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next(w, r)
	}
}
