package middleware

import (
	"net/http"

	"github.com/2beens/fitfood/internal/auth"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// OwnerCheck rejects requests to routes with a {userId} path var that belongs to
// someone other than the authenticated user.
func OwnerCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pathUserID, hasPathUser := mux.Vars(r)["userId"]
			if !hasPathUser {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}
			if userID != pathUserID {
				log.Warnf("owner check: user [%s] tried to access [%s]", userID, r.URL.Path)
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
