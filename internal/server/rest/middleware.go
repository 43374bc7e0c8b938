package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/artledger/internal/common"
	"github.com/dmitrijs2005/artledger/internal/server/auth"
)

type ctxKey string

const principalIDKey ctxKey = "principalID"

// authenticator extracts the bearer token, validates it and stores the
// calling principal's ID in the request context. Every operation behind it
// receives an explicit caller identity.
func (s *Server) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if header == "" || !strings.HasPrefix(header, common.BearerPrefix) {
			renderError(w, r, common.ErrorUnauthorized)
			return
		}

		principalID, err := auth.GetPrincipalIDFromToken(strings.TrimPrefix(header, common.BearerPrefix), s.jwtSecret)
		if err != nil {
			renderError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), principalIDKey, principalID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// principalFromContext returns the authenticated caller, or "" when the
// request skipped the authenticator.
func principalFromContext(ctx context.Context) string {
	id, _ := ctx.Value(principalIDKey).(string)
	return id
}
