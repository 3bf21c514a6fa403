package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/jwtauth/v5"

	"github.com/msKim92/wiselife-project/internal/common"
	"github.com/msKim92/wiselife-project/internal/common/security"
)

type contextKey string

const MemberIDCtxKey contextKey = "memberID"

// Authenticator rejects requests without a valid token and stores the
// member id in the request context.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context()) // Extracts token from Authorization header

		if err != nil {
			if strings.Contains(err.Error(), "token not found") || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			} else {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
			}
			return
		}
		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		memberID, err := security.GetMemberIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), MemberIDCtxKey, memberID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthenticator treats a missing Authorization header as a valid
// anonymous request. A token that is present but invalid is still
// rejected; absence of a credential is a handled state, not an error.
func OptionalAuthenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		memberID, err := security.GetMemberIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), MemberIDCtxKey, memberID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetMemberIDFromContext reports the authenticated member, if any.
func GetMemberIDFromContext(ctx context.Context) (int64, bool) {
	memberID, ok := ctx.Value(MemberIDCtxKey).(int64)
	return memberID, ok
}
