package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/officehub-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/jwt"
)

// RequireCompany rejects tokens that carry no company, such as users still in onboarding.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := jwt.IdentityFromContext(r.Context()); err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
